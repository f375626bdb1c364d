package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/dto"

	"github.com/xuri/excelize/v2"
)

// QuestionColumns is the header row expected by ReadQuestionsXLSX.
var QuestionColumns = []string{"Question", "Option A", "Option B", "Option C", "Option D", "Correct"}

// ReadQuestionsXLSX reads questions from the first sheet of a workbook. The first
// row is a header; Correct accepts a letter (A-D) or a 0-based index. Blank rows
// are skipped.
func ReadQuestionsXLSX(r io.Reader) ([]dto.QuestionRequest, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var out []dto.QuestionRequest
	for i, row := range rows[1:] {
		line := i + 2
		if isBlankRow(row) {
			continue
		}
		cells := make([]string, len(QuestionColumns))
		copy(cells, row)
		correct, err := parseCorrectOption(cells[5])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		out = append(out, dto.QuestionRequest{
			Question:      strings.TrimSpace(cells[0]),
			OptionA:       strings.TrimSpace(cells[1]),
			OptionB:       strings.TrimSpace(cells[2]),
			OptionC:       strings.TrimSpace(cells[3]),
			OptionD:       strings.TrimSpace(cells[4]),
			CorrectOption: &correct,
		})
	}
	return out, nil
}

func parseCorrectOption(raw string) (int, error) {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if raw == "" {
		return 0, fmt.Errorf("correct option is missing")
	}
	for i := 0; i < domain.OptionCount; i++ {
		if raw == domain.OptionLabel(i) {
			return i, nil
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n >= domain.OptionCount {
		return 0, fmt.Errorf("correct option %q must be A-D or 0-%d", raw, domain.OptionCount-1)
	}
	return n, nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
