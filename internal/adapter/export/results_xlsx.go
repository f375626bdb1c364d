package export

import (
	"bytes"
	"fmt"

	"quiz-arena/internal/domain"

	"github.com/xuri/excelize/v2"
)

const (
	resultsSheet      = "Results"
	xlsxContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	xlsxFileExtension = "xlsx"
	timestampLayout   = "2006-01-02 15:04:05"
)

// XLSXResultExporter writes results into a single-sheet workbook, one row per result.
type XLSXResultExporter struct{}

func NewXLSXResultExporter() domain.ResultExporter {
	return &XLSXResultExporter{}
}

func (e *XLSXResultExporter) ContentType() string   { return xlsxContentType }
func (e *XLSXResultExporter) FileExtension() string { return xlsxFileExtension }

// Export expects results already in leaderboard order; row position becomes the rank.
func (e *XLSXResultExporter) Export(results []*domain.Result) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(resultsSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create stream writer: %w", err)
	}

	headers := []interface{}{"Rank", "Username", "Email", "Score", "Correct", "Total", "Submitted At"}
	if err := sw.SetRow("A1", headers); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	for i, r := range results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			i + 1,
			sanitizeForExcel(r.Username),
			sanitizeForExcel(r.Email),
			r.Score,
			r.CorrectAnswers,
			r.TotalQuestions,
			r.CreatedAt.UTC().Format(timestampLayout),
		}
		if err := sw.SetRow(cell, row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return nil, fmt.Errorf("failed to flush workbook: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeForExcel prefixes a quote to values a spreadsheet would evaluate as a formula.
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}
