package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func questionWorkbook(t *testing.T, rows ...[]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, len(QuestionColumns))
	for i, h := range QuestionColumns {
		header[i] = h
	}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestReadQuestionsXLSX(t *testing.T) {
	buf := questionWorkbook(t,
		[]interface{}{"Which keyword starts a goroutine?", "go", "async", "spawn", "thread", "A"},
		[]interface{}{"", "", "", "", "", ""},
		[]interface{}{" Zero value of a map? ", "empty", "nil", "0", "panic", 1},
	)

	questions, err := ReadQuestionsXLSX(buf)
	require.NoError(t, err)
	require.Len(t, questions, 2)

	assert.Equal(t, "go", questions[0].OptionA)
	require.NotNil(t, questions[0].CorrectOption)
	assert.Equal(t, 0, *questions[0].CorrectOption)

	assert.Equal(t, "Zero value of a map?", questions[1].Question)
	assert.Equal(t, 1, *questions[1].CorrectOption)
}

func TestReadQuestionsXLSX_BadCorrectOption(t *testing.T) {
	buf := questionWorkbook(t,
		[]interface{}{"Q1", "a", "b", "c", "d", "b"},
		[]interface{}{"Q2", "a", "b", "c", "d", "E"},
	)
	_, err := ReadQuestionsXLSX(buf)
	assert.ErrorContains(t, err, "row 3")
}

func TestParseCorrectOption(t *testing.T) {
	for raw, want := range map[string]int{"a": 0, "B": 1, " c ": 2, "D": 3, "0": 0, "3": 3} {
		got, err := parseCorrectOption(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
	for _, raw := range []string{"", "4", "-1", "x"} {
		_, err := parseCorrectOption(raw)
		assert.Error(t, err, raw)
	}
}

func TestReadQuestionsXLSX_NotAWorkbook(t *testing.T) {
	_, err := ReadQuestionsXLSX(bytes.NewReader([]byte("plain text")))
	assert.Error(t, err)
}
