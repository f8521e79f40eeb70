package export

import (
	"bytes"
	"testing"
	"time"

	"sintrom-ocr/internal/domain/extraction"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func str(s string) *string { return &s }

func sampleAnalysis() extraction.Analysis {
	return extraction.Analysis{
		Header: extraction.Header{
			ReportDate: str("14/01/2025"),
			INR:        str("2.5"),
			Drug:       str("Sintrom 4 mg"),
			NextVisit:  str("05/04/2025"),
		},
		Calendar: []extraction.DoseEvent{
			{Date: time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC), Day: 14, Dose: str("1/2"), Action: extraction.ActionTake, Weekday: "MARTES"},
			{Date: time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC), Day: 5, Action: extraction.ActionControl, IsControl: true, Weekday: "SÁBADO"},
		},
		History: []extraction.HistoricalRecord{
			{Date: str("20/12/2024"), INR: str("4,5"), Comments: str("HOY NO TOME SINTROM")},
		},
		Metadata: extraction.Metadata{Confidence: 0.9, Model: "M2", AnalysisID: "analysis-1"},
	}
}

func open(t *testing.T, b []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestWorkbook_Sheets(t *testing.T) {
	b, err := NewWorkbook().Bytes(sampleAnalysis())
	require.NoError(t, err)

	f := open(t, b)
	assert.Equal(t, []string{SheetCalendar, SheetHistory, SheetHeader}, f.GetSheetList())
	assert.Equal(t, 0, f.GetActiveSheetIndex())
}

func TestWorkbook_Calendar(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWorkbook().WriteWorkbook(&buf, sampleAnalysis()))

	f := open(t, buf.Bytes())
	rows, err := f.GetRows(SheetCalendar)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Data", rows[0][0])
	assert.Equal(t, []string{"2025-01-14", "14", "MARTES", "1/2", "TOMAR", "NON"}, rows[1])

	// CONTROL sin dose: celda vacía
	ctrl, _ := f.GetCellValue(SheetCalendar, "D3")
	assert.Empty(t, ctrl)
	action, _ := f.GetCellValue(SheetCalendar, "E3")
	assert.Equal(t, "CONTROL", action)
}

func TestWorkbook_HistoryAndHeader(t *testing.T) {
	b, err := NewWorkbook().Bytes(sampleAnalysis())
	require.NoError(t, err)
	f := open(t, b)

	v, _ := f.GetCellValue(SheetHistory, "B2")
	assert.Equal(t, "4,5", v)
	v, _ = f.GetCellValue(SheetHistory, "H2")
	assert.Equal(t, "HOY NO TOME SINTROM", v)

	v, _ = f.GetCellValue(SheetHeader, "B1")
	assert.Equal(t, "14/01/2025", v)
	v, _ = f.GetCellValue(SheetHeader, "B4")
	assert.Empty(t, v, "dose semanal ausente")
	v, _ = f.GetCellValue(SheetHeader, "B7")
	assert.Equal(t, "0.900", v)
}

func TestWorkbook_EmptyAnalysis(t *testing.T) {
	b, err := NewWorkbook().Bytes(extraction.Analysis{})
	require.NoError(t, err)

	f := open(t, b)
	rows, err := f.GetRows(SheetCalendar)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
