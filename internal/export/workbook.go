package export

import (
	"fmt"
	"io"
	"strconv"

	"sintrom-ocr/internal/domain/extraction"

	"github.com/xuri/excelize/v2"
)

const (
	SheetCalendar = "Calendario"
	SheetHistory  = "Historico"
	SheetHeader   = "Cabeceira"
)

// Workbook genera un .xlsx con el calendario, el histórico y la cabecera de un análisis.
type Workbook struct{}

func NewWorkbook() *Workbook { return &Workbook{} }

func (Workbook) WriteWorkbook(w io.Writer, a extraction.Analysis) error {
	f, err := build(a)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

// Bytes devuelve el libro completo en memoria.
func (Workbook) Bytes(a extraction.Analysis) ([]byte, error) {
	f, err := build(a)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func build(a extraction.Analysis) (*excelize.File, error) {
	f := excelize.NewFile()

	// la hoja por defecto se renombra a Calendario para que sea la activa
	if err := f.SetSheetName("Sheet1", SheetCalendar); err != nil {
		return nil, err
	}
	for _, name := range []string{SheetHistory, SheetHeader} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}

	writeCalendar(f, a.Calendar)
	writeHistory(f, a.History)
	writeHeader(f, a)

	idx, _ := f.GetSheetIndex(SheetCalendar)
	f.SetActiveSheet(idx)
	return f, nil
}

func writeCalendar(f *excelize.File, evs []extraction.DoseEvent) {
	writeRow(f, SheetCalendar, 1, "Data", "Día", "Día semana", "Dose", "Acción", "Control")
	for i, ev := range evs {
		writeRow(f, SheetCalendar, i+2,
			ev.Date.Format("2006-01-02"),
			ev.Day,
			ev.Weekday,
			deref(ev.Dose),
			string(ev.Action),
			yesNo(ev.IsControl),
		)
	}
	_ = f.SetColWidth(SheetCalendar, "A", "A", 12)
	_ = f.SetColWidth(SheetCalendar, "C", "C", 14)
	_ = f.SetColWidth(SheetCalendar, "E", "E", 12)
}

func writeHistory(f *excelize.File, rows []extraction.HistoricalRecord) {
	writeRow(f, SheetHistory, 1, "Data", "INR", "Fármaco", "Dose", "APTT inxectable", "Dose inxectable", "Próxima visita", "Comentarios")
	for i, h := range rows {
		writeRow(f, SheetHistory, i+2,
			deref(h.Date),
			deref(h.INR),
			deref(h.Drug),
			deref(h.WeeklyDose),
			deref(h.InjectableType),
			deref(h.InjectableDose),
			deref(h.NextVisit),
			deref(h.Comments),
		)
	}
	_ = f.SetColWidth(SheetHistory, "A", "A", 12)
	_ = f.SetColWidth(SheetHistory, "C", "C", 18)
	_ = f.SetColWidth(SheetHistory, "H", "H", 40)
}

func writeHeader(f *excelize.File, a extraction.Analysis) {
	pairs := [][2]string{
		{"Data informe", deref(a.Header.ReportDate)},
		{"INR", deref(a.Header.INR)},
		{"Fármaco", deref(a.Header.Drug)},
		{"Dose semanal", deref(a.Header.WeeklyDose)},
		{"Próxima visita", deref(a.Header.NextVisit)},
		{"Centro", deref(a.Header.Center)},
		{"Confianza global", strconv.FormatFloat(a.Metadata.Confidence, 'f', 3, 64)},
		{"Modelo", a.Metadata.Model},
		{"ID análise", a.Metadata.AnalysisID},
	}
	for i, p := range pairs {
		writeRow(f, SheetHeader, i+1, p[0], p[1])
	}
	_ = f.SetColWidth(SheetHeader, "A", "A", 18)
	_ = f.SetColWidth(SheetHeader, "B", "B", 40)
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) {
	for col, v := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "SI"
	}
	return "NON"
}
