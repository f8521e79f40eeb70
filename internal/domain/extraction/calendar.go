package extraction

import (
	"sort"
	"time"

	"sintrom-ocr/internal/ports/ocr"
)

// BuildCalendar recorre filas y columnas LUNES..DOMINGO de la tabla DOSE y devuelve
// los días ordenados por fecha. Sin ningún día legible devuelve ErrEmptyCalendar.
func (e *Engine) BuildCalendar(rows []ocr.Row, anchor Anchor, nextVisit *time.Time) ([]DoseEvent, error) {
	events := make([]DoseEvent, 0, len(rows)*len(e.rules.DoseColumns))
	skipped := 0

	for i, row := range rows {
		for _, label := range e.rules.DoseColumns {
			cell, ok := e.doseCell(row, label)
			if !ok || !cell.HasContent() {
				continue
			}
			ev, ok := e.ParseCell(cell.Content, anchor, nextVisit)
			if !ok {
				skipped++
				e.log.Debug("dose cell dropped", map[string]any{
					"row":    i,
					"column": label,
				})
				continue
			}
			from := ev.Date
			if ReconcileControlDate(&ev, nextVisit) {
				e.log.Warn("control date differs from next visit, using next visit", map[string]any{
					"row":        i,
					"column":     label,
					"cell_date":  from.Format(layoutISO),
					"next_visit": ev.Date.Format(layoutISO),
				})
			}
			ev.Weekday = label
			events = append(events, ev)
		}
	}

	if len(events) == 0 {
		return nil, ErrEmptyCalendar
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})

	if skipped > 0 {
		e.log.Info("dose table parsed with dropped cells", map[string]any{
			"events":  len(events),
			"dropped": skipped,
		})
	}
	return events, nil
}

// doseCell busca la columna por nombre exacto y, si no está, sin caja ni tildes combinadas.
func (e *Engine) doseCell(row ocr.Row, label string) (ocr.Field, bool) {
	if c, ok := row.Cell(label); ok {
		return c, true
	}
	want := FoldLabel(label)
	for k, c := range row {
		if FoldLabel(k) == want {
			return c, true
		}
	}
	return ocr.Field{}, false
}
