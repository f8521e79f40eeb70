package extraction

import (
	"sort"
	"strings"

	"sintrom-ocr/internal/ports/ocr"
)

// MapHistoricalRow pasa una fila de la tabla RUV al registro canónico.
// Celdas vacías o con columnas desconocidas se ignoran. Sin fecha ni INR la fila no vale.
func (r Rules) MapHistoricalRow(row ocr.Row) (HistoricalRecord, bool) {
	return mapHistoricalRow(r.historyIndex(), row)
}

func mapHistoricalRow(index map[string]HistoryField, row ocr.Row) (HistoricalRecord, bool) {
	// Orden fijo de etiquetas: si dos sinónimos traen valor gana siempre el mismo.
	labels := make([]string, 0, len(row))
	for k := range row {
		labels = append(labels, k)
	}
	sort.Strings(labels)

	var rec HistoricalRecord
	for _, label := range labels {
		f, ok := index[FoldLabel(label)]
		if !ok {
			continue
		}
		cell := row[label]
		if !cell.HasContent() {
			continue
		}
		v := strings.TrimSpace(cell.Content)
		slot := rec.slot(f)
		if slot == nil || *slot != nil {
			continue
		}
		*slot = &v
	}

	if rec.Date == nil && rec.INR == nil {
		return HistoricalRecord{}, false
	}
	return rec, true
}

func (h *HistoricalRecord) slot(f HistoryField) **string {
	switch f {
	case HistDate:
		return &h.Date
	case HistINR:
		return &h.INR
	case HistDrug:
		return &h.Drug
	case HistWeeklyDose:
		return &h.WeeklyDose
	case HistInjectableType:
		return &h.InjectableType
	case HistInjectableDose:
		return &h.InjectableDose
	case HistNextVisit:
		return &h.NextVisit
	case HistComments:
		return &h.Comments
	default:
		return nil
	}
}

// mapHistory aplica MapHistoricalRow a toda la tabla y descarta las filas vacías.
func (e *Engine) mapHistory(rows []ocr.Row) []HistoricalRecord {
	out := make([]HistoricalRecord, 0, len(rows))
	for i, row := range rows {
		rec, ok := mapHistoricalRow(e.history, row)
		if !ok {
			e.log.Debug("history row dropped", map[string]any{"row": i})
			continue
		}
		out = append(out, rec)
	}
	return out
}
