package extraction

import (
	"regexp"
	"time"

	"sintrom-ocr/internal/platform/logger"
	"sintrom-ocr/internal/ports/ocr"

	"github.com/google/uuid"
)

// DefaultModel es el modelo personalizado de Document Intelligence para informes de Sintrom.
const DefaultModel = "M2"

// Engine convierte un documento OCR en un Analysis validado.
// No guarda estado entre peticiones: se puede compartir entre goroutines.
type Engine struct {
	rules   Rules
	monthRe *regexp.Regexp
	history map[string]HistoryField
	model   string
	log     logger.Logger
	now     func() time.Time
	newID   func() string
}

func NewEngine(rules Rules, model string, log logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{
		rules:   rules,
		monthRe: rules.monthPattern(),
		history: rules.historyIndex(),
		model:   model,
		log:     log,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

func (e *Engine) Rules() Rules { return e.rules }

// Extract aplica las validaciones en orden fijo: confianza global, coherencia de fechas,
// tabla de dosis y por último el INR.
func (e *Engine) Extract(doc ocr.Document) (Analysis, error) {
	conf := MeanConfidence(doc.Fields)
	if conf < e.rules.MinGlobalConfidence {
		e.log.Warn("global confidence below threshold", map[string]any{
			"confidence": conf,
			"threshold":  e.rules.MinGlobalConfidence,
		})
		return Analysis{}, ErrLowGlobalConfidence
	}

	// Fecha del informe: ancla de año/mes. Sin ella se usa hoy.
	var h Header
	reportDate := midnight(e.now())
	if raw, ok := doc.Text(FieldReportDate); ok {
		if tok, ok := ExtractDateToken(raw); ok {
			h.ReportDate = strPtr(tok)
			if d, ok := ParseDate(tok); ok {
				reportDate = d
			}
		}
	}
	anchor := AnchorOf(reportDate)

	var nextVisit *time.Time
	if raw, ok := doc.Text(FieldNextVisit); ok {
		if tok, ok := ExtractDateToken(raw); ok {
			h.NextVisit = strPtr(tok)
			if d, ok := ParseDate(tok); ok {
				nextVisit = &d
			}
		}
	}
	if nextVisit != nil && nextVisit.Before(reportDate) {
		e.log.Warn("next visit is earlier than report date", map[string]any{
			"next_visit":  nextVisit.Format(layoutISO),
			"report_date": reportDate.Format(layoutISO),
		})
		return Analysis{}, ErrInconsistentVisitDates
	}

	calendar, err := e.BuildCalendar(doc.Table(TableDose), anchor, nextVisit)
	if err != nil {
		e.log.Warn("dose table empty or unreadable", nil)
		return Analysis{}, err
	}

	history := e.mapHistory(doc.Table(TableHistory))

	if raw, ok := doc.Text(FieldINR); ok {
		f, _ := doc.Field(FieldINR)
		if _, err := e.rules.ValidateINR(raw, f.Confidence); err != nil {
			fields := map[string]any{"inr": raw, "error": err}
			if f.Confidence != nil {
				fields["confidence"] = *f.Confidence
			}
			e.log.Warn("inr rejected", fields)
			return Analysis{}, err
		}
		h.INR = strPtr(raw)
	}

	if v, ok := doc.Text(FieldDrug); ok {
		h.Drug = strPtr(v)
	}
	if v, ok := doc.Text(FieldWeeklyDose); ok {
		if clean, ok := CleanWeeklyDose(v); ok {
			h.WeeklyDose = strPtr(clean)
		}
	}
	if v, ok := doc.Text(FieldCenter); ok {
		h.Center = strPtr(v)
	}

	return Analysis{
		Header:   h,
		Calendar: calendar,
		History:  history,
		Metadata: Metadata{
			Confidence: conf,
			Model:      e.model,
			AnalysisID: e.newID(),
		},
	}, nil
}
