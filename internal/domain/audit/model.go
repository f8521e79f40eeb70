package audit

import "time"

// Outcome es el resultado operativo de una petición de extracción.
type Outcome string

const (
	OutcomeOK            Outcome = "ok"
	OutcomeRejected      Outcome = "rejected"
	OutcomeUpstreamError Outcome = "upstream_error"
	OutcomeError         Outcome = "error"
)

// Source indica cómo llegó el documento.
type Source string

const (
	SourceUpload Source = "upload"
	SourceResult Source = "result"
)

// Entry es un registro de auditoría. Sólo metadatos operativos:
// nunca se guarda contenido clínico (fechas, INR, dosis).
type Entry struct {
	ID          string
	CreatedAt   time.Time
	Source      Source
	ContentType string
	SizeBytes   int64
	Outcome     Outcome
	Code        string // Kind del rechazo o "" si ok
	Confidence  *float64
	Model       string
	AnalysisID  string
	CalendarLen int
	HistoryLen  int
	DurationMS  int64
}
