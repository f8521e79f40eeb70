package extraction

import "time"

// Action es la instrucción del día para el paciente.
// @Enum TOMAR, NON TOMAR, CONTROL
type Action string

const (
	ActionTake    Action = "TOMAR"
	ActionSkip    Action = "NON TOMAR"
	ActionControl Action = "CONTROL"
)

// DoseEvent es un día del calendario de tomas.
// Dose es nil sólo cuando Action == ActionControl.
type DoseEvent struct {
	Date      time.Time // medianoche UTC
	Day       int
	Dose      *string
	Action    Action
	IsControl bool
	Weekday   string
}

// HistoricalRecord es una fila del histórico de visitas (tabla RUV).
type HistoricalRecord struct {
	Date           *string
	INR            *string
	Drug           *string
	WeeklyDose     *string
	InjectableType *string
	InjectableDose *string
	NextVisit      *string
	Comments       *string
}

// Header resume los campos sueltos del informe.
type Header struct {
	ReportDate *string
	INR        *string
	Drug       *string
	WeeklyDose *string
	NextVisit  *string
	Center     *string
}

type Metadata struct {
	Confidence float64
	Model      string
	AnalysisID string
}

// Analysis es el resultado completo de un informe.
type Analysis struct {
	Header   Header
	Calendar []DoseEvent
	History  []HistoricalRecord
	Metadata Metadata
}

// Anchor es el (año, mes) del informe contra el que se resuelven las celdas.
type Anchor struct {
	Year  int
	Month time.Month
}

func AnchorOf(t time.Time) Anchor {
	return Anchor{Year: t.Year(), Month: t.Month()}
}

func strPtr(s string) *string { return &s }
