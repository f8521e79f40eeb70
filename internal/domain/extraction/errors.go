package extraction

import (
	"errors"
	"fmt"
)

// Kind identifica el tipo de rechazo. Se expone al cliente como "code".
type Kind string

const (
	KindLowGlobalConfidence    Kind = "low_global_confidence"
	KindInconsistentVisitDates Kind = "inconsistent_visit_dates"
	KindEmptyCalendar          Kind = "empty_calendar"
	KindInvalidINRFormat       Kind = "invalid_inr_format"
	KindINROutOfRange          Kind = "inr_out_of_range"
	KindLowINRConfidence       Kind = "low_inr_confidence"
	KindNoDocument             Kind = "no_document"
	KindUnsupportedMedia       Kind = "unsupported_media"
)

// Rejection es un rechazo de la petición por validación.
// Detail es el texto que ve el paciente (en gallego, como el resto de la app).
type Rejection struct {
	Kind   Kind
	Detail string
}

func (e *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// Is compara por Kind, así errors.Is(err, ErrINROutOfRange) funciona con el detalle concreto.
func (e *Rejection) Is(target error) bool {
	var t *Rejection
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func reject(kind Kind, detail string) *Rejection {
	return &Rejection{Kind: kind, Detail: detail}
}

var (
	ErrLowGlobalConfidence    = reject(KindLowGlobalConfidence, "O documento non é lexible. Por favor, faga unha foto con mellor luz e enfoque")
	ErrInconsistentVisitDates = reject(KindInconsistentVisitDates, "A data de proxima visita parece incorrecta")
	ErrEmptyCalendar          = reject(KindEmptyCalendar, "Táboa de dose non atopada, asegúrese de que se vexa enteira na imaxe.")
	ErrInvalidINRFormat       = reject(KindInvalidINRFormat, "Erro co INR. Revisa que sexa lexible na imaxe")
	ErrINROutOfRange          = reject(KindINROutOfRange, "O valor de INR detectado non parece correcto. Por favor, saque unha foto máis nítida ou centrada.")
	ErrLowINRConfidence       = reject(KindLowINRConfidence, "Non podemos asegurar a precisión do valor do INR. Por favor, saque unha foto máis nítida ou centrada.")
	ErrNoDocument             = reject(KindNoDocument, "Non se detectou un documento válido na imaxe")
	ErrUnsupportedMedia       = reject(KindUnsupportedMedia, "Tipo de ficheiro non soportado")

	ErrUnknownMonth = errors.New("unrecognized month")
)

// AsRejection extrae el rechazo de una cadena de errores.
func AsRejection(err error) (*Rejection, bool) {
	var rj *Rejection
	if errors.As(err, &rj) {
		return rj, true
	}
	return nil, false
}
