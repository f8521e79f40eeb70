package extraction

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var cellNumberRe = regexp.MustCompile(`\d+/\d+|\d+`)

const (
	markerControl = "CONTROL"
	markerSkip    = "NO TOMAR"
)

// ParseCell interpreta una celda de la tabla DOSE ("21 1 ABR", "15 0 ABR NO TOMAR", "19 1/4 ENE").
// Devuelve false si la celda no se puede leer; el llamador la descarta sin abortar el informe.
func (e *Engine) ParseCell(raw string, anchor Anchor, nextVisit *time.Time) (DoseEvent, bool) {
	text, ok := Normalize(raw)
	if !ok {
		return DoseEvent{}, false
	}
	isControl := strings.Contains(text, markerControl)

	token := e.monthRe.FindString(text)
	if token == "" {
		// Celda de control oscura: el OCR lee "CONTROL" pero no el mes.
		// La fecha de próxima visita de la cabecera manda.
		if isControl && nextVisit != nil {
			d := midnight(*nextVisit)
			return DoseEvent{
				Date:      d,
				Day:       d.Day(),
				Action:    ActionControl,
				IsControl: true,
			}, true
		}
		return DoseEvent{}, false
	}

	month, err := e.rules.ResolveMonth(token)
	if err != nil {
		return DoseEvent{}, false
	}
	residual := strings.TrimSpace(strings.ReplaceAll(text, token, ""))

	nums := cellNumberRe.FindAllString(residual, -1)
	if len(nums) == 0 {
		return DoseEvent{}, false
	}
	// El primer número es el día; si es una fracción no es un día.
	day, err := strconv.Atoi(nums[0])
	if err != nil {
		return DoseEvent{}, false
	}
	dose := ""
	if len(nums) > 1 {
		dose = nums[1]
	}

	ev := DoseEvent{IsControl: isControl}
	switch {
	case strings.Contains(text, markerSkip):
		ev.Action = ActionSkip
		ev.Dose = strPtr("0")
	case isControl:
		ev.Action = ActionControl
	case dose == "0":
		// El OCR leyó el 0 pero no la etiqueta NO TOMAR.
		ev.Action = ActionSkip
		ev.Dose = strPtr(dose)
	default:
		ev.Action = ActionTake
		ev.Dose = strPtr(dose)
	}

	date, ok := dateOf(ResolveYear(anchor.Year, anchor.Month, month), month, day)
	if !ok {
		return DoseEvent{}, false
	}
	ev.Date = date
	ev.Day = day
	return ev, true
}
