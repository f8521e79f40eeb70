package extraction

import "time"

// ReconcileControlDate corrige la fecha de un día de control con la próxima visita de la cabecera.
// Devuelve true si la fecha cambió; el llamador deja un warning.
func ReconcileControlDate(ev *DoseEvent, nextVisit *time.Time) bool {
	if ev == nil || !ev.IsControl || nextVisit == nil {
		return false
	}
	if sameDay(ev.Date, *nextVisit) {
		return false
	}
	d := midnight(*nextVisit)
	ev.Date = d
	ev.Day = d.Day()
	return true
}
