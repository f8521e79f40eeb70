package extraction

import (
	"regexp"
	"strings"
	"time"
)

var dateTokenRe = regexp.MustCompile(`(\d{2}/\d{2}/\d{4}|\d{4}-\d{2}-\d{2})`)

const (
	layoutISO = "2006-01-02"
	layoutES  = "02/01/2006"
)

// ExtractDateToken devuelve la primera fecha DD/MM/YYYY o YYYY-MM-DD del texto.
func ExtractDateToken(text string) (string, bool) {
	m := dateTokenRe.FindString(text)
	if m == "" {
		return "", false
	}
	return m, true
}

// ParseDate interpreta el token como YYYY-MM-DD si tiene guion, si no como DD/MM/YYYY.
// time.Parse ya rechaza fechas imposibles (31 de abril).
func ParseDate(token string) (time.Time, bool) {
	s := strings.TrimSpace(token)
	if s == "" {
		return time.Time{}, false
	}
	layout := layoutES
	if strings.Contains(s, "-") {
		layout = layoutISO
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// dateOf construye la fecha y falla si time.Date tuvo que normalizarla.
func dateOf(year int, month time.Month, day int) (time.Time, bool) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
