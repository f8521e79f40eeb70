package extraction

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var weeklyDoseRe = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?\s*mg)`)

// Normalize pasa el texto de una celda a mayúsculas, cambia "," por "." y recorta espacios.
// Devuelve false si no queda nada.
func Normalize(raw string) (string, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(strings.ToUpper(raw), ",", "."))
	if s == "" {
		return "", false
	}
	return s, true
}

// FoldLabel normaliza una etiqueta de columna para compararla sin caja.
// NFC primero: el OCR a veces devuelve la tilde como carácter combinado.
// Un Caser no se comparte entre goroutines, así que se crea por llamada.
func FoldLabel(label string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(label)))
}

// CleanWeeklyDose se queda con "<n>[,<d>] mg" del campo de dosis semanal.
// Ej: "13,5 mg (1/2 día - DOM alternos 1/4)" -> "13,5 mg". Sin coincidencia devuelve el texto tal cual.
func CleanWeeklyDose(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	if m := weeklyDoseRe.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	return text, true
}
