package extraction

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// HistoryField es el nombre canónico de un campo del histórico (RUV).
// Los valores coinciden con los nombres del JSON que consume la app móvil.
type HistoryField string

const (
	HistDate           HistoryField = "data"
	HistINR            HistoryField = "inr"
	HistDrug           HistoryField = "farmaco"
	HistWeeklyDose     HistoryField = "dose"
	HistInjectableType HistoryField = "apttInyectable"
	HistInjectableDose HistoryField = "doseInyectable"
	HistNextVisit      HistoryField = "proximaVisita"
	HistComments       HistoryField = "comentarios"
)

// Nombres de los campos del modelo de Document Intelligence.
const (
	FieldReportDate = "fecha visita"
	FieldNextVisit  = "prox visit"
	FieldINR        = "inr"
	FieldDrug       = "farmaco oral"
	FieldWeeklyDose = "dosis semanal"
	FieldCenter     = "centro visita"

	TableDose    = "DOSE"
	TableHistory = "RUV"
)

// Rules agrupa las tablas y umbrales que usa el motor.
// Es un valor: cada Engine tiene su copia y los tests pueden variarla sin efectos globales.
type Rules struct {
	// Months: abreviatura (mayúsculas) -> mes.
	Months map[string]time.Month

	// DoseColumns: columnas de la tabla DOSE, de lunes a domingo.
	DoseColumns []string

	// HistoryColumns: etiqueta de columna (cualquier caja) -> campo canónico.
	HistoryColumns map[string]HistoryField

	INRMin float64
	INRMax float64

	MinGlobalConfidence float64
	MinINRConfidence    float64
}

// DefaultRules devuelve una copia nueva de la configuración del modelo M2.
func DefaultRules() Rules {
	return Rules{
		Months: map[string]time.Month{
			"ENE": time.January,
			"FEB": time.February,
			"MAR": time.March,
			"ABR": time.April,
			"MAY": time.May,
			"JUN": time.June,
			"JUL": time.July,
			"AGO": time.August,
			"SEP": time.September,
			"OCT": time.October,
			"NOV": time.November,
			"DIC": time.December,
			"DEC": time.December,
		},
		DoseColumns: []string{"LUNES", "MARTES", "MIERCOLES", "JUEVES", "VIERNES", "SÁBADO", "DOMINGO"},
		HistoryColumns: map[string]HistoryField{
			"fecha":           HistDate,
			"inr":             HistINR,
			"fármaco avk":     HistDrug,
			"farmaco avk":     HistDrug,
			"dosis":           HistWeeklyDose,
			"aptt inyectable": HistInjectableType,
			"aptt":            HistInjectableType,
			"dosis iny":       HistInjectableDose,
			"inyectable":      HistInjectableDose,
			"próx. visita":    HistNextVisit,
			"próx visita":     HistNextVisit,
			"prox visita":     HistNextVisit,
			"comentarios":     HistComments,
		},
		INRMin:              0.5,
		INRMax:              10.0,
		MinGlobalConfidence: 0.6,
		MinINRConfidence:    0.8,
	}
}

// monthPattern compila la alternancia de abreviaturas.
// Las más largas van primero para que una variante de 4 letras no quede tapada por su prefijo.
func (r Rules) monthPattern() *regexp.Regexp {
	keys := make([]string, 0, len(r.Months))
	for k := range r.Months {
		k = strings.ToUpper(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		keys = append(keys, regexp.QuoteMeta(k))
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	if len(keys) == 0 {
		// Nunca casa: sin tabla de meses ninguna celda tiene mes.
		return regexp.MustCompile(`[^\s\S]`)
	}
	return regexp.MustCompile("(" + strings.Join(keys, "|") + ")")
}

// historyIndex pliega las etiquetas configuradas para buscarlas sin caja.
func (r Rules) historyIndex() map[string]HistoryField {
	out := make(map[string]HistoryField, len(r.HistoryColumns))
	for label, f := range r.HistoryColumns {
		out[FoldLabel(label)] = f
	}
	return out
}
