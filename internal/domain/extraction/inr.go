package extraction

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValidateINR parsea el INR ("2,5") y aplica, en este orden, formato, rango y confianza.
// Una confianza ausente no bloquea: Document Intelligence no siempre la devuelve.
func (r Rules) ValidateINR(raw string, confidence *float64) (float64, error) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidINRFormat
	}
	if v < r.INRMin || v > r.INRMax {
		return v, reject(KindINROutOfRange, fmt.Sprintf(
			"O valor de INR detectado %s non parece correcto. Por favor, saque unha foto máis nítida ou centrada.",
			strconv.FormatFloat(v, 'f', -1, 64),
		))
	}
	if confidence != nil && *confidence < r.MinINRConfidence {
		return v, ErrLowINRConfidence
	}
	return v, nil
}
