package extraction

import "sintrom-ocr/internal/ports/ocr"

// MeanConfidence es la media de las confianzas de los campos del documento (no de las celdas).
// Sin ninguna confianza devuelve 1.0: es una aproximación, no una medida.
func MeanConfidence(fields map[string]ocr.Field) float64 {
	var (
		sum float64
		n   int
	)
	for _, f := range fields {
		if f.Confidence == nil {
			continue
		}
		sum += *f.Confidence
		n++
	}
	if n == 0 {
		return 1.0
	}
	return sum / float64(n)
}
