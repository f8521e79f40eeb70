package extraction

import (
	"fmt"
	"strings"
	"time"
)

// ResolveMonth traduce una abreviatura ("ABR", "dic", "DEC") a su mes.
func (r Rules) ResolveMonth(token string) (time.Month, error) {
	m, ok := r.Months[strings.ToUpper(strings.TrimSpace(token))]
	if !ok || m < time.January || m > time.December {
		return 0, fmt.Errorf("%w: %q", ErrUnknownMonth, token)
	}
	return m, nil
}

// ResolveYear aplica el cambio de año de la tabla: un informe de diciembre
// puede traer días de enero, que son del año siguiente.
func ResolveYear(baseYear int, baseMonth, month time.Month) int {
	if baseMonth == time.December && month == time.January {
		return baseYear + 1
	}
	return baseYear
}
