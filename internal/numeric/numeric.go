// Package numeric convierte columnas de montos heterogéneas (texto con "Rp",
// separadores de miles, coma decimal) a float64. Nunca falla: lo que no se
// puede leer vale 0.
package numeric

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Mode es la convención de separadores de un export. Se elige por archivo.
type Mode string

const (
	// ModeDecimalComma: se conservan dígitos, coma y signo menos; la coma es decimal.
	ModeDecimalComma Mode = "decimal_comma"
	// ModeDigitsOnly: solo dígitos (y signo); todo separador es de miles.
	ModeDigitsOnly Mode = "digits_only"
)

func (m Mode) Valid() bool {
	return m == ModeDecimalComma || m == ModeDigitsOnly
}

// Parse convierte un valor de celda. Los valores ya numéricos se devuelven tal cual.
func Parse(v any, mode Mode) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0
		}
		return x
	case float32:
		return Parse(float64(x), mode)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case string:
		return ParseText(x, mode)
	default:
		return ParseText(fmt.Sprint(x), mode)
	}
}

// ParseText aplica el modo sobre texto libre.
func ParseText(s string, mode Mode) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-':
			b.WriteRune(r)
		case r == ',' && mode != ModeDigitsOnly:
			b.WriteRune('.')
		}
	}
	clean := b.String()
	if clean == "" || clean == "-" {
		return 0
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}

// Column normaliza una columna completa.
func Column(values []any, mode Mode) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = Parse(v, mode)
	}
	return out
}

// Int redondea al entero más cercano; útil para cantidades.
func Int(v any, mode Mode) int {
	return int(math.Round(Parse(v, mode)))
}
