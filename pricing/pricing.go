// Package pricing normalizes the heterogeneous price representations that
// show up in admin input and imported data: plain numbers, "12,90",
// "R$ 1.234,56", "12.90" and so on.
package pricing

import (
	"math"
	"strconv"
	"strings"
)

// Normalize converts an arbitrary price value into a canonical float64.
// The second return value is false when the input carries no usable value
// (nil, empty string, or a string with nothing parseable in it).
func Normalize(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	case float32:
		return Normalize(float64(v))
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		return normalizeString(v)
	default:
		return 0, false
	}
}

func normalizeString(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	// Strip the currency marker before looking at separators.
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, " ", "")

	hasDot := strings.Contains(s, ".")
	hasComma := strings.Contains(s, ",")

	switch {
	case hasDot && hasComma:
		// Brazilian format: dot is the thousands separator, comma the decimal.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	}

	// Drop anything that is not a digit, decimal point or sign. A lone dot
	// with no comma is left alone, so "12.90" parses as 12.90.
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}

	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Round2 rounds to two decimal places, the precision every persisted and
// displayed price uses.
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}
