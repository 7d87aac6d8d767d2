package services

import (
	"math"
	"strconv"
	"strings"
)

// formatEUR renders a whole-euro amount with thousands separators,
// e.g. 87500.4 -> "€87,500".
func formatEUR(v float64) string {
	negative := v < 0
	n := int64(math.Round(math.Abs(v)))

	digits := strconv.FormatInt(n, 10)
	var sb strings.Builder
	if negative {
		sb.WriteByte('-')
	}
	sb.WriteRune('€')

	lead := len(digits) % 3
	if lead > 0 {
		sb.WriteString(digits[:lead])
		if len(digits) > lead {
			sb.WriteByte(',')
		}
	}
	for i := lead; i < len(digits); i += 3 {
		sb.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			sb.WriteByte(',')
		}
	}
	return sb.String()
}

// formatAmount renders a coin quantity with up to six decimals, trailing
// zeros trimmed.
func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}
