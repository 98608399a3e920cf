// utils/numbr.go
package utils

import (
	"math"
	"strconv"
	"strings"
)

// FormatGrouped renders |f| with a fixed number of decimals, grouping the
// integer part by thousands. "1234567.891" with ('.', ',') -> "1.234.567,89".
// The sign is left to the caller.
func FormatGrouped(f float64, decimals int, thousands, decimal byte) string {
	s := strconv.FormatFloat(math.Abs(f), 'f', decimals, 64)
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i+1:]
	}

	var b strings.Builder
	b.Grow(len(s) + len(intPart)/3)
	lead := len(intPart) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(intPart[:lead])
	for i := lead; i < len(intPart); i += 3 {
		b.WriteByte(thousands)
		b.WriteString(intPart[i : i+3])
	}
	if frac != "" {
		b.WriteByte(decimal)
		b.WriteString(frac)
	}
	return b.String()
}

// FormatBR: формат pt-BR: точка для тысяч, запятая для дробной части.
func FormatBR(f float64, decimals int) string {
	return FormatGrouped(f, decimals, '.', ',')
}
