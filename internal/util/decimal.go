package util

import (
	"math"
	"strconv"
	"strings"
)

// ParsePTDecimal parses the Portuguese numeric convention where the period
// is a thousands separator and the comma the decimal separator, so
// "1.234,56" yields 1234.56.
func ParsePTDecimal(s string) (float64, error) {
	norm := strings.TrimSpace(s)
	norm = strings.ReplaceAll(norm, ".", "")
	norm = strings.ReplaceAll(norm, ",", ".")
	return strconv.ParseFloat(norm, 64)
}

// CellNumeric parses a spreadsheet cell value, tolerating a comma decimal
// separator. Returns nil when the cell holds free text instead of a number;
// pricing-table cells legitimately do (e.g. "ver regra 9").
func CellNumeric(s string) *float64 {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	norm := strings.ReplaceAll(trimmed, ",", ".")
	v, err := strconv.ParseFloat(norm, 64)
	if err != nil {
		return nil
	}
	r := Round2(v)
	return &r
}

// Round2 rounds to two decimal places, the cent granularity every amount
// in the table and on invoices uses.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
