package report

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var nonNumericPattern = regexp.MustCompile(`[^0-9.,]`)

// ParseAmount converts an OCR numeric token to a float.
//
// Stray glyphs are stripped first, then the thousand/decimal separator
// ambiguity is resolved by counting: repeated dots with no comma mean
// European-style thousands ("1.800.000"), any comma next to at most one dot
// means US-style thousands ("110,340.00"), and everything else drops commas
// and keeps the dot as the decimal point. The heuristic is lossy by design;
// it cannot reconstruct the source locale, only a plausible value.
//
// The second return value is false when the token holds nothing parseable.
// That is an absent value, not an error.
func ParseAmount(tok string) (float64, bool) {
	cleaned := nonNumericPattern.ReplaceAllString(tok, "")
	if cleaned == "" {
		return 0, false
	}

	dots := strings.Count(cleaned, ".")
	commas := strings.Count(cleaned, ",")
	switch {
	case dots >= 2 && commas == 0:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	case commas >= 1 && dots <= 1:
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	default:
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// round2 rounds to two decimals, half away from zero, the way amounts are
// stated on the source reports.
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
