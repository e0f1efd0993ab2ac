package usecase

import (
	"math"
	"strconv"
	"strings"
)

// ParsePrice converts raw price text into a comparable numeric value.
// Every rune that is not a digit or a decimal point is stripped as noise
// (currency symbols, thousands separators, whitespace) and the remainder
// is parsed as a float. The second return value is false when no value
// could be derived.
//
// The parser is deliberately locale-naive: "." is the only decimal
// separator and "," is discarded as noise, so "12,50" parses as 1250.
// This matches the documented contract of the comparison views; broader
// locale support is an open question, not a silent fix.
func ParsePrice(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}

	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if cleaned == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		// Malformed remainders such as "1.2.3" degrade to absent, never error.
		return 0, false
	}

	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, false
	}

	return value, true
}
