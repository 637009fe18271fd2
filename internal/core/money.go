// Package core holds the ledger domain: rows, the calendar resolver, the
// roster builder and the read-only aggregation functions.
package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Money is a non-negative amount stored in cents to avoid float drift.
type Money struct {
	Cents int64
}

// ParseDecimalToCents converts a decimal string to cents with half-up
// rounding on the third decimal place. Both "12.34" and "12,34" are accepted;
// zero is valid (an unpaid tithe), negatives are not.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("malformed amount %q", s)
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "-") {
		return 0, ErrNegativeAmount
	}
	if strings.HasPrefix(s, "+") {
		return 0, fmt.Errorf("malformed amount %q", s)
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, fmt.Errorf("malformed amount %q", s)
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	// ASCII digits only: the fraction is decoded bytewise below, and
	// unicode.IsDigit would wave through multibyte digit runes whose bytes
	// then decode to garbage cents.
	for _, r := range intPart + fracPart {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("malformed amount %q", s)
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed amount %q", s)
	}
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
		return 0, fmt.Errorf("amount out of range %q", s)
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return iv*100 + fracCents, nil
}

// Reais returns the value as a float64 for display only. Calculations must
// stay in cents.
func (m Money) Reais() float64 {
	return float64(m.Cents) / 100.0
}
