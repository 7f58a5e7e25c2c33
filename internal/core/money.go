// Package core holds the invoice domain types and the money conversion
// utilities used at every entity boundary.
//
// Monetary amounts are stored as integer minor units (cents). The two
// conversion functions MinorToMajor and MajorToMinor are the only place
// the division/multiplication by 100 happens; call sites never repeat
// the arithmetic themselves.
package core

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Money is an exact monetary amount in minor currency units.
type Money struct {
	Cents int64
}

var ErrInvalidAmount = errors.New("invalid amount")

// MinorToMajor converts stored cents into major units for display and
// edit forms.
func MinorToMajor(cents int64) float64 {
	return float64(cents) / 100.0
}

// MajorToMinor converts a major-unit amount back into cents, rounding
// half away from zero. For any amount representable with two decimal
// places, MajorToMinor(MinorToMajor(a)) == a.
func MajorToMinor(major float64) int64 {
	return int64(math.Round(major * 100))
}

// Major returns the major-unit value for display purposes. Use cents
// for calculations to avoid floating-point drift.
func (m Money) Major() float64 {
	return MinorToMajor(m.Cents)
}

// ParseDecimalToCents converts a decimal string into cents without going
// through floating point. Both dot (12.34) and comma (12,34) separators
// are accepted; a third decimal digit rounds half-up. Negative and zero
// amounts are rejected.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
		return 0, ErrInvalidAmount
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
	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// FormatCurrency renders cents as a display currency string with
// thousands grouping, e.g. 123456789 -> "$1,234,567.89".
func FormatCurrency(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	major := cents / 100
	rem := cents % 100

	digits := strconv.FormatInt(major, 10)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	b.WriteByte('.')
	if rem < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(rem, 10))
	return b.String()
}
