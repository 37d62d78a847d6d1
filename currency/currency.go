// Package currency converts between display credits and the integer minor
// units stored in the ledger. One credit is 100 minor units; all balance
// math elsewhere is int64 minor units so nothing downstream touches floats.
package currency

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidAmount indicates an amount that does not convert to a positive
// number of minor units.
var ErrInvalidAmount = errors.New("amount must be greater than zero")

// ToMinorUnits converts a decimal credit amount to minor units, rounding
// half-up at two decimal places. Amounts that quantize to zero or below are
// rejected.
func ToMinorUnits(amount float64) (int64, error) {
	// Go through the shortest decimal representation so values like 0.1
	// quantize on their decimal digits, not their binary expansion.
	s := strconv.FormatFloat(amount, 'f', -1, 64)

	minor, err := parseDecimal(s)
	if err != nil {
		return 0, err
	}
	if minor <= 0 {
		return 0, ErrInvalidAmount
	}
	return minor, nil
}

// Format renders minor units as a fixed two-decimal credit amount.
func Format(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

// parseDecimal quantizes a plain decimal string to hundredths, half-up.
func parseDecimal(s string) (int64, error) {
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" {
		intPart = "0"
	}

	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse amount %q: %w", s, err)
	}

	// Pad the fraction out to the rounding digit.
	for len(fracPart) < 3 {
		fracPart += "0"
	}

	cents := int64((fracPart[0]-'0')*10 + (fracPart[1] - '0'))
	// Half-up: any remainder at or past the midpoint rounds away from zero.
	if fracPart[2] >= '5' {
		cents++
	}

	minor := whole*100 + cents
	if negative {
		minor = -minor
	}
	return minor, nil
}
