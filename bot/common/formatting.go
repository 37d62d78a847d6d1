package common

import (
	"fmt"
	"strings"

	"gamba/currency"
)

// FormatCredits renders minor units as a credit amount with thousand
// separators, e.g. 123456789 -> "1,234,567.89".
func FormatCredits(minor int64) string {
	display := currency.Format(minor)

	sign := ""
	if strings.HasPrefix(display, "-") {
		sign = "-"
		display = strings.TrimPrefix(display, "-")
	}

	whole, cents, _ := strings.Cut(display, ".")
	return sign + groupThousands(whole) + "." + cents
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}

	var result strings.Builder
	for i, digit := range digits {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}
	return result.String()
}

// FormatOutcome formats the settled result of a one-shot game
func FormatOutcome(delta, newBalance int64) string {
	switch {
	case delta > 0:
		return fmt.Sprintf("🎉 **You won %s credits!** New balance: **%s**",
			FormatCredits(delta), FormatCredits(newBalance))
	case delta == 0:
		return fmt.Sprintf("😐 **Push.** Your stake is returned. Balance: **%s**",
			FormatCredits(newBalance))
	default:
		return fmt.Sprintf("😔 **You lost %s credits.** New balance: **%s**",
			FormatCredits(-delta), FormatCredits(newBalance))
	}
}
