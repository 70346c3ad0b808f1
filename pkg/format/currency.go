// Package format renders amounts for display.
package format

import (
	"strconv"
	"strings"

	"github.com/iwvelando/zus-calculator/pkg/constants"
)

// Grouped returns an integer with a space between every group of three
// digits (e.g., "-50 000").
func Grouped(amount int) string {
	digits := strconv.Itoa(amount)
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign = "-"
		digits = digits[1:]
	}

	if len(digits) > 3 {
		var builder strings.Builder
		for i, digit := range digits {
			if i > 0 && (len(digits)-i)%3 == 0 {
				builder.WriteByte(' ')
			}
			builder.WriteRune(digit)
		}
		digits = builder.String()
	}

	return sign + digits
}

// Currency returns a grouped amount followed by the złoty symbol (e.g., "3 000 zł").
func Currency(amount int) string {
	return Grouped(amount) + " " + constants.CurrencySymbol
}

// Percent returns a whole percentage with its sign (e.g., "60%").
func Percent(value int) string {
	return strconv.Itoa(value) + "%"
}
