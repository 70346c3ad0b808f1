// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/zus-calculator/pkg/constants"
)

// Clamp restricts value to the closed range [lo, hi].
func Clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percentage float64) float64 {
	return value * (percentage / constants.PercentageMultiplier)
}

// RoundedShare returns percentage% of amount rounded to the nearest whole
// złoty, halves away from zero.
func RoundedShare(amount, percentage int) int {
	return int(math.Round(ApplyPercentage(float64(amount), float64(percentage))))
}
