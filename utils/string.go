package utils

import (
	"fmt"
	"math"
)

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// FormatHours renders hours with exactly one decimal, e.g. "7.5".
func FormatHours(v float64) string {
	if math.Abs(v) < 0.05 {
		v = 0
	}
	return fmt.Sprintf("%.1f", v)
}
