package utils

import "math"

// Clamp returns x bounded to [minimum, maximum].
func Clamp(x, minimum, maximum float64) float64 {
	return math.Min(math.Max(x, minimum), maximum)
}
