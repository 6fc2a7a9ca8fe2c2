package common

import "math"

// Finite reports whether every value is neither NaN nor an infinity.
//
// Parameters:
//   - values: the values to check
//
// Returns:
//   - bool: true if all values are finite
func Finite(values ...float32) bool {
	for _, v := range values {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
