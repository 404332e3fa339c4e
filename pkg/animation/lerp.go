package animation

import "math"

// LerpFloat64 linearly interpolates between two float64 values.
func LerpFloat64(a, b float64, t float64) float64 {
	return a + (b-a)*t
}

// LerpInt interpolates between two integer positions, rounding to the
// nearest whole pixel.
func LerpInt(a, b int, t float64) int {
	return int(math.Round(LerpFloat64(float64(a), float64(b), t)))
}
