package style

import "math"

// Radar maps a standardized value onto 0-100, assuming values mostly lie in [-3, 3].
func Radar(z float64) float64 {
	return math.Max(0, math.Min(100, (z+3)/6*100))
}
