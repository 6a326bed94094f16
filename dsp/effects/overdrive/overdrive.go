package overdrive

import "math"

// shapeGain maps atan's open range (-π/2, π/2) onto (-1, 1).
const shapeGain = 2 / math.Pi

// Settings is one snapshot of the control values in real-world units.
type Settings struct {
	Drive  float64
	Range  float64
	Blend  float64
	Volume float64
}

// DefaultSettings returns the neutral setting with every control at 1.
func DefaultSettings() Settings {
	return Settings{Drive: 1, Range: 1, Blend: 1, Volume: 1}
}

// Shape returns the processed value of x for s.
func Shape(x float64, s Settings) float64 {
	return shape(x, &s)
}

func shape(x float64, s *Settings) float64 {
	driven := x * s.Drive * s.Range
	shaped := shapeGain * math.Atan(driven)
	mixed := shaped*s.Blend + x*(1-s.Blend)

	return mixed / 2 * s.Volume
}
