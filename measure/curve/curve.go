// Package curve samples the static transfer curve of the overdrive.
package curve

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-overdrive/dsp/effects/overdrive"
)

// ErrInvalidSweep reports unusable sweep arguments.
var ErrInvalidSweep = errors.New("curve: invalid sweep")

// Curve holds input levels and the matching output levels.
type Curve struct {
	Input  []float64
	Output []float64
}

// Sweep evaluates the overdrive with settings s at points evenly spaced
// input levels in [-peak, peak].
func Sweep(s overdrive.Settings, points int, peak float64) (Curve, error) {
	if points < 2 {
		return Curve{}, fmt.Errorf("%w: need at least 2 points: %d", ErrInvalidSweep, points)
	}

	if !(peak > 0) || math.IsInf(peak, 0) {
		return Curve{}, fmt.Errorf("%w: peak must be > 0 and finite: %f", ErrInvalidSweep, peak)
	}

	in := floats.Span(make([]float64, points), -peak, peak)
	out := make([]float64, points)

	for i, x := range in {
		out[i] = overdrive.Shape(x, s)
	}

	return Curve{Input: in, Output: out}, nil
}

// Extrema returns the smallest and largest output level.
func (c Curve) Extrema() (lo, hi float64) {
	if len(c.Output) == 0 {
		return 0, 0
	}

	return floats.Min(c.Output), floats.Max(c.Output)
}

// Normalized returns the output scaled so its largest magnitude is 1. A
// silent curve is returned unscaled.
func (c Curve) Normalized() []float64 {
	out := make([]float64, len(c.Output))

	lo, hi := c.Extrema()

	peak := math.Max(math.Abs(lo), math.Abs(hi))
	if peak == 0 {
		copy(out, c.Output)
		return out
	}

	vecmath.ScaleBlock(out, c.Output, 1/peak)

	return out
}

// SmallSignalGain estimates the slope of the curve around zero input.
func (c Curve) SmallSignalGain() float64 {
	n := len(c.Input)
	if n < 2 {
		return 0
	}

	i, j := (n-1)/2, n/2
	if i == j {
		i, j = i-1, j+1
	}

	return (c.Output[j] - c.Output[i]) / (c.Input[j] - c.Input[i])
}
