package param

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-overdrive/dsp/core"
)

// Range describes the real-world extent of a parameter.
//
// Skew shapes the mapping between a normalized position p in [0, 1] and the
// value v: v = Min + (Max-Min) * p^(1/Skew). A skew below 1 gives the low end
// of the range more of the control travel; 1 is linear. Step is the smallest
// legal increment for widget-originated values; 0 disables snapping.
type Range struct {
	Min  float64
	Max  float64
	Step float64
	Skew float64
}

// LinearRange returns a Range with skew 1.
func LinearRange(lo, hi, step float64) Range {
	return Range{Min: lo, Max: hi, Step: step, Skew: 1}
}

// SkewedRange returns a Range with the given skew factor.
func SkewedRange(lo, hi, step, skew float64) Range {
	return Range{Min: lo, Max: hi, Step: step, Skew: skew}
}

// Validate checks min < max, step >= 0 and skew > 0, all finite.
func (r Range) Validate() error {
	for _, v := range []float64{r.Min, r.Max, r.Step, r.Skew} {
		if !core.IsFinite(v) {
			return fmt.Errorf("%w: range values must be finite: %+v", ErrInvalidDescriptor, r)
		}
	}

	if r.Min >= r.Max {
		return fmt.Errorf("%w: range min must be < max: [%g, %g]", ErrInvalidDescriptor, r.Min, r.Max)
	}

	if r.Step < 0 {
		return fmt.Errorf("%w: range step must be >= 0: %g", ErrInvalidDescriptor, r.Step)
	}

	if r.Skew <= 0 {
		return fmt.Errorf("%w: range skew must be > 0: %g", ErrInvalidDescriptor, r.Skew)
	}

	return nil
}

// Contains reports whether v lies inside [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Clamp limits v to [Min, Max]. NaN is returned unchanged.
func (r Range) Clamp(v float64) float64 {
	return core.Clamp(v, r.Min, r.Max)
}

// Snap rounds v to the nearest multiple of Step above Min and clamps the
// result.
func (r Range) Snap(v float64) float64 {
	if r.Step > 0 {
		v = r.Min + r.Step*math.Floor((v-r.Min)/r.Step+0.5)
	}

	return r.Clamp(v)
}

// Normalize maps a real-world value to its control position in [0, 1].
func (r Range) Normalize(v float64) float64 {
	p := (r.Clamp(v) - r.Min) / (r.Max - r.Min)
	if !r.linear() && p > 0 {
		p = math.Pow(p, r.Skew)
	}

	return p
}

// Denormalize maps a control position in [0, 1] to a real-world value.
// Positions outside [0, 1] are clamped first.
func (r Range) Denormalize(p float64) float64 {
	if p <= 0 {
		return r.Min
	}

	if p >= 1 {
		return r.Max
	}

	if !r.linear() {
		p = math.Pow(p, 1/r.Skew)
	}

	return r.Min + (r.Max-r.Min)*p
}

// linear reports whether the skew is 1 within rounding, so ranges built from
// a computed skew do not pay for math.Pow.
func (r Range) linear() bool {
	return core.NearlyEqual(r.Skew, 1, 0)
}
