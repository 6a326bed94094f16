package param

import (
	"errors"
	"math"
	"testing"
)

func TestRangeValidate(t *testing.T) {
	valid := []Range{
		LinearRange(0, 1, 0.0001),
		SkewedRange(0, 1500, 0.0001, 0.25),
		LinearRange(-1, 1, 0),
	}
	for _, r := range valid {
		if err := r.Validate(); err != nil {
			t.Fatalf("Validate(%+v) error = %v", r, err)
		}
	}

	invalid := []Range{
		LinearRange(1, 1, 0),
		LinearRange(2, 1, 0),
		LinearRange(0, 1, -0.1),
		SkewedRange(0, 1, 0, 0),
		SkewedRange(0, 1, 0, -2),
		LinearRange(0, math.Inf(1), 0),
		LinearRange(math.NaN(), 1, 0),
	}
	for _, r := range invalid {
		err := r.Validate()
		if !errors.Is(err, ErrInvalidDescriptor) {
			t.Fatalf("Validate(%+v) error = %v, want ErrInvalidDescriptor", r, err)
		}
	}
}

func TestRangeClamp(t *testing.T) {
	r := LinearRange(0, 3, 0.0001)

	cases := []struct {
		in   float64
		want float64
	}{
		{-1, 0},
		{0, 0},
		{1.5, 1.5},
		{3, 3},
		{10, 3},
		{math.Inf(1), 3},
	}

	for _, tc := range cases {
		if got := r.Clamp(tc.in); got != tc.want {
			t.Fatalf("Clamp(%g) = %g, want %g", tc.in, got, tc.want)
		}
	}
}

func TestRangeSkewRoundTrip(t *testing.T) {
	r := SkewedRange(0, 1500, 0.0001, 0.25)

	for _, v := range []float64{0, 0.001, 1, 10, 93.75, 375, 1000, 1500} {
		p := r.Normalize(v)
		if p < 0 || p > 1 {
			t.Fatalf("Normalize(%g) = %g outside [0, 1]", v, p)
		}

		got := r.Denormalize(p)
		if math.Abs(got-v) > 1e-9*math.Max(1, v) {
			t.Fatalf("Denormalize(Normalize(%g)) = %.15g", v, got)
		}
	}
}

func TestRangeSkewBiasesLowEnd(t *testing.T) {
	r := SkewedRange(0, 1500, 0, 0.25)

	mid := r.Denormalize(0.5)
	if math.Abs(mid-93.75) > 1e-9 {
		t.Fatalf("Denormalize(0.5) = %g, want 93.75", mid)
	}

	// The default value of 1 sits well into the knob travel.
	if p := r.Normalize(1); p < 0.15 || p > 0.17 {
		t.Fatalf("Normalize(1) = %g, want about 0.161", p)
	}

	linear := LinearRange(0, 1500, 0)
	if got := linear.Denormalize(0.5); got != 750 {
		t.Fatalf("linear Denormalize(0.5) = %g, want 750", got)
	}
}

func TestRangeNormalizeClampsInput(t *testing.T) {
	r := SkewedRange(0, 1500, 0.0001, 0.25)

	if got := r.Normalize(-10); got != 0 {
		t.Fatalf("Normalize(-10) = %g, want 0", got)
	}
	if got := r.Normalize(5000); got != 1 {
		t.Fatalf("Normalize(5000) = %g, want 1", got)
	}
	if got := r.Denormalize(-0.5); got != 0 {
		t.Fatalf("Denormalize(-0.5) = %g, want 0", got)
	}
	if got := r.Denormalize(2); got != 1500 {
		t.Fatalf("Denormalize(2) = %g, want 1500", got)
	}
}

func TestRangeSnap(t *testing.T) {
	r := LinearRange(0, 1, 0.0001)

	if got := r.Snap(0.12346); math.Abs(got-0.1235) > 1e-12 {
		t.Fatalf("Snap(0.12346) = %.15g, want 0.1235", got)
	}
	if got := r.Snap(1.7); got != 1 {
		t.Fatalf("Snap(1.7) = %g, want 1", got)
	}
	if got := r.Snap(-0.3); got != 0 {
		t.Fatalf("Snap(-0.3) = %g, want 0", got)
	}

	coarse := LinearRange(0, 10, 2.5)
	if got := coarse.Snap(6.1); got != 5 {
		t.Fatalf("Snap(6.1) with step 2.5 = %g, want 5", got)
	}

	free := LinearRange(0, 1, 0)
	if got := free.Snap(0.123456789); got != 0.123456789 {
		t.Fatalf("Snap without step changed value: %.12g", got)
	}
}

func TestRangeNearlyUnitSkewIsLinear(t *testing.T) {
	r := SkewedRange(0, 10, 0, 1+1e-14)
	for _, v := range []float64{0, 2.5, 7, 10} {
		if got, want := r.Normalize(v), v/10; got != want {
			t.Fatalf("Normalize(%v) = %v, want %v", v, got, want)
		}
	}
	if got := r.Denormalize(0.3); got != 3 {
		t.Fatalf("Denormalize(0.3) = %v, want 3", got)
	}
}
