package curve

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-overdrive/dsp/effects/overdrive"
)

func TestSweepMatchesShape(t *testing.T) {
	s := overdrive.Settings{Drive: 0.5, Range: 20, Blend: 0.75, Volume: 2}

	c, err := Sweep(s, 65, 1)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	if c.Input[0] != -1 || c.Input[64] != 1 || c.Input[32] != 0 {
		t.Fatalf("input grid ends/centre = %g, %g, %g", c.Input[0], c.Input[64], c.Input[32])
	}

	for i, x := range c.Input {
		if c.Output[i] != overdrive.Shape(x, s) {
			t.Fatalf("point %d: output %g, want %g", i, c.Output[i], overdrive.Shape(x, s))
		}
	}
}

func TestSweepRejectsBadArguments(t *testing.T) {
	s := overdrive.DefaultSettings()

	for _, tc := range []struct {
		points int
		peak   float64
	}{
		{1, 1},
		{8, 0},
		{8, -1},
		{8, math.NaN()},
		{8, math.Inf(1)},
	} {
		if _, err := Sweep(s, tc.points, tc.peak); !errors.Is(err, ErrInvalidSweep) {
			t.Fatalf("Sweep(%d, %g) err = %v, want ErrInvalidSweep", tc.points, tc.peak, err)
		}
	}
}

func TestExtremaAreSymmetric(t *testing.T) {
	c, err := Sweep(overdrive.Settings{Drive: 1, Range: 1500, Blend: 1, Volume: 3}, 101, 1)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	lo, hi := c.Extrema()
	if lo != -hi {
		t.Fatalf("extrema %g, %g not symmetric", lo, hi)
	}

	if hi >= 1.5 || hi < 1.49 {
		t.Fatalf("saturated max = %g, want just below volume/2", hi)
	}

	if lo, hi := (Curve{}).Extrema(); lo != 0 || hi != 0 {
		t.Fatalf("empty curve extrema = %g, %g", lo, hi)
	}
}

func TestNormalized(t *testing.T) {
	c, err := Sweep(overdrive.Settings{Drive: 1, Range: 5, Blend: 1, Volume: 0.7}, 33, 1)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	n := c.Normalized()
	if math.Abs(n[32]-1) > 1e-15 || math.Abs(n[0]+1) > 1e-15 {
		t.Fatalf("normalized ends = %g, %g, want -1, 1", n[0], n[32])
	}

	silent, err := Sweep(overdrive.Settings{Volume: 0}, 4, 1)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	for i, v := range silent.Normalized() {
		if v != 0 {
			t.Fatalf("silent curve point %d = %g", i, v)
		}
	}
}

func TestSmallSignalGain(t *testing.T) {
	// Around zero atan(g·x) ≈ g·x, so the slope is
	// ((2/π)·g·blend + (1-blend)) / 2 · volume.
	s := overdrive.Settings{Drive: 0.5, Range: 4, Blend: 0.5, Volume: 2}
	want := (2/math.Pi*2*0.5 + 0.5) / 2 * 2

	for _, points := range []int{2001, 2000} {
		c, err := Sweep(s, points, 1)
		if err != nil {
			t.Fatalf("Sweep() error = %v", err)
		}

		if got := c.SmallSignalGain(); math.Abs(got-want) > 1e-4 {
			t.Fatalf("points=%d: small-signal gain %g, want %g", points, got, want)
		}
	}
}
