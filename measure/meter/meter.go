// Package meter tracks output peak and RMS levels of processed blocks. The
// audio goroutine calls Update once per block; any number of control
// goroutines may poll the published levels concurrently.
package meter

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-approx"
	"github.com/tphakala/simd/f32"

	"github.com/cwbudde/algo-overdrive/dsp/core"
)

const (
	defaultPeakRelease = 1.5
	defaultRMSWindow   = 0.3
)

// ErrInvalidOption reports an out-of-range meter option.
var ErrInvalidOption = errors.New("meter: invalid option")

// Option configures a Meter.
type Option func(*config) error

type config struct {
	peakRelease float64
	rmsWindow   float64
}

// WithPeakRelease sets the time in seconds for a held peak to fall by a
// factor of e.
func WithPeakRelease(seconds float64) Option {
	return func(cfg *config) error {
		if !(seconds > 0) || math.IsInf(seconds, 0) {
			return fmt.Errorf("%w: peak release must be > 0 and finite: %f", ErrInvalidOption, seconds)
		}

		cfg.peakRelease = seconds

		return nil
	}
}

// WithRMSWindow sets the time constant in seconds of the RMS average.
func WithRMSWindow(seconds float64) Option {
	return func(cfg *config) error {
		if !(seconds > 0) || math.IsInf(seconds, 0) {
			return fmt.Errorf("%w: RMS window must be > 0 and finite: %f", ErrInvalidOption, seconds)
		}

		cfg.rmsWindow = seconds

		return nil
	}
}

// Meter holds per-channel level followers for up to core.MaxChannels
// channels.
type Meter struct {
	cfg config

	// Per-sample decay rates, written by Prepare before processing starts.
	peakRate float32
	rmsRate  float32

	// Follower state, owned by the audio goroutine.
	peakHold   [core.MaxChannels]float32
	meanSquare [core.MaxChannels]float32

	// Published levels as float32 bits.
	peak [core.MaxChannels]atomic.Uint32
	rms  [core.MaxChannels]atomic.Uint32
}

// New returns a Meter prepared for 48 kHz.
func New(opts ...Option) (*Meter, error) {
	cfg := config{peakRelease: defaultPeakRelease, rmsWindow: defaultRMSWindow}

	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	m := &Meter{cfg: cfg}
	m.setRate(48000)

	return m, nil
}

func (m *Meter) setRate(sampleRate float64) {
	m.peakRate = float32(1 / (m.cfg.peakRelease * sampleRate))
	m.rmsRate = float32(1 / (m.cfg.rmsWindow * sampleRate))
}

// Prepare rescales the ballistics for sampleRate and clears all levels.
// It must not run concurrently with Update.
func (m *Meter) Prepare(sampleRate float64) error {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("%w: sample rate must be > 0 and finite: %f", ErrInvalidOption, sampleRate)
	}

	m.setRate(sampleRate)
	m.Reset()

	return nil
}

// Update folds one processed block into the followers and publishes the new
// levels. It does not allocate or lock.
func (m *Meter) Update(buf [][]float32, numChannels, numSamples int) {
	numChannels = min(numChannels, len(buf), core.MaxChannels)
	if numSamples <= 0 {
		return
	}

	for ch := 0; ch < numChannels; ch++ {
		samples := buf[ch]
		n := min(numSamples, len(samples))
		if n == 0 {
			continue
		}

		samples = samples[:n]

		blockPeak := float32(0)
		for _, v := range samples {
			if v < 0 {
				v = -v
			}

			if v > blockPeak {
				blockPeak = v
			}
		}

		frames := float32(n)
		peakDecay := approx.FastExp(-frames * m.peakRate)
		rmsDecay := approx.FastExp(-frames * m.rmsRate)

		held := m.peakHold[ch] * peakDecay
		if blockPeak > held {
			held = blockPeak
		}

		// A non-finite block would poison the average for good.
		blockMS := f32.DotProductUnsafe(samples, samples) / frames
		if f := float64(blockMS); math.IsNaN(f) || math.IsInf(f, 0) {
			blockMS = m.meanSquare[ch]
		}
		ms := blockMS + (m.meanSquare[ch]-blockMS)*rmsDecay

		m.peakHold[ch] = held
		m.meanSquare[ch] = ms

		m.peak[ch].Store(math.Float32bits(held))
		m.rms[ch].Store(math.Float32bits(float32(math.Sqrt(float64(ms)))))
	}
}

// Peak returns the held peak level of channel ch. Out-of-range channels
// read as 0.
func (m *Meter) Peak(ch int) float32 {
	if ch < 0 || ch >= core.MaxChannels {
		return 0
	}

	return math.Float32frombits(m.peak[ch].Load())
}

// RMS returns the averaged RMS level of channel ch.
func (m *Meter) RMS(ch int) float32 {
	if ch < 0 || ch >= core.MaxChannels {
		return 0
	}

	return math.Float32frombits(m.rms[ch].Load())
}

// PeakDB returns Peak in dBFS.
func (m *Meter) PeakDB(ch int) float64 {
	return core.LinearToDB(float64(m.Peak(ch)))
}

// RMSDB returns RMS in dBFS.
func (m *Meter) RMSDB(ch int) float64 {
	return core.LinearToDB(float64(m.RMS(ch)))
}

// Reset clears follower state and published levels. It must not run
// concurrently with Update.
func (m *Meter) Reset() {
	for ch := range core.MaxChannels {
		m.peakHold[ch] = 0
		m.meanSquare[ch] = 0
		m.peak[ch].Store(0)
		m.rms[ch].Store(0)
	}
}
