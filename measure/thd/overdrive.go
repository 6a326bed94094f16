package thd

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-overdrive/dsp/effects/overdrive"
)

// Stimulus describes the test tone fed through the overdrive.
type Stimulus struct {
	// Frequency is snapped to the nearest FFT bin so the tone is coherent.
	Frequency float64
	Amplitude float64
}

// DefaultStimulus is a 1 kHz tone at half scale.
func DefaultStimulus() Stimulus {
	return Stimulus{Frequency: 1000, Amplitude: 0.5}
}

// MeasureOverdrive renders one FFT frame of the stimulus through the
// overdrive with settings s and analyzes the output.
func (c *Calculator) MeasureOverdrive(s overdrive.Settings, stim Stimulus) (Result, error) {
	n := c.cfg.FFTSize
	binHz := c.cfg.SampleRate / float64(n)

	bin := int(math.Round(stim.Frequency / binHz))
	if bin < 1 || bin >= n/2 {
		return Result{}, fmt.Errorf("%w: stimulus %g Hz outside (0, %g) Hz", ErrInvalidConfig, stim.Frequency, c.cfg.SampleRate/2)
	}

	signal := make([]float64, n)
	step := 2 * math.Pi * float64(bin) / float64(n)

	for i := range signal {
		signal[i] = stim.Amplitude * math.Sin(step*float64(i))
	}

	overdrive.ProcessFloat64With(s, [][]float64{signal}, 1, n)

	saved := c.cfg.FundamentalFreq
	c.cfg.FundamentalFreq = float64(bin) * binHz

	defer func() { c.cfg.FundamentalFreq = saved }()

	return c.AnalyzeSignal(signal)
}

// MeasureOverdrive is a one-shot Calculator.MeasureOverdrive.
func MeasureOverdrive(s overdrive.Settings, stim Stimulus, cfg Config) (Result, error) {
	c, err := NewCalculator(cfg)
	if err != nil {
		return Result{}, err
	}

	return c.MeasureOverdrive(s, stim)
}
