package thd

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

const (
	defaultRangeLowerHz = 20.0
	defaultRangeUpperHz = 20000.0
	// Main-lobe half width of the Hann window in bins.
	hannCaptureBins = 2
)

// ErrInvalidConfig reports an unusable analysis configuration.
var ErrInvalidConfig = errors.New("thd: invalid config")

// Config holds THD calculation parameters.
type Config struct {
	SampleRate float64
	// FFTSize is rounded up to a power of two. Zero sizes the transform to
	// the signal.
	FFTSize int
	// FundamentalFreq pins the fundamental; zero searches the range for the
	// strongest bin.
	FundamentalFreq float64
	RangeLowerFreq  float64
	RangeUpperFreq  float64
	// CaptureBins is the half width gathered around each peak; zero uses
	// the Hann main lobe.
	CaptureBins  int
	MaxHarmonics int
}

// Result holds THD measurement results. Ratios are relative to the
// fundamental amplitude.
//
//nolint:revive
type Result struct {
	FundamentalFreq  float64
	FundamentalLevel float64
	THD              float64
	THDN             float64
	THD_dB           float64
	THDN_dB          float64
	OddHD            float64
	EvenHD           float64
	Noise            float64
	Harmonics        []float64
	SINAD            float64
}

// Calculator performs THD analysis with a reusable FFT plan and scratch.
// It is not safe for concurrent use.
type Calculator struct {
	cfg    Config
	plan   *algofft.Plan[complex128]
	window []float64
	frame  []float64
	in     []complex128
	out    []complex128
	re     []float64
	im     []float64
	power  []float64
}

// NewCalculator validates cfg and prepares an FFT of cfg.FFTSize.
func NewCalculator(cfg Config) (*Calculator, error) {
	cfg, err := normalizeConfig(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.FFTSize <= 1 {
		return nil, fmt.Errorf("%w: fft size must be > 1: %d", ErrInvalidConfig, cfg.FFTSize)
	}

	n := nextPowerOf2(cfg.FFTSize)
	cfg.FFTSize = n

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("thd: fft plan: %w", err)
	}

	bins := n/2 + 1

	return &Calculator{
		cfg:   cfg,
		plan:  plan,
		frame: make([]float64, n),
		in:    make([]complex128, n),
		out:   make([]complex128, n),
		re:    make([]float64, bins),
		im:    make([]float64, bins),
		power: make([]float64, bins),
	}, nil
}

// AnalyzeSignal performs one-shot THD analysis of a time-domain signal.
func AnalyzeSignal(signal []float64, cfg Config) (Result, error) {
	if cfg.FFTSize <= 0 {
		cfg.FFTSize = len(signal)
	}

	c, err := NewCalculator(cfg)
	if err != nil {
		return Result{}, err
	}

	return c.AnalyzeSignal(signal)
}

// Config returns the normalized configuration.
func (c *Calculator) Config() Config {
	return c.cfg
}

// AnalyzeSignal windows up to FFTSize samples of signal, zero-pads the rest
// and evaluates the spectrum.
func (c *Calculator) AnalyzeSignal(signal []float64) (Result, error) {
	n := min(len(signal), c.cfg.FFTSize)
	if n < 2 {
		return Result{}, fmt.Errorf("%w: signal too short: %d samples", ErrInvalidConfig, len(signal))
	}

	if len(c.window) != n {
		c.window = hann(n)
	}

	frame := c.frame[:n]
	copy(frame, signal[:n])
	vecmath.MulBlockInPlace(frame, c.window)

	for i := range c.in {
		if i < n {
			c.in[i] = complex(frame[i], 0)
		} else {
			c.in[i] = 0
		}
	}

	if err := c.plan.Forward(c.out, c.in); err != nil {
		return Result{}, fmt.Errorf("thd: fft: %w", err)
	}

	for i := range c.power {
		c.re[i] = real(c.out[i])
		c.im[i] = imag(c.out[i])
	}

	vecmath.Power(c.power, c.re, c.im)

	return c.CalculateFromPower(c.power), nil
}

// CalculateFromPower computes THD metrics from a squared-magnitude spectrum
// holding the non-negative bins [0..Nyquist].
//
//nolint:funlen
func (c *Calculator) CalculateFromPower(power []float64) Result {
	if len(power) <= 1 {
		return Result{}
	}

	cfg := c.cfg
	fftSize := 2 * (len(power) - 1)
	binHz := cfg.SampleRate / float64(fftSize)
	maxBin := len(power) - 1

	lowerBin := clampInt(int(math.Round(cfg.RangeLowerFreq/binHz)), 1, maxBin)
	upperBin := clampInt(int(math.Round(cfg.RangeUpperFreq/binHz)), lowerBin, maxBin)

	fundamentalBin := c.findFundamentalBin(power, lowerBin, upperBin, binHz)

	captureBins := cfg.CaptureBins
	if captureBins == 0 {
		captureBins = hannCaptureBins
	}

	if captureBins*2 > fundamentalBin {
		captureBins = fundamentalBin / 2
	}

	fundamentalLevel := binValue(power, fundamentalBin, captureBins)
	if fundamentalLevel <= 0 {
		return Result{FundamentalFreq: float64(fundamentalBin) * binHz}
	}

	var thdAbs, oddAbs, evenAbs float64

	harmonics := make([]float64, 0, 8)

	harmonicCount := 0
	for k := 2; ; k++ {
		if cfg.MaxHarmonics > 0 && harmonicCount >= cfg.MaxHarmonics {
			break
		}

		bin := k * fundamentalBin
		if bin > upperBin {
			break
		}

		value := binValue(power, bin, captureBins)

		thdAbs += value
		if k%2 == 0 {
			evenAbs += value
		} else {
			oddAbs += value
		}

		if value > 0 {
			harmonics = append(harmonics, value/fundamentalLevel)
		}

		harmonicCount++
	}

	totalAbs := 0.0
	for i := lowerBin; i <= upperBin; i++ {
		totalAbs += sqrtPositive(power[i])
	}

	thdnAbs := max(totalAbs-fundamentalLevel, 0)
	noiseAbs := max(thdnAbs-thdAbs, 0)

	thd := thdAbs / fundamentalLevel
	thdn := thdnAbs / fundamentalLevel

	sinad := math.Inf(1)
	if thdn > 0 {
		sinad = -ratioToDB(thdn)
	}

	return Result{
		FundamentalFreq:  float64(fundamentalBin) * binHz,
		FundamentalLevel: fundamentalLevel,
		THD:              thd,
		THDN:             thdn,
		THD_dB:           ratioToDB(thd),
		THDN_dB:          ratioToDB(thdn),
		OddHD:            oddAbs / fundamentalLevel,
		EvenHD:           evenAbs / fundamentalLevel,
		Noise:            noiseAbs / fundamentalLevel,
		Harmonics:        harmonics,
		SINAD:            sinad,
	}
}

func (c *Calculator) findFundamentalBin(power []float64, lowerBin, upperBin int, binHz float64) int {
	if c.cfg.FundamentalFreq > 0 {
		bin := int(math.Round(c.cfg.FundamentalFreq / binHz))
		return clampInt(bin, lowerBin, upperBin)
	}

	bestBin := lowerBin
	bestVal := -1.0

	for i := lowerBin; i <= upperBin; i++ {
		if power[i] > bestVal {
			bestVal = power[i]
			bestBin = i
		}
	}

	return bestBin
}

func normalizeConfig(cfg Config) (Config, error) {
	if cfg.SampleRate <= 0 || math.IsNaN(cfg.SampleRate) || math.IsInf(cfg.SampleRate, 0) {
		return cfg, fmt.Errorf("%w: sample rate must be > 0 and finite: %f", ErrInvalidConfig, cfg.SampleRate)
	}

	if cfg.RangeLowerFreq <= 0 {
		cfg.RangeLowerFreq = defaultRangeLowerHz
	}

	if cfg.RangeUpperFreq <= 0 {
		cfg.RangeUpperFreq = min(defaultRangeUpperHz, cfg.SampleRate/2)
	}

	if cfg.RangeUpperFreq < cfg.RangeLowerFreq {
		cfg.RangeUpperFreq = cfg.RangeLowerFreq
	}

	cfg.CaptureBins = max(cfg.CaptureBins, 0)
	cfg.MaxHarmonics = max(cfg.MaxHarmonics, 0)

	return cfg, nil
}

// hann returns a periodic Hann window, which leaks a coherent tone into its
// two neighbouring bins only.
func hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}

	return w
}

func binValue(power []float64, bin, captureBins int) float64 {
	if bin < 0 || bin >= len(power) {
		return 0
	}

	lo := max(bin-captureBins, 0)
	hi := min(bin+captureBins, len(power)-1)

	sum := 0.0
	for i := lo; i <= hi; i++ {
		sum += sqrtPositive(power[i])
	}

	return sum
}

func sqrtPositive(v float64) float64 {
	if v <= 0 {
		return 0
	}

	return math.Sqrt(v)
}

func ratioToDB(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(v)
}

func clampInt(val, lo, hi int) int {
	if val < lo {
		return lo
	}

	if val > hi {
		return hi
	}

	return val
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
