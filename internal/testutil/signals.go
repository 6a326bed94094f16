package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicSineF32 is DeterministicSine rounded to float32 samples.
func DeterministicSineF32(freqHz, sampleRate, amplitude float64, length int) []float32 {
	out := make([]float32, length)
	FillSineF32(out, freqHz, sampleRate, amplitude)
	return out
}

// FillSineF32 overwrites dst with a sine starting at phase 0.
func FillSineF32(dst []float32, freqHz, sampleRate, amplitude float64) {
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range dst {
		dst[i] = float32(amplitude * math.Sin(step*float64(i)))
	}
}

// DeterministicNoiseF32 generates float32 white noise in [-amplitude,
// amplitude) with a fixed seed.
func DeterministicNoiseF32(seed int64, amplitude float64, length int) []float32 {
	out := make([]float32, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = float32((rng.Float64()*2 - 1) * amplitude)
	}
	return out
}

// Planar returns channels copies of signal as a planar block.
func Planar(signal []float32, channels int) [][]float32 {
	out := make([][]float32, channels)
	for ch := range out {
		out[ch] = append([]float32(nil), signal...)
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float32, length int) []float32 {
	out := make([]float32, length)
	for i := range out {
		out[i] = value
	}
	return out
}
