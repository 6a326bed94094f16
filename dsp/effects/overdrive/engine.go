package overdrive

// Source supplies the settings for a block. Implementations are read from the
// audio goroutine and must neither block nor allocate.
type Source interface {
	Settings() Settings
}

// SourceFunc adapts a function to Source.
type SourceFunc func() Settings

// Settings calls f.
func (f SourceFunc) Settings() Settings { return f() }

// Fixed is a Source that always yields the same settings.
type Fixed Settings

// Settings returns s.
func (s Fixed) Settings() Settings { return Settings(s) }

// Engine applies the overdrive to blocks of audio in place. It holds a
// non-owning reference to its Source and has no other state, so one Engine
// may serve any number of channels.
type Engine struct {
	src Source
}

// New returns an Engine reading its settings from src. A nil src falls back
// to DefaultSettings.
func New(src Source) *Engine {
	if src == nil {
		src = Fixed(DefaultSettings())
	}

	return &Engine{src: src}
}

// Snapshot reads the current settings from the source.
func (e *Engine) Snapshot() Settings {
	return e.src.Settings()
}

// Process takes one snapshot and processes the first numChannels channels of
// buf over their first numSamples samples. Counts larger than the buffer are
// bounded to it; samples beyond numSamples are left untouched.
func (e *Engine) Process(buf [][]float32, numChannels, numSamples int) {
	ProcessWith(e.Snapshot(), buf, numChannels, numSamples)
}

// ProcessFloat64 is Process for float64 buffers.
func (e *Engine) ProcessFloat64(buf [][]float64, numChannels, numSamples int) {
	ProcessFloat64With(e.Snapshot(), buf, numChannels, numSamples)
}

// ProcessWith processes buf with a caller-held snapshot.
func ProcessWith(s Settings, buf [][]float32, numChannels, numSamples int) {
	numChannels = min(numChannels, len(buf))

	for ch := 0; ch < numChannels; ch++ {
		samples := buf[ch]
		n := min(numSamples, len(samples))

		for i := 0; i < n; i++ {
			samples[i] = float32(shape(float64(samples[i]), &s))
		}
	}
}

// ProcessFloat64With processes float64 buf with a caller-held snapshot.
func ProcessFloat64With(s Settings, buf [][]float64, numChannels, numSamples int) {
	numChannels = min(numChannels, len(buf))

	for ch := 0; ch < numChannels; ch++ {
		samples := buf[ch]
		n := min(numSamples, len(samples))

		for i := 0; i < n; i++ {
			samples[i] = shape(samples[i], &s)
		}
	}
}

// ProcessSample returns the processed value of x for the current settings.
// It takes a fresh snapshot on every call and is meant for control-rate use.
func (e *Engine) ProcessSample(x float64) float64 {
	return Shape(x, e.Snapshot())
}
