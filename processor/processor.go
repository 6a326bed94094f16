// Package processor assembles the overdrive unit a host drives: the
// parameter store, the waveshaping engine reading it, the state manager
// persisting it and the output meter. The Processor owns all four; the
// engine and the manager only hold references to the store.
package processor

import (
	"fmt"
	"io"

	"github.com/cwbudde/algo-overdrive/dsp/core"
	"github.com/cwbudde/algo-overdrive/dsp/effects/overdrive"
	"github.com/cwbudde/algo-overdrive/measure/meter"
	"github.com/cwbudde/algo-overdrive/param"
	"github.com/cwbudde/algo-overdrive/state"
)

// Processor is the overdrive unit.
//
// ProcessBlock runs on the audio goroutine. Parameter writes, state calls
// and meter reads may happen concurrently from control goroutines. Prepare
// must not overlap ProcessBlock.
type Processor struct {
	cfg    core.ProcessorConfig
	store  *param.Store
	source *storeSource
	engine *overdrive.Engine
	state  *state.Manager
	meter  *meter.Meter
}

// storeSource reads the four control values straight from their atomics.
type storeSource struct {
	drive, rng, blend, volume *param.Parameter
}

func (s *storeSource) Settings() overdrive.Settings {
	return overdrive.Settings{
		Drive:  s.drive.Value(),
		Range:  s.rng.Value(),
		Blend:  s.blend.Value(),
		Volume: s.volume.Value(),
	}
}

// New returns a Processor with every parameter at its default, prepared for
// the configured sample rate and block size.
func New(opts ...core.ProcessorOption) (*Processor, error) {
	cfg := core.ApplyProcessorOptions(opts...)

	store, err := param.NewOverdriveStore()
	if err != nil {
		return nil, fmt.Errorf("processor: %w", err)
	}

	src := &storeSource{}
	for id, dst := range map[string]**param.Parameter{
		param.IDDrive:  &src.drive,
		param.IDRange:  &src.rng,
		param.IDBlend:  &src.blend,
		param.IDVolume: &src.volume,
	} {
		p, ok := store.Lookup(id)
		if !ok {
			return nil, fmt.Errorf("processor: %w: %q", param.ErrUnknownParameter, id)
		}

		*dst = p
	}

	m, err := meter.New()
	if err != nil {
		return nil, fmt.Errorf("processor: %w", err)
	}

	p := &Processor{
		cfg:    cfg,
		store:  store,
		source: src,
		engine: overdrive.New(src),
		state:  state.NewManager(store),
		meter:  m,
	}

	if err := p.Prepare(cfg.SampleRate, cfg.BlockSize); err != nil {
		return nil, err
	}

	return p, nil
}

// Prepare validates the host configuration and rescales the meter. The
// overdrive itself is rate independent.
func (p *Processor) Prepare(sampleRate float64, maxBlockSize int) error {
	cfg := p.cfg
	cfg.SampleRate = sampleRate
	cfg.BlockSize = maxBlockSize

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("processor: prepare: %w", err)
	}

	if err := p.meter.Prepare(sampleRate); err != nil {
		return fmt.Errorf("processor: prepare: %w", err)
	}

	p.cfg = cfg

	return nil
}

// Config returns the prepared configuration.
func (p *Processor) Config() core.ProcessorConfig {
	return p.cfg
}

// ProcessBlock processes buf in place with one snapshot of the parameters
// and updates the meter. Channels beyond the prepared channel count are left
// untouched. It never blocks or allocates.
func (p *Processor) ProcessBlock(buf [][]float32, numChannels, numSamples int) {
	numChannels = min(numChannels, p.cfg.Channels)

	p.engine.Process(buf, numChannels, numSamples)
	p.meter.Update(buf, numChannels, numSamples)
}

// Params returns the parameter store.
func (p *Processor) Params() *param.Store {
	return p.store
}

// Settings returns a snapshot of the current control values.
func (p *Processor) Settings() overdrive.Settings {
	return p.source.Settings()
}

// State serializes the parameter values.
func (p *Processor) State() ([]byte, error) {
	return p.state.Serialize()
}

// SetState restores parameter values from a blob produced by State. On
// failure the error wraps state.ErrCorruptState and no value changes.
func (p *Processor) SetState(data []byte) error {
	return p.state.Deserialize(data)
}

// SaveState writes State to w.
func (p *Processor) SaveState(w io.Writer) error {
	return p.state.Save(w)
}

// LoadState reads a blob from r and restores it with SetState.
func (p *Processor) LoadState(r io.Reader) error {
	return p.state.Load(r)
}

// SupportsLayout reports whether the unit can run with the given input and
// output channel counts: mono or stereo, the same on both sides. Prepare the
// processor with core.WithChannels to match the chosen layout.
func (p *Processor) SupportsLayout(inputs, outputs int) bool {
	return inputs == outputs && inputs >= 1 && inputs <= core.MaxChannels
}

// TailLengthSeconds is zero; the stage keeps no state between samples.
func (p *Processor) TailLengthSeconds() float64 {
	return 0
}

// LatencySamples is zero.
func (p *Processor) LatencySamples() int {
	return 0
}

// Meter returns the output level meter.
func (p *Processor) Meter() *meter.Meter {
	return p.meter
}
