// Package wavio reads and writes 16-bit PCM WAV files as planar float32
// buffers.
package wavio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cwbudde/wav"
	"github.com/go-audio/audio"

	"github.com/cwbudde/algo-overdrive/dsp/buffer"
)

// BitDepth is the PCM sample size written by Encode.
const BitDepth = 16

// Largest magnitude written; one step below full scale so no int16
// conversion convention can overflow.
const clipLevel = 1 - 1.0/(1<<(BitDepth-1))

// ErrInvalidFile reports input that is not a usable WAV stream.
var ErrInvalidFile = errors.New("wavio: invalid wav")

// Decode reads a complete WAV stream.
func Decode(r io.ReadSeeker) (*buffer.Buffer, int, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, 0, ErrInvalidFile
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("wavio: decode: %w", err)
	}

	if pcm == nil || pcm.Format == nil || pcm.Format.NumChannels < 1 {
		return nil, 0, fmt.Errorf("%w: missing format", ErrInvalidFile)
	}

	if pcm.Format.SampleRate <= 0 {
		return nil, 0, fmt.Errorf("%w: sample rate %d", ErrInvalidFile, pcm.Format.SampleRate)
	}

	return buffer.FromInterleaved(pcm.Data, pcm.Format.NumChannels), pcm.Format.SampleRate, nil
}

// Encode writes b as 16-bit PCM. Samples are clipped to full scale and NaN
// is written as silence; b itself is not modified.
func Encode(w io.WriteSeeker, b *buffer.Buffer, sampleRate int) error {
	if b.Channels() < 1 {
		return fmt.Errorf("wavio: encode: no channels")
	}

	if sampleRate <= 0 {
		return fmt.Errorf("wavio: encode: sample rate must be > 0: %d", sampleRate)
	}

	data := b.Interleave(nil)
	for i, v := range data {
		if v != v {
			data[i] = 0
			continue
		}

		data[i] = min(max(v, -clipLevel), clipLevel)
	}

	enc := wav.NewEncoder(w, sampleRate, BitDepth, b.Channels(), 1)

	pcm := &audio.Float32Buffer{
		Format: &audio.Format{
			SampleRate:  sampleRate,
			NumChannels: b.Channels(),
		},
		Data:           data,
		SourceBitDepth: BitDepth,
	}

	if err := enc.Write(pcm); err != nil {
		return fmt.Errorf("wavio: encode: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("wavio: encode: %w", err)
	}

	return nil
}

// ReadFile decodes the WAV file at path.
func ReadFile(path string) (*buffer.Buffer, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	b, rate, err := Decode(f)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}

	return b, rate, nil
}

// WriteFile encodes b to path, creating parent directories as needed.
func WriteFile(path string, b *buffer.Buffer, sampleRate int) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := Encode(f, b, sampleRate); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
