package buffer

import "github.com/tphakala/simd/f32"

// Buffer holds one float32 plane per channel, all of the same length.
type Buffer struct {
	planes [][]float32
	frames int
}

// New returns a zero-filled Buffer with the given shape. Negative sizes are
// treated as zero.
func New(channels, frames int) *Buffer {
	channels = max(channels, 0)
	frames = max(frames, 0)

	b := &Buffer{planes: make([][]float32, channels), frames: frames}
	for ch := range b.planes {
		b.planes[ch] = make([]float32, frames)
	}

	return b
}

// FromPlanes wraps existing planes without copying samples. The frame count
// is the length of the shortest plane.
func FromPlanes(planes [][]float32) *Buffer {
	frames := 0
	for i, p := range planes {
		if i == 0 || len(p) < frames {
			frames = len(p)
		}
	}

	b := &Buffer{planes: make([][]float32, len(planes)), frames: frames}
	for ch, p := range planes {
		b.planes[ch] = p[:frames]
	}

	return b
}

// FromInterleaved returns a new Buffer holding the complete frames of src.
func FromInterleaved(src []float32, channels int) *Buffer {
	if channels <= 0 {
		return New(0, 0)
	}

	b := New(channels, len(src)/channels)
	b.Deinterleave(src)

	return b
}

// Channels returns the number of planes.
func (b *Buffer) Channels() int {
	return len(b.planes)
}

// Frames returns the number of samples per plane.
func (b *Buffer) Frames() int {
	return b.frames
}

// Channel returns plane ch.
func (b *Buffer) Channel(ch int) []float32 {
	return b.planes[ch]
}

// Planes returns the underlying planes in the form block processors take.
func (b *Buffer) Planes() [][]float32 {
	return b.planes
}

// Resize sets the frame count of every plane, reusing capacity when
// possible. Newly exposed samples are zeroed.
func (b *Buffer) Resize(frames int) {
	frames = max(frames, 0)

	for ch, p := range b.planes {
		old := len(p)
		if frames <= cap(p) {
			p = p[:frames]
		} else {
			grown := make([]float32, frames)
			copy(grown, p)
			p = grown
		}

		if frames > old {
			clear(p[old:])
		}

		b.planes[ch] = p
	}

	b.frames = frames
}

// Zero sets every sample to 0.
func (b *Buffer) Zero() {
	for _, p := range b.planes {
		clear(p)
	}
}

// Copy returns a deep copy of the buffer.
func (b *Buffer) Copy() *Buffer {
	c := New(len(b.planes), b.frames)
	for ch, p := range b.planes {
		copy(c.planes[ch], p)
	}

	return c
}

// Scale multiplies every sample by g.
func (b *Buffer) Scale(g float32) {
	for _, p := range b.planes {
		f32.Scale(p, p, g)
	}
}

// Interleave writes the buffer as interleaved frames into dst, growing it
// when needed, and returns the filled slice.
func (b *Buffer) Interleave(dst []float32) []float32 {
	n := b.frames * len(b.planes)
	if cap(dst) < n {
		dst = make([]float32, n)
	}

	dst = dst[:n]

	switch len(b.planes) {
	case 0:
	case 1:
		copy(dst, b.planes[0])
	case 2:
		f32.Interleave2(dst, b.planes[0], b.planes[1])
	default:
		channels := len(b.planes)
		for ch, p := range b.planes {
			for i, v := range p {
				dst[i*channels+ch] = v
			}
		}
	}

	return dst
}

// Deinterleave copies interleaved frames from src into the planes. It reads
// at most Frames() frames and returns the number of frames copied.
func (b *Buffer) Deinterleave(src []float32) int {
	channels := len(b.planes)
	if channels == 0 {
		return 0
	}

	frames := min(len(src)/channels, b.frames)
	for ch, p := range b.planes {
		for i := range frames {
			p[i] = src[i*channels+ch]
		}
	}

	return frames
}
