package overdrive

import (
	"testing"

	"github.com/cwbudde/algo-overdrive/internal/testutil"
)

func BenchmarkEngineProcessStereo512(b *testing.B) {
	e := New(Fixed{Drive: 0.8, Range: 200, Blend: 0.7, Volume: 1})
	buf := [][]float32{make([]float32, 512), make([]float32, 512)}
	testutil.FillSineF32(buf[0], 440, 48000, 0.5)
	testutil.FillSineF32(buf[1], 660, 48000, 0.5)

	b.ReportAllocs()
	b.SetBytes(2 * 512 * 4)
	b.ResetTimer()

	for range b.N {
		e.Process(buf, 2, 512)
	}
}

func BenchmarkShape(b *testing.B) {
	s := DefaultSettings()
	x := 0.1

	b.ReportAllocs()
	b.ResetTimer()

	for range b.N {
		x = Shape(x, s) + 0.1
	}

	_ = x
}
