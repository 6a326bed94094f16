package buffer_test

import (
	"fmt"

	"github.com/cwbudde/algo-overdrive/dsp/buffer"
)

func ExampleBuffer_Interleave() {
	b := buffer.FromInterleaved([]float32{1, -1, 2, -2, 3, -3}, 2)
	fmt.Println(b.Channel(0), b.Channel(1))

	b.Scale(0.5)
	fmt.Println(b.Interleave(nil))

	// Output:
	// [1 2 3] [-1 -2 -3]
	// [0.5 -0.5 1 -1 1.5 -1.5]
}
