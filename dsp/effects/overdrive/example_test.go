package overdrive_test

import (
	"fmt"

	"github.com/cwbudde/algo-overdrive/dsp/effects/overdrive"
)

func ExampleShape() {
	fmt.Printf("%.4f\n", overdrive.Shape(1, overdrive.DefaultSettings()))
	// Output: 0.2500
}

func ExampleEngine_Process() {
	e := overdrive.New(overdrive.Fixed{Drive: 1, Range: 1, Blend: 0, Volume: 2})

	buf := [][]float32{{0.5, -0.25}, {1, 0}}
	e.Process(buf, 2, 2)

	fmt.Println(buf[0], buf[1])
	// Output: [0.5 -0.25] [1 0]
}
