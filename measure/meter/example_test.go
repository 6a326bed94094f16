package meter_test

import (
	"fmt"

	"github.com/cwbudde/algo-overdrive/measure/meter"
)

func ExampleMeter_Update() {
	m, err := meter.New()
	if err != nil {
		panic(err)
	}

	m.Update([][]float32{{0.25, -0.5, 0.125}}, 1, 3)

	fmt.Printf("%.2f dBFS\n", m.PeakDB(0))
	// Output: -6.02 dBFS
}
