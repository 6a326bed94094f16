package processor_test

import (
	"fmt"

	"github.com/cwbudde/algo-overdrive/param"
	"github.com/cwbudde/algo-overdrive/processor"
)

func Example() {
	p, err := processor.New()
	if err != nil {
		panic(err)
	}

	_ = p.Params().Set(param.IDVolume, 2)

	buf := [][]float32{{1, 0.5}, {-1, 0}}
	p.ProcessBlock(buf, 2, 2)
	fmt.Printf("%.3f %.3f %.3f\n", buf[0][0], buf[0][1], buf[1][0])

	blob, _ := p.State()

	restored, _ := processor.New()
	_ = restored.SetState(blob)
	fmt.Println(restored.Params().MustGet(param.IDVolume))

	// Output:
	// 0.500 0.295 -0.500
	// 2
}
