// SPDX-License-Identifier: EPL-2.0

package tonemix_test

import (
	"context"
	"fmt"

	"github.com/ik5/tonemix"
	"github.com/ik5/tonemix/audio"
	"github.com/ik5/tonemix/internal/audiotest"
)

// Example_synthesize mixes two tones into memory.
func Example_synthesize() {
	sink := audiotest.NewBufferSink()

	stats, err := tonemix.Synthesize(context.Background(),
		[]audio.Frequency{2, 4}, 2,
		sink.Opener(),
	)
	if err != nil {
		fmt.Printf("synthesize error: %v\n", err)
		return
	}

	fmt.Printf("% X\n", sink.Bytes())
	fmt.Printf("normalized: %v\n", stats.Normalized)
	// Output:
	// 80 00 00 FF FF FF
	// normalized: true
}

// Example_singleTone shows the size of the raw output: three bytes per
// sample, no header.
func Example_singleTone() {
	sink := audiotest.NewBufferSink()

	stats, err := tonemix.Synthesize(context.Background(),
		[]audio.Frequency{1000}, 4,
		sink.Opener(),
		tonemix.WithWorkers(1),
	)
	if err != nil {
		fmt.Printf("synthesize error: %v\n", err)
		return
	}

	fmt.Printf("samples=%d bytes=%d first=% X\n", stats.Samples, stats.Bytes, sink.Bytes()[:3])
	// Output: samples=4 bytes=12 first=80 00 00
}
