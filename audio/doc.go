// SPDX-License-Identifier: EPL-2.0

// Package audio provides the signal building blocks of tonemix.
//
// This package contains:
//   - Frequency and Chunk, the unit of transfer between producers and the consumer
//   - Source interface for pulling samples
//   - ToneSource, the sine generator behind every producer
//   - Accumulator for per-frequency sample collection and mixing
//   - Peak and Normalize for keeping the mix inside [-1, 1]
//
// # Source Interface
//
//	type Source interface {
//	    ReadSamples(dst []float64) (int, error)
//	    Remaining() int
//	    BufSize() int
//	    Close() error
//	}
//
// A producer reads a Source in chunk-sized slices until io.EOF.
//
// # Tones
//
// A ToneSource of frequency f yields sin(2*pi*i/f) for sample index i.
// The frequency is a period length measured in samples; no sample rate is
// involved:
//
//	src, _ := audio.NewToneSource(4, 8)
//	buf := make([]float64, 8)
//	n, err := src.ReadSamples(buf) // 0, 1, 0, -1, 0, 1, 0, -1 ; err == io.EOF
//
// # Mixing
//
// Chunks are appended to an Accumulator keyed by frequency. Mix pads every
// tone with zeros up to the longest one and sums them:
//
//	acc := audio.NewAccumulator()
//	acc.Append(chunk)
//	mixed := acc.Mix() // *goaudio.FloatBuffer
//
// # Normalization
//
// When the peak of the mix exceeds 1.0 every sample is divided by it.
// PeakAbsolute looks at magnitudes, PeakSigned only at the largest signed
// value:
//
//	peak, scaled := audio.Normalize(mixed, audio.PeakAbsolute)
package audio
