// SPDX-License-Identifier: EPL-2.0

// Package tonemix synthesizes a mix of sine tones and writes it as raw
// big-endian 24-bit unsigned PCM.
//
// # Pipeline
//
// Every requested frequency gets a Producer that generates the tone with
// an audio.ToneSource and pushes it, in chunks of at most 1000 samples, to
// a shared queue.Queue. A single Consumer drains the queue into one buffer
// per frequency. Once every producer has returned the queue is marked
// completed; the consumer then mixes the tones, normalizes the mix and
// writes it.
//
// # Frequencies
//
// A frequency is a period length in samples, 1 to 10000. Sample i of
// frequency f is sin(2*pi*i/f); there is no sample rate.
//
// # Mixing and normalization
//
// Tones are summed element-wise. Shorter tones contribute zero past their
// end. When the peak of the mix exceeds 1.0 every sample is divided by it.
// The peak is the largest magnitude by default (audio.PeakAbsolute);
// audio.PeakSigned uses the largest signed value instead.
//
// # Output format
//
// Each sample x in [-1, 1] maps to round((x+1)/2 * (2^24-1)) and is stored
// as three bytes, most significant first. There is no header. Values
// outside the range clamp.
//
// # Quick Start
//
//	stats, err := tonemix.Synthesize(ctx,
//	    []audio.Frequency{440, 880}, 48000,
//	    tonemix.FileSink("out.pcm"),
//	)
//	if err != nil {
//	    return err
//	}
//	fmt.Println("wrote", stats.Bytes, "bytes")
//
// # Subpackages
//
//   - audio: frequencies, chunks, tone generation, mixing and normalization
//   - queue: the completion-aware FIFO between producers and the consumer
//   - formats/pcm24: 24-bit PCM encoding and decoding
//   - utils: float to unsigned 24-bit conversion
package tonemix
