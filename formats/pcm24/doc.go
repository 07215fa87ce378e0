// SPDX-License-Identifier: EPL-2.0

// Package pcm24 encodes samples as raw big-endian unsigned 24-bit PCM.
//
// There is no header, no channel count and no sample rate in the output:
// every sample is exactly three bytes, most significant byte first.
//
// # Encoding
//
// A sample s in [-1, 1] is mapped to
//
//	pcm = round((s + 1) / 2 * (2^24 - 1))
//
// so -1 becomes 0x000000, 1 becomes 0xFFFFFF and 0 becomes 0x800000.
// Samples outside [-1, 1] are clamped.
//
//	data := pcm24.Encode([]float64{0, 1, -1})
//	// 80 00 00  FF FF FF  00 00 00
//
// For large buffers WritePCM24 streams the encoded bytes to an io.Writer
// in fixed-size chunks.
//
// # go-audio buffers
//
// Quantize turns a *audio.FloatBuffer from github.com/go-audio/audio into
// an *audio.IntBuffer holding the unsigned 24-bit values, and
// FromIntBuffer serializes such a buffer.
//
// # Decoding
//
// Decode reverses the mapping to float64, accurate to one quantization
// step:
//
//	samples, err := pcm24.Decode(data)
//	if errors.Is(err, pcm24.ErrTruncated) {
//	    // length was not a multiple of 3
//	}
package pcm24
