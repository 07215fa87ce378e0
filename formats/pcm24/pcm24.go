// SPDX-License-Identifier: EPL-2.0

package pcm24

import (
	"fmt"

	goaudio "github.com/go-audio/audio"
	"github.com/ik5/tonemix/utils"
)

const (
	// BytesPerSample is the width of one encoded sample.
	BytesPerSample = 3
	// BitDepth of the encoded samples.
	BitDepth = 24
)

// PutUint24 stores the low 24 bits of v into b in big-endian order.
func PutUint24(b []byte, v uint32) {
	_ = b[2] // bounds check hint to compiler
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
}

// Uint24 reads a big-endian unsigned 24-bit value from b.
func Uint24(b []byte) uint32 {
	_ = b[2]
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

// Quantize converts a float buffer to unsigned 24-bit PCM values.
func Quantize(buf *goaudio.FloatBuffer) *goaudio.IntBuffer {
	ib := &goaudio.IntBuffer{
		Format:         buf.Format,
		Data:           make([]int, len(buf.Data)),
		SourceBitDepth: BitDepth,
	}

	for i, s := range buf.Data {
		ib.Data[i] = int(utils.Float64ToUint24(s))
	}

	return ib
}

// FromIntBuffer serializes quantized samples. Each value must already be
// in [0, 2^24-1].
func FromIntBuffer(ib *goaudio.IntBuffer) ([]byte, error) {
	if ib.SourceBitDepth != 0 && ib.SourceBitDepth != BitDepth {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, ib.SourceBitDepth)
	}

	out := make([]byte, len(ib.Data)*BytesPerSample)
	for i, v := range ib.Data {
		if v < 0 || v > utils.MaxUint24 {
			return nil, fmt.Errorf("%w: sample %d = %d", ErrSampleOutOfRange, i, v)
		}
		PutUint24(out[i*BytesPerSample:], uint32(v))
	}

	return out, nil
}

// Encode converts float samples straight to big-endian 24-bit bytes.
func Encode(samples []float64) []byte {
	out := make([]byte, len(samples)*BytesPerSample)
	EncodeInto(out, samples)

	return out
}

// EncodeInto writes len(samples)*BytesPerSample bytes into dst and returns
// the used portion. dst must be large enough.
func EncodeInto(dst []byte, samples []float64) []byte {
	for i, s := range samples {
		PutUint24(dst[i*BytesPerSample:], utils.Float64ToUint24(s))
	}

	return dst[:len(samples)*BytesPerSample]
}

// Decode converts big-endian 24-bit bytes back to float samples in [-1, 1].
func Decode(data []byte) ([]float64, error) {
	if len(data)%BytesPerSample != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncated, len(data))
	}

	out := make([]float64, len(data)/BytesPerSample)
	for i := range out {
		out[i] = utils.Uint24ToFloat64(Uint24(data[i*BytesPerSample:]))
	}

	return out, nil
}
