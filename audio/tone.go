// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"math"
)

// DefaultChunkSize is the largest number of samples a producer hands over
// in one Chunk.
const DefaultChunkSize = 1000

// ToneSource generates sin(2*pi*i/f) for i = 0 .. total-1.
//
// The frequency is a period length in samples, not a rate in Hz: a tone of
// frequency 4 repeats every 4 samples. There is no sample rate involved.
type ToneSource struct {
	freq      Frequency
	total     int
	generated int
	angular   float64
}

// NewToneSource creates a source producing total samples of freq.
func NewToneSource(freq Frequency, total int) (*ToneSource, error) {
	if err := freq.Validate(); err != nil {
		return nil, err
	}
	if total < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleCount, total)
	}

	return &ToneSource{
		freq:    freq,
		total:   total,
		angular: 2.0 * math.Pi / float64(freq),
	}, nil
}

func (t *ToneSource) Frequency() Frequency { return t.freq }
func (t *ToneSource) Remaining() int       { return t.total - t.generated }
func (t *ToneSource) BufSize() int         { return DefaultChunkSize }
func (t *ToneSource) Close() error         { return nil }

// Sample returns the value at absolute index i.
func (t *ToneSource) Sample(i int) float64 {
	return math.Sin(t.angular * float64(i))
}

func (t *ToneSource) ReadSamples(dst []float64) (int, error) {
	if t.generated >= t.total {
		return 0, io.EOF
	}
	if len(dst) == 0 {
		return 0, nil
	}

	n := min(len(dst), t.total-t.generated)
	for i := range n {
		dst[i] = t.Sample(t.generated + i)
	}
	t.generated += n

	if t.generated >= t.total {
		return n, io.EOF
	}

	return n, nil
}
