// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// Frequency identifies a single tone. It is used as the period-length
// parameter of the generated sine and as the grouping key for samples.
type Frequency int

const (
	MinFrequency Frequency = 1
	MaxFrequency Frequency = 10000
)

// Validate reports whether f is inside [MinFrequency, MaxFrequency].
func (f Frequency) Validate() error {
	if f < MinFrequency || f > MaxFrequency {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrFrequencyOutOfRange, f, MinFrequency, MaxFrequency)
	}

	return nil
}

// Chunk is a contiguous run of samples produced for one Frequency.
// Once pushed into a queue the producer must not touch Samples again.
type Chunk struct {
	Frequency Frequency
	Samples   []float64
}

// Len returns the number of samples carried by the chunk.
func (c Chunk) Len() int { return len(c.Samples) }

type Source interface {
	// ReadSamples fills dst with mono float64 samples, nominally in [-1,1].
	// Returns number of values written. When the last samples are delivered
	// err is io.EOF; later calls return 0, io.EOF.
	ReadSamples(dst []float64) (n int, err error)

	// Remaining samples still to be produced.
	Remaining() int

	BufSize() int

	// Close releases any resources.
	Close() error
}
