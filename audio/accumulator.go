// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"maps"
	"slices"

	goaudio "github.com/go-audio/audio"
)

// MonoFormat describes the mixed signal. The pipeline has no notion of a
// sample rate, so SampleRate stays zero.
var MonoFormat = &goaudio.Format{NumChannels: 1}

// Accumulator collects chunk samples per frequency in arrival order.
// It is not safe for concurrent use; a single consumer owns it.
type Accumulator struct {
	tones  map[Frequency][]float64
	maxLen int
	chunks int
}

func NewAccumulator() *Accumulator {
	return &Accumulator{
		tones: make(map[Frequency][]float64),
	}
}

// Append adds the samples of c to the buffer of c.Frequency.
func (a *Accumulator) Append(c Chunk) {
	buf := append(a.tones[c.Frequency], c.Samples...)
	a.tones[c.Frequency] = buf
	a.maxLen = max(a.maxLen, len(buf))
	a.chunks++
}

// Samples returns the accumulated samples for f. The slice is owned by the
// accumulator.
func (a *Accumulator) Samples(f Frequency) []float64 { return a.tones[f] }

func (a *Accumulator) Len(f Frequency) int { return len(a.tones[f]) }
func (a *Accumulator) MaxLen() int         { return a.maxLen }
func (a *Accumulator) Chunks() int         { return a.chunks }

// Frequencies returns the distinct frequencies seen, ascending.
func (a *Accumulator) Frequencies() []Frequency {
	return slices.Sorted(maps.Keys(a.tones))
}

// Mix sums all tones element-wise into a buffer of MaxLen samples.
// Shorter tones contribute zero past their end. Tones are added in
// ascending frequency order so the floating point result is reproducible.
func (a *Accumulator) Mix() *goaudio.FloatBuffer {
	mixed := make([]float64, a.maxLen)

	for _, f := range a.Frequencies() {
		for i, s := range a.tones[f] {
			mixed[i] += s
		}
	}

	return &goaudio.FloatBuffer{
		Format: MonoFormat,
		Data:   mixed,
	}
}
