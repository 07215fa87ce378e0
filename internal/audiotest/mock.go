// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"io"
	"math"
)

// MockSource is a test helper that generates audio data for testing.
// It implements the audio.Source interface (without importing it to avoid cycles).
type MockSource struct {
	totalSamples int // Total samples to generate
	generated    int // Samples generated so far
	waveform     func(sample int) float64
	readErr      error
	closed       bool
}

// NewMockSource creates a new mock audio source.
// waveform is a function that generates the sample value for an index.
func NewMockSource(totalSamples int, waveform func(sample int) float64) *MockSource {
	return &MockSource{
		totalSamples: totalSamples,
		waveform:     waveform,
	}
}

// NewSilentSource creates a mock source that generates silence (all zeros).
func NewSilentSource(totalSamples int) *MockSource {
	return NewMockSource(totalSamples, func(int) float64 { return 0 })
}

// NewConstantSource creates a mock source with constant value.
func NewConstantSource(totalSamples int, value float64) *MockSource {
	return NewMockSource(totalSamples, func(int) float64 { return value })
}

// NewPeriodSource generates sin(2*pi*i/period), the same waveform a tone
// producer emits.
func NewPeriodSource(totalSamples int, period float64) *MockSource {
	angular := 2 * math.Pi / period
	return NewMockSource(totalSamples, func(i int) float64 {
		return math.Sin(angular * float64(i))
	})
}

// NewIndexSource emits the sample index itself, which makes ordering
// mistakes easy to spot.
func NewIndexSource(totalSamples int) *MockSource {
	return NewMockSource(totalSamples, func(i int) float64 { return float64(i) })
}

// FailAfter makes ReadSamples return err once n samples were produced.
func (m *MockSource) FailAfter(n int, err error) *MockSource {
	m.totalSamples = n
	m.readErr = err
	return m
}

func (m *MockSource) Remaining() int { return m.totalSamples - m.generated }
func (m *MockSource) BufSize() int   { return 1000 }
func (m *MockSource) Closed() bool   { return m.closed }

func (m *MockSource) Close() error {
	m.closed = true
	return nil
}

// Reset resets the generated sample counter to allow re-reading
func (m *MockSource) Reset() {
	m.generated = 0
}

func (m *MockSource) ReadSamples(dst []float64) (int, error) {
	end := io.EOF
	if m.readErr != nil {
		end = m.readErr
	}

	if m.generated >= m.totalSamples {
		return 0, end
	}

	n := min(len(dst), m.totalSamples-m.generated)
	for i := range n {
		dst[i] = m.waveform(m.generated + i)
	}
	m.generated += n

	if m.generated >= m.totalSamples {
		return n, end
	}

	return n, nil
}
