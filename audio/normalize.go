// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"math"

	goaudio "github.com/go-audio/audio"
)

// PeakMode selects how the normalization peak of a mixed buffer is found.
type PeakMode int

const (
	// PeakAbsolute uses the largest magnitude, so negative excursions below
	// -1.0 are scaled as well.
	PeakAbsolute PeakMode = iota
	// PeakSigned uses the largest signed value. A buffer that only dips
	// below -1.0 is left untouched.
	PeakSigned
)

func (m PeakMode) String() string {
	switch m {
	case PeakAbsolute:
		return "abs"
	case PeakSigned:
		return "signed"
	default:
		return fmt.Sprintf("PeakMode(%d)", int(m))
	}
}

// ParsePeakMode accepts the names returned by PeakMode.String.
func ParsePeakMode(s string) (PeakMode, error) {
	switch s {
	case "abs", "absolute":
		return PeakAbsolute, nil
	case "signed":
		return PeakSigned, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownPeakMode, s)
}

// Peak returns the normalization peak of data. An empty slice has peak 0.
func Peak(data []float64, mode PeakMode) float64 {
	if len(data) == 0 {
		return 0
	}

	if mode == PeakSigned {
		peak := data[0]
		for _, s := range data[1:] {
			peak = max(peak, s)
		}
		return peak
	}

	var peak float64
	for _, s := range data {
		peak = max(peak, math.Abs(s))
	}

	return peak
}

// Normalize divides every sample by the peak when the peak exceeds 1.0.
// It returns the peak found and whether the buffer was scaled.
func Normalize(buf *goaudio.FloatBuffer, mode PeakMode) (float64, bool) {
	if buf == nil {
		return 0, false
	}

	peak := Peak(buf.Data, mode)
	if peak <= 1.0 {
		return peak, false
	}

	for i := range buf.Data {
		buf.Data[i] /= peak
	}

	return peak, true
}
