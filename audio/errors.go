// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrFrequencyOutOfRange = errors.New("frequency out of range")
	ErrInvalidSampleCount  = errors.New("sample count must be positive")
	ErrUnknownPeakMode     = errors.New("unknown peak mode")
)
