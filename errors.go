// SPDX-License-Identifier: EPL-2.0

package tonemix

import "errors"

var (
	ErrNoFrequencies = errors.New("at least one frequency is required")
	ErrSinkOpen      = errors.New("cannot open output")
	ErrSinkWrite     = errors.New("cannot write output")
)
