// SPDX-License-Identifier: EPL-2.0

package tonemix

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/ik5/tonemix/audio"
)

// DrainMode selects how the consumer waits for chunks.
type DrainMode int

const (
	// DrainBlocking sleeps on the queue until a chunk arrives or the queue
	// is completed.
	DrainBlocking DrainMode = iota
	// DrainPolling spins on TryTake and IsCompleted, yielding the processor
	// between attempts.
	DrainPolling
)

func (m DrainMode) String() string {
	if m == DrainPolling {
		return "polling"
	}
	return "blocking"
}

type options struct {
	logger    *zap.Logger
	verbose   bool
	workers   int
	chunkSize int
	peakMode  audio.PeakMode
	drain     DrainMode
	runID     string
}

// Option configures Synthesize, producers and the consumer.
type Option func(*options)

func newOptions(opts []Option) options {
	o := options{
		logger:    zap.NewNop(),
		workers:   runtime.NumCPU(),
		chunkSize: audio.DefaultChunkSize,
		peakMode:  audio.PeakAbsolute,
		drain:     DrainBlocking,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithLogger sets the diagnostics logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithVerbose enables one debug record per generated and per encoded sample.
func WithVerbose(enabled bool) Option {
	return func(o *options) {
		o.verbose = enabled
	}
}

// WithWorkers bounds how many producers run at the same time. Zero or less
// runs one goroutine per frequency. The default is runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithChunkSize sets the maximum samples per chunk. Values below 1 are
// ignored. The default is audio.DefaultChunkSize.
func WithChunkSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.chunkSize = n
		}
	}
}

// WithPeakMode selects how the normalization peak is computed.
// The default is audio.PeakAbsolute.
func WithPeakMode(m audio.PeakMode) Option {
	return func(o *options) {
		o.peakMode = m
	}
}

func WithDrainMode(m DrainMode) Option {
	return func(o *options) {
		o.drain = m
	}
}

// WithRunID tags every log record of a run. Synthesize generates one when
// it is not set.
func WithRunID(id string) Option {
	return func(o *options) {
		o.runID = id
	}
}
