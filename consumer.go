// SPDX-License-Identifier: EPL-2.0

package tonemix

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync/atomic"
	"time"

	goaudio "github.com/go-audio/audio"
	"go.uber.org/zap"

	"github.com/ik5/tonemix/audio"
	"github.com/ik5/tonemix/formats/pcm24"
	"github.com/ik5/tonemix/internal/logging"
	"github.com/ik5/tonemix/internal/metrics"
	"github.com/ik5/tonemix/queue"
)

// ConsumerState is the stage a Consumer is in. States only move forward.
type ConsumerState int32

const (
	StateIdle ConsumerState = iota
	StateDraining
	StateFinalizing
	StateWriting
	StateDone
)

func (s ConsumerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDraining:
		return "draining"
	case StateFinalizing:
		return "finalizing"
	case StateWriting:
		return "writing"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("ConsumerState(%d)", int32(s))
	}
}

// SinkOpener opens the output the encoded PCM is written to.
type SinkOpener func() (io.WriteCloser, error)

// Stats summarizes a finished run.
type Stats struct {
	Frequencies int
	Chunks      int
	Samples     int
	Bytes       int
	Peak        float64
	Normalized  bool
}

// Consumer drains the queue, mixes every tone, normalizes, encodes to
// 24-bit PCM and writes the result. One Consumer serves one run.
type Consumer struct {
	queue  *queue.Queue[audio.Chunk]
	open   SinkOpener
	opts   options
	logger *zap.Logger
	state  atomic.Int32
}

func NewConsumer(q *queue.Queue[audio.Chunk], open SinkOpener, opts ...Option) *Consumer {
	return newConsumer(q, open, newOptions(opts))
}

func newConsumer(q *queue.Queue[audio.Chunk], open SinkOpener, o options) *Consumer {
	return &Consumer{
		queue:  q,
		open:   open,
		opts:   o,
		logger: o.logger.With(zap.String("component", "consumer")),
	}
}

// State reports the current stage; safe to call from any goroutine.
func (c *Consumer) State() ConsumerState {
	return ConsumerState(c.state.Load())
}

func (c *Consumer) setState(s ConsumerState) {
	c.state.Store(int32(s))
	c.logger.Debug("state", zap.Stringer("state", s))
}

// Run opens the sink and processes the queue until it is completed and
// empty. The sink is opened before draining so an unusable output fails
// the run early. Errors are not retried.
func (c *Consumer) Run(ctx context.Context) (Stats, error) {
	var stats Stats

	sink, err := c.open()
	if err != nil {
		c.logger.Error("failed to open output", zap.Error(err))
		return stats, fmt.Errorf("%w: %w", ErrSinkOpen, err)
	}
	closed := false
	defer func() {
		if !closed {
			_ = sink.Close()
		}
	}()

	c.setState(StateDraining)
	start := time.Now()
	acc := audio.NewAccumulator()
	if err := c.drain(ctx, acc); err != nil {
		return stats, err
	}
	// A cancelled run may still have completed the queue; never write a
	// partial mix.
	if err := ctx.Err(); err != nil {
		return stats, err
	}
	metrics.StageDuration.WithLabelValues("drain").Observe(time.Since(start).Seconds())

	c.setState(StateFinalizing)
	start = time.Now()
	mixed := acc.Mix()
	peak, scaled := audio.Normalize(mixed, c.opts.peakMode)
	if scaled {
		metrics.NormalizationsTotal.Inc()
		c.logger.Info("normalized mix", zap.Float64("peak", peak), zap.Stringer("mode", c.opts.peakMode))
	}
	if c.opts.verbose {
		c.logSamples(mixed)
	}
	metrics.StageDuration.WithLabelValues("finalize").Observe(time.Since(start).Seconds())

	c.setState(StateWriting)
	start = time.Now()
	n, err := pcm24.WritePCM24(sink, mixed.Data)
	metrics.BytesWrittenTotal.Add(float64(n))
	if err != nil {
		c.logger.Error("failed to write output", zap.Error(err), zap.Int("bytes", n))
		return stats, fmt.Errorf("%w: %w", ErrSinkWrite, err)
	}
	closed = true
	if err := sink.Close(); err != nil {
		c.logger.Error("failed to close output", zap.Error(err))
		return stats, fmt.Errorf("%w: %w", ErrSinkWrite, err)
	}
	metrics.StageDuration.WithLabelValues("write").Observe(time.Since(start).Seconds())

	stats = Stats{
		Frequencies: len(acc.Frequencies()),
		Chunks:      acc.Chunks(),
		Samples:     len(mixed.Data),
		Bytes:       n,
		Peak:        peak,
		Normalized:  scaled,
	}

	c.setState(StateDone)
	c.logger.Info("done writing",
		zap.Int("samples", n/pcm24.BytesPerSample),
		zap.Int("frequencies", stats.Frequencies),
	)

	return stats, nil
}

func (c *Consumer) drain(ctx context.Context, acc *audio.Accumulator) error {
	for {
		chunk, err := c.next(ctx)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		acc.Append(chunk)
		metrics.ChunksConsumedTotal.Inc()
		metrics.QueueDepth.Set(float64(c.queue.Len()))
		c.logger.Info("received chunk",
			zap.Int("frequency", int(chunk.Frequency)),
			zap.Int("samples", chunk.Len()),
		)
	}
}

// next returns the following chunk, or io.EOF once the queue is completed
// and a take attempted after observing completion came back empty.
func (c *Consumer) next(ctx context.Context) (audio.Chunk, error) {
	if c.opts.drain == DrainBlocking {
		return c.queue.Take(ctx)
	}

	for {
		if chunk, ok := c.queue.TryTake(); ok {
			return chunk, nil
		}
		if c.queue.IsCompleted() {
			// A chunk may have landed between the failed take and the flag.
			if chunk, ok := c.queue.TryTake(); ok {
				return chunk, nil
			}
			return audio.Chunk{}, io.EOF
		}
		if err := ctx.Err(); err != nil {
			return audio.Chunk{}, err
		}
		runtime.Gosched()
	}
}

func (c *Consumer) logSamples(mixed *goaudio.FloatBuffer) {
	quantized := pcm24.Quantize(mixed)
	for i, s := range mixed.Data {
		pcm := uint32(quantized.Data[i])
		c.logger.Debug("sample",
			zap.Int("index", i),
			zap.Float64("mixed", s),
			zap.Float64("normalized", (s+1.0)*0.5),
			zap.Uint32("pcm", pcm),
			logging.HexField("pcm_hex", pcm),
		)
	}
}
