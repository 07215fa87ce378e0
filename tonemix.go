// SPDX-License-Identifier: EPL-2.0

package tonemix

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ik5/tonemix/audio"
	"github.com/ik5/tonemix/internal/metrics"
	"github.com/ik5/tonemix/queue"
)

// Synthesize generates samples sine samples for every frequency, mixes
// them and writes the result as raw big-endian 24-bit PCM to the sink
// returned by open.
//
// The pipeline:
//  1. one Producer per frequency pushes chunks to a shared queue
//     (at most WithWorkers producers run at once)
//  2. a single Consumer drains the queue into per-frequency buffers
//  3. once every producer returned, the queue is marked completed
//  4. the consumer mixes, normalizes, encodes and writes
//
// A consumer failure cancels the producers. A producer failure cancels the
// consumer before the queue is completed, so nothing is written.
//
// Example:
//
//	stats, err := tonemix.Synthesize(ctx, []audio.Frequency{440, 880}, 48000,
//	    tonemix.FileSink("out.pcm"),
//	    tonemix.WithLogger(logger),
//	)
func Synthesize(ctx context.Context, freqs []audio.Frequency, samples int, open SinkOpener, opts ...Option) (Stats, error) {
	if len(freqs) == 0 {
		return Stats{}, ErrNoFrequencies
	}
	if samples < 1 {
		return Stats{}, fmt.Errorf("%w: %d", audio.ErrInvalidSampleCount, samples)
	}
	for _, f := range freqs {
		if err := f.Validate(); err != nil {
			return Stats{}, err
		}
	}

	o := newOptions(opts)
	if o.runID == "" {
		o.runID = uuid.NewString()
	}
	o.logger = o.logger.With(zap.String("run", o.runID))

	start := time.Now()
	stats, err := run(ctx, freqs, samples, open, o)
	metrics.StageDuration.WithLabelValues("run").Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.RunsTotal.WithLabelValues("error").Inc()
		o.logger.Error("synthesis failed", zap.Error(err))
		return stats, err
	}
	metrics.RunsTotal.WithLabelValues("ok").Inc()

	return stats, nil
}

type consumerResult struct {
	stats Stats
	err   error
}

func run(ctx context.Context, freqs []audio.Frequency, samples int, open SinkOpener, o options) (Stats, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	q := queue.New[audio.Chunk]()

	consumer := newConsumer(q, open, o)
	done := make(chan consumerResult, 1)
	go func() {
		stats, err := consumer.Run(ctx)
		if err != nil {
			cancel()
		}
		done <- consumerResult{stats: stats, err: err}
	}()

	g, gctx := errgroup.WithContext(ctx)
	if o.workers > 0 {
		g.SetLimit(o.workers)
	}

	for i, f := range freqs {
		src, err := audio.NewToneSource(f, samples)
		if err != nil {
			// Inputs were validated; only reachable through a bad Source.
			cancel()
			_ = g.Wait()
			q.MarkCompleted()
			<-done
			return Stats{}, err
		}

		p := newProducer(i, f, src, q, o)
		o.logger.Info("assigned frequency", zap.Int("frequency", int(f)), zap.Int("producer", i))
		g.Go(func() error { return p.Run(gctx) })
	}

	prodErr := g.Wait()
	if prodErr != nil {
		cancel()
	}
	// Every producer has returned: no further pushes can happen.
	q.MarkCompleted()

	res := <-done
	err := res.err
	if prodErr != nil && (err == nil || errors.Is(err, context.Canceled)) {
		err = prodErr
	}

	return res.stats, err
}

// FileSink opens (creating or truncating) the file at path.
func FileSink(path string) SinkOpener {
	return func() (io.WriteCloser, error) {
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
}
