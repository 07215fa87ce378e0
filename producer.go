// SPDX-License-Identifier: EPL-2.0

package tonemix

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/ik5/tonemix/audio"
	"github.com/ik5/tonemix/internal/metrics"
	"github.com/ik5/tonemix/queue"
)

// Producer reads one tone from a Source and pushes it to the queue in
// chunks, in sample order. It never marks the queue completed.
type Producer struct {
	index     int
	freq      audio.Frequency
	src       audio.Source
	queue     *queue.Queue[audio.Chunk]
	chunkSize int
	verbose   bool
	logger    *zap.Logger
}

// NewProducer creates producer number index for freq. Every chunk read from
// src is tagged with freq.
func NewProducer(index int, freq audio.Frequency, src audio.Source, q *queue.Queue[audio.Chunk], opts ...Option) *Producer {
	return newProducer(index, freq, src, q, newOptions(opts))
}

func newProducer(index int, freq audio.Frequency, src audio.Source, q *queue.Queue[audio.Chunk], o options) *Producer {
	return &Producer{
		index:     index,
		freq:      freq,
		src:       src,
		queue:     q,
		chunkSize: o.chunkSize,
		verbose:   o.verbose,
		logger: o.logger.With(
			zap.Int("producer", index),
			zap.Int("frequency", int(freq)),
		),
	}
}

// Run generates until the source is exhausted. Cancellation is honoured
// between chunks; chunks already pushed stay in the queue.
func (p *Producer) Run(ctx context.Context) error {
	defer p.src.Close()

	metrics.ActiveProducers.Inc()
	defer metrics.ActiveProducers.Dec()

	p.logger.Info("generating samples", zap.Int("samples", p.src.Remaining()))

	index := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		size := p.chunkSize
		if rem := p.src.Remaining(); rem > 0 && rem < size {
			size = rem
		}

		// A fresh slice per chunk: ownership moves to the queue on Push.
		buf := make([]float64, size)
		n, err := p.src.ReadSamples(buf)
		if n > 0 {
			chunk := audio.Chunk{Frequency: p.freq, Samples: buf[:n:n]}
			if p.verbose {
				for i, s := range chunk.Samples {
					p.logger.Debug("sample", zap.Int("index", index+i), zap.Float64("value", s))
				}
			}

			p.queue.Push(chunk)
			index += n

			metrics.ChunksPushedTotal.Inc()
			metrics.SamplesGeneratedTotal.Add(float64(n))
			metrics.QueueDepth.Set(float64(p.queue.Len()))
			p.logger.Info("pushed chunk", zap.Int("samples", n))
		}

		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("producer %d (frequency %d): %w", p.index, p.freq, err)
		}
	}
}
