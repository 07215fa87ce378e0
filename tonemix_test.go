// SPDX-License-Identifier: EPL-2.0

package tonemix

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ik5/tonemix/audio"
	"github.com/ik5/tonemix/formats/pcm24"
	"github.com/ik5/tonemix/internal/audiotest"
	"github.com/ik5/tonemix/queue"
)

func TestSynthesize_SingleTone(t *testing.T) {
	t.Parallel()

	sink := audiotest.NewBufferSink()
	stats, err := Synthesize(context.Background(), []audio.Frequency{1000}, 4, sink.Opener())
	require.NoError(t, err)

	out := sink.Bytes()
	require.Len(t, out, 12)
	require.Equal(t, []byte{0x80, 0x00, 0x00}, out[:3], "sin(0) encodes to mid-scale")
	require.Equal(t, 12, stats.Bytes)
	require.Equal(t, 4, stats.Samples)
	require.False(t, stats.Normalized)

	for i := 1; i < 4; i++ {
		require.Greater(t, pcm24.Uint24(out[i*3:]), pcm24.Uint24(out[(i-1)*3:]), "rising edge of the sine")
	}
}

func TestSynthesize_TwoTonesNormalized(t *testing.T) {
	t.Parallel()

	// sin(pi) is 1.22e-16, not 0: the second mixed sample rounds to
	// 1.0000000000000002 and triggers normalization.
	sink := audiotest.NewBufferSink()
	stats, err := Synthesize(context.Background(), []audio.Frequency{2, 4}, 2, sink.Opener())
	require.NoError(t, err)

	require.Equal(t, []byte{0x80, 0x00, 0x00, 0xFF, 0xFF, 0xFF}, sink.Bytes())
	require.True(t, stats.Normalized)
	require.Greater(t, stats.Peak, 1.0)
	require.Equal(t, 2, stats.Frequencies)
}

func TestSynthesize_MatchesDirectMix(t *testing.T) {
	t.Parallel()

	freqs := []audio.Frequency{3, 7, 440, 1000}
	const samples = 2600

	want := make([]float64, samples)
	for _, f := range freqs {
		src, err := audio.NewToneSource(f, samples)
		require.NoError(t, err)
		for i := range want {
			want[i] += src.Sample(i)
		}
	}
	peak := audio.Peak(want, audio.PeakAbsolute)
	if peak > 1 {
		for i := range want {
			want[i] /= peak
		}
	}

	for _, workers := range []int{0, 1, 2} {
		sink := audiotest.NewBufferSink()
		_, err := Synthesize(context.Background(), freqs, samples, sink.Opener(),
			WithWorkers(workers),
			WithChunkSize(333),
		)
		require.NoError(t, err, "workers=%d", workers)

		// Mixing happens in ascending frequency order regardless of
		// arrival order, so the bytes are exact.
		require.Equal(t, pcm24.Encode(want), sink.Bytes(), "workers=%d", workers)
	}
}

func TestSynthesize_RepeatedFrequencyIsOneTone(t *testing.T) {
	t.Parallel()

	sink := audiotest.NewBufferSink()
	stats, err := Synthesize(context.Background(), []audio.Frequency{8, 8}, 10, sink.Opener())
	require.NoError(t, err)

	// Both producers feed the same key: one tone of 20 samples.
	require.Equal(t, 1, stats.Frequencies)
	require.Equal(t, 20, stats.Samples)
	require.Len(t, sink.Bytes(), 60)
}

func TestSynthesize_PollingDrain(t *testing.T) {
	t.Parallel()

	blocking := audiotest.NewBufferSink()
	_, err := Synthesize(context.Background(), []audio.Frequency{5, 9, 17}, 4321, blocking.Opener())
	require.NoError(t, err)

	polling := audiotest.NewBufferSink()
	_, err = Synthesize(context.Background(), []audio.Frequency{5, 9, 17}, 4321, polling.Opener(),
		WithDrainMode(DrainPolling))
	require.NoError(t, err)

	require.Equal(t, blocking.Bytes(), polling.Bytes())
}

func TestSynthesize_PaddingWithUnevenTones(t *testing.T) {
	t.Parallel()

	q := queue.New[audio.Chunk]()
	sink := audiotest.NewBufferSink()
	c := NewConsumer(q, sink.Opener())

	done := make(chan error, 1)
	go func() {
		_, err := c.Run(context.Background())
		done <- err
	}()

	long, _ := audio.NewToneSource(4, 6)
	short := audiotest.NewConstantSource(2, 0.5)
	require.NoError(t, NewProducer(0, 4, long, q).Run(context.Background()))
	require.NoError(t, NewProducer(1, 2, short, q).Run(context.Background()))
	q.MarkCompleted()
	require.NoError(t, <-done)

	decoded, err := pcm24.Decode(sink.Bytes())
	require.NoError(t, err)
	require.Len(t, decoded, 6)

	// Frequency 2 contributes 0.5 for two samples and zero afterwards.
	// The mix peaks at 1.5 and is scaled by it.
	tone, _ := audio.NewToneSource(4, 6)
	want := make([]float64, 6)
	for i := range want {
		want[i] = tone.Sample(i)
		if i < 2 {
			want[i] += 0.5
		}
	}
	peak := audio.Peak(want, audio.PeakAbsolute)
	for i := range want {
		require.InDelta(t, want[i]/peak, decoded[i], 1e-6, "sample %d", i)
	}
}

func TestSynthesize_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		freqs   []audio.Frequency
		samples int
		want    error
	}{
		{"no frequencies", nil, 10, ErrNoFrequencies},
		{"zero samples", []audio.Frequency{10}, 0, audio.ErrInvalidSampleCount},
		{"negative samples", []audio.Frequency{10}, -3, audio.ErrInvalidSampleCount},
		{"frequency zero", []audio.Frequency{10, 0}, 10, audio.ErrFrequencyOutOfRange},
		{"frequency too high", []audio.Frequency{10001}, 10, audio.ErrFrequencyOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sink := audiotest.NewBufferSink()
			_, err := Synthesize(context.Background(), tt.freqs, tt.samples, sink.Opener())
			require.ErrorIs(t, err, tt.want)
			require.False(t, sink.Closed(), "output must not be opened for invalid input")
		})
	}
}

func TestSynthesize_OpenFailureStopsProducers(t *testing.T) {
	t.Parallel()

	_, err := Synthesize(context.Background(), []audio.Frequency{1, 2, 3}, 1_000_000, audiotest.FailingOpener)
	require.ErrorIs(t, err, ErrSinkOpen)
	require.ErrorIs(t, err, audiotest.ErrOpenFailed)
}

func TestSynthesize_WriteFailure(t *testing.T) {
	t.Parallel()

	sink := audiotest.NewFailingSink(&audiotest.FailingWriter{}, nil)
	_, err := Synthesize(context.Background(), []audio.Frequency{100}, 50, sink.Opener())
	require.ErrorIs(t, err, ErrSinkWrite)
	require.ErrorIs(t, err, audiotest.ErrWriteFailed)
}

func TestSynthesize_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := audiotest.NewBufferSink()
	_, err := Synthesize(ctx, []audio.Frequency{10, 20}, 10_000, sink.Opener())
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, sink.Bytes())
}

func TestPipeline_ProducerFailureWritesNothing(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	q := queue.New[audio.Chunk]()
	sink := audiotest.NewBufferSink()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := NewConsumer(q, sink.Opener())
	done := make(chan error, 1)
	go func() {
		_, err := consumer.Run(ctx)
		done <- err
	}()

	src := audiotest.NewConstantSource(0, 0.1).FailAfter(5, boom)
	prodErr := NewProducer(0, 3, src, q).Run(ctx)
	require.ErrorIs(t, prodErr, boom)

	// The orchestrator cancels before completing the queue.
	cancel()
	q.MarkCompleted()

	err := <-done
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, sink.Bytes(), "nothing is written after a producer failure")
}

func TestSynthesize_FileSink(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.pcm")
	stats, err := Synthesize(context.Background(), []audio.Frequency{1000}, 4, FileSink(path))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, data, 12)
	require.Equal(t, stats.Bytes, len(data))
}

func TestSynthesize_FileSinkBadPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "out.pcm")
	_, err := Synthesize(context.Background(), []audio.Frequency{1000}, 4, FileSink(path))
	require.ErrorIs(t, err, ErrSinkOpen)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestSynthesize_LogsRun(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	sink := audiotest.NewBufferSink()

	_, err := Synthesize(context.Background(), []audio.Frequency{2, 3}, 5, sink.Opener(),
		WithLogger(zap.New(core)),
		WithRunID("run-1"),
	)
	require.NoError(t, err)

	require.Equal(t, 2, logs.FilterMessage("assigned frequency").Len())
	require.Equal(t, 1, logs.FilterMessage("done writing").Len())
	for _, e := range logs.All() {
		require.Equal(t, "run-1", e.ContextMap()["run"], "record %q", e.Message)
	}
}
