// SPDX-License-Identifier: EPL-2.0

// Command tonemix mixes sine tones and writes them as raw big-endian 24-bit
// unsigned PCM.
//
//	tonemix <freqlist> <outfile> <samples> [--logfile=<path>] [--verbose]
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ik5/tonemix"
	"github.com/ik5/tonemix/internal/config"
	"github.com/ik5/tonemix/internal/logging"
	"github.com/ik5/tonemix/internal/metrics"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Parse(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tonemix:", err)
		fmt.Fprintln(os.Stderr, config.Usage)
		return 2
	}

	logger, closeLog, err := logging.New(logging.Options{
		File:      cfg.LogFile,
		MaxSizeMB: cfg.LogMaxSizeMB,
		Verbose:   cfg.Verbose,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "tonemix:", err)
		return 1
	}
	defer func() {
		if err := closeLog(); err != nil {
			fmt.Fprintln(os.Stderr, "tonemix:", err)
		}
	}()

	runID := uuid.NewString()
	logger = logger.With(zap.String("run", runID))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		srv := &http.Server{
			Addr:         cfg.MetricsAddr,
			Handler:      metrics.Handler(),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info("metrics listening", zap.String("addr", cfg.MetricsAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	drain := tonemix.DrainBlocking
	if cfg.Polling {
		drain = tonemix.DrainPolling
	}

	freqs := make([]int, len(cfg.Frequencies))
	for i, f := range cfg.Frequencies {
		freqs[i] = int(f)
	}
	logger.Info("tonemix starting",
		zap.Ints("frequencies", freqs),
		zap.Int("samples", cfg.Samples),
		zap.String("output", cfg.OutputPath),
		zap.Int("workers", cfg.Workers),
		zap.Stringer("peak", cfg.PeakMode),
		zap.Stringer("drain", drain),
	)

	stats, err := tonemix.Synthesize(ctx, cfg.Frequencies, cfg.Samples,
		tonemix.FileSink(cfg.OutputPath),
		tonemix.WithLogger(logger),
		tonemix.WithVerbose(cfg.Verbose),
		tonemix.WithWorkers(cfg.Workers),
		tonemix.WithChunkSize(cfg.ChunkSize),
		tonemix.WithPeakMode(cfg.PeakMode),
		tonemix.WithDrainMode(drain),
		tonemix.WithRunID(runID),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tonemix:", err)
		return 1
	}

	logger.Info("wrote output",
		zap.String("output", cfg.OutputPath),
		zap.Int("bytes", stats.Bytes),
		zap.Int("samples", stats.Samples),
		zap.Float64("peak", stats.Peak),
		zap.Bool("normalized", stats.Normalized),
	)

	return 0
}
