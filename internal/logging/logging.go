// Package logging builds the zap logger used by tonemix.
//
// Callers never wait on log I/O: records are encoded into a buffer that a
// background goroutine flushes to stdout or to a size-rotated log file.
package logging

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// DefaultMaxSizeMB matches the 1 MiB rotation threshold of the log files.
	DefaultMaxSizeMB = 1
	flushInterval    = 200 * time.Millisecond
	bufferSize       = 256 * 1024
)

type Options struct {
	// File enables file logging with rotation. Empty means stdout.
	File       string
	MaxSizeMB  int
	MaxBackups int
	Verbose    bool

	// Output overrides the console destination; used by tests.
	Output io.Writer
}

// New returns a logger and a function that flushes pending records and
// releases the sink. The close function must be called before exit.
func New(opts Options) (*zap.Logger, func() error, error) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if opts.Verbose {
		level.SetLevel(zapcore.DebugLevel)
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var (
		ws     zapcore.WriteSyncer
		closer io.Closer
	)

	switch {
	case opts.File != "":
		// lumberjack opens lazily; fail now rather than on the first record.
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		_ = f.Close()

		maxSize := opts.MaxSizeMB
		if maxSize <= 0 {
			maxSize = DefaultMaxSizeMB
		}
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    maxSize,
			MaxBackups: opts.MaxBackups,
		}
		ws = zapcore.AddSync(lj)
		closer = lj
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	case opts.Output != nil:
		ws = zapcore.AddSync(opts.Output)
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	default:
		ws = zapcore.Lock(os.Stdout)
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	buffered := &zapcore.BufferedWriteSyncer{
		WS:            ws,
		Size:          bufferSize,
		FlushInterval: flushInterval,
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), buffered, level)
	logger := zap.New(core, zap.ErrorOutput(zapcore.Lock(os.Stderr)))

	closeFn := func() error {
		_ = logger.Sync()
		if err := buffered.Stop(); err != nil {
			return fmt.Errorf("flush log: %w", err)
		}
		if closer != nil {
			if err := closer.Close(); err != nil {
				return fmt.Errorf("close log file: %w", err)
			}
		}
		return nil
	}

	return logger, closeFn, nil
}

// Hex formats v as uppercase hexadecimal without a prefix.
func Hex(v uint32) string {
	return strings.ToUpper(strconv.FormatUint(uint64(v), 16))
}

// HexField is a zap field carrying v formatted with Hex.
func HexField(key string, v uint32) zap.Field {
	return zap.String(key, Hex(v))
}
