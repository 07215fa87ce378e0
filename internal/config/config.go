package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/ik5/tonemix/audio"
	"github.com/ik5/tonemix/internal/logging"
)

const Usage = "usage: tonemix <freqlist> <outfile> <samples> [--logfile=<path>] [--verbose] " +
	"[--workers=N] [--chunk-size=N] [--peak=abs|signed] [--drain=blocking|polling] " +
	"[--metrics-addr=host:port] [--log-max-size=MB]"

var (
	ErrUsage              = errors.New("wrong number of arguments")
	ErrInvalidFrequency   = errors.New("invalid frequency")
	ErrInvalidSampleCount = errors.New("invalid sample count")
	ErrEmptyOutput        = errors.New("output file name cannot be empty")
	ErrEmptyLogFile       = errors.New("log file path cannot be empty")
	ErrInvalidOption      = errors.New("invalid option")
)

type Config struct {
	Frequencies []audio.Frequency
	OutputPath  string
	Samples     int

	LogFile      string
	LogMaxSizeMB int
	Verbose      bool

	Workers     int
	ChunkSize   int
	PeakMode    audio.PeakMode
	Polling     bool
	MetricsAddr string
}

// Parse reads the command line (without the program name). Environment
// variables provide defaults for the optional settings; flags override them.
func Parse(args []string) (*Config, error) {
	cfg := &Config{}

	fs := pflag.NewFlagSet("tonemix", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	logFile := fs.String("logfile", "", "write logs to a rotating file at `path`")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "log every sample")
	fs.IntVar(&cfg.Workers, "workers", getEnvInt("TONEMIX_WORKERS", 0), "max concurrent producers, 0 = one per frequency")
	fs.IntVar(&cfg.ChunkSize, "chunk-size", getEnvInt("TONEMIX_CHUNK_SIZE", audio.DefaultChunkSize), "max samples per chunk")
	peak := fs.String("peak", getEnv("TONEMIX_PEAK", audio.PeakAbsolute.String()), "normalization peak: abs or signed")
	drain := fs.String("drain", getEnv("TONEMIX_DRAIN", "blocking"), "consumer drain mode: blocking or polling")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", getEnv("TONEMIX_METRICS_ADDR", ""), "serve /metrics on `addr`")
	fs.IntVar(&cfg.LogMaxSizeMB, "log-max-size", getEnvInt("TONEMIX_LOG_MAX_SIZE", logging.DefaultMaxSizeMB), "rotate log file after `MB`")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}

	if fs.NArg() != 3 {
		return nil, fmt.Errorf("%w: got %d positional arguments, want 3", ErrUsage, fs.NArg())
	}

	freqs, err := parseFrequencies(fs.Arg(0))
	if err != nil {
		return nil, err
	}
	cfg.Frequencies = freqs

	cfg.OutputPath = fs.Arg(1)
	if cfg.OutputPath == "" {
		return nil, ErrEmptyOutput
	}

	cfg.Samples, err = strconv.Atoi(strings.TrimSpace(fs.Arg(2)))
	if err != nil || cfg.Samples < 1 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSampleCount, fs.Arg(2))
	}

	if fs.Changed("logfile") {
		if *logFile == "" {
			return nil, ErrEmptyLogFile
		}
		cfg.LogFile = *logFile
	}

	if cfg.PeakMode, err = audio.ParsePeakMode(*peak); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}

	switch *drain {
	case "blocking":
	case "polling":
		cfg.Polling = true
	default:
		return nil, fmt.Errorf("%w: drain mode %q", ErrInvalidOption, *drain)
	}

	if cfg.Workers < 0 {
		return nil, fmt.Errorf("%w: workers %d", ErrInvalidOption, cfg.Workers)
	}
	if cfg.ChunkSize < 1 {
		return nil, fmt.Errorf("%w: chunk size %d", ErrInvalidOption, cfg.ChunkSize)
	}
	if cfg.LogMaxSizeMB < 1 {
		return nil, fmt.Errorf("%w: log max size %d", ErrInvalidOption, cfg.LogMaxSizeMB)
	}

	return cfg, nil
}

func parseFrequencies(list string) ([]audio.Frequency, error) {
	tokens := strings.Split(list, ",")
	freqs := make([]audio.Frequency, 0, len(tokens))

	for _, tok := range tokens {
		v, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFrequency, tok)
		}
		f := audio.Frequency(v)
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFrequency, err)
		}
		freqs = append(freqs, f)
	}

	return freqs, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
