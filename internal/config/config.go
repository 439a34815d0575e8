// Package config defines service configuration and its loading layers.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/okian/shotform/internal/domain/corpus"
	"github.com/okian/shotform/pkg/logger"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of job workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the remembered analysis ids.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// MaxFramesPerJob caps the frames in one submitted job.
	MaxFramesPerJob int `koanf:"max_frames_per_job"`

	// TopMatches is the number of reference shooters listed per report.
	TopMatches int `koanf:"top_matches"`

	// FixListLimit is the number of prioritized fixes per report; 0 keeps all.
	FixListLimit int `koanf:"fix_list_limit"`

	// CorpusSource is builtin, yaml or sqlite; CorpusPath locates the latter two.
	CorpusSource string `koanf:"corpus_source"`
	CorpusPath   string `koanf:"corpus_path"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           logger.FormatText,
		Addr:                ":9080",
		QueueSize:           1024,
		WorkerCount:         runtime.NumCPU(),
		DedupeSize:          50_000,
		MaxLeaderboardLimit: 100,
		MaxFramesPerJob:     120,
		TopMatches:          5,
		FixListLimit:        3,
		CorpusSource:        string(corpus.SourceBuiltin),
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.LogFormat != logger.FormatText && c.LogFormat != logger.FormatJSON:
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	case !corpus.Source(c.CorpusSource).Valid():
		return fmt.Errorf("%w: corpus_source %q", ErrInvalidConfig, c.CorpusSource)
	case corpus.Source(c.CorpusSource) != corpus.SourceBuiltin && c.CorpusPath == "":
		return fmt.Errorf("%w: corpus_path required for %s corpus", ErrInvalidConfig, c.CorpusSource)
	case c.TopMatches < 1:
		return fmt.Errorf("%w: top_matches must be >= 1", ErrInvalidConfig)
	case c.FixListLimit < 0:
		return fmt.Errorf("%w: fix_list_limit must be >= 0", ErrInvalidConfig)
	case c.MaxLeaderboardLimit < 1:
		return fmt.Errorf("%w: max_leaderboard_limit must be >= 1", ErrInvalidConfig)
	case c.QueueSize < 1 || c.MaxFramesPerJob < 1:
		return fmt.Errorf("%w: queue_size and max_frames_per_job must be >= 1", ErrInvalidConfig)
	}
	return nil
}
