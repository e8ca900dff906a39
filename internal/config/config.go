// Package config loads runtime tunables for the trace recorder, playback
// engine, and archive tooling from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultTraceDir is the directory the playback CLI replays when it is
	// given no path arguments.
	DefaultTraceDir = "traces"

	// DefaultThreadBufferCapacity is the preallocated size of each
	// emitting thread's append-only event buffer.
	DefaultThreadBufferCapacity = 1024

	// DefaultLogLevel controls verbosity for tracewire logs.
	DefaultLogLevel = "info"
	// DefaultLogPath is where structured logs are written.
	DefaultLogPath = "tracewire.log"
	// DefaultLogMaxSizeMB caps the size of a single log file before rotation.
	DefaultLogMaxSizeMB = 100
	// DefaultLogMaxBackups limits retained rotated log files.
	DefaultLogMaxBackups = 10
	// DefaultLogMaxAgeDays controls how long rotated log files are kept on disk.
	DefaultLogMaxAgeDays = 7
	// DefaultLogCompress toggles gzip compression for rotated log files.
	DefaultLogCompress = true

	// DefaultArchiveMaxBackups bounds how many compressed trace bundles
	// the archive retention sweep keeps per source directory.
	DefaultArchiveMaxBackups = 20
	// DefaultArchiveMaxAge bounds how long a compressed bundle survives
	// before the retention sweep removes it.
	DefaultArchiveMaxAge = 14 * 24 * time.Hour
	// DefaultArchiveCompress selects zstd bundling for archived traces.
	DefaultArchiveCompress = true
)

// Config captures all runtime tunables for tracewire's binaries.
type Config struct {
	TraceDir             string
	ThreadBufferCapacity int
	Logging              LoggingConfig
	ArchiveMaxBackups    int
	ArchiveMaxAge        time.Duration
	ArchiveCompress      bool
}

// LoggingConfig captures structured logging configuration options.
type LoggingConfig struct {
	Level      string
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Load reads the tracewire configuration from environment variables,
// applying sane defaults and returning descriptive errors for invalid
// overrides.
func Load() (*Config, error) {
	cfg := &Config{
		TraceDir:             getString("TRACEWIRE_TRACE_DIR", DefaultTraceDir),
		ThreadBufferCapacity: DefaultThreadBufferCapacity,
		Logging: LoggingConfig{
			Level:      strings.TrimSpace(getString("TRACEWIRE_LOG_LEVEL", DefaultLogLevel)),
			Path:       strings.TrimSpace(getString("TRACEWIRE_LOG_PATH", DefaultLogPath)),
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogMaxBackups,
			MaxAgeDays: DefaultLogMaxAgeDays,
			Compress:   DefaultLogCompress,
		},
		ArchiveMaxBackups: DefaultArchiveMaxBackups,
		ArchiveMaxAge:     DefaultArchiveMaxAge,
		ArchiveCompress:   DefaultArchiveCompress,
	}

	var problems []string

	if raw := strings.TrimSpace(os.Getenv("TRACEWIRE_THREAD_BUFFER_CAPACITY")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			problems = append(problems, fmt.Sprintf("TRACEWIRE_THREAD_BUFFER_CAPACITY must be a positive integer, got %q", raw))
		} else {
			cfg.ThreadBufferCapacity = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("TRACEWIRE_LOG_MAX_SIZE_MB")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			problems = append(problems, fmt.Sprintf("TRACEWIRE_LOG_MAX_SIZE_MB must be a positive integer, got %q", raw))
		} else {
			cfg.Logging.MaxSizeMB = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("TRACEWIRE_LOG_MAX_BACKUPS")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			problems = append(problems, fmt.Sprintf("TRACEWIRE_LOG_MAX_BACKUPS must be a non-negative integer, got %q", raw))
		} else {
			cfg.Logging.MaxBackups = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("TRACEWIRE_LOG_MAX_AGE_DAYS")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			problems = append(problems, fmt.Sprintf("TRACEWIRE_LOG_MAX_AGE_DAYS must be a non-negative integer, got %q", raw))
		} else {
			cfg.Logging.MaxAgeDays = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("TRACEWIRE_LOG_COMPRESS")); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("TRACEWIRE_LOG_COMPRESS must be a boolean value, got %q", raw))
		} else {
			cfg.Logging.Compress = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("TRACEWIRE_ARCHIVE_MAX_BACKUPS")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			problems = append(problems, fmt.Sprintf("TRACEWIRE_ARCHIVE_MAX_BACKUPS must be a non-negative integer, got %q", raw))
		} else {
			cfg.ArchiveMaxBackups = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("TRACEWIRE_ARCHIVE_MAX_AGE")); raw != "" {
		duration, err := time.ParseDuration(raw)
		if err != nil || duration < 0 {
			problems = append(problems, fmt.Sprintf("TRACEWIRE_ARCHIVE_MAX_AGE must be a non-negative duration, got %q", raw))
		} else {
			cfg.ArchiveMaxAge = duration
		}
	}

	if raw := strings.TrimSpace(os.Getenv("TRACEWIRE_ARCHIVE_COMPRESS")); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("TRACEWIRE_ARCHIVE_COMPRESS must be a boolean value, got %q", raw))
		} else {
			cfg.ArchiveCompress = value
		}
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf(strings.Join(problems, "; "))
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
