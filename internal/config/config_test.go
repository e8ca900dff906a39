package config

import (
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TRACEWIRE_TRACE_DIR",
		"TRACEWIRE_THREAD_BUFFER_CAPACITY",
		"TRACEWIRE_LOG_LEVEL",
		"TRACEWIRE_LOG_PATH",
		"TRACEWIRE_LOG_MAX_SIZE_MB",
		"TRACEWIRE_LOG_MAX_BACKUPS",
		"TRACEWIRE_LOG_MAX_AGE_DAYS",
		"TRACEWIRE_LOG_COMPRESS",
		"TRACEWIRE_ARCHIVE_MAX_BACKUPS",
		"TRACEWIRE_ARCHIVE_MAX_AGE",
		"TRACEWIRE_ARCHIVE_COMPRESS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.TraceDir != DefaultTraceDir {
		t.Fatalf("expected default trace dir %q, got %q", DefaultTraceDir, cfg.TraceDir)
	}
	if cfg.ThreadBufferCapacity != DefaultThreadBufferCapacity {
		t.Fatalf("expected default thread buffer capacity %d, got %d", DefaultThreadBufferCapacity, cfg.ThreadBufferCapacity)
	}
	if cfg.Logging.Level != DefaultLogLevel {
		t.Fatalf("expected default log level %q, got %q", DefaultLogLevel, cfg.Logging.Level)
	}
	if cfg.Logging.Path != DefaultLogPath {
		t.Fatalf("expected default log path %q, got %q", DefaultLogPath, cfg.Logging.Path)
	}
	if cfg.Logging.MaxSizeMB != DefaultLogMaxSizeMB {
		t.Fatalf("expected default log max size %d, got %d", DefaultLogMaxSizeMB, cfg.Logging.MaxSizeMB)
	}
	if cfg.Logging.MaxBackups != DefaultLogMaxBackups {
		t.Fatalf("expected default log max backups %d, got %d", DefaultLogMaxBackups, cfg.Logging.MaxBackups)
	}
	if cfg.Logging.MaxAgeDays != DefaultLogMaxAgeDays {
		t.Fatalf("expected default log max age %d, got %d", DefaultLogMaxAgeDays, cfg.Logging.MaxAgeDays)
	}
	if cfg.Logging.Compress != DefaultLogCompress {
		t.Fatalf("expected default log compress %t, got %t", DefaultLogCompress, cfg.Logging.Compress)
	}
	if cfg.ArchiveMaxBackups != DefaultArchiveMaxBackups {
		t.Fatalf("expected default archive max backups %d, got %d", DefaultArchiveMaxBackups, cfg.ArchiveMaxBackups)
	}
	if cfg.ArchiveMaxAge != DefaultArchiveMaxAge {
		t.Fatalf("expected default archive max age %v, got %v", DefaultArchiveMaxAge, cfg.ArchiveMaxAge)
	}
	if cfg.ArchiveCompress != DefaultArchiveCompress {
		t.Fatalf("expected default archive compress %t, got %t", DefaultArchiveCompress, cfg.ArchiveCompress)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRACEWIRE_TRACE_DIR", "/var/run/tracewire/traces")
	t.Setenv("TRACEWIRE_THREAD_BUFFER_CAPACITY", "4096")
	t.Setenv("TRACEWIRE_LOG_LEVEL", "debug")
	t.Setenv("TRACEWIRE_LOG_PATH", "/var/log/tracewire.log")
	t.Setenv("TRACEWIRE_LOG_MAX_SIZE_MB", "512")
	t.Setenv("TRACEWIRE_LOG_MAX_BACKUPS", "4")
	t.Setenv("TRACEWIRE_LOG_MAX_AGE_DAYS", "2")
	t.Setenv("TRACEWIRE_LOG_COMPRESS", "false")
	t.Setenv("TRACEWIRE_ARCHIVE_MAX_BACKUPS", "3")
	t.Setenv("TRACEWIRE_ARCHIVE_MAX_AGE", "48h")
	t.Setenv("TRACEWIRE_ARCHIVE_COMPRESS", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.TraceDir != "/var/run/tracewire/traces" {
		t.Fatalf("unexpected trace dir: %q", cfg.TraceDir)
	}
	if cfg.ThreadBufferCapacity != 4096 {
		t.Fatalf("expected overridden thread buffer capacity, got %d", cfg.ThreadBufferCapacity)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected overridden log level debug, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Path != "/var/log/tracewire.log" {
		t.Fatalf("unexpected log path %q", cfg.Logging.Path)
	}
	if cfg.Logging.MaxSizeMB != 512 {
		t.Fatalf("expected log max size 512, got %d", cfg.Logging.MaxSizeMB)
	}
	if cfg.Logging.MaxBackups != 4 {
		t.Fatalf("expected log max backups 4, got %d", cfg.Logging.MaxBackups)
	}
	if cfg.Logging.MaxAgeDays != 2 {
		t.Fatalf("expected log max age 2, got %d", cfg.Logging.MaxAgeDays)
	}
	if cfg.Logging.Compress {
		t.Fatalf("expected log compression disabled")
	}
	if cfg.ArchiveMaxBackups != 3 {
		t.Fatalf("expected archive max backups 3, got %d", cfg.ArchiveMaxBackups)
	}
	if cfg.ArchiveMaxAge != 48*time.Hour {
		t.Fatalf("expected archive max age 48h, got %v", cfg.ArchiveMaxAge)
	}
	if cfg.ArchiveCompress {
		t.Fatalf("expected archive compression disabled")
	}
}

func TestLoadReturnsValidationErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRACEWIRE_THREAD_BUFFER_CAPACITY", "-1")
	t.Setenv("TRACEWIRE_LOG_MAX_SIZE_MB", "-1")
	t.Setenv("TRACEWIRE_LOG_MAX_BACKUPS", "-2")
	t.Setenv("TRACEWIRE_LOG_MAX_AGE_DAYS", "-3")
	t.Setenv("TRACEWIRE_LOG_COMPRESS", "notabool")
	t.Setenv("TRACEWIRE_ARCHIVE_MAX_BACKUPS", "-1")
	t.Setenv("TRACEWIRE_ARCHIVE_MAX_AGE", "-1h")
	t.Setenv("TRACEWIRE_ARCHIVE_COMPRESS", "notabool")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error from invalid configuration, got nil")
	}

	for _, want := range []string{
		"TRACEWIRE_THREAD_BUFFER_CAPACITY",
		"TRACEWIRE_LOG_MAX_SIZE_MB",
		"TRACEWIRE_LOG_MAX_BACKUPS",
		"TRACEWIRE_LOG_MAX_AGE_DAYS",
		"TRACEWIRE_LOG_COMPRESS",
		"TRACEWIRE_ARCHIVE_MAX_BACKUPS",
		"TRACEWIRE_ARCHIVE_MAX_AGE",
		"TRACEWIRE_ARCHIVE_COMPRESS",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected error to mention %s, got %q", want, err.Error())
		}
	}
}
