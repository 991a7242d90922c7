package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Printer inventory
	PrintersFile string

	// Intake limits
	MaxDocumentBytes int64
	MaxQueueSize     int

	// Job state
	JobTTL time.Duration

	// History (empty path disables the ledger)
	LedgerPath string

	// Rendering
	PreviewWidth  int
	DriverTimeout time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8095"),

		APIKey: os.Getenv("RECEIPTD_API_KEY"),

		PrintersFile: envOr("PRINTERS_FILE", "printers.yaml"),

		MaxDocumentBytes: envInt64("MAX_DOCUMENT_BYTES", 1048576), // 1MB
		MaxQueueSize:     envInt("MAX_QUEUE_SIZE", 32),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		LedgerPath: os.Getenv("LEDGER_PATH"),

		PreviewWidth:  envInt("PREVIEW_WIDTH", 42),
		DriverTimeout: envDuration("DRIVER_TIMEOUT", 10*time.Second),
	}

	if cfg.MaxDocumentBytes <= 0 {
		cfg.MaxDocumentBytes = 1048576
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 32
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.PreviewWidth <= 0 {
		cfg.PreviewWidth = 42
	}
	if cfg.DriverTimeout <= 0 {
		cfg.DriverTimeout = 10 * time.Second
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("RECEIPTD_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
