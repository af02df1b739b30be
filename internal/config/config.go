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
	FormateAPIKey string

	// Audit persistence
	RedisURL   string
	AuditScope string

	// Extra style templates
	TemplateDir string

	// Engine
	WorkerCount      int
	MaxQueueSize     int
	RunTTL           time.Duration
	ApplyStepTimeout time.Duration

	// Upload limits
	MaxUploadBytes int64

	// Scratch space for uploaded documents
	WorkDir string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		FormateAPIKey: os.Getenv("FORMATE_API_KEY"),

		RedisURL:   envOr("REDIS_URL", "redis://localhost:6379"),
		AuditScope: envOr("AUDIT_SCOPE", "global"),

		TemplateDir: os.Getenv("TEMPLATE_DIR"),

		WorkerCount:      envInt("WORKER_COUNT", 2),
		MaxQueueSize:     envInt("MAX_QUEUE_SIZE", 32),
		RunTTL:           envDuration("RUN_TTL", 1*time.Hour),
		ApplyStepTimeout: envDuration("APPLY_STEP_TIMEOUT", 2*time.Minute),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		WorkDir: envOr("WORK_DIR", os.TempDir()),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 32
	}
	if cfg.RunTTL <= 0 {
		cfg.RunTTL = 1 * time.Hour
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}

	return cfg
}

func (c Config) Validate() error {
	if c.FormateAPIKey == "" {
		return fmt.Errorf("FORMATE_API_KEY is required")
	}
	if c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required")
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
