package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/Overland-East-Bay/club-subscriptions/internal/recordmap"
)

// Config is the service configuration, read from the environment.
type Config struct {
	Port string

	// StorageBackend is "memory" or "postgres".
	StorageBackend string
	DatabaseURL    string

	// DefaultSchema names the recordmap schema used when a request does not pick one.
	DefaultSchema string
	// PersonExpiryOffset is the end_dt shift of the person schema. The club tool's export
	// has historically needed +1h; set EXPIRY_OFFSET=0 to turn it off.
	PersonExpiryOffset time.Duration

	MaxUploadBytes int64

	LogFormat string
	LogLevel  slog.Level
}

func LoadConfigFromEnv() (Config, error) {
	cfg := Config{
		Port:               getenv("PORT", "8080"),
		StorageBackend:     getenv("STORAGE_BACKEND", "memory"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		DefaultSchema:      getenv("IMPORT_SCHEMA", recordmap.SchemaSubscription),
		PersonExpiryOffset: recordmap.DefaultPersonOffset,
		MaxUploadBytes:     10 << 20,
		LogFormat:          getenv("LOG_FORMAT", "json"),
		LogLevel:           slog.LevelInfo,
	}

	switch cfg.StorageBackend {
	case "memory":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("STORAGE_BACKEND=postgres requires DATABASE_URL")
		}
	default:
		return Config{}, fmt.Errorf("STORAGE_BACKEND must be memory or postgres, got %q", cfg.StorageBackend)
	}

	if _, err := recordmap.SchemaByName(cfg.DefaultSchema, 0); err != nil {
		return Config{}, fmt.Errorf("IMPORT_SCHEMA: %w", err)
	}

	if v := os.Getenv("EXPIRY_OFFSET"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("EXPIRY_OFFSET must be a duration (e.g. 1h): %w", err)
		}
		cfg.PersonExpiryOffset = d
	}
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("MAX_UPLOAD_BYTES must be a positive integer, got %q", v)
		}
		cfg.MaxUploadBytes = n
	}
	switch cfg.LogFormat {
	case "json", "text":
	default:
		return Config{}, fmt.Errorf("LOG_FORMAT must be json or text, got %q", cfg.LogFormat)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
		}
	}

	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
