package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Identity policies.
const (
	AuthModeName     = "name"
	AuthModePassword = "password"
)

// Config keeps runtime settings for the server.
type Config struct {
	HTTPAddr       string
	StorageBackend string
	DatabaseURL    string
	AuthMode       string
	JWTSecret      string
	SessionTTL     time.Duration
	// OverdueInterval is how often the overdue sweep runs; 0 disables it.
	// OverdueAt, when set (HH:MM), runs the sweep daily instead.
	OverdueInterval time.Duration
	OverdueAt       string
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:        strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		StorageBackend:  strings.TrimSpace(os.Getenv("STORAGE_BACKEND")),
		DatabaseURL:     strings.TrimSpace(os.Getenv("DATABASE_URL")),
		AuthMode:        strings.TrimSpace(os.Getenv("AUTH_MODE")),
		JWTSecret:       strings.TrimSpace(os.Getenv("JWT_SECRET")),
		SessionTTL:      parseHours(strings.TrimSpace(os.Getenv("SESSION_TTL_HOURS"))),
		OverdueInterval: parseHours(strings.TrimSpace(os.Getenv("OVERDUE_REPORT_INTERVAL_HOURS"))),
		OverdueAt:       strings.TrimSpace(os.Getenv("OVERDUE_REPORT_TIME")),
	}

	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.StorageBackend == "" {
		cfg.StorageBackend = BackendMemory
	}
	if cfg.AuthMode == "" {
		cfg.AuthMode = AuthModeName
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = 72 * time.Hour
	}
	if cfg.OverdueInterval == 0 && os.Getenv("OVERDUE_REPORT_INTERVAL_HOURS") == "" {
		cfg.OverdueInterval = 24 * time.Hour
	}
	if cfg.DatabaseURL == "" {
		switch cfg.StorageBackend {
		case BackendSQLite:
			cfg.DatabaseURL = "todo.db"
		case BackendFile:
			cfg.DatabaseURL = "todo.json"
		}
	}

	switch cfg.StorageBackend {
	case BackendMemory, BackendFile, BackendSQLite:
	default:
		return cfg, fmt.Errorf("STORAGE_BACKEND must be %s, %s or %s", BackendMemory, BackendFile, BackendSQLite)
	}

	switch cfg.AuthMode {
	case AuthModeName:
	case AuthModePassword:
		if cfg.JWTSecret == "" {
			return cfg, fmt.Errorf("JWT_SECRET is required when AUTH_MODE=%s", AuthModePassword)
		}
	default:
		return cfg, fmt.Errorf("AUTH_MODE must be %s or %s", AuthModeName, AuthModePassword)
	}

	return cfg, nil
}

func parseHours(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}
