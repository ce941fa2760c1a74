package config

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	defaultAppEnv       = "dev"
	defaultDatabaseURL  = "labcore.db"
	defaultIsolation    = "serializable"
	defaultMaxOpenConns = "10"
	defaultDBLogLevel   = "warn"
)

// Config is built once in cmd/ and handed to constructors explicitly.
type Config struct {
	AppEnv   string
	LogMode  string
	Database DatabaseConfig
	Booking  BookingPolicy
}

type DatabaseConfig struct {
	// URL is either a postgres:// DSN or a SQLite path / file: URI.
	URL          string
	Isolation    string
	MaxOpenConns int
	LogLevel     string
}

// BookingPolicy holds the optional booking checks. Both are off by default,
// in which case any status transition is accepted and only recorded.
type BookingPolicy struct {
	StrictTransitions bool
	RejectOverlaps    bool
}

// Default returns a development configuration backed by SQLite.
func Default() Config {
	return Config{
		AppEnv:  defaultAppEnv,
		LogMode: defaultAppEnv,
		Database: DatabaseConfig{
			URL:          defaultDatabaseURL,
			Isolation:    defaultIsolation,
			MaxOpenConns: 10,
			LogLevel:     defaultDBLogLevel,
		},
	}
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = defaultAppEnv
	}
	cfg.AppEnv = strings.ToLower(appEnv)
	cfg.LogMode = strings.ToLower(strings.TrimSpace(getEnv("LOG_MODE", cfg.AppEnv)))

	cfg.Database.URL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.Database.Isolation = strings.ToLower(strings.TrimSpace(getEnv("DB_ISOLATION", defaultIsolation)))
	cfg.Database.LogLevel = strings.ToLower(strings.TrimSpace(getEnv("DB_LOG_LEVEL", defaultDBLogLevel)))

	var err error
	cfg.Database.MaxOpenConns, err = parseIntEnv("DB_MAX_OPEN_CONNS", defaultMaxOpenConns)
	if err != nil {
		return nil, err
	}

	cfg.Booking.StrictTransitions = parseBoolEnv("BOOKING_STRICT_TRANSITIONS", "false")
	cfg.Booking.RejectOverlaps = parseBoolEnv("BOOKING_REJECT_OVERLAPS", "false")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be > 0")
	}
	if _, ok := isolationLevels[c.Database.Isolation]; !ok {
		return fmt.Errorf("DB_ISOLATION must be one of: serializable, repeatable_read, read_committed")
	}
	switch c.Database.LogLevel {
	case "silent", "error", "warn", "info":
	default:
		return fmt.Errorf("DB_LOG_LEVEL must be one of: silent, error, warn, info")
	}
	if isProdLike(c.AppEnv) && !c.Database.IsPostgres() {
		return fmt.Errorf("in prod/release DATABASE_URL must point to PostgreSQL")
	}
	return nil
}

var isolationLevels = map[string]sql.IsolationLevel{
	"serializable":    sql.LevelSerializable,
	"repeatable_read": sql.LevelRepeatableRead,
	"read_committed":  sql.LevelReadCommitted,
}

// IsolationLevel falls back to serializable for unknown values.
func (d DatabaseConfig) IsolationLevel() sql.IsolationLevel {
	if lvl, ok := isolationLevels[d.Isolation]; ok {
		return lvl
	}
	return sql.LevelSerializable
}

func (d DatabaseConfig) IsPostgres() bool {
	return strings.HasPrefix(d.URL, "postgres://") || strings.HasPrefix(d.URL, "postgresql://")
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
