package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Backend names accepted by DATA_BACKEND.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Insights providers accepted by INSIGHTS_PROVIDER.
const (
	ProviderStatic = "static"
	ProviderGemini = "gemini"
)

var (
	validBackends  = []string{BackendMemory, BackendFile, BackendSQLite, BackendPostgres, BackendRedis}
	validProviders = []string{ProviderStatic, ProviderGemini}
)

type Config struct {
	// HTTP Server
	Port string

	// Snapshot persistence
	DataBackend  string
	SnapshotFile string
	SQLiteDBPath string
	DatabaseURL  string
	RedisAddr    string
	RedisKey     string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Insights
	InsightsProvider string
	GeminiModel      string
	InsightsTTL      time.Duration
	InsightsTimeout  time.Duration

	// Google Sheets mirror
	GoogleSpreadsheetID string
	GoogleSheetName     string

	// Worker
	WorkerBackfill bool

	LogLevel string
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8081"),

		DataBackend:  getEnv("DATA_BACKEND", BackendMemory),
		SnapshotFile: getEnv("SNAPSHOT_FILE", "./data/snapshot.json"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/fintrack.db"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisKey:     getEnv("REDIS_KEY", "fintrack:snapshot"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "fintrack"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "transactions_recorded"),

		InsightsProvider: getEnv("INSIGHTS_PROVIDER", ProviderStatic),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		InsightsTTL:      getEnvDuration("INSIGHTS_TTL", time.Hour),
		InsightsTimeout:  getEnvDuration("INSIGHTS_TIMEOUT", 30*time.Second),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Transactions"),

		WorkerBackfill: getEnvBool("WORKER_BACKFILL", true),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case BackendFile:
		if c.SnapshotFile == "" {
			errors = append(errors, "snapshot file path cannot be empty when using file backend")
		} else if msg := ensureDir(c.SnapshotFile); msg != "" {
			errors = append(errors, msg)
		}
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else if msg := ensureDir(c.SQLiteDBPath); msg != "" {
			errors = append(errors, msg)
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errors = append(errors, "DATABASE_URL is required when using postgres backend")
		} else if u, err := url.Parse(c.DatabaseURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid DATABASE_URL: %v", err))
		} else if u.Scheme != "postgres" && u.Scheme != "postgresql" {
			errors = append(errors, fmt.Sprintf("invalid DATABASE_URL scheme '%s': must be 'postgres' or 'postgresql'", u.Scheme))
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			errors = append(errors, "REDIS_ADDR is required when using redis backend")
		}
		if c.RedisKey == "" {
			errors = append(errors, "REDIS_KEY cannot be empty when using redis backend")
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if !slices.Contains(validProviders, c.InsightsProvider) {
		errors = append(errors, fmt.Sprintf("invalid insights provider '%s': must be one of %v", c.InsightsProvider, validProviders))
	}
	if c.InsightsProvider == ProviderGemini && c.GeminiModel == "" {
		errors = append(errors, "GEMINI_MODEL cannot be empty when using gemini provider")
	}
	if c.InsightsTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid insights TTL %v: must be at least 1 second", c.InsightsTTL))
	}
	if c.InsightsTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid insights timeout %v: must be at least 1 second", c.InsightsTimeout))
	} else if c.InsightsTimeout > 10*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid insights timeout %v: must be at most 10 minutes", c.InsightsTimeout))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// SheetsEnabled reports whether the ledger mirror is configured.
func (c *Config) SheetsEnabled() bool {
	return c.GoogleSpreadsheetID != ""
}

// AMQPEnabled reports whether events are published.
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}

// ensureDir checks that the parent directory of path exists or can be created.
func ensureDir(path string) string {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return ""
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Sprintf("cannot create directory '%s': %v", dir, err)
		}
	}
	return ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
