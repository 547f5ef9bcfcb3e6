// pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
)

// Source kinds the CLI can read contacts from
const (
	SourceCSV       = "csv"
	SourcePostgres  = "postgres"
	SourceSnowflake = "snowflake"
	SourceSQLite    = "sqlite"
)

// Config represents the application configuration
type Config struct {
	// Where the input table comes from
	Source string

	// Database connections, loaded only for the selected source
	Snowflake *SnowflakeConfig
	Postgres  *PostgresConfig
	SQLite    *SQLiteConfig

	// Upper bound on reading the source table
	FetchTimeout time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	return LoadConfigFor("")
}

// LoadConfigFor loads configuration with source taking precedence over $SOURCE when non-empty
func LoadConfigFor(source string) (*Config, error) {
	if source == "" {
		source = getEnv("SOURCE", SourceCSV)
	}

	cfg := &Config{
		// Default values
		Source:       strings.ToLower(strings.TrimSpace(source)),
		FetchTimeout: time.Duration(getEnvAsInt("FETCH_TIMEOUT_SECONDS", 300)) * time.Second,
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.LoadSourceConfig(); err != nil {
		return nil, err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadSourceConfig loads the database configuration required by the selected source
func (c *Config) LoadSourceConfig() error {
	switch c.Source {
	case SourceSnowflake:
		snowConfig, err := LoadSnowflakeConfig()
		if err != nil {
			return fmt.Errorf("failed to load Snowflake configuration: %w", err)
		}
		c.Snowflake = snowConfig
	case SourcePostgres:
		pgConfig, err := LoadPostgresConfig()
		if err != nil {
			return fmt.Errorf("failed to load PostgreSQL configuration: %w", err)
		}
		c.Postgres = pgConfig
	case SourceSQLite:
		sqliteConfig, err := LoadSQLiteConfig()
		if err != nil {
			return fmt.Errorf("failed to load SQLite configuration: %w", err)
		}
		c.SQLite = sqliteConfig
	}
	return nil
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	var err error

	switch c.Source {
	case SourceCSV:
	case SourceSnowflake:
		if c.Snowflake == nil {
			err = multierr.Append(err, errors.New("snowflake configuration is required"))
		}
	case SourcePostgres:
		if c.Postgres == nil {
			err = multierr.Append(err, errors.New("postgreSQL configuration is required"))
		}
	case SourceSQLite:
		if c.SQLite == nil {
			err = multierr.Append(err, errors.New("sqlite configuration is required"))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("unknown source %q (expected csv, postgres, snowflake or sqlite)", c.Source))
	}

	if c.FetchTimeout <= 0 {
		err = multierr.Append(err, errors.New("fetch timeout must be positive"))
	}

	switch c.LogFormat {
	case "json", "console":
	default:
		err = multierr.Append(err, fmt.Errorf("unknown log format %q", c.LogFormat))
	}

	return err
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
