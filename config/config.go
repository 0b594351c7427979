package config

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/caarlos0/env/v11"

	"catalog-etl/utils"
)

// Source kinds
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
)

// Config holds all application-level configuration
type Config struct {
	// Input
	Source      string `env:"CATALOG_SOURCE" envDefault:"csv"`
	InputPath   string `env:"CATALOG_INPUT" envDefault:"netflix_titles.csv"`
	Delimiter   string `env:"CATALOG_DELIMITER" envDefault:","`
	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"SQLITE_PATH"`
	SourceTable string `env:"SOURCE_TABLE" envDefault:"netflix_titles"`
	SourceOrder string `env:"SOURCE_ORDER_BY"` // empty keeps physical row order

	// Database connection
	MaxRetries   int `env:"MAX_RETRIES" envDefault:"3"`
	RetryDelayMS int `env:"RETRY_DELAY_MS" envDefault:"1000"` // base backoff

	// Output
	OutputPath  string `env:"CATALOG_OUTPUT" envDefault:"netflix_titles_processed.csv"`
	SummaryPath string `env:"CATALOG_SUMMARY_PATH"`

	// Report
	TopN int `env:"TOP_N" envDefault:"5"`

	Debug bool `env:"DEBUG" envDefault:"false"`
}

// Load reads configuration from environment variables or falls back to defaults
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, utils.NewPipelineError(utils.ErrConfig, "environment", 0, err)
	}
	return cfg, nil
}

// Validate checks settings that flags may have overridden
func (c *Config) Validate() error {
	invalid := func(format string, args ...interface{}) error {
		return utils.NewPipelineError(utils.ErrConfig, "config", 0, fmt.Errorf(format, args...))
	}

	switch c.Source {
	case SourceCSV:
		if c.InputPath == "" {
			return invalid("input path is required for the csv source")
		}
		if utf8.RuneCountInString(c.Delimiter) != 1 {
			return invalid("delimiter must be a single character, got %q", c.Delimiter)
		}
	case SourcePostgres:
		if c.DatabaseURL == "" {
			return invalid("DATABASE_URL is required for the postgres source")
		}
	case SourceSQLite:
		if c.SQLitePath == "" {
			return invalid("SQLITE_PATH is required for the sqlite source")
		}
	default:
		return invalid("unknown source %q (want csv, postgres or sqlite)", c.Source)
	}

	if c.TopN < 1 {
		return invalid("top-N must be at least 1, got %d", c.TopN)
	}
	if c.MaxRetries < 1 {
		return invalid("max retries must be at least 1, got %d", c.MaxRetries)
	}
	return nil
}

// DelimiterRune returns the configured delimiter as a rune
func (c *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	if r == utf8.RuneError {
		return ','
	}
	return r
}

// RetryDelay returns the base retry backoff
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMS) * time.Millisecond
}

// DSN returns the connection string for database sources
func (c *Config) DSN() string {
	if c.Source == SourceSQLite {
		return c.SQLitePath
	}
	return c.DatabaseURL
}

// SourceName describes where records come from, for logs and the summary file
func (c *Config) SourceName() string {
	switch c.Source {
	case SourceCSV:
		return c.InputPath
	case SourceSQLite:
		return "sqlite:" + c.SQLitePath + "/" + c.SourceTable
	default:
		return "postgres:" + c.SourceTable
	}
}
