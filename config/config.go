package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	Server struct {
		Port    string `env:"SERVER_PORT" envDefault:"5250"`
		GinMode string `env:"GIN_MODE" envDefault:"release"`

		// Comma separated list, "*" allows any origin
		AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	}

	Log struct {
		Level string `env:"LOG_LEVEL" envDefault:"info"`
	}

	Database struct {
		// sqlite or postgres
		Driver string `env:"DB_DRIVER" envDefault:"sqlite"`

		// Connection string for postgres; ignored for sqlite
		DSN string `env:"DB_DSN"`

		SQLitePath      string        `env:"SQLITE_PATH" envDefault:"database/housing.db"`
		MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"20"`
		MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
		ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"1h"`

		// Run AutoMigrate when the server starts
		AutoMigrate bool `env:"DB_AUTO_MIGRATE" envDefault:"false"`
	}

	Search struct {
		RecordsDefaultPageSize int `env:"RECORDS_DEFAULT_PAGE_SIZE" envDefault:"5"`
		UnitsDefaultPageSize   int `env:"UNITS_DEFAULT_PAGE_SIZE" envDefault:"10"`
		MaxPageSize            int `env:"MAX_PAGE_SIZE" envDefault:"50"`

		// Number of distinct projects returned by the autocomplete
		AutocompleteLimit int `env:"AUTOCOMPLETE_LIMIT" envDefault:"20"`

		// Number of rows read before collapsing duplicate project names
		AutocompleteFetchLimit int `env:"AUTOCOMPLETE_FETCH_LIMIT" envDefault:"100"`

		// Longest accepted autocomplete query, in characters
		AutocompleteMaxQuery int `env:"AUTOCOMPLETE_MAX_QUERY" envDefault:"100"`
	}

	Cache struct {
		// none, memory or redis. A memory cache is only invalidated by
		// writes made through the same process.
		Backend       string        `env:"CACHE_BACKEND" envDefault:"none"`
		TTL           time.Duration `env:"CACHE_TTL" envDefault:"1m"`
		RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
		RedisPassword string        `env:"REDIS_PASSWORD"`
		RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	}

	Import struct {
		// Maximum number of rows per batch pushed to the queue
		BatchSize int `env:"IMPORT_BATCH_SIZE" envDefault:"200"`

		// Number of concurrent batch processors
		ProcessorCount int `env:"IMPORT_PROCESSOR_COUNT" envDefault:"2"`

		// Maximum number of retries for failed batches
		MaxRetries int `env:"IMPORT_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"IMPORT_RETRY_DELAY" envDefault:"5"`

		// Number of batches the queue buffers before Push blocks
		QueueSize int `env:"IMPORT_QUEUE_SIZE" envDefault:"16"`
	}
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		// A missing .env is fine, variables may come from the environment
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Database.Driver) {
	case "sqlite":
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("DB_DSN is required when DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	switch strings.ToLower(c.Cache.Backend) {
	case "memory", "redis", "none":
	default:
		return fmt.Errorf("unsupported CACHE_BACKEND %q", c.Cache.Backend)
	}

	if c.Search.MaxPageSize <= 0 {
		return fmt.Errorf("MAX_PAGE_SIZE must be positive")
	}
	if c.Search.RecordsDefaultPageSize <= 0 || c.Search.UnitsDefaultPageSize <= 0 {
		return fmt.Errorf("default page sizes must be positive")
	}
	if c.Search.AutocompleteFetchLimit < c.Search.AutocompleteLimit {
		return fmt.Errorf("AUTOCOMPLETE_FETCH_LIMIT must be at least AUTOCOMPLETE_LIMIT")
	}
	if c.Import.BatchSize <= 0 || c.Import.ProcessorCount <= 0 {
		return fmt.Errorf("import batch size and processor count must be positive")
	}
	return nil
}
