// Package config manages environment variables.
//
// It reads variables from the process environment (and the `.env` file,
// if present), loads them into structured Go types, applies defaults and
// validates that required values are present so they can be reused
// across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (e.g. observability).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process env before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read using the prefix BANKS_. The prefix is stripped and the
	rest is lowercased, and "." separates nested keys:

		BANKS_SERVER.PORT        -> server.port        -> Config.Server.Port
		BANKS_DATASOURCE.KIND    -> datasource.kind    -> Config.DataSource.Kind
		BANKS_REDIS.ADDRESS      -> redis.address      -> Config.Redis.Address
*/

// EnvPrefix is the prefix every configuration variable must carry.
const EnvPrefix = "BANKS_"

// Data source kinds accepted by datasource.kind.
const (
	DataSourceMock     = "mock"
	DataSourceNetwork  = "network"
	DataSourcePostgres = "postgres"
)

// Config is the root configuration object for the application.
//
// Database and Redis are pointers because they are only needed by some
// data source setups. Observability is a pointer because it is optional;
// if not provided, defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	DataSource    DataSourceConfig     `koanf:"datasource" validate:"required"`
	Database      *DatabaseConfig      `koanf:"database"`
	Redis         *RedisConfig         `koanf:"redis"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
//
// Timeouts are stored as seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// RateLimit is the number of requests per second allowed per client IP.
	// Zero disables the limiter.
	RateLimit float64 `koanf:"rate_limit" validate:"min=0"`
}

// DataSourceConfig selects where bank records come from.
type DataSourceConfig struct {
	// Kind is one of "mock", "network" or "postgres".
	Kind string `koanf:"kind" validate:"required,oneof=mock network postgres"`

	// NetworkURL is the base URL of the remote bank API (network kind).
	NetworkURL string `koanf:"network_url" validate:"required,url"`

	// NetworkTimeout is the outbound request timeout in seconds.
	NetworkTimeout int `koanf:"network_timeout" validate:"min=1"`

	// CacheEnabled wraps the data source with the Redis cache.
	CacheEnabled bool `koanf:"cache_enabled"`

	// CacheTTL is how long cached records live, e.g. "30s".
	CacheTTL time.Duration `koanf:"cache_ttl" validate:"min=1s"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// RedisConfig contains Redis connection details.
// Address is typically "host:port".
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// LoadConfig loads configuration from environment variables, unmarshals it
// into Config, applies defaults, validates it and returns the result.
//
// Behavior summary:
//   - Loads env vars with prefix BANKS_
//   - Unmarshals into Config
//   - Applies defaults for everything left unset
//   - Validates struct tags and cross-field rules
//   - Forces observability service name + environment
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	applyDefaults(mainConfig)

	if err := mainConfig.Validate(); err != nil {
		return nil, err
	}

	return mainConfig, nil
}

// Validate runs the struct-tag validator and the rules that depend on more
// than one field.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if c.DataSource.Kind == DataSourcePostgres && c.Database == nil {
		return fmt.Errorf("datasource.kind=%s requires database settings", DataSourcePostgres)
	}

	if c.DataSource.CacheEnabled && c.Redis == nil {
		return fmt.Errorf("datasource.cache_enabled requires redis.address")
	}

	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("invalid observability config: %w", err)
	}

	return nil
}

// applyDefaults fills every optional value that was not provided.
func applyDefaults(c *Config) {
	if c.Primary.Env == "" {
		c.Primary.Env = "development"
	}

	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	c.Server.CORSAllowedOrigins = splitList(c.Server.CORSAllowedOrigins)
	if len(c.Server.CORSAllowedOrigins) == 0 {
		c.Server.CORSAllowedOrigins = []string{"*"}
	}

	if c.DataSource.Kind == "" {
		c.DataSource.Kind = DataSourceMock
	}
	if c.DataSource.NetworkURL == "" {
		c.DataSource.NetworkURL = "http://54.193.31.159"
	}
	if c.DataSource.NetworkTimeout == 0 {
		c.DataSource.NetworkTimeout = 10
	}
	if c.DataSource.CacheTTL == 0 {
		c.DataSource.CacheTTL = 30 * time.Second
	}

	defaults := DefaultObservabilityConfig()
	if c.Observability == nil {
		c.Observability = defaults
	}
	// Partially set observability blocks keep the defaults for the rest.
	if c.Observability.Logging.Level == "" {
		c.Observability.Logging.Level = defaults.Logging.Level
	}
	if c.Observability.Logging.Format == "" {
		c.Observability.Logging.Format = defaults.Logging.Format
	}
	if c.Observability.HealthChecks.Timeout == 0 {
		c.Observability.HealthChecks.Timeout = defaults.HealthChecks.Timeout
	}
	c.Observability.ServiceName = "bank-service"
	c.Observability.Environment = c.Primary.Env
}

// splitList expands comma-separated values. Env vars always arrive as a
// single string, so "a,b" lands in the slice as one element.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
