// Package config loads engine configuration from environment variables and
// an optional config file, via viper. Env vars win over file values.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Storage drivers selectable via STORAGE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config groups all engine settings.
type Config struct {
	App     AppConfig
	Storage StorageConfig
	Stock   StockConfig
	HTTP    HTTPConfig
	JWT     JWTConfig
	Log     LogConfig
}

// AppConfig holds general application settings.
type AppConfig struct {
	Env  string // development, production
	Name string
}

// StorageConfig selects and parameterizes the backend.
type StorageConfig struct {
	// Driver is one of sqlite, postgres, memory.
	Driver string

	// SQLitePath is the database file for the embedded backend.
	SQLitePath string

	// PostgresDSN is the connection string for the hosted backend.
	PostgresDSN string
}

// StockConfig holds stock ledger policy.
type StockConfig struct {
	// RejectOversell makes sale decrements refuse to drive on-hand
	// quantity negative. Off by default: walk-in shops routinely sell
	// items the book count has not caught up with.
	RejectOversell bool
}

// HTTPConfig holds server listen settings.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr returns the listen address (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// JWTConfig holds session token verification settings.
type JWTConfig struct {
	Secret string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string // debug, info, warn, error
}

// Load reads configuration from env vars and an optional config.env file.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // file is optional

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "martpos")
	v.SetDefault("STORAGE_DRIVER", DriverSQLite)
	v.SetDefault("SQLITE_PATH", "martpos.db")
	v.SetDefault("POSTGRES_DSN", "")
	v.SetDefault("STOCK_REJECT_OVERSELL", false)
	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("LOG_LEVEL", "info")

	cfg := &Config{
		App: AppConfig{
			Env:  v.GetString("APP_ENV"),
			Name: v.GetString("APP_NAME"),
		},
		Storage: StorageConfig{
			Driver:      v.GetString("STORAGE_DRIVER"),
			SQLitePath:  v.GetString("SQLITE_PATH"),
			PostgresDSN: v.GetString("POSTGRES_DSN"),
		},
		Stock: StockConfig{
			RejectOversell: v.GetBool("STOCK_REJECT_OVERSELL"),
		},
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for the postgres driver")
		}
	case DriverMemory:
		// nothing to configure
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.App.Env == "production" && c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	return nil
}
