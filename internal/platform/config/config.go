// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

A local .env file is loaded first (when present) through godotenv, then
'caarlos0/env' maps the process environment into a strongly-typed struct.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, sessions, tokens) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/netip"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Configuration Schema

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds all runtime configuration for the CSE Motors web server.
type Config struct {

	// Server settings
	Host           string        `env:"HOST"            envDefault:"localhost"`
	Port           string        `env:"PORT"            envDefault:"5500"`
	Environment    string        `env:"ENVIRONMENT"     envDefault:"development"`
	Debug          bool          `env:"DEBUG"           envDefault:"false"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`

	// TrustedProxies lists the CIDR prefixes whose X-Real-IP and
	// X-Forwarded-For headers are believed. Empty trusts no proxy.
	TrustedProxies []netip.Prefix `env:"TRUSTED_PROXIES" envSeparator:","`

	// Storage backend: "postgres", or "memory" for local demos and tests.
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`

	// Relational Database (PostgreSQL). Required by the postgres driver.
	DatabaseURL string `env:"DATABASE_URL"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Session storage. An empty RedisURL selects the in-process store.
	RedisURL             string        `env:"REDIS_URL"`
	SessionSecret        string        `env:"SESSION_SECRET,required,notEmpty"`
	SessionTTL           time.Duration `env:"SESSION_TTL"            envDefault:"2h"`
	SessionSweepSchedule string        `env:"SESSION_SWEEP_SCHEDULE" envDefault:"@every 5m"`

	// Bearer token signing
	AccessTokenSecret string        `env:"ACCESS_TOKEN_SECRET,required,notEmpty"`
	TokenCookieName   string        `env:"TOKEN_COOKIE_NAME" envDefault:"jwt"`
	TokenTTL          time.Duration `env:"TOKEN_TTL"         envDefault:"1h"`

	// Password hashing
	BcryptCost      int `env:"BCRYPT_COST"      envDefault:"12"`
	HashConcurrency int `env:"HASH_CONCURRENCY" envDefault:"4"`
}

// # Configuration Loading

// Load reads an optional .env file and parses the environment into a [Config].
func Load() (*Config, error) {

	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}

	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	switch cfg.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("config: DATABASE_URL is required by the postgres storage driver")
		}
	default:
		return nil, fmt.Errorf("config: unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("config: TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}
	if cfg.HashConcurrency < 1 {
		return nil, fmt.Errorf("config: HASH_CONCURRENCY must be at least 1, got %d", cfg.HashConcurrency)
	}

	return cfg, nil
}

// Addr returns the host:port pair the HTTP server binds to.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
