// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.

The API server and the refjob worker share this struct; the worker simply
ignores the HTTP-only settings.
*/
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/taibuivan/references/internal/platform/constants"
	"github.com/taibuivan/references/pkg/query"
)

// # Configuration Schema

// Config holds all runtime configuration for the references server and worker.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL holding the Omeka tables)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value store (Redis) holding the metadata job state.
	RedisURL string `env:"REDIS_URL,required"`

	// Identity. Without a public key every request is anonymous.
	JWTPubKeyPath string `env:"JWT_PUBLIC_KEY_PATH"`
	JWTIssuer     string `env:"JWT_ISSUER" envDefault:"omeka.local"`

	// Reference pages definition file (YAML).
	PagesFile  string `env:"PAGES_FILE"`
	PagesWatch bool   `env:"PAGES_WATCH" envDefault:"false"`

	// Metadata cache job
	JobBatchSize int `env:"JOB_BATCH_SIZE" envDefault:"100"`

	// Cross-Origin Resource Sharing (comma separated origins)
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.JobBatchSize <= 0 {
		cfg.JobBatchSize = constants.DefaultJobBatchSize
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins returns the explicit CORS origins.
func (c *Config) AllowedOrigins() []string {
	return query.StringSlice(c.ExtraOrigins)
}
