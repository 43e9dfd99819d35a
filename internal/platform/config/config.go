// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. An optional '.env'
file in the working directory is loaded first (via 'joho/godotenv') so local
development does not require exporting variables by hand.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (pipeline, DB, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.

A missing or unrecognised ENVIRONMENT is a startup error: the process never
guesses which error presentation to use.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Deployment Environment

// Environment is the process-wide deployment tag. It is resolved once at
// startup and passed by value to every component that branches on it.
type Environment string

const (
	// Development shows raw fault diagnostics to the client.
	Development Environment = "Development"

	// Production shows a sanitized error page carrying a correlation identifier.
	Production Environment = "Production"
)

// ErrUnknownEnvironment is returned when ENVIRONMENT holds neither recognised value.
var ErrUnknownEnvironment = errors.New("config: unknown environment")

// ParseEnvironment maps a raw value onto an [Environment] (case-insensitive).
func ParseEnvironment(raw string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "development":
		return Development, nil
	case "production":
		return Production, nil
	default:
		return "", fmt.Errorf("%w: %q (expected %q or %q)", ErrUnknownEnvironment, raw, Development, Production)
	}
}

// UnmarshalText implements [encoding.TextUnmarshaler] so env.Parse validates the tag.
func (e *Environment) UnmarshalText(text []byte) error {
	parsed, err := ParseEnvironment(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// String returns the canonical name of the environment.
func (e Environment) String() string { return string(e) }

// IsDevelopment reports whether e is [Development].
func (e Environment) IsDevelopment() bool { return e == Development }

// IsProduction reports whether e is [Production].
func (e Environment) IsProduction() bool { return e == Production }

// Valid reports whether e is one of the two recognised values.
func (e Environment) Valid() bool { return e == Development || e == Production }

// # Configuration Schema

// Config holds all runtime configuration for the dashboard server.
type Config struct {

	// Server settings
	ServerPort  string      `env:"SERVER_PORT"  envDefault:"8080"`
	Environment Environment `env:"ENVIRONMENT,required,notEmpty"`
	Debug       bool        `env:"DEBUG"        envDefault:"false"`

	// PathBase is an optional mount prefix (e.g. "/app") applied to asset URLs.
	PathBase string `env:"PATH_BASE"`

	// ErrorPath is the route re-executed to render the production error page.
	ErrorPath string `env:"ERROR_PATH" envDefault:"/error"`

	// Relational Database (PostgreSQL). Optional: an in-memory user store is used when empty.
	DatabaseURL string `env:"DATABASE_URL"`

	// Key-Value Cache (Redis). Optional: session revocation stays in memory when empty.
	RedisURL string `env:"REDIS_URL"`

	// SessionSecret signs session cookies (HS256). Required in production.
	SessionSecret string `env:"SESSION_SECRET"`

	// TracingEnabled installs the OpenTelemetry stdout exporter.
	TracingEnabled bool `env:"TRACING_ENABLED" envDefault:"false"`

	// Per-IP rate limiting
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"100"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"150"`
}

// # Configuration Loading

// Load reads an optional .env file, parses environment variables into a
// [Config] struct and validates the result.
func Load() (*Config, error) {

	// A missing .env file is the normal case outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if ENVIRONMENT is missing, empty or unrecognised.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field rules that struct tags cannot express.
func (c *Config) Validate() error {
	if !c.Environment.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownEnvironment, c.Environment)
	}

	if c.Environment.IsProduction() && c.SessionSecret == "" {
		return errors.New("config: SESSION_SECRET is required in production")
	}

	if c.ErrorPath == "" || !strings.HasPrefix(c.ErrorPath, "/") {
		return fmt.Errorf("config: ERROR_PATH must be an absolute path, got %q", c.ErrorPath)
	}

	if c.PathBase != "" && (!strings.HasPrefix(c.PathBase, "/") || strings.HasSuffix(c.PathBase, "/")) {
		return fmt.Errorf("config: PATH_BASE must start and not end with '/', got %q", c.PathBase)
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment.IsDevelopment()
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment.IsProduction()
}
