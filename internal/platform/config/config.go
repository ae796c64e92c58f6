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

Configuration is read once at startup and handed to components through their
constructors. No package-level state holds it.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the collections API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Public read cache (Redis)
	RedisURL       string        `env:"REDIS_URL,required"`
	PublicCacheTTL time.Duration `env:"PUBLIC_CACHE_TTL" envDefault:"5m"`

	// JWTPubKeyPath points at the PEM key used to verify bearer tokens issued
	// by the identity provider.
	JWTPubKeyPath string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Object Storage (S3 or S3-compatible)
	S3Bucket   string `env:"S3_BUCKET"`
	S3Region   string `env:"S3_REGION"   envDefault:"us-east-1"`
	S3Endpoint string `env:"S3_ENDPOINT"`

	// Event bus
	AWSRegion    string `env:"AWS_REGION"      envDefault:"us-east-1"`
	EventBusName string `env:"EVENT_BUS_NAME"  envDefault:"default"`
	EventSource  string `env:"EVENT_SOURCE"    envDefault:"collection-events"`

	// CollectionLabelsLimit caps how many labels one collection may carry.
	CollectionLabelsLimit int `env:"COLLECTION_LABELS_LIMIT" envDefault:"1"`

	// Error tracking. An empty DSN disables reporting.
	SentryDSN string `env:"SENTRY_DSN"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {
	cfg := &Config{}

	// Fails if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.CollectionLabelsLimit < 0 {
		return nil, fmt.Errorf("config: COLLECTION_LABELS_LIMIT must not be negative, got %d", cfg.CollectionLabelsLimit)
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
