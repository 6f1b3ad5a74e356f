// AdSynth - Synthetic Advertising Data and Analytics Platform
// Copyright 2026 AdSynth contributors
// SPDX-License-Identifier: MIT
// https://github.com/adsynth/adsynth

// Package config provides layered configuration loading for AdSynth.
package config

import "time"

// Config holds all application configuration loaded from environment variables
// and an optional YAML config file.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any setting
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Database  DatabaseConfig  `koanf:"database"`
	Generator GeneratorConfig `koanf:"generator"`
	Server    ServerConfig    `koanf:"server"`
	API       APIConfig       `koanf:"api"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// DatabaseConfig holds DuckDB configuration.
type DatabaseConfig struct {
	// Path is the DuckDB database file path. Use ":memory:" for an
	// in-memory database (tests, throwaway runs).
	Path string `koanf:"path"`

	// MaxMemory is the DuckDB memory limit (e.g. "2GB").
	MaxMemory string `koanf:"max_memory"`

	// Threads is the DuckDB thread count. 0 = use runtime.NumCPU().
	Threads int `koanf:"threads"`

	// PreserveInsertionOrder controls DuckDB result ordering vs memory usage.
	PreserveInsertionOrder bool `koanf:"preserve_insertion_order"`
}

// GeneratorConfig holds synthetic-data generation defaults. Each generate
// request may override these per call.
type GeneratorConfig struct {
	// Seed makes generation deterministic. 0 = derive from current time.
	Seed int64 `koanf:"seed"`

	// Advertisers is the default number of advertisers to synthesize.
	Advertisers int `koanf:"advertisers"`

	// CampaignsPerAdvertiser is the default campaign count per advertiser.
	CampaignsPerAdvertiser int `koanf:"campaigns_per_advertiser"`

	// FlightDays is the default campaign flight length in days.
	// Hourly facts are generated for every hour of the flight.
	FlightDays int `koanf:"flight_days"`

	// AssetDurationSeconds is the default video asset length used for
	// watch-time estimation when a creative carries no duration.
	AssetDurationSeconds float64 `koanf:"asset_duration_seconds"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port    int           `koanf:"port"`
	Host    string        `koanf:"host"`
	Timeout time.Duration `koanf:"timeout"`
}

// APIConfig holds API behavior configuration.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`

	// RateLimitReqs requests allowed per RateLimitWindow per client IP.
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
