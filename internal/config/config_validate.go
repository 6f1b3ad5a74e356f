// AdSynth - Synthetic Advertising Data and Analytics Platform
// Copyright 2026 AdSynth contributors
// SPDX-License-Identifier: MIT
// https://github.com/adsynth/adsynth

package config

import (
	"fmt"
	"strings"
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateGenerator(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateAPI(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH must not be empty")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be >= 0, got %d", c.Database.Threads)
	}
	return nil
}

func (c *Config) validateGenerator() error {
	if c.Generator.Advertisers < 1 {
		return fmt.Errorf("GENERATOR_ADVERTISERS must be >= 1, got %d", c.Generator.Advertisers)
	}
	if c.Generator.CampaignsPerAdvertiser < 1 {
		return fmt.Errorf("GENERATOR_CAMPAIGNS must be >= 1, got %d", c.Generator.CampaignsPerAdvertiser)
	}
	if c.Generator.FlightDays < 1 {
		return fmt.Errorf("GENERATOR_FLIGHT_DAYS must be >= 1, got %d", c.Generator.FlightDays)
	}
	if c.Generator.AssetDurationSeconds <= 0 {
		return fmt.Errorf("GENERATOR_ASSET_DURATION must be > 0, got %v", c.Generator.AssetDurationSeconds)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be >= 1, got %d", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("API_MAX_PAGE_SIZE (%d) must be >= API_DEFAULT_PAGE_SIZE (%d)",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	if !c.API.RateLimitDisabled {
		if c.API.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be >= 1 when rate limiting is enabled, got %d", c.API.RateLimitReqs)
		}
		if c.API.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.API.RateLimitWindow)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true, "warn": true,
		"warning": true, "error": true, "fatal": true, "panic": true,
		"disabled": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}
