// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package config

import (
	"fmt"
	"strings"

	"github.com/tomtom215/crawlspeed/internal/logging"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateSequell(); err != nil {
		return err
	}

	if err := c.validateSync(); err != nil {
		return err
	}

	if err := c.validateHighscore(); err != nil {
		return err
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateNATS(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateSequell validates the bridge connection only when a job needs it
func (c *Config) validateSequell() error {
	if !c.Sync.Enabled {
		return nil
	}
	if c.Sequell.URL == "" {
		return fmt.Errorf("SEQUELL_URL is required when SYNC_ENABLED=true")
	}
	if err := validateWebsocketURL(c.Sequell.URL, "SEQUELL_URL"); err != nil {
		return fmt.Errorf("SEQUELL_URL is invalid: %w", err)
	}
	if c.Sequell.HandshakeTimeout <= 0 {
		return fmt.Errorf("SEQUELL_HANDSHAKE_TIMEOUT must be positive, got %v", c.Sequell.HandshakeTimeout)
	}
	if c.Sequell.SendRate <= 0 {
		return fmt.Errorf("SEQUELL_SEND_RATE must be positive, got %v", c.Sequell.SendRate)
	}
	if c.Sequell.SendBurst < 1 {
		return fmt.Errorf("SEQUELL_SEND_BURST must be at least 1, got %d", c.Sequell.SendBurst)
	}
	if c.Sequell.PingInterval <= 0 {
		return fmt.Errorf("SEQUELL_PING_INTERVAL must be positive, got %v", c.Sequell.PingInterval)
	}
	if c.Sequell.ReadTimeout <= c.Sequell.PingInterval {
		return fmt.Errorf("SEQUELL_READ_TIMEOUT (%v) must exceed SEQUELL_PING_INTERVAL (%v)",
			c.Sequell.ReadTimeout, c.Sequell.PingInterval)
	}
	if c.Sequell.QueueSize < 1 {
		return fmt.Errorf("SEQUELL_QUEUE_SIZE must be at least 1, got %d", c.Sequell.QueueSize)
	}
	return nil
}

// validateSync validates the sweep settings (only if enabled)
func (c *Config) validateSync() error {
	if !c.Sync.Enabled {
		return nil
	}
	if c.Sync.Delay < 0 {
		return fmt.Errorf("SYNC_DELAY must not be negative, got %v", c.Sync.Delay)
	}
	if c.Sync.Timeout <= 0 {
		return fmt.Errorf("SYNC_TIMEOUT must be positive, got %v", c.Sync.Timeout)
	}
	if c.Sync.PlayerLimit < 0 {
		return fmt.Errorf("SYNC_PLAYER_LIMIT must not be negative, got %d", c.Sync.PlayerLimit)
	}
	if c.Sync.Interval < 0 {
		return fmt.Errorf("SYNC_INTERVAL must not be negative, got %v", c.Sync.Interval)
	}
	if _, err := c.Sync.AggregationTypes(); err != nil {
		return fmt.Errorf("SYNC_AGGREGATIONS is invalid: %w", err)
	}
	return nil
}

// validateHighscore validates the scraper settings (only if enabled)
func (c *Config) validateHighscore() error {
	if !c.Highscore.Enabled {
		return nil
	}
	if c.Highscore.URL == "" {
		return fmt.Errorf("HIGHSCORE_URL is required when HIGHSCORE_ENABLED=true")
	}
	if err := validatePageURL(c.Highscore.URL, "HIGHSCORE_URL"); err != nil {
		return fmt.Errorf("HIGHSCORE_URL is invalid: %w", err)
	}
	if strings.TrimSpace(c.Highscore.Source) == "" {
		return fmt.Errorf("HIGHSCORE_SOURCE is required when HIGHSCORE_ENABLED=true")
	}
	if c.Highscore.Timeout <= 0 {
		return fmt.Errorf("HIGHSCORE_TIMEOUT must be positive, got %v", c.Highscore.Timeout)
	}
	if c.Highscore.Interval < 0 {
		return fmt.Errorf("HIGHSCORE_INTERVAL must not be negative, got %v", c.Highscore.Interval)
	}
	return nil
}

// validateDatabase validates DuckDB settings
func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must not be negative, got %d", c.Database.Threads)
	}
	return nil
}

// validateServer validates HTTP server settings
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	return nil
}

// validateNATS validates NATS configuration (only if enabled)
func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}
	if err := validateNATSURL(c.NATS.URL); err != nil {
		return fmt.Errorf("NATS_URL is invalid: %w", err)
	}
	if c.NATS.Topic == "" {
		return fmt.Errorf("NATS_TOPIC is required when NATS_ENABLED=true")
	}
	return nil
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got: %s", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got: %s", c.Logging.Format)
	}
}
