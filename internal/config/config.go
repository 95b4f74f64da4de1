// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/crawlspeed/internal/models"
)

// Config holds all application configuration.
type Config struct {
	Sequell   SequellConfig   `koanf:"sequell"`
	Sync      SyncConfig      `koanf:"sync"`
	Highscore HighscoreConfig `koanf:"highscore"`
	Database  DatabaseConfig  `koanf:"database"`
	Server    ServerConfig    `koanf:"server"`
	NATS      NATSConfig      `koanf:"nats"` // Optional: job event publishing (build tag: nats)
	Logging   LoggingConfig   `koanf:"logging"`
}

// SequellConfig holds the websocket bridge settings for the Sequell query bot.
type SequellConfig struct {
	// URL of the websocket bridge (ws:// or wss://).
	URL              string        `koanf:"url"`
	HandshakeTimeout time.Duration `koanf:"handshake_timeout"`

	// SendRate is the sustained number of outbound messages per second.
	// The bot throttles chatty clients, so keep this low.
	SendRate  float64 `koanf:"send_rate"`
	SendBurst int     `koanf:"send_burst"`

	PingInterval time.Duration `koanf:"ping_interval"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`

	// QueueSize bounds the outbound message queue.
	QueueSize int `koanf:"queue_size"`
}

// SyncConfig holds settings for the game info sweep.
type SyncConfig struct {
	Enabled     bool          `koanf:"enabled"`
	Delay       time.Duration `koanf:"delay"`   // Pause before each query is sent
	Timeout     time.Duration `koanf:"timeout"` // Reply deadline, counted after Delay
	PlayerLimit int           `koanf:"player_limit"`
	SkipMorgue  bool          `koanf:"skip_morgue"`
	FilterMin   string        `koanf:"filter_min"`
	FilterMax   string        `koanf:"filter_max"`

	// Aggregations lists the enabled sweep axes: player, race, background, god.
	Aggregations []string `koanf:"aggregations"`

	// Interval between sweeps. Zero runs a single sweep at startup.
	Interval time.Duration `koanf:"interval"`

	// CheckpointDir holds the BadgerDB sweep checkpoint. Empty disables
	// checkpointing and every sweep starts from the full catalog.
	CheckpointDir string `koanf:"checkpoint_dir"`
}

// HighscoreConfig holds settings for the combo highscore scraper.
type HighscoreConfig struct {
	Enabled  bool          `koanf:"enabled"`
	URL      string        `koanf:"url"`
	Source   string        `koanf:"source"` // Server tag stored on every scraped record (e.g. cao)
	Timeout  time.Duration `koanf:"timeout"`
	Interval time.Duration `koanf:"interval"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = use runtime.NumCPU()
}

// ServerConfig holds settings for the operational HTTP server.
type ServerConfig struct {
	Port    int           `koanf:"port"`
	Host    string        `koanf:"host"`
	Timeout time.Duration `koanf:"timeout"`
}

// NATSConfig holds job event publishing settings.
type NATSConfig struct {
	Enabled bool   `koanf:"enabled"`
	URL     string `koanf:"url"`

	// Embedded starts an in-process NATS server listening on URL's host and port.
	Embedded bool `koanf:"embedded"`

	// Topic is the prefix for job event subjects, e.g. crawlspeed.job
	Topic string `koanf:"topic"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// AggregationTypes parses Aggregations into typed values. Unknown names are an error.
func (s SyncConfig) AggregationTypes() ([]models.AggregationType, error) {
	types := make([]models.AggregationType, 0, len(s.Aggregations))
	for _, name := range s.Aggregations {
		agg, err := models.ParseAggregationType(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		types = append(types, agg)
	}
	return types, nil
}

// Filters returns the configured query filters.
func (s SyncConfig) Filters() models.QueryFilters {
	return models.QueryFilters{Min: s.FilterMin, Max: s.FilterMax}
}
