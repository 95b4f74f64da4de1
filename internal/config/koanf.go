// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/crawlspeed/config.yaml",
	"/etc/crawlspeed/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Sequell: SequellConfig{
			URL:              "ws://127.0.0.1:8080/sequell",
			HandshakeTimeout: 10 * time.Second,
			SendRate:         1,
			SendBurst:        1,
			PingInterval:     30 * time.Second,
			ReadTimeout:      90 * time.Second,
			QueueSize:        64,
		},
		Sync: SyncConfig{
			Enabled:      true,
			Delay:        1000 * time.Millisecond,
			Timeout:      95000 * time.Millisecond,
			PlayerLimit:  10,
			SkipMorgue:   false,
			FilterMin:    "dur",
			FilterMax:    "",
			Aggregations: []string{"player", "race", "background", "god"},
			Interval:     24 * time.Hour,
		},
		Highscore: HighscoreConfig{
			Enabled:  true,
			URL:      "https://crawl.akrasiac.org/scoring/top-combo-scores.html",
			Source:   "cao",
			Timeout:  30 * time.Second,
			Interval: 6 * time.Hour,
		},
		Database: DatabaseConfig{
			Path:      "/data/crawlspeed.duckdb",
			MaxMemory: "1GB",
			Threads:   0, // 0 = use runtime.NumCPU()
		},
		Server: ServerConfig{
			Port:    3860,
			Host:    "0.0.0.0",
			Timeout: 30 * time.Second,
		},
		NATS: NATSConfig{
			Enabled: false,
			URL:     "nats://127.0.0.1:4222",
			Topic:   "crawlspeed.job",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// Precedence is ENV > File > Defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// SEQUELL_URL -> sequell.url
	// SYNC_PLAYER_LIMIT -> sync.player_limit
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"sync.aggregations",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		// An empty value disables every axis.
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unmapped variables are ignored so unrelated environment does not leak into config.
var envMappings = map[string]string{
	// Sequell bridge
	"sequell_url":               "sequell.url",
	"sequell_handshake_timeout": "sequell.handshake_timeout",
	"sequell_send_rate":         "sequell.send_rate",
	"sequell_send_burst":        "sequell.send_burst",
	"sequell_ping_interval":     "sequell.ping_interval",
	"sequell_read_timeout":      "sequell.read_timeout",
	"sequell_queue_size":        "sequell.queue_size",

	// Game info sweep
	"sync_enabled":        "sync.enabled",
	"sync_delay":          "sync.delay",
	"sync_timeout":        "sync.timeout",
	"sync_player_limit":   "sync.player_limit",
	"sync_skip_morgue":    "sync.skip_morgue",
	"sync_filter_min":     "sync.filter_min",
	"sync_filter_max":     "sync.filter_max",
	"sync_aggregations":   "sync.aggregations",
	"sync_interval":       "sync.interval",
	"sync_checkpoint_dir": "sync.checkpoint_dir",

	// Combo highscores
	"highscore_enabled":  "highscore.enabled",
	"highscore_url":      "highscore.url",
	"highscore_source":   "highscore.source",
	"highscore_timeout":  "highscore.timeout",
	"highscore_interval": "highscore.interval",

	// Database
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	// Server
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",

	// NATS
	"nats_enabled":  "nats.enabled",
	"nats_url":      "nats.url",
	"nats_embedded": "nats.embedded",
	"nats_topic":    "nats.topic",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - SEQUELL_URL -> sequell.url
//   - SYNC_PLAYER_LIMIT -> sync.player_limit
//   - DUCKDB_PATH -> database.path
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
