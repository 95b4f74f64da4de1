// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

/*
Package config provides centralized configuration management for Crawlspeed.

Configuration is loaded with Koanf v2 from three layers, later layers winning:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, ./config.yaml, or /etc/crawlspeed/config.yaml
 3. Environment variables, mapped explicitly by envTransformFunc

# Sections

  - sequell: websocket bridge to the Sequell bot (SEQUELL_URL, SEQUELL_SEND_RATE, ...)
  - sync: game info sweep (SYNC_DELAY, SYNC_TIMEOUT, SYNC_PLAYER_LIMIT, SYNC_AGGREGATIONS, SYNC_CHECKPOINT_DIR, ...)
  - highscore: combo highscore scraper (HIGHSCORE_URL, HIGHSCORE_SOURCE, ...)
  - database: DuckDB file (DUCKDB_PATH, DUCKDB_MAX_MEMORY, DUCKDB_THREADS)
  - server: operational HTTP endpoints (HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT)
  - nats: job event publishing (NATS_ENABLED, NATS_URL, NATS_EMBEDDED, NATS_TOPIC)
  - logging: LOG_LEVEL, LOG_FORMAT, LOG_CALLER

SYNC_AGGREGATIONS is a comma-separated list, for example "race,background".

# Usage

	cfg, err := config.Load()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
*/
package config
