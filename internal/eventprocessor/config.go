// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package eventprocessor

import (
	"time"

	"github.com/tomtom215/crawlspeed/internal/config"
)

// PublisherConfig holds NATS publisher connection settings.
type PublisherConfig struct {
	URL             string
	TopicPrefix     string
	MaxReconnects   int
	ReconnectWait   time.Duration
	ReconnectBuffer int
	PublishTimeout  time.Duration
	CircuitBreaker  CircuitBreakerConfig
}

// PublisherConfigFrom builds a publisher configuration from application config.
func PublisherConfigFrom(cfg config.NATSConfig) PublisherConfig {
	prefix := cfg.Topic
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return PublisherConfig{
		URL:             cfg.URL,
		TopicPrefix:     prefix,
		MaxReconnects:   -1,
		ReconnectWait:   2 * time.Second,
		ReconnectBuffer: 8 * 1024 * 1024,
		PublishTimeout:  5 * time.Second,
		CircuitBreaker:  DefaultCircuitBreakerConfig(),
	}
}
