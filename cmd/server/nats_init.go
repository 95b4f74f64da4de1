// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

//go:build nats

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/crawlspeed/internal/config"
	"github.com/tomtom215/crawlspeed/internal/eventprocessor"
	"github.com/tomtom215/crawlspeed/internal/logging"
)

// EventComponents owns the NATS publisher and, when embedded, the NATS server.
type EventComponents struct {
	server    *eventprocessor.EmbeddedServer
	publisher *eventprocessor.Publisher
}

// InitEvents starts job event publishing when NATS_ENABLED=true.
func InitEvents(cfg *config.Config) (*EventComponents, error) {
	if !cfg.NATS.Enabled {
		logging.Info().Msg("Job event publishing disabled (NATS_ENABLED=false)")
		return nil, nil
	}

	pubCfg := eventprocessor.PublisherConfigFrom(cfg.NATS)
	components := &EventComponents{}

	if cfg.NATS.Embedded {
		srv, err := eventprocessor.NewEmbeddedServer(cfg.NATS.URL)
		if err != nil {
			return nil, fmt.Errorf("start embedded NATS server: %w", err)
		}
		components.server = srv
		pubCfg.URL = srv.ClientURL()
		logging.Info().Str("url", pubCfg.URL).Msg("Embedded NATS server started")
	}

	pub, err := eventprocessor.NewPublisher(pubCfg, eventprocessor.NewWatermillLogger())
	if err != nil {
		components.Shutdown(context.Background())
		return nil, fmt.Errorf("create NATS publisher: %w", err)
	}
	components.publisher = pub

	logging.Info().
		Str("url", pubCfg.URL).
		Str("topic_prefix", pubCfg.TopicPrefix).
		Msg("Job event publishing enabled")
	return components, nil
}

// Publisher returns the NATS publisher, or nil when publishing is off.
func (c *EventComponents) Publisher() eventprocessor.EventPublisher {
	if c == nil || c.publisher == nil {
		return nil
	}
	return c.publisher
}

// Shutdown closes the publisher, then the embedded server.
func (c *EventComponents) Shutdown(ctx context.Context) {
	if c == nil {
		return
	}
	if c.publisher != nil {
		if err := c.publisher.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing NATS publisher")
		}
	}
	if c.server != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := c.server.Shutdown(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("Error stopping embedded NATS server")
		}
	}
}
