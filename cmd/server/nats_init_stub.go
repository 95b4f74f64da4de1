// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

//go:build !nats

package main

import (
	"context"

	"github.com/tomtom215/crawlspeed/internal/config"
	"github.com/tomtom215/crawlspeed/internal/eventprocessor"
	"github.com/tomtom215/crawlspeed/internal/logging"
)

// EventComponents is a stub for non-NATS builds.
type EventComponents struct{}

// InitEvents is a no-op for non-NATS builds.
func InitEvents(cfg *config.Config) (*EventComponents, error) {
	if cfg.NATS.Enabled {
		logging.Warn().Msg("NATS_ENABLED=true but NATS support not compiled (build with -tags nats)")
	}
	return nil, nil
}

// Publisher always returns nil in non-NATS builds.
func (c *EventComponents) Publisher() eventprocessor.EventPublisher {
	return nil
}

// Shutdown is a no-op stub for non-NATS builds.
func (c *EventComponents) Shutdown(_ context.Context) {}
