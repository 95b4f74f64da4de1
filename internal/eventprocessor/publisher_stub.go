// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

//go:build !nats

package eventprocessor

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
)

// Publisher is a stub when NATS is not enabled.
type Publisher struct{}

// NewPublisher returns ErrNATSNotAvailable when built without -tags=nats.
func NewPublisher(_ PublisherConfig, _ watermill.LoggerAdapter) (*Publisher, error) {
	return nil, ErrNATSNotAvailable
}

// PublishEvent is a stub.
func (p *Publisher) PublishEvent(_ context.Context, _ *JobEvent) error {
	return ErrNATSNotAvailable
}

// Close is a stub.
func (p *Publisher) Close() error {
	return nil
}
