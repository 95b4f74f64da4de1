// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package eventprocessor

import "errors"

var (
	// ErrNATSNotAvailable is returned by NewPublisher in builds without -tags=nats.
	ErrNATSNotAvailable = errors.New("NATS publisher not available: build with -tags=nats")

	// ErrPublisherClosed is returned when publishing after Close.
	ErrPublisherClosed = errors.New("publisher is closed")
)
