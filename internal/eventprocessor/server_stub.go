// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

//go:build !nats

package eventprocessor

import "context"

// EmbeddedServer is a stub when NATS is not enabled.
type EmbeddedServer struct{}

// NewEmbeddedServer returns ErrNATSNotAvailable when built without -tags=nats.
func NewEmbeddedServer(_ string) (*EmbeddedServer, error) {
	return nil, ErrNATSNotAvailable
}

// ClientURL is a stub.
func (s *EmbeddedServer) ClientURL() string { return "" }

// IsRunning is a stub.
func (s *EmbeddedServer) IsRunning() bool { return false }

// Shutdown is a stub.
func (s *EmbeddedServer) Shutdown(_ context.Context) error { return nil }
