// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package database

import (
	"errors"
	"io"

	"github.com/tomtom215/crawlspeed/internal/logging"
)

var (
	// ErrNotFound is returned by lookups for an unknown game id.
	ErrNotFound = errors.New("database: record not found")

	// ErrMorgueTargetNotFound is returned by UpsertMorgue when no row matches and
	// the match has no game id to create one from.
	ErrMorgueTargetNotFound = errors.New("database: no game matches morgue result")

	// ErrEmptyMorgueMatch is returned by UpsertMorgue for a match with no fields set.
	ErrEmptyMorgueMatch = errors.New("database: morgue match has no fields")
)

// closeWithLog closes a resource and logs any error
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource and explicitly ignores any error
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close() // Explicitly ignore error - cleanup is best-effort
	}
}
