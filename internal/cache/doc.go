// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

// Package cache provides a small thread-safe TTL cache.
//
// It backs the status endpoint so that repeated polling does not issue
// COUNT queries against DuckDB on every request:
//
//	c := cache.New[models.SyncStatus](5 * time.Second)
//	status, err := c.GetOrLoad("status", func() (models.SyncStatus, error) {
//	    return loadStatus(ctx)
//	})
//
// Expired entries are removed lazily on access and by Cleanup, which
// callers may run periodically.
package cache
