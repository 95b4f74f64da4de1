// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package checkpoint

import (
	"errors"
	"time"
)

// Config holds BadgerDB settings for the checkpoint store.
type Config struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps the store in memory only. Used by tests.
	InMemory bool

	SyncWrites bool

	// GCInterval between value log GC runs in Serve.
	GCInterval time.Duration

	// GCRatio is the discard ratio passed to RunValueLogGC.
	GCRatio float64

	CloseTimeout time.Duration
}

// DefaultConfig returns production settings for a store at path.
func DefaultConfig(path string) Config {
	return Config{
		Path:         path,
		SyncWrites:   true,
		GCInterval:   time.Hour,
		GCRatio:      0.5,
		CloseTimeout: 30 * time.Second,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if !c.InMemory && c.Path == "" {
		return errors.New("checkpoint path is required")
	}
	if c.GCRatio < 0 || c.GCRatio >= 1 {
		return errors.New("checkpoint GC ratio must be in [0, 1)")
	}
	return nil
}
