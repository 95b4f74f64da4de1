// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package sync

import (
	"slices"
	"time"

	"github.com/tomtom215/crawlspeed/internal/models"
)

// Defaults for GameInfoSyncJob. A zero or negative option value falls back to these.
const (
	DefaultDelay       = 1000 * time.Millisecond
	DefaultTimeout     = 95000 * time.Millisecond
	DefaultPlayerLimit = 10
)

// DefaultFilters asks Sequell for the shortest real-time win.
var DefaultFilters = models.QueryFilters{Min: "dur"}

// Option configures a GameInfoSyncJob.
type Option func(*GameInfoSyncJob)

// WithOnError registers an observer for non-fatal errors (persistence, sends).
func WithOnError(fn func(error)) Option {
	return func(j *GameInfoSyncJob) {
		if fn != nil {
			j.onError = fn
		}
	}
}

// WithOnTimeout registers an observer called with the query that got no reply.
// The query is a models.LgQuery, or a string for a replayed message.
func WithOnTimeout(fn func(query any)) Option {
	return func(j *GameInfoSyncJob) {
		if fn != nil {
			j.onTimeout = fn
		}
	}
}

// WithOnFinished registers an observer called once when the job ends.
func WithOnFinished(fn func()) Option {
	return func(j *GameInfoSyncJob) {
		j.onFinished = fn
	}
}

// WithDelay sets the pause before each query is sent.
func WithDelay(d time.Duration) Option {
	return func(j *GameInfoSyncJob) {
		if d > 0 {
			j.delay = d
		}
	}
}

// WithTimeout sets how long to wait for a reply after the query is sent.
func WithTimeout(d time.Duration) Option {
	return func(j *GameInfoSyncJob) {
		if d > 0 {
			j.timeout = d
		}
	}
}

// WithPlayerLimit bounds the player axis; it collects limit-1 distinct players.
func WithPlayerLimit(limit int) Option {
	return func(j *GameInfoSyncJob) {
		if limit > 0 {
			j.policy.playerLimit = limit
		}
	}
}

// WithSkipMorgue disables the morgue lookup after each stored game.
func WithSkipMorgue(skip bool) Option {
	return func(j *GameInfoSyncJob) {
		j.skipMorgue = skip
	}
}

// WithFilters replaces the filters merged into every query.
func WithFilters(f models.QueryFilters) Option {
	return func(j *GameInfoSyncJob) {
		j.filters = f
	}
}

// WithAggregations restricts the sweep to the given axes.
func WithAggregations(aggs ...models.AggregationType) Option {
	return func(j *GameInfoSyncJob) {
		j.policy.aggregations = slices.Clone(aggs)
	}
}

// WithSweepState starts the sweep from state instead of the full catalog.
// An explicit state takes precedence over a stored checkpoint.
func WithSweepState(state *SweepState) Option {
	return func(j *GameInfoSyncJob) {
		if state != nil {
			j.state = state
		}
	}
}

// WithCheckpoint saves sweep progress to store before each query and
// resumes from the stored progress on Start. The checkpoint is cleared
// when a sweep completes; a cancelled sweep keeps it.
func WithCheckpoint(store CheckpointStore) Option {
	return func(j *GameInfoSyncJob) {
		j.checkpoint = store
	}
}

// WithBots replaces the player names always excluded from queries.
func WithBots(bots []string) Option {
	return func(j *GameInfoSyncJob) {
		j.policy.bots = slices.Clone(bots)
	}
}
