// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package sync

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/tomtom215/crawlspeed/internal/logging"
	"github.com/tomtom215/crawlspeed/internal/metrics"
)

// ComboHighscoreJobName labels logs and metrics of the highscore job.
const ComboHighscoreJobName = "combo-highscore-sync"

// ComboHighscoreSyncJob copies the combo leaderboard into the store.
type ComboHighscoreSyncJob struct {
	scraper Scraper
	store   HighscoreStore
	started atomic.Bool
}

// NewComboHighscoreSyncJob creates a highscore job. Every job instance runs once.
func NewComboHighscoreSyncJob(scraper Scraper, store HighscoreStore) *ComboHighscoreSyncJob {
	return &ComboHighscoreSyncJob{scraper: scraper, store: store}
}

// Start fetches the leaderboard and upserts it in the background. The first
// failure ends the run; records written before it are kept.
func (j *ComboHighscoreSyncJob) Start(ctx context.Context) (<-chan error, error) {
	if !j.started.CompareAndSwap(false, true) {
		return nil, ErrJobAlreadyStarted
	}

	if logging.JobFromContext(ctx) == "" {
		ctx = logging.ContextWithJob(ctx, ComboHighscoreJobName)
	}

	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- j.run(ctx)
	}()
	return done, nil
}

func (j *ComboHighscoreSyncJob) run(ctx context.Context) error {
	logger := logging.Ctx(ctx)
	logger.Debug().Msg("Starting combo highscore sync")

	scores, err := j.scraper.FetchComboHighscores(ctx)
	if err != nil {
		return fmt.Errorf("fetch combo highscores: %w", err)
	}
	logger.Debug().Int("count", len(scores)).Msg("Fetched combo highscores, persisting")

	for i := range scores {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := j.store.UpsertComboHighscore(ctx, &scores[i])
		metrics.RecordPersist("combo_highscore", err)
		if err != nil {
			return fmt.Errorf("persist highscore %s: %w", scores[i].GID, err)
		}
	}

	logger.Info().Int("count", len(scores)).Msg("Combo highscore sync done")
	return nil
}
