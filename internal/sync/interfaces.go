// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package sync

import (
	"context"
	"errors"

	"github.com/tomtom215/crawlspeed/internal/models"
)

// ErrJobAlreadyStarted is returned by a second call to Start on the same job.
var ErrJobAlreadyStarted = errors.New("sync: job already started")

// ProtocolClient sends queries to the Sequell bot and delivers its replies.
// Implemented by sequell.Client.
type ProtocolClient interface {
	Send(ctx context.Context, message string) error
	LG(ctx context.Context, q models.LgQuery) error
	Log(ctx context.Context, q models.LogQuery) error
	Subscribe(fn func(models.SequellResult)) (unsubscribe func())
}

// GameInfoStore persists sweep results. Implemented by database.DB.
type GameInfoStore interface {
	UpsertGameInfo(ctx context.Context, info *models.GameInfo) (*models.GameInfo, error)
	UpsertMorgue(ctx context.Context, match models.MorgueMatch, morgue string) error
}

// CheckpointStore persists sweep progress between runs. Implemented by
// checkpoint.Store. LoadSweepState returns nil, nil when no checkpoint exists.
type CheckpointStore interface {
	LoadSweepState(ctx context.Context, job string) (*SweepState, error)
	SaveSweepState(ctx context.Context, job string, state *SweepState) error
	ClearSweepState(ctx context.Context, job string) error
}

// HighscoreStore persists combo highscores. Implemented by database.DB.
type HighscoreStore interface {
	UpsertComboHighscore(ctx context.Context, hs *models.ComboHighscore) error
}

// Scraper fetches the combo highscore list. Implemented by scraper.WebScraper.
type Scraper interface {
	FetchComboHighscores(ctx context.Context) ([]models.ComboHighscore, error)
}

// Job is a single run of a synchronization task.
type Job interface {
	// Start begins the run. The returned channel receives exactly one value
	// when the run ends and is then closed.
	Start(ctx context.Context) (<-chan error, error)
}

// Run starts job and waits for it to finish.
func Run(ctx context.Context, job Job) error {
	done, err := job.Start(ctx)
	if err != nil {
		return err
	}
	return <-done
}
