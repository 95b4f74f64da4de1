// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/crawlspeed/internal/models"
)

func highscores(n int) []models.ComboHighscore {
	out := make([]models.ComboHighscore, n)
	for i := range out {
		out[i] = models.ComboHighscore{GameInfo: lgResult("p", "Mi", "Be", i).GameInfo}
	}
	return out
}

func TestComboHighscoreSyncJob(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	job := NewComboHighscoreSyncJob(&fakeScraper{scores: highscores(3)}, store)

	if err := Run(context.Background(), job); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(store.highscores) != 3 {
		t.Errorf("stored = %d, want 3", len(store.highscores))
	}
	if _, err := job.Start(context.Background()); !errors.Is(err, ErrJobAlreadyStarted) {
		t.Errorf("second Start error = %v, want ErrJobAlreadyStarted", err)
	}
}

func TestComboHighscoreSyncJob_ScraperFailure(t *testing.T) {
	t.Parallel()

	scrapeErr := errors.New("page unavailable")
	store := newMemStore()
	job := NewComboHighscoreSyncJob(&fakeScraper{err: scrapeErr}, store)

	if err := Run(context.Background(), job); !errors.Is(err, scrapeErr) {
		t.Errorf("Run error = %v, want %v", err, scrapeErr)
	}
	if len(store.highscores) != 0 {
		t.Errorf("stored = %d, want 0", len(store.highscores))
	}
}

func TestComboHighscoreSyncJob_UpsertFailureKeepsEarlierRecords(t *testing.T) {
	t.Parallel()

	scores := highscores(3)
	storeErr := errors.New("constraint violated")
	store := newMemStore()
	store.highscoreErr = func(hs *models.ComboHighscore) error {
		if hs.GID == scores[1].GID {
			return storeErr
		}
		return nil
	}

	job := NewComboHighscoreSyncJob(&fakeScraper{scores: scores}, store)
	if err := Run(context.Background(), job); !errors.Is(err, storeErr) {
		t.Fatalf("Run error = %v, want %v", err, storeErr)
	}

	if _, ok := store.highscores[scores[0].GID]; !ok {
		t.Error("record written before the failure was lost")
	}
	if _, ok := store.highscores[scores[2].GID]; ok {
		t.Error("records after the failure should not be written")
	}
}
