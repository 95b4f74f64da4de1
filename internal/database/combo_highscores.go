// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/crawlspeed/internal/metrics"
	"github.com/tomtom215/crawlspeed/internal/models"
)

const upsertComboHighscoreSQL = `
INSERT INTO combo_highscores (` + gameColumns + `, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (gid) DO UPDATE SET
	player = excluded.player,
	race = excluded.race,
	background = excluded.background,
	god = excluded.god,
	duration = excluded.duration,
	turns = excluded.turns,
	xl = excluded.xl,
	runes = excluded.runes,
	score = excluded.score,
	version = excluded.version,
	src = excluded.src,
	date = excluded.date,
	morgue = excluded.morgue,
	updated_at = excluded.updated_at`

// UpsertComboHighscore inserts or replaces the highscore keyed by hs.GID.
func (db *DB) UpsertComboHighscore(ctx context.Context, hs *models.ComboHighscore) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, upsertComboHighscoreSQL, append(gameArgs(&hs.GameInfo), time.Now().UTC())...)
	metrics.RecordDBQuery("upsert", "combo_highscores", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to upsert highscore %s: %w", hs.GID, err)
	}
	return nil
}

// GetComboHighscore returns the highscore for gid or ErrNotFound.
func (db *DB) GetComboHighscore(ctx context.Context, gid string) (*models.ComboHighscore, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM combo_highscores WHERE gid = ?`, gid)
	g, err := scanGameInfo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get highscore %s: %w", gid, err)
	}
	return &models.ComboHighscore{GameInfo: g}, nil
}

// CountComboHighscores returns the number of stored highscores.
func (db *DB) CountComboHighscores(ctx context.Context) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var n int64
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM combo_highscores`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count highscores: %w", err)
	}
	return n, nil
}
