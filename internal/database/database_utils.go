// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package database

import (
	"context"
	"time"

	"github.com/tomtom215/crawlspeed/internal/models"
)

// gameColumns is the column list shared by game_infos and combo_highscores, in scan order.
const gameColumns = `gid, player, race, background, god, duration, turns, xl, runes, score, version, src, date, morgue`

// ensureContext creates a context with 30-second timeout if none provided
func (db *DB) ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		return context.WithTimeout(context.Background(), 30*time.Second)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		return context.WithTimeout(ctx, 30*time.Second)
	}

	return ctx, func() {}
}

// schemaContext bounds schema changes during startup.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGameInfo(row rowScanner) (models.GameInfo, error) {
	var g models.GameInfo
	err := row.Scan(
		&g.GID, &g.Player, &g.Race, &g.Background, &g.God,
		&g.Duration, &g.Turns, &g.XL, &g.Runes, &g.Score,
		&g.Version, &g.Src, &g.Date, &g.Morgue,
	)
	if err != nil {
		return models.GameInfo{}, err
	}
	g.Date = g.Date.UTC()
	return g, nil
}

func gameArgs(g *models.GameInfo) []any {
	return []any{
		g.GID, g.Player, g.Race, g.Background, g.God,
		g.Duration, g.Turns, g.XL, g.Runes, g.Score,
		g.Version, g.Src, g.Date.UTC(), g.Morgue,
	}
}
