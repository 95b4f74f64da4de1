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
	"strings"
	"time"

	"github.com/tomtom215/crawlspeed/internal/metrics"
	"github.com/tomtom215/crawlspeed/internal/models"
)

const upsertGameInfoSQL = `
INSERT INTO game_infos (` + gameColumns + `, updated_at)
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
	morgue = CASE WHEN excluded.morgue <> '' THEN excluded.morgue ELSE game_infos.morgue END,
	updated_at = excluded.updated_at`

// insertMorgueTargetSQL creates a row for a log result. An existing row only
// gains the morgue link; its lg fields are left untouched.
const insertMorgueTargetSQL = `
INSERT INTO game_infos (` + gameColumns + `, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (gid) DO UPDATE SET
	morgue = excluded.morgue,
	updated_at = excluded.updated_at`

// UpsertGameInfo inserts or replaces the record keyed by info.GID and returns the
// stored row. An existing morgue link survives an update that carries none.
func (db *DB) UpsertGameInfo(ctx context.Context, info *models.GameInfo) (*models.GameInfo, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	args := append(gameArgs(info), time.Now().UTC())
	_, err := db.conn.ExecContext(ctx, upsertGameInfoSQL, args...)
	metrics.RecordDBQuery("upsert", "game_infos", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert game %s: %w", info.GID, err)
	}

	return db.GetGameInfo(ctx, info.GID)
}

// GetGameInfo returns the record for gid or ErrNotFound.
func (db *DB) GetGameInfo(ctx context.Context, gid string) (*models.GameInfo, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	row := db.conn.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM game_infos WHERE gid = ?`, gid)
	g, err := scanGameInfo(row)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordDBQuery("select", "game_infos", time.Since(start), nil)
		return nil, ErrNotFound
	}
	metrics.RecordDBQuery("select", "game_infos", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to get game %s: %w", gid, err)
	}
	return &g, nil
}

// CountGameInfos returns the number of stored games.
func (db *DB) CountGameInfos(ctx context.Context) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var n int64
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM game_infos`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}
	return n, nil
}

// UpsertMorgue attaches morgue to every game matching the non-zero fields of match.
// If nothing matches and match.GID is set, the row with that gid gets the morgue,
// or is created from the match fields when absent.
// Otherwise ErrMorgueTargetNotFound is returned.
func (db *DB) UpsertMorgue(ctx context.Context, match models.MorgueMatch, morgue string) error {
	if match.IsEmpty() {
		return ErrEmptyMorgueMatch
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where, whereArgs := morgueWhere(match)
	now := time.Now().UTC()

	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`UPDATE game_infos SET morgue = ?, updated_at = ? WHERE `+where,
		append([]any{morgue, now}, whereArgs...)...)
	metrics.RecordDBQuery("update_morgue", "game_infos", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to update morgue: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected > 0 {
		return nil
	}

	if match.GID == "" {
		return ErrMorgueTargetNotFound
	}

	info := models.GameInfo{
		GID:        match.GID,
		Player:     match.Player,
		Race:       match.Race,
		Background: match.Background,
		God:        match.God,
		Duration:   match.Duration,
		Turns:      match.Turns,
		XL:         match.XL,
		Runes:      match.Runes,
		Score:      match.Score,
		Version:    match.Version,
		Src:        match.Src,
		Date:       match.Date,
		Morgue:     morgue,
	}

	start = time.Now()
	_, err = db.conn.ExecContext(ctx, insertMorgueTargetSQL, append(gameArgs(&info), now)...)
	metrics.RecordDBQuery("insert_morgue", "game_infos", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to insert morgue target %s: %w", match.GID, err)
	}
	return nil
}

// morgueWhere builds an AND clause over the non-zero fields of m.
func morgueWhere(m models.MorgueMatch) (string, []any) {
	var conds []string
	var args []any

	add := func(col string, v any) {
		conds = append(conds, col+" = ?")
		args = append(args, v)
	}

	if m.GID != "" {
		add("gid", m.GID)
	}
	if m.Player != "" {
		add("player", m.Player)
	}
	if m.Race != "" {
		add("race", m.Race)
	}
	if m.Background != "" {
		add("background", m.Background)
	}
	if m.God != "" {
		add("god", m.God)
	}
	if m.Duration != 0 {
		add("duration", m.Duration)
	}
	if m.Turns != 0 {
		add("turns", m.Turns)
	}
	if m.XL != 0 {
		add("xl", m.XL)
	}
	if m.Runes != 0 {
		add("runes", m.Runes)
	}
	if m.Score != 0 {
		add("score", m.Score)
	}
	if m.Version != "" {
		add("version", m.Version)
	}
	if m.Src != "" {
		add("src", m.Src)
	}
	if !m.Date.IsZero() {
		add("date", m.Date.UTC())
	}

	return strings.Join(conds, " AND "), args
}
