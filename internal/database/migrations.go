// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/crawlspeed/internal/logging"
)

// Migration represents a versioned database migration.
type Migration struct {
	Version     int       // Unique version number (monotonically increasing)
	Name        string    // Human-readable migration name
	Description string    // Description of what this migration does
	SQL         string    // SQL statement to execute
	AppliedAt   time.Time // When the migration was applied (populated on query)
}

// schemaMigrationsTable creates the migration tracking table
const schemaMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT,
	applied_at TIMESTAMP NOT NULL
);
`

// getMigrations returns all versioned migrations in order.
// Migrations are append-only: never modify or remove one that has shipped.
func getMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Name:        "create_game_infos",
			Description: "Games found by the sync sweep",
			SQL: `CREATE TABLE IF NOT EXISTS game_infos (
	gid TEXT PRIMARY KEY,
	player TEXT NOT NULL,
	race TEXT NOT NULL,
	background TEXT NOT NULL,
	god TEXT NOT NULL DEFAULT '',
	duration INTEGER NOT NULL DEFAULT 0,
	turns INTEGER NOT NULL DEFAULT 0,
	xl INTEGER NOT NULL DEFAULT 0,
	runes INTEGER NOT NULL DEFAULT 0,
	score BIGINT NOT NULL DEFAULT 0,
	version TEXT NOT NULL DEFAULT '',
	src TEXT NOT NULL DEFAULT '',
	date TIMESTAMP NOT NULL,
	morgue TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMP NOT NULL
);`,
		},
		{
			Version:     2,
			Name:        "create_combo_highscores",
			Description: "Per-combo leaderboard written by the highscore job",
			SQL: `CREATE TABLE IF NOT EXISTS combo_highscores (
	gid TEXT PRIMARY KEY,
	player TEXT NOT NULL,
	race TEXT NOT NULL,
	background TEXT NOT NULL,
	god TEXT NOT NULL DEFAULT '',
	duration INTEGER NOT NULL DEFAULT 0,
	turns INTEGER NOT NULL DEFAULT 0,
	xl INTEGER NOT NULL DEFAULT 0,
	runes INTEGER NOT NULL DEFAULT 0,
	score BIGINT NOT NULL DEFAULT 0,
	version TEXT NOT NULL DEFAULT '',
	src TEXT NOT NULL DEFAULT '',
	date TIMESTAMP NOT NULL,
	morgue TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMP NOT NULL
);`,
		},
		{
			Version:     3,
			Name:        "index_game_infos_combo",
			Description: "Speedrun lookups by race and background",
			SQL:         `CREATE INDEX IF NOT EXISTS idx_game_infos_combo ON game_infos (race, background);`,
		},
	}
}

// createMigrationsTable creates the schema_migrations table if it doesn't exist
func (db *DB) createMigrationsTable(ctx context.Context) error {
	_, err := db.conn.ExecContext(ctx, schemaMigrationsTable)
	return err
}

// getAppliedMigrations returns a map of version -> Migration for all applied migrations
func (db *DB) getAppliedMigrations(ctx context.Context) (map[int]Migration, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT version, name, description, applied_at FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer closeWithLog(rows, "rows")

	applied := make(map[int]Migration)
	for rows.Next() {
		var m Migration
		if err := rows.Scan(&m.Version, &m.Name, &m.Description, &m.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[m.Version] = m
	}
	return applied, rows.Err()
}

// runVersionedMigrations executes only migrations that haven't been applied yet.
func (db *DB) runVersionedMigrations() error {
	ctx, cancel := schemaContext()
	defer cancel()

	if err := db.createMigrationsTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := db.getAppliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	newMigrations := 0
	for _, m := range getMigrations() {
		if _, exists := applied[m.Version]; exists {
			continue
		}

		if _, err := db.conn.ExecContext(ctx, m.SQL); err != nil {
			return fmt.Errorf("failed to execute migration v%d (%s): %w", m.Version, m.Name, err)
		}

		_, err := db.conn.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, name, description, applied_at) VALUES (?, ?, ?, ?)`,
			m.Version, m.Name, m.Description, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("failed to record migration v%d: %w", m.Version, err)
		}

		newMigrations++
	}

	if newMigrations > 0 {
		logging.Info().Int("count", newMigrations).Msg("Applied database migrations")
	}

	return nil
}

// GetCurrentSchemaVersion returns the highest applied migration version
func (db *DB) GetCurrentSchemaVersion(ctx context.Context) (int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var version int
	err := db.conn.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}
