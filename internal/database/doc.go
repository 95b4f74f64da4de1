// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

// Package database is the DuckDB persistence adapter for synchronized game records.
//
// # Overview
//
// Two tables are maintained, both keyed by Sequell game id:
//   - game_infos: records found by the sync sweep, enriched later with morgue links
//   - combo_highscores: the per-combo leaderboard written by the highscore job
//
// Writes are insert-or-update only; this package never deletes records.
//
// # Files
//
//   - database.go: connection lifecycle (New, Ping, Close)
//   - migrations.go: versioned schema migrations tracked in schema_migrations
//   - game_infos.go: UpsertGameInfo, UpsertMorgue and read helpers
//   - combo_highscores.go: UpsertComboHighscore and read helpers
//   - database_utils.go: context helpers and row scanning
//
// # Upsert Semantics
//
// UpsertGameInfo replaces every column of an existing row except morgue, which
// is only overwritten by a non-empty value. A repeated lg result for the same
// game therefore never erases a morgue link that was already attached.
//
// UpsertMorgue updates every row matching the non-zero identifying fields of a
// log result. When nothing matches and the match carries a game id, the row with
// that id only gains the link, or is created from the identifying fields when
// absent, so that the link is not lost.
//
// # Testing
//
// Tests use in-memory databases (Path ":memory:"), serialized through a
// semaphore because concurrent DuckDB CGO calls are slow under CI load.
package database
