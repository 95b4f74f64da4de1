// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

// Package scraper fetches the per-combo highscore page published by a crawl
// server and turns its leaderboard table into ComboHighscore records.
//
// The page is fetched with a single GET. The first table whose header row has
// both a Player and a Character column is parsed; other columns are matched by
// header name so that column order does not matter. Rows naming a blacklisted
// combo, or that fail record validation, are skipped and counted.
package scraper
