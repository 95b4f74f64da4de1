// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

/*
Package models defines the data structures shared by the Sequell client, the sync
jobs, the scraper and the persistence layer.

Key Components:

  - GameInfo: one finished game, keyed by its Sequell gid
  - ComboHighscore: the best game for a race/background combo, same shape as GameInfo
  - SequellResult: a result event delivered by the Sequell bridge (lg, log, killed)
    or synthesized locally (timeout, init)
  - LgQuery, LogQuery, QueryFilters: outbound query descriptions
  - MorgueMatch: the identifying fields a morgue link is attached by
  - AggregationType: the sweep axes (player, race, background, god)

Validation tags (go-playground/validator) on GameInfo are enforced by the
validation package before anything is written to the database.
*/
package models
