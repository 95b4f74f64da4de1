// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package models

import "time"

// GameInfo is a single finished game as reported by Sequell.
//
// Key Fields:
//   - GID: Sequell game id, unique per game and used as the upsert key
//   - Race/Background: two letter abbreviations (e.g. "Mi", "Be")
//   - God: god name as Sequell prints it; empty for atheist runs
//   - Duration: real time in seconds
//   - Morgue: link to the morgue file, filled in later by a !log query
type GameInfo struct {
	GID        string    `json:"gid" validate:"required,gid"`
	Player     string    `json:"player" validate:"required,max=64"`
	Race       string    `json:"race" validate:"required,abbr"`
	Background string    `json:"background" validate:"required,abbr"`
	God        string    `json:"god,omitempty" validate:"max=64"`
	Duration   int       `json:"duration" validate:"gte=0"`
	Turns      int       `json:"turns" validate:"gte=0"`
	XL         int       `json:"xl" validate:"gte=0,lte=27"`
	Runes      int       `json:"runes" validate:"gte=0,lte=15"`
	Score      int64     `json:"score" validate:"gte=0"`
	Version    string    `json:"version,omitempty" validate:"max=32"`
	Src        string    `json:"src,omitempty" validate:"max=16"`
	Date       time.Time `json:"date"`
	Morgue     string    `json:"morgue,omitempty" validate:"omitempty,url"`
}

// Combo returns the race/background pair, e.g. "MiBe".
func (g *GameInfo) Combo() string {
	return g.Race + g.Background
}

// HasMorgue reports whether a morgue link is stored.
func (g *GameInfo) HasMorgue() bool {
	return g.Morgue != ""
}

// ComboHighscore is the top game for one race/background combo.
// It is stored separately from GameInfo and written only by the highscore job.
type ComboHighscore struct {
	GameInfo
}

// MorgueMatch holds the identifying fields of a game that a morgue link is attached to.
// Zero-valued fields are not used as match conditions.
type MorgueMatch struct {
	GID        string
	Player     string
	Race       string
	Background string
	God        string
	Duration   int
	Turns      int
	XL         int
	Runes      int
	Score      int64
	Version    string
	Src        string
	Date       time.Time
}

// IsEmpty reports whether no field is set, in which case the match would select every row.
func (m MorgueMatch) IsEmpty() bool {
	return m == MorgueMatch{}
}
