// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package sync

import (
	"slices"

	"github.com/tomtom215/crawlspeed/internal/catalog"
)

// SweepState holds the remaining work of one sweep. It is owned by a single
// job and must not be shared.
type SweepState struct {
	Races       []string `json:"races"`
	Backgrounds []string `json:"backgrounds"`
	Gods        []string `json:"gods"`
	Players     []string `json:"players"`

	// PlayerQueries counts player-axis queries issued. It caps the player axis
	// at playerLimit queries even when replies never arrive.
	PlayerQueries int `json:"player_queries"`
}

// NewSweepState returns a state covering every race, background and god in the catalog.
func NewSweepState() *SweepState {
	return &SweepState{
		Races:       catalog.Races(),
		Backgrounds: catalog.Backgrounds(),
		Gods:        catalog.GodKeywords(),
	}
}

// Clone returns a deep copy of s.
func (s *SweepState) Clone() *SweepState {
	return &SweepState{
		Races:         slices.Clone(s.Races),
		Backgrounds:   slices.Clone(s.Backgrounds),
		Gods:          slices.Clone(s.Gods),
		Players:       slices.Clone(s.Players),
		PlayerQueries: s.PlayerQueries,
	}
}

// PopRace removes and returns the next race.
func (s *SweepState) PopRace() (string, bool) { return pop(&s.Races) }

// PopBackground removes and returns the next background.
func (s *SweepState) PopBackground() (string, bool) { return pop(&s.Backgrounds) }

// PopGod removes and returns the next god keyword.
func (s *SweepState) PopGod() (string, bool) { return pop(&s.Gods) }

// AddPlayer records a discovered player. It returns false if name is empty or already known.
func (s *SweepState) AddPlayer(name string) bool {
	if name == "" || slices.Contains(s.Players, name) {
		return false
	}
	s.Players = append(s.Players, name)
	return true
}

// PlayerCount returns the number of distinct players found so far.
func (s *SweepState) PlayerCount() int {
	return len(s.Players)
}

func pop(items *[]string) (string, bool) {
	if len(*items) == 0 {
		return "", false
	}
	head := (*items)[0]
	*items = (*items)[1:]
	return head, true
}
