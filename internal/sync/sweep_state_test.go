// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package sync

import (
	"testing"

	"github.com/tomtom215/crawlspeed/internal/catalog"
)

func TestNewSweepState(t *testing.T) {
	t.Parallel()

	s := NewSweepState()
	if len(s.Races) != len(catalog.Races()) ||
		len(s.Backgrounds) != len(catalog.Backgrounds()) ||
		len(s.Gods) != len(catalog.GodKeywords()) {
		t.Errorf("state sizes = %d/%d/%d", len(s.Races), len(s.Backgrounds), len(s.Gods))
	}
	if s.PlayerCount() != 0 {
		t.Errorf("PlayerCount() = %d, want 0", s.PlayerCount())
	}

	// Consuming one state must not affect the catalog or another state.
	s.PopRace()
	if len(NewSweepState().Races) != len(catalog.Races()) {
		t.Error("popping from one state changed the catalog")
	}
}

func TestSweepState_PopOrder(t *testing.T) {
	t.Parallel()

	s := &SweepState{Races: []string{"Ba", "Ce"}}

	for _, want := range []string{"Ba", "Ce"} {
		got, ok := s.PopRace()
		if !ok || got != want {
			t.Fatalf("PopRace() = %q, %v; want %q", got, ok, want)
		}
	}
	if got, ok := s.PopRace(); ok {
		t.Errorf("PopRace() on empty = %q, true", got)
	}
	if _, ok := s.PopBackground(); ok {
		t.Error("PopBackground() on empty should fail")
	}
	if _, ok := s.PopGod(); ok {
		t.Error("PopGod() on empty should fail")
	}
}

func TestSweepState_AddPlayer(t *testing.T) {
	t.Parallel()

	s := &SweepState{}
	if !s.AddPlayer("ego") {
		t.Error("first AddPlayer should report true")
	}
	if s.AddPlayer("ego") {
		t.Error("duplicate AddPlayer should report false")
	}
	if s.AddPlayer("") {
		t.Error("empty name should be ignored")
	}
	if s.PlayerCount() != 1 {
		t.Errorf("PlayerCount() = %d, want 1", s.PlayerCount())
	}
}

func TestSweepState_Clone(t *testing.T) {
	t.Parallel()

	s := &SweepState{Races: []string{"Mi", "Ce"}, Players: []string{"a"}, PlayerQueries: 2}
	c := s.Clone()

	s.PopRace()
	s.AddPlayer("b")

	if len(c.Races) != 2 || c.Races[0] != "Mi" {
		t.Errorf("clone races changed: %v", c.Races)
	}
	if len(c.Players) != 1 || c.PlayerQueries != 2 {
		t.Errorf("clone = %+v", c)
	}
}
