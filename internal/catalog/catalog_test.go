// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package catalog

import "testing"

func TestCatalogSizes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  []string
		want int
	}{
		{"races", Races(), 27},
		{"backgrounds", Backgrounds(), 24},
		{"god keywords", GodKeywords(), 25},
		{"gods", Gods(), 25},
		{"bots", Bots(), 1},
		{"combo blacklist", ComboBlacklist(), 3},
	}
	for _, tt := range tests {
		if len(tt.got) != tt.want {
			t.Errorf("%s: len = %d, want %d", tt.name, len(tt.got), tt.want)
		}
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	t.Parallel()

	r := Races()
	r[0] = "XX"
	if Races()[0] != "Ba" {
		t.Error("mutating the returned slice changed the catalog")
	}
}

func TestGodName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Sif":     "Sif Muna",
		"WJC":     "Wu Jian",
		"TSO":     "The Shining One",
		"Trog":    "Trog",
		"Unknown": "Unknown",
	}
	for in, want := range tests {
		if got := GodName(in); got != want {
			t.Errorf("GodName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMembership(t *testing.T) {
	t.Parallel()

	if !IsBlacklistedCombo("GhTm") || IsBlacklistedCombo("MiBe") {
		t.Error("IsBlacklistedCombo mismatch")
	}
	if !IsRace("DD") || IsRace("Be") {
		t.Error("IsRace mismatch")
	}
	if !IsBackground("Be") || IsBackground("DD") {
		t.Error("IsBackground mismatch")
	}
}
