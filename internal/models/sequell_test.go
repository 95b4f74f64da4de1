// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package models

import (
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestParseAggregationType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    AggregationType
		wantErr bool
	}{
		{"player", AggregationPlayer, false},
		{"Race", AggregationRace, false},
		{"BACKGROUND", AggregationBackground, false},
		{"god", AggregationGod, false},
		{"species", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseAggregationType(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownAggregation) {
				t.Errorf("ParseAggregationType(%q) error = %v, want ErrUnknownAggregation", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseAggregationType(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestAllAggregationsOrder(t *testing.T) {
	t.Parallel()

	want := []AggregationType{AggregationPlayer, AggregationRace, AggregationBackground, AggregationGod}
	got := AllAggregations()
	if len(got) != len(want) {
		t.Fatalf("AllAggregations() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AllAggregations()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestQueryFiltersMerge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		base     QueryFilters
		override QueryFilters
		want     QueryFilters
	}{
		{"override wins", QueryFilters{Min: "turn"}, QueryFilters{Min: "dur"}, QueryFilters{Min: "dur"}},
		{"base kept when override empty", QueryFilters{Max: "sc"}, QueryFilters{Min: "dur"}, QueryFilters{Min: "dur", Max: "sc"}},
		{"empty override", QueryFilters{Min: "turn"}, QueryFilters{}, QueryFilters{Min: "turn"}},
	}
	for _, tt := range tests {
		if got := tt.base.Merge(tt.override); got != tt.want {
			t.Errorf("%s: Merge() = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestSequellResultDecode(t *testing.T) {
	t.Parallel()

	raw := `{"type":"lg","gid":"ego:cao:20200101120000S","player":"ego","race":"Mi","background":"Be",
		"god":"Trog","duration":1820,"turns":14000,"xl":27,"runes":3,"score":12345,
		"version":"0.24","src":"cao","date":"2020-01-01T12:00:00Z"}`

	var r SequellResult
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if r.Type != ResultLg || r.GID != "ego:cao:20200101120000S" || r.Player != "ego" {
		t.Errorf("unexpected result: %+v", r)
	}
	if r.Combo() != "MiBe" {
		t.Errorf("Combo() = %q, want MiBe", r.Combo())
	}
	if !r.Date.Equal(time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("Date = %v", r.Date)
	}
}

func TestMorgueMatch(t *testing.T) {
	t.Parallel()

	r := SequellResult{
		Type:     ResultLog,
		GameInfo: GameInfo{GID: "g1", Player: "ego", Morgue: "http://example.com/morgue.txt"},
	}
	m := r.MorgueMatch()
	if m.GID != "g1" || m.Player != "ego" {
		t.Errorf("MorgueMatch() = %+v", m)
	}
	if m.IsEmpty() {
		t.Error("match with gid should not be empty")
	}
	if !(MorgueMatch{}).IsEmpty() {
		t.Error("zero match should be empty")
	}
}

func TestResultTypeIsRemote(t *testing.T) {
	t.Parallel()

	for _, rt := range []ResultType{ResultLg, ResultLog, ResultKilled} {
		if !rt.IsRemote() {
			t.Errorf("%s should be remote", rt)
		}
	}
	for _, rt := range []ResultType{ResultTimeout, ResultInit, "bogus"} {
		if rt.IsRemote() {
			t.Errorf("%s should not be remote", rt)
		}
	}
}
