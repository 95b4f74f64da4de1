// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package models

import (
	"errors"
	"fmt"
	"strings"
)

// ResultType tags a SequellResult.
type ResultType string

const (
	// ResultLg carries one game record.
	ResultLg ResultType = "lg"
	// ResultLog carries a morgue link for a previously reported game.
	ResultLog ResultType = "log"
	// ResultKilled means the bot dropped the query; Message holds the query text.
	ResultKilled ResultType = "killed"
	// ResultTimeout is synthesized locally when no reply arrived in time.
	ResultTimeout ResultType = "timeout"
	// ResultInit is synthesized locally to start a sweep.
	ResultInit ResultType = "init"
)

// IsRemote reports whether the type can arrive from the bridge.
func (t ResultType) IsRemote() bool {
	return t == ResultLg || t == ResultLog || t == ResultKilled
}

// SequellResult is a result event. The embedded GameInfo is populated for lg
// results and partially (identifying fields plus Morgue) for log results.
type SequellResult struct {
	Type ResultType `json:"type"`
	GameInfo
	Message string `json:"message,omitempty"`
}

// MorgueMatch returns every identifying field of a log result, leaving out the morgue link.
func (r *SequellResult) MorgueMatch() MorgueMatch {
	return MorgueMatch{
		GID:        r.GID,
		Player:     r.Player,
		Race:       r.Race,
		Background: r.Background,
		God:        r.God,
		Duration:   r.Duration,
		Turns:      r.Turns,
		XL:         r.XL,
		Runes:      r.Runes,
		Score:      r.Score,
		Version:    r.Version,
		Src:        r.Src,
		Date:       r.Date,
	}
}

// QueryFilters narrows an !lg query to the extreme value of a field, e.g. min=dur.
type QueryFilters struct {
	Min string `json:"min,omitempty"`
	Max string `json:"max,omitempty"`
}

// Merge returns f with every non-empty field of override applied on top.
func (f QueryFilters) Merge(override QueryFilters) QueryFilters {
	if override.Min != "" {
		f.Min = override.Min
	}
	if override.Max != "" {
		f.Max = override.Max
	}
	return f
}

// LgQuery is a structured !lg request for won games.
type LgQuery struct {
	Race            string       `json:"race,omitempty"`
	Background      string       `json:"background,omitempty"`
	God             string       `json:"god,omitempty"`
	PlayerBlacklist []string     `json:"player_blacklist,omitempty"`
	Filters         QueryFilters `json:"filters"`
}

// LogQuery requests the morgue link of one game.
type LogQuery struct {
	GID string `json:"gid"`
}

// AggregationType names a sweep axis.
type AggregationType string

const (
	AggregationPlayer     AggregationType = "player"
	AggregationRace       AggregationType = "race"
	AggregationBackground AggregationType = "background"
	AggregationGod        AggregationType = "god"
)

// ErrUnknownAggregation is returned by ParseAggregationType.
var ErrUnknownAggregation = errors.New("unknown aggregation type")

// AllAggregations returns every axis in sweep priority order.
func AllAggregations() []AggregationType {
	return []AggregationType{AggregationPlayer, AggregationRace, AggregationBackground, AggregationGod}
}

// ParseAggregationType parses a case-insensitive axis name.
func ParseAggregationType(s string) (AggregationType, error) {
	switch AggregationType(strings.ToLower(s)) {
	case AggregationPlayer:
		return AggregationPlayer, nil
	case AggregationRace:
		return AggregationRace, nil
	case AggregationBackground:
		return AggregationBackground, nil
	case AggregationGod:
		return AggregationGod, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAggregation, s)
	}
}
