// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package models

import (
	"time"
)

// APIResponse is the envelope every JSON endpoint returns.
//
// Status is "success" or "error" for data endpoints, and "ready" / "not_ready"
// for the readiness probe. Error is only set when Status is "error".
//
//	{
//	  "status": "success",
//	  "data": {"game_infos": 1204, "combo_highscores": 412},
//	  "metadata": {"timestamp": "2026-10-19T12:00:00Z", "query_time_ms": 3}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response timing.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError describes a failed request.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is the payload of the readiness probe.
type HealthStatus struct {
	Status           string  `json:"status"`
	Version          string  `json:"version"`
	DatabaseOK       bool    `json:"database_connected"`
	SequellConnected bool    `json:"sequell_connected"`
	Uptime           float64 `json:"uptime_seconds"`
}

// JobStatus reports the most recent run of a scheduled job.
type JobStatus struct {
	Name        string     `json:"name"`
	Running     bool       `json:"running"`
	Runs        int64      `json:"runs"`
	LastStarted *time.Time `json:"last_started,omitempty"`
	LastFinish  *time.Time `json:"last_finished,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
}

// SyncStatus is the payload of the status endpoint.
type SyncStatus struct {
	GameInfos       int64       `json:"game_infos"`
	ComboHighscores int64       `json:"combo_highscores"`
	SchemaVersion   int         `json:"schema_version"`
	Jobs            []JobStatus `json:"jobs"`
}
