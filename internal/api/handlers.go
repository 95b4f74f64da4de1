// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/crawlspeed/internal/cache"
	"github.com/tomtom215/crawlspeed/internal/logging"
	"github.com/tomtom215/crawlspeed/internal/models"
)

// Version is reported by the readiness probe. Overridden at build time with -ldflags.
var Version = "dev"

// Store is the part of database.DB the handlers read.
type Store interface {
	Ping(ctx context.Context) error
	CountGameInfos(ctx context.Context) (int64, error)
	CountComboHighscores(ctx context.Context) (int64, error)
	GetCurrentSchemaVersion(ctx context.Context) (int, error)
}

// ConnectionState reports whether the Sequell bridge is connected.
type ConnectionState interface {
	IsConnected() bool
}

// JobStatusProvider reports scheduled job runs.
type JobStatusProvider interface {
	JobStatuses() []models.JobStatus
}

// StatusCacheTTL bounds how often Status queries the database.
const StatusCacheTTL = 5 * time.Second

const statusCacheKey = "store"

type storeCounts struct {
	games   int64
	combos  int64
	version int
}

// Handler serves the health and status endpoints.
type Handler struct {
	db        Store
	sequell   ConnectionState
	jobs      JobStatusProvider
	counts    *cache.Cache[storeCounts]
	startTime time.Time
}

// NewHandler creates a handler. sequell may be nil when the game info sync is
// disabled; readiness then only depends on the database.
func NewHandler(db Store, sequell ConnectionState, jobs JobStatusProvider) *Handler {
	return &Handler{
		db:        db,
		sequell:   sequell,
		jobs:      jobs,
		counts:    cache.New[storeCounts](StatusCacheTTL),
		startTime: time.Now(),
	}
}

// HealthLive reports that the process is alive.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":          true,
			"uptime_seconds": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// HealthReady returns 200 only when the database answers and, if configured,
// the Sequell bridge is connected.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	dbOK := h.db != nil && h.db.Ping(r.Context()) == nil
	sequellOK := h.sequell == nil || h.sequell.IsConnected()

	status := "ready"
	code := http.StatusOK
	if !dbOK || !sequellOK {
		status = "not_ready"
		code = http.StatusServiceUnavailable
	}

	respondJSON(w, code, &models.APIResponse{
		Status: status,
		Data: models.HealthStatus{
			Status:           status,
			Version:          Version,
			DatabaseOK:       dbOK,
			SequellConnected: h.sequell != nil && h.sequell.IsConnected(),
			Uptime:           time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// Status reports stored record counts and job run state. Counts are
// cached for StatusCacheTTL; job state is always current.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	counts, err := h.counts.GetOrLoad(statusCacheKey, func() (storeCounts, error) {
		return h.loadCounts(r.Context())
	})
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Status query failed")
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to read sync status")
		return
	}

	status := models.SyncStatus{
		GameInfos:       counts.games,
		ComboHighscores: counts.combos,
		SchemaVersion:   counts.version,
		Jobs:            []models.JobStatus{},
	}
	if h.jobs != nil {
		status.Jobs = h.jobs.JobStatuses()
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   status,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

func (h *Handler) loadCounts(ctx context.Context) (storeCounts, error) {
	var c storeCounts
	var err error
	if c.games, err = h.db.CountGameInfos(ctx); err != nil {
		return c, fmt.Errorf("count game infos: %w", err)
	}
	if c.combos, err = h.db.CountComboHighscores(ctx); err != nil {
		return c, fmt.Errorf("count combo highscores: %w", err)
	}
	if c.version, err = h.db.GetCurrentSchemaVersion(ctx); err != nil {
		return c, fmt.Errorf("read schema version: %w", err)
	}
	return c, nil
}

// NotFound answers unknown routes with the JSON error envelope.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, "NOT_FOUND", "Route not found")
}

// MethodNotAllowed answers known routes called with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
}
