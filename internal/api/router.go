// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/crawlspeed/internal/middleware"
)

// RouterConfig holds rate limiting for the router.
type RouterConfig struct {
	// Requests per window per client IP on /api/v1.
	RateLimitRequests int
	// Requests per window per client IP on health and metrics routes.
	HealthRateLimitRequests int
	RateLimitWindow         time.Duration
	RateLimitDisabled       bool
}

// DefaultRouterConfig allows 100 API and 1000 probe requests per minute per IP.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RateLimitRequests:       100,
		HealthRateLimitRequests: 1000,
		RateLimitWindow:         time.Minute,
	}
}

// Router wires handlers to routes.
type Router struct {
	handler *Handler
	config  RouterConfig
	events  http.Handler
}

// NewRouter creates a router for handler.
func NewRouter(handler *Handler, config RouterConfig) *Router {
	return &Router{handler: handler, config: config}
}

// WithEventStream serves h at /api/v1/events. h is expected to upgrade
// the connection to a websocket job event feed.
func (router *Router) WithEventStream(h http.Handler) *Router {
	router.events = h
	return router
}

// Setup builds the chi route tree.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.NotFound(router.handler.NotFound)
	r.MethodNotAllowed(router.handler.MethodNotAllowed)

	r.Group(func(r chi.Router) {
		r.Use(router.rateLimit(router.config.HealthRateLimitRequests))
		r.Get("/healthz", router.handler.HealthLive)
		r.Get("/readyz", router.handler.HealthReady)
		r.Handle("/metrics", promhttp.Handler())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.rateLimit(router.config.RateLimitRequests))
		if router.events != nil {
			r.Handle("/events", router.events)
		}
		r.Group(func(r chi.Router) {
			r.Use(middleware.PrometheusMetrics)
			r.Get("/status", router.handler.Status)
		})
	})

	return r
}

func (router *Router) rateLimit(requests int) func(http.Handler) http.Handler {
	if router.config.RateLimitDisabled || requests <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	return httprate.Limit(
		requests,
		router.config.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			respondError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests")
		}),
	)
}
