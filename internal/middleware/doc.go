// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

/*
Package middleware provides the HTTP middleware used by the operational API.

Key Components:

  - RequestID: propagates or generates X-Request-ID and uses it as the
    logging correlation ID
  - PrometheusMetrics: counts requests and observes latency per chi route
    pattern, so path parameters never create new label values

Both have the chi signature func(http.Handler) http.Handler and are installed
with r.Use in the api package.
*/
package middleware
