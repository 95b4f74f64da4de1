// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

/*
Package api serves the operational HTTP surface of crawlspeed using the Chi router.

Routes:

	GET /healthz        liveness, 200 while the process runs
	GET /readyz         readiness, 503 unless DuckDB answers and Sequell is connected
	GET /metrics        Prometheus exposition
	GET /api/v1/status  stored record counts, schema version and job run state
	GET /api/v1/events  websocket feed of job events, when mounted with WithEventStream

Every route gets a request ID, panic recovery and an IP rate limit from
go-chi/httprate. /api/v1/status is also instrumented with request metrics;
its database counts are cached for StatusCacheTTL.
*/
package api
