// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

/*
Package services provides suture.Service wrappers for crawlspeed components.

Each wrapper translates a component lifecycle into suture's Serve pattern:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

HTTPServerService:
  - wraps *http.Server; ListenAndServe in a goroutine, Shutdown on cancel

SequellService:
  - runs sequell.Client.Run; the client reconnects on its own, suture
    restarts it only if Run itself returns early

JobService:
  - runs a fresh sync job at start and then every interval
  - runs never overlap: the next run is scheduled after the previous one ends
  - optionally waits for a readiness check (the Sequell connection) first
  - exposes JobStatus for the /api/v1/status endpoint

WebSocketHubService:
  - runs websocket.Hub.RunWithContext; the hub closes its clients on cancel

All services implement fmt.Stringer; suture uses it in log messages.
*/
package services
