// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

/*
Package supervisor provides process supervision for crawlspeed using suture v4.

The tree has three layers so a failing layer is restarted without touching
the others:

	RootSupervisor ("crawlspeed")
	├── ProtocolSupervisor ("protocol-layer")
	│   └── SequellService (websocket connection to the Sequell bridge)
	├── JobSupervisor ("job-layer")
	│   ├── JobService "game-info-sync"
	│   ├── checkpoint.Store (value log GC, when SYNC_CHECKPOINT_DIR is set)
	│   └── JobService "combo-highscore-sync"
	└── APISupervisor ("api-layer")
	    ├── WebSocketHubService
	    └── HTTPServerService

Supervisor events (service failures, backoff, restarts) are logged through
sutureslog with the zerolog-backed slog handler from the logging package.

The suture.Service wrappers live in the services subpackage.
*/
package supervisor
