// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

/*
Package sync contains the synchronization jobs that pull speedrun records from
Sequell and the combo highscore page into the database.

# GameInfoSyncJob

The sweep job walks four aggregation axes in a fixed priority order:

 1. player: repeatedly asks for the fastest win by a player not yet seen,
    until playerLimit-1 distinct players are collected
 2. race: the fastest win for each species in the catalog
 3. background: the fastest win for each background
 4. god: the fastest win for each god

Only one query is outstanding at a time. Each reply (an lg result) is persisted
and then drives the next query. A morgue lookup is queued for every stored game
that has no morgue link yet; its log reply is persisted but never advances the
sweep.

A query that gets no reply within delay+timeout is reported through the
timeout observer and the sweep moves on as if a reply had arrived. A query the
bot killed is replayed verbatim once; a second kill of the same text is treated
as a timeout.

All sweep state is owned by a single goroutine. Results from the protocol
client are forwarded to it over a channel, and the delayed send and timeout
are plain time.Timers stopped as soon as they are no longer needed.

	job := sync.NewGameInfoSyncJob(client, db,
	    sync.WithPlayerLimit(10),
	    sync.WithOnTimeout(func(q any) { ... }),
	)
	if err := sync.Run(ctx, job); err != nil {
	    ...
	}

# ComboHighscoreSyncJob

Fetches the leaderboard once through a Scraper and upserts every record by
game id. The first failure aborts the run.

# Job Contract

Start may be called once per job instance; a second call returns
ErrJobAlreadyStarted. The returned channel yields exactly one value when the
job finishes and is then closed. Run starts a job and waits for it.
*/
package sync
