// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

/*
Package checkpoint stores game info sweep progress in BadgerDB.

A sweep of every race, background and god takes hours against the
Sequell rate limit. The sync job saves its remaining work here before
each query, so a restarted process resumes where the previous sweep
stopped instead of starting over.

Keys are "sweep/<job name>" and values are JSON-encoded sync.SweepState.
Writes are synced to disk by default.

	store, err := checkpoint.Open(checkpoint.Config{Path: "/data/checkpoint"})
	if err != nil {
		return err
	}
	defer store.Close()

	job := sync.NewGameInfoSyncJob(client, db, sync.WithCheckpoint(store))

Run RunGC periodically to reclaim value log space; Store.Serve does this
on GCInterval when run under the supervisor.
*/
package checkpoint
