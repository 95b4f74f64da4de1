// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

/*
Package sequell talks to the Sequell IRC bot through a websocket bridge.

The bridge accepts JSON frames of the form

	{"type":"send","message":"!lg * win race=Mi min=dur"}

and pushes back one frame per bot reply. Replies carry a "type" of lg, log
or killed together with the parsed game fields:

	{"type":"lg","gid":"ego:cao:20200101120000S","player":"ego","race":"Mi",...}

# Client

Client owns a single connection. Run dials, reconnects with exponential
backoff and returns when the context is cancelled or Close is called.
Outbound messages go through a bounded queue drained by one writer
goroutine, paced by a token bucket (the bot rate limits channel users) and
guarded by a circuit breaker that opens after repeated write failures.

Result frames are delivered to every Subscribe callback on the listener
goroutine. Frames that fail to decode or carry an unexpected type are
logged, counted and dropped.

# Queries

FormatLg and FormatLog render structured queries into bot commands. LG and
Log are shorthands that format and queue in one call.
*/
package sequell
