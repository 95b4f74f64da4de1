// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

// Package eventprocessor publishes sync job lifecycle events to NATS using Watermill.
//
// A game info sync reports three kinds of event through its observer hooks:
// a query that got no reply, a non-fatal error, and the end of the sweep.
// Observer turns those hooks into JobEvent messages published on
//
//	<prefix>.timeout
//	<prefix>.error
//	<prefix>.finished
//
// where prefix comes from NATS_TOPIC (default crawlspeed.job).
//
// Fanout lets one Observer feed several publishers; the server pairs the
// websocket hub with the NATS publisher this way.
//
// # Build Tags
//
// The NATS publisher is only compiled with -tags=nats. Without the tag
// NewPublisher returns ErrNATSNotAvailable and NewEmbeddedServer returns
// an error. JobEvent, Observer, Fanout and the Watermill logger adapter
// are available in every build.
//
// # Resilience
//
// Publishes go through a gobreaker circuit breaker so a dead NATS server
// costs one fast failure per event instead of a blocked sync job. Failed
// publishes are logged and counted, never returned to the job.
package eventprocessor
