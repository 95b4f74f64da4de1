// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

/*
Package websocket streams job events to connected clients.

The Hub implements eventprocessor.EventPublisher so it can sit next to
the NATS publisher behind an eventprocessor.Fanout. Every JobEvent
published to the hub is wrapped in a Message of type "job_event" and
delivered to all connected clients.

Each Client runs two goroutines:
  - readPump: reads client frames and answers "ping" messages
  - writePump: writes queued messages and keeps the connection alive

A client whose send buffer is full is dropped rather than slowing the
broadcast for the others.

The hub is run under supervision through RunWithContext, which closes
all clients when its context is canceled.
*/
package websocket
