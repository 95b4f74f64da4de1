// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package eventprocessor

import (
	"context"
	"errors"
)

// Fanout publishes each event to every non-nil publisher.
// All publishers are attempted; their errors are joined.
type Fanout []EventPublisher

// NewFanout builds a Fanout, skipping nil publishers.
func NewFanout(pubs ...EventPublisher) Fanout {
	out := make(Fanout, 0, len(pubs))
	for _, p := range pubs {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// PublishEvent implements EventPublisher.
func (f Fanout) PublishEvent(ctx context.Context, event *JobEvent) error {
	var errs []error
	for _, p := range f {
		if err := p.PublishEvent(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
