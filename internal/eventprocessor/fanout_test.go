// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package eventprocessor

import (
	"context"
	"errors"
	"testing"
)

type countingPublisher struct {
	calls int
	err   error
}

func (c *countingPublisher) PublishEvent(_ context.Context, _ *JobEvent) error {
	c.calls++
	return c.err
}

func TestFanout_PublishesToAll(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	a := &countingPublisher{err: errBoom}
	b := &countingPublisher{}
	f := NewFanout(a, nil, b)

	if len(f) != 2 {
		t.Fatalf("len(fanout) = %d, want 2", len(f))
	}

	err := f.PublishEvent(context.Background(), NewJobEvent("game-info-sync", EventFinished))
	if !errors.Is(err, errBoom) {
		t.Errorf("PublishEvent() error = %v, want %v", err, errBoom)
	}
	if a.calls != 1 || b.calls != 1 {
		t.Errorf("calls = %d,%d, want 1,1", a.calls, b.calls)
	}
}

func TestFanout_Empty(t *testing.T) {
	t.Parallel()

	if err := NewFanout().PublishEvent(context.Background(), NewJobEvent("x", EventError)); err != nil {
		t.Errorf("PublishEvent() error = %v, want nil", err)
	}
}
