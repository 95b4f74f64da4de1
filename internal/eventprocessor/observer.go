// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package eventprocessor

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/crawlspeed/internal/logging"
	"github.com/tomtom215/crawlspeed/internal/models"
	"github.com/tomtom215/crawlspeed/internal/sequell"
	jobsync "github.com/tomtom215/crawlspeed/internal/sync"
)

// EventPublisher publishes job events. Implemented by Publisher.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *JobEvent) error
}

// Observer converts sync job hooks into published JobEvents.
// Publish failures are logged and dropped.
type Observer struct {
	pub     EventPublisher
	job     string
	timeout time.Duration
}

// NewObserver creates an observer for the named job.
func NewObserver(pub EventPublisher, job string, publishTimeout time.Duration) *Observer {
	if publishTimeout <= 0 {
		publishTimeout = 5 * time.Second
	}
	return &Observer{pub: pub, job: job, timeout: publishTimeout}
}

// Options returns the job options that register this observer.
func (o *Observer) Options() []jobsync.Option {
	return []jobsync.Option{
		jobsync.WithOnTimeout(o.OnTimeout),
		jobsync.WithOnError(o.OnError),
		jobsync.WithOnFinished(o.OnFinished),
	}
}

// OnTimeout publishes a timeout event for query.
func (o *Observer) OnTimeout(query any) {
	event := NewJobEvent(o.job, EventTimeout)
	event.Query = describeQuery(query)
	o.publish(event)
}

// OnError publishes an error event.
func (o *Observer) OnError(err error) {
	event := NewJobEvent(o.job, EventError)
	if err != nil {
		event.Error = err.Error()
	}
	o.publish(event)
}

// OnFinished publishes a finished event.
func (o *Observer) OnFinished() {
	o.publish(NewJobEvent(o.job, EventFinished))
}

func (o *Observer) publish(event *JobEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	if err := o.pub.PublishEvent(ctx, event); err != nil {
		logging.Warn().
			Err(err).
			Str("job", event.Job).
			Str("kind", string(event.Kind)).
			Msg("Failed to publish job event")
	}
}

func describeQuery(query any) string {
	switch q := query.(type) {
	case nil:
		return ""
	case string:
		return q
	case models.LgQuery:
		return sequell.FormatLg(q)
	case *models.LgQuery:
		return sequell.FormatLg(*q)
	case models.LogQuery:
		return sequell.FormatLog(q)
	default:
		return fmt.Sprint(q)
	}
}
