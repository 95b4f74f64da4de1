// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package eventprocessor

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// EventKind identifies a job lifecycle event.
type EventKind string

const (
	EventTimeout  EventKind = "timeout"
	EventError    EventKind = "error"
	EventFinished EventKind = "finished"
)

// DefaultTopicPrefix is used when no prefix is configured.
const DefaultTopicPrefix = "crawlspeed.job"

// JobEvent is the payload published for each job lifecycle event.
type JobEvent struct {
	EventID   string    `json:"event_id"`
	Job       string    `json:"job"`
	Kind      EventKind `json:"kind"`
	Query     string    `json:"query,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewJobEvent creates an event with a fresh ID stamped at the current time.
func NewJobEvent(job string, kind EventKind) *JobEvent {
	return &JobEvent{
		EventID:   uuid.New().String(),
		Job:       job,
		Kind:      kind,
		Timestamp: time.Now().UTC(),
	}
}

// Validate checks the fields every consumer relies on.
func (e *JobEvent) Validate() error {
	if e.EventID == "" {
		return errors.New("event_id is required")
	}
	if e.Job == "" {
		return errors.New("job is required")
	}
	switch e.Kind {
	case EventTimeout, EventError, EventFinished:
	default:
		return fmt.Errorf("unknown event kind %q", e.Kind)
	}
	return nil
}

// Topic returns the subject the event is published on.
func (e *JobEvent) Topic(prefix string) string {
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return prefix + "." + string(e.Kind)
}

// SerializeEvent validates and encodes an event as JSON.
func SerializeEvent(event *JobEvent) ([]byte, error) {
	if err := event.Validate(); err != nil {
		return nil, fmt.Errorf("validate event: %w", err)
	}
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

// DeserializeEvent decodes a JSON payload into an event.
func DeserializeEvent(data []byte) (*JobEvent, error) {
	var event JobEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	return &event, nil
}
