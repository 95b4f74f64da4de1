// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package websocket

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/crawlspeed/internal/eventprocessor"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc, <-chan error) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.RunWithContext(ctx) }()
	t.Cleanup(cancel)
	return hub, cancel, done
}

func testClient(hub *Hub, buffer int) *Client {
	return &Client{id: clientIDCounter.Add(1), hub: hub, send: make(chan Message, buffer)}
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.GetClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("client count = %d, want %d", hub.GetClientCount(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubBroadcastsJobEvents(t *testing.T) {
	t.Parallel()

	hub, _, _ := startHub(t)
	a, b := testClient(hub, 4), testClient(hub, 4)
	hub.Register <- a
	hub.Register <- b
	waitForClients(t, hub, 2)

	event := eventprocessor.NewJobEvent("game-info-sync", eventprocessor.EventFinished)
	if err := hub.PublishEvent(context.Background(), event); err != nil {
		t.Fatalf("PublishEvent() error = %v", err)
	}

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.send:
			if msg.Type != MessageTypeJobEvent {
				t.Errorf("type = %q, want %q", msg.Type, MessageTypeJobEvent)
			}
			if got, ok := msg.Data.(*eventprocessor.JobEvent); !ok || got.EventID != event.EventID {
				t.Errorf("data = %#v", msg.Data)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("client %d received nothing", c.id)
		}
	}
}

func TestHubRejectsInvalidEvent(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	if err := hub.PublishEvent(context.Background(), &eventprocessor.JobEvent{}); err == nil {
		t.Error("PublishEvent() should reject an event without id")
	}
}

func TestHubFullQueue(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	event := eventprocessor.NewJobEvent("game-info-sync", eventprocessor.EventError)
	for i := 0; i < cap(hub.broadcast); i++ {
		if err := hub.PublishEvent(context.Background(), event); err != nil {
			t.Fatalf("PublishEvent() #%d error = %v", i, err)
		}
	}
	if err := hub.PublishEvent(context.Background(), event); !errors.Is(err, ErrHubFull) {
		t.Errorf("PublishEvent() error = %v, want ErrHubFull", err)
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	t.Parallel()

	hub, _, _ := startHub(t)
	slow := testClient(hub, 1)
	hub.Register <- slow
	waitForClients(t, hub, 1)

	event := eventprocessor.NewJobEvent("game-info-sync", eventprocessor.EventTimeout)
	for i := 0; i < 3; i++ {
		if err := hub.PublishEvent(context.Background(), event); err != nil {
			t.Fatal(err)
		}
	}
	waitForClients(t, hub, 0)
}

func TestHubUnregister(t *testing.T) {
	t.Parallel()

	hub, _, _ := startHub(t)
	c := testClient(hub, 1)
	hub.Register <- c
	waitForClients(t, hub, 1)

	hub.Unregister <- c
	waitForClients(t, hub, 0)
	if _, ok := <-c.send; ok {
		t.Error("send channel should be closed after unregister")
	}
}

func TestHubShutdownClosesClients(t *testing.T) {
	t.Parallel()

	hub, cancel, done := startHub(t)
	c := testClient(hub, 1)
	hub.Register <- c
	waitForClients(t, hub, 1)

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("RunWithContext() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}
	if hub.GetClientCount() != 0 {
		t.Errorf("client count = %d after shutdown", hub.GetClientCount())
	}
}
