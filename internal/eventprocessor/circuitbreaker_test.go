// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package eventprocessor

import (
	"errors"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/crawlspeed/internal/config"
)

func TestCircuitBreakerTrips(t *testing.T) {
	t.Parallel()

	cfg := DefaultCircuitBreakerConfig()
	cfg.Name = "test-breaker"
	cfg.FailureThreshold = 2
	cb := NewCircuitBreaker(cfg)

	fail := func() (struct{}, error) { return struct{}{}, errors.New("nats down") }
	for i := 0; i < 2; i++ {
		_, _ = cb.Execute(fail)
	}

	if cb.State() != gobreaker.StateOpen {
		t.Fatalf("State() = %v, want open", cb.State())
	}
	_, err := cb.Execute(func() (struct{}, error) { return struct{}{}, nil })
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("Execute() on open breaker = %v, want ErrOpenState", err)
	}
}

func TestPublisherConfigFrom(t *testing.T) {
	t.Parallel()

	cfg := PublisherConfigFrom(config.NATSConfig{Enabled: true, URL: "nats://nats:4222"})
	if cfg.TopicPrefix != DefaultTopicPrefix {
		t.Errorf("TopicPrefix = %q, want %q", cfg.TopicPrefix, DefaultTopicPrefix)
	}
	if cfg.URL != "nats://nats:4222" {
		t.Errorf("URL = %q", cfg.URL)
	}
	if cfg.PublishTimeout != 5*time.Second {
		t.Errorf("PublishTimeout = %v", cfg.PublishTimeout)
	}

	cfg = PublisherConfigFrom(config.NATSConfig{Topic: "dcss.sync"})
	if cfg.TopicPrefix != "dcss.sync" {
		t.Errorf("TopicPrefix = %q, want dcss.sync", cfg.TopicPrefix)
	}
}
