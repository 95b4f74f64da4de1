// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package services

import (
	"context"
	"fmt"

	"github.com/thejerf/suture/v4"
)

// ConnectionRunner is satisfied by *sequell.Client.
type ConnectionRunner interface {
	Run(ctx context.Context) error
}

// SequellService keeps the Sequell bridge connection alive under supervision.
type SequellService struct {
	client ConnectionRunner
}

// NewSequellService wraps client.
func NewSequellService(client ConnectionRunner) *SequellService {
	return &SequellService{client: client}
}

// Serve implements suture.Service. A client stopped with Close is not restarted.
func (s *SequellService) Serve(ctx context.Context) error {
	err := s.client.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("sequell client: %w", err)
	}
	return suture.ErrDoNotRestart
}

func (s *SequellService) String() string {
	return "sequell-client"
}
