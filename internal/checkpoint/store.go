// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/crawlspeed/internal/logging"
	jobsync "github.com/tomtom215/crawlspeed/internal/sync"
)

const sweepKeyPrefix = "sweep/"

// ErrStoreClosed is returned by operations on a closed store.
var ErrStoreClosed = errors.New("checkpoint store is closed")

// Store is a BadgerDB-backed sync.CheckpointStore.
type Store struct {
	db     *badger.DB
	config Config

	mu     sync.RWMutex
	closed bool
}

// Open opens (or creates) the store described by cfg.
func Open(cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid checkpoint config: %w", err)
	}
	if cfg.GCRatio == 0 {
		cfg.GCRatio = 0.5
	}
	if cfg.CloseTimeout == 0 {
		cfg.CloseTimeout = 30 * time.Second
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.SyncWrites = cfg.SyncWrites
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Bool("sync_writes", cfg.SyncWrites).
		Msg("Checkpoint store opened")
	return &Store{db: db, config: cfg}, nil
}

// LoadSweepState returns the stored state for job, or nil, nil if none exists.
func (s *Store) LoadSweepState(ctx context.Context, job string) (*jobsync.SweepState, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	var state *jobsync.SweepState
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sweepKey(job))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			state = &jobsync.SweepState{}
			return json.Unmarshal(val, state)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load checkpoint %s: %w", job, err)
	}
	return state, nil
}

// SaveSweepState replaces the stored state for job.
func (s *Store) SaveSweepState(ctx context.Context, job string, state *jobsync.SweepState) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	if state == nil {
		return errors.New("checkpoint state is nil")
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal checkpoint %s: %w", job, err)
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(sweepKey(job), data)
	}); err != nil {
		return fmt.Errorf("save checkpoint %s: %w", job, err)
	}
	return nil
}

// ClearSweepState deletes the stored state for job. Clearing a missing
// checkpoint is not an error.
func (s *Store) ClearSweepState(ctx context.Context, job string) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(sweepKey(job))
	}); err != nil {
		return fmt.Errorf("clear checkpoint %s: %w", job, err)
	}
	return nil
}

// RunGC reclaims value log space until BadgerDB reports nothing to rewrite.
func (s *Store) RunGC() error {
	if err := s.check(context.Background()); err != nil {
		return err
	}
	if s.config.InMemory {
		return nil
	}
	for {
		err := s.db.RunValueLogGC(s.config.GCRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
}

// Serve runs RunGC every GCInterval until ctx is canceled. It implements
// suture.Service. A GCInterval of zero or less only waits for ctx.
func (s *Store) Serve(ctx context.Context) error {
	if s.config.GCInterval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.GCInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.RunGC(); err != nil {
				if errors.Is(err, ErrStoreClosed) {
					return err
				}
				logging.Warn().Err(err).Msg("Checkpoint GC failed")
			}
		}
	}
}

func (s *Store) String() string {
	return "checkpoint-gc"
}

// Close closes the database, giving up after CloseTimeout.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- s.db.Close()
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("close BadgerDB: %w", err)
		}
		logging.Info().Msg("Checkpoint store closed")
		return nil
	case <-time.After(s.config.CloseTimeout):
		return fmt.Errorf("badgerdb close timeout after %v", s.config.CloseTimeout)
	}
}

func (s *Store) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return nil
}

func sweepKey(job string) []byte {
	return []byte(sweepKeyPrefix + job)
}
