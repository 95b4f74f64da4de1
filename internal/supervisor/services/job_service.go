// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tomtom215/crawlspeed/internal/logging"
	"github.com/tomtom215/crawlspeed/internal/metrics"
	"github.com/tomtom215/crawlspeed/internal/models"
	jobsync "github.com/tomtom215/crawlspeed/internal/sync"
)

// JobFactory builds a fresh job for each run. Jobs are single use.
type JobFactory func() jobsync.Job

// JobOption configures a JobService.
type JobOption func(*JobService)

// WithReadiness makes every run wait until ready returns true, polling every interval.
func WithReadiness(ready func() bool, poll time.Duration) JobOption {
	return func(s *JobService) {
		s.ready = ready
		if poll > 0 {
			s.readyPoll = poll
		}
	}
}

// JobService runs a job at start and then every interval, never overlapping runs.
// With a zero interval the job runs once and the service idles until shutdown.
type JobService struct {
	name      string
	interval  time.Duration
	factory   JobFactory
	ready     func() bool
	readyPoll time.Duration

	mu     sync.Mutex
	status models.JobStatus
}

// NewJobService creates a scheduled job service.
func NewJobService(name string, interval time.Duration, factory JobFactory, opts ...JobOption) *JobService {
	s := &JobService{
		name:      name,
		interval:  interval,
		factory:   factory,
		readyPoll: time.Second,
		status:    models.JobStatus{Name: name},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Serve implements suture.Service. A failed run is logged and counted; it does
// not stop the schedule.
func (s *JobService) Serve(ctx context.Context) error {
	for {
		if err := s.waitReady(ctx); err != nil {
			return err
		}
		s.runOnce(ctx)

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if s.interval <= 0 {
			<-ctx.Done()
			return ctx.Err()
		}

		timer := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Status returns a snapshot of the latest run.
func (s *JobService) Status() models.JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *JobService) String() string {
	return s.name
}

func (s *JobService) waitReady(ctx context.Context) error {
	if s.ready == nil || s.ready() {
		return nil
	}

	logging.Info().Str("job", s.name).Msg("Waiting for dependencies before job run")

	ticker := time.NewTicker(s.readyPoll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if s.ready() {
				return nil
			}
		}
	}
}

func (s *JobService) runOnce(ctx context.Context) {
	ctx = logging.ContextWithJob(ctx, s.name)
	logger := logging.Ctx(ctx)

	start := time.Now()
	s.mu.Lock()
	s.status.Running = true
	s.status.LastStarted = &start
	s.mu.Unlock()

	metrics.TrackJobRunning(s.name, true)
	logger.Info().Msg("Job run started")

	err := jobsync.Run(ctx, s.factory())

	finished := time.Now()
	duration := finished.Sub(start)
	metrics.TrackJobRunning(s.name, false)

	interrupted := ctx.Err() != nil && errors.Is(err, ctx.Err())
	if !interrupted {
		metrics.RecordJobRun(s.name, duration, err)
	}

	s.mu.Lock()
	s.status.Running = false
	s.status.Runs++
	s.status.LastFinish = &finished
	s.status.LastError = ""
	if err != nil {
		s.status.LastError = err.Error()
	}
	s.mu.Unlock()

	switch {
	case interrupted:
		logger.Info().Dur("duration", duration).Msg("Job run interrupted by shutdown")
	case err != nil:
		logger.Error().Err(err).Dur("duration", duration).Msg("Job run failed")
	default:
		logger.Info().Dur("duration", duration).Msg("Job run finished")
	}
}

// JobStatusSet reports the status of several job services.
type JobStatusSet struct {
	services []*JobService
}

// NewJobStatusSet groups services for the status endpoint.
func NewJobStatusSet(services ...*JobService) *JobStatusSet {
	return &JobStatusSet{services: services}
}

// JobStatuses returns one status per service, in registration order.
func (s *JobStatusSet) JobStatuses() []models.JobStatus {
	out := make([]models.JobStatus, 0, len(s.services))
	for _, svc := range s.services {
		out = append(out, svc.Status())
	}
	return out
}
