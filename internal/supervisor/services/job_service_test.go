// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/crawlspeed/internal/metrics"
	jobsync "github.com/tomtom215/crawlspeed/internal/sync"
)

// fakeJob finishes with err after hold, or when ctx ends.
type fakeJob struct {
	err     error
	hold    time.Duration
	active  *atomic.Int32
	overlap *atomic.Bool
}

func (j *fakeJob) Start(ctx context.Context) (<-chan error, error) {
	done := make(chan error, 1)
	if j.active != nil && j.active.Add(1) > 1 {
		j.overlap.Store(true)
	}
	go func() {
		defer close(done)
		if j.active != nil {
			defer j.active.Add(-1)
		}
		select {
		case <-time.After(j.hold):
			done <- j.err
		case <-ctx.Done():
			done <- ctx.Err()
		}
	}()
	return done, nil
}

type startErrJob struct{}

func (startErrJob) Start(context.Context) (<-chan error, error) {
	return nil, jobsync.ErrJobAlreadyStarted
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestJobServiceRunsOnScheduleWithoutOverlap(t *testing.T) {
	t.Parallel()

	var active atomic.Int32
	var overlap atomic.Bool
	var built atomic.Int32

	svc := NewJobService("test-schedule", 10*time.Millisecond, func() jobsync.Job {
		built.Add(1)
		return &fakeJob{hold: 20 * time.Millisecond, active: &active, overlap: &overlap}
	})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	waitFor(t, func() bool { return svc.Status().Runs >= 3 })
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
	if overlap.Load() {
		t.Error("job runs overlapped")
	}
	if built.Load() < 3 {
		t.Errorf("factory called %d times, want a fresh job per run", built.Load())
	}
}

func TestJobServiceRecordsFailure(t *testing.T) {
	t.Parallel()

	name := "test-failure"
	svc := NewJobService(name, 0, func() jobsync.Job {
		return &fakeJob{err: errors.New("highscore page returned 503")}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = svc.Serve(ctx) }()

	waitFor(t, func() bool { return svc.Status().Runs == 1 })

	status := svc.Status()
	if status.Running {
		t.Error("Running should be false after the run")
	}
	if status.LastError != "highscore page returned 503" {
		t.Errorf("LastError = %q", status.LastError)
	}
	if status.LastStarted == nil || status.LastFinish == nil {
		t.Error("run timestamps should be set")
	}
	if got := testutil.ToFloat64(metrics.JobRuns.WithLabelValues(name, "failure")); got != 1 {
		t.Errorf("error runs = %v, want 1", got)
	}
}

func TestJobServiceStartError(t *testing.T) {
	t.Parallel()

	svc := NewJobService("test-start-error", 0, func() jobsync.Job { return startErrJob{} })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = svc.Serve(ctx) }()

	waitFor(t, func() bool { return svc.Status().Runs == 1 })
	if got := svc.Status().LastError; got != jobsync.ErrJobAlreadyStarted.Error() {
		t.Errorf("LastError = %q", got)
	}
}

func TestJobServiceWaitsForReadiness(t *testing.T) {
	t.Parallel()

	var ready atomic.Bool
	svc := NewJobService("test-ready", 0, func() jobsync.Job {
		return &fakeJob{}
	}, WithReadiness(ready.Load, 5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = svc.Serve(ctx) }()

	time.Sleep(30 * time.Millisecond)
	if svc.Status().Runs != 0 {
		t.Fatal("job ran before dependencies were ready")
	}

	ready.Store(true)
	waitFor(t, func() bool { return svc.Status().Runs == 1 })
}

func TestJobServiceShutdownInterruptsRun(t *testing.T) {
	t.Parallel()

	svc := NewJobService("test-interrupt", time.Hour, func() jobsync.Job {
		return &fakeJob{hold: time.Hour}
	})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	waitFor(t, func() bool { return svc.Status().Running })
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	if svc.Status().Running {
		t.Error("Running should be false after shutdown")
	}
}

func TestJobStatusSet(t *testing.T) {
	t.Parallel()

	a := NewJobService("game-info-sync", 0, nil)
	b := NewJobService("combo-highscore-sync", 0, nil)

	statuses := NewJobStatusSet(a, b).JobStatuses()
	if len(statuses) != 2 || statuses[0].Name != "game-info-sync" || statuses[1].Name != "combo-highscore-sync" {
		t.Errorf("JobStatuses() = %+v", statuses)
	}
}
