// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/crawlspeed/internal/config"
	"github.com/tomtom215/crawlspeed/internal/supervisor/services"
	jobsync "github.com/tomtom215/crawlspeed/internal/sync"
)

const (
	gameInfoJobName       = jobsync.GameInfoJobName
	comboHighscoreJobName = jobsync.ComboHighscoreJobName
)

// JobObserver supplies the observer options for a job run. Nil adds none.
type JobObserver interface {
	Options() []jobsync.Option
}

// gameInfoJobOptions maps sync configuration onto job options.
func gameInfoJobOptions(cfg config.SyncConfig, observer JobObserver) ([]jobsync.Option, error) {
	aggs, err := cfg.AggregationTypes()
	if err != nil {
		return nil, fmt.Errorf("sync aggregations: %w", err)
	}

	opts := []jobsync.Option{
		jobsync.WithDelay(cfg.Delay),
		jobsync.WithTimeout(cfg.Timeout),
		jobsync.WithPlayerLimit(cfg.PlayerLimit),
		jobsync.WithSkipMorgue(cfg.SkipMorgue),
		jobsync.WithAggregations(aggs...),
	}
	if filters := cfg.Filters(); filters.Min != "" || filters.Max != "" {
		opts = append(opts, jobsync.WithFilters(filters))
	}
	if observer != nil {
		opts = append(opts, observer.Options()...)
	}
	return opts, nil
}

func gameInfoJobFactory(client jobsync.ProtocolClient, store jobsync.GameInfoStore, opts []jobsync.Option) services.JobFactory {
	return func() jobsync.Job {
		return jobsync.NewGameInfoSyncJob(client, store, opts...)
	}
}

// RunObserver is told how a job run ended.
type RunObserver interface {
	OnError(err error)
	OnFinished()
}

// comboHighscoreJobFactory builds highscore jobs. The job has no hooks of
// its own, so outcomes are reported to observer when it is non-nil.
func comboHighscoreJobFactory(scraper jobsync.Scraper, store jobsync.HighscoreStore, observer RunObserver) services.JobFactory {
	return func() jobsync.Job {
		job := jobsync.NewComboHighscoreSyncJob(scraper, store)
		if observer == nil {
			return job
		}
		return &observedJob{Job: job, observer: observer}
	}
}

type observedJob struct {
	jobsync.Job
	observer RunObserver
}

// Start forwards the run result after reporting it. Runs ended by
// cancellation are not reported.
func (j *observedJob) Start(ctx context.Context) (<-chan error, error) {
	done, err := j.Job.Start(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan error, 1)
	go func() {
		defer close(out)
		err := <-done
		switch {
		case err == nil:
			j.observer.OnFinished()
		case ctx.Err() == nil:
			j.observer.OnError(err)
		}
		out <- err
	}()
	return out, nil
}
