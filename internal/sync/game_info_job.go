// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package sync

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/crawlspeed/internal/catalog"
	"github.com/tomtom215/crawlspeed/internal/logging"
	"github.com/tomtom215/crawlspeed/internal/metrics"
	"github.com/tomtom215/crawlspeed/internal/models"
	"github.com/tomtom215/crawlspeed/internal/validation"
)

// GameInfoJobName labels logs and metrics of the sweep job.
const GameInfoJobName = "game-info-sync"

// resultBuffer bounds results queued while the job goroutine is persisting.
const resultBuffer = 64

// GameInfoSyncJob sweeps Sequell for the fastest wins per player, race,
// background and god, storing each game it finds.
type GameInfoSyncJob struct {
	client ProtocolClient
	store  GameInfoStore

	onError    func(error)
	onTimeout  func(query any)
	onFinished func()

	delay      time.Duration
	timeout    time.Duration
	skipMorgue bool
	filters    models.QueryFilters
	policy     sweepPolicy
	checkpoint CheckpointStore

	// Owned by the run goroutine
	state        *SweepState
	killed       map[string]struct{}
	pending      any
	sendTimer    *time.Timer
	timeoutTimer *time.Timer
	finished     bool

	started     atomic.Bool
	results     chan models.SequellResult
	stop        chan struct{}
	done        chan error
	finishOnce  sync.Once
	unsubscribe func()
}

// NewGameInfoSyncJob creates a sweep job. Every job instance runs once.
func NewGameInfoSyncJob(client ProtocolClient, store GameInfoStore, opts ...Option) *GameInfoSyncJob {
	j := &GameInfoSyncJob{
		client:    client,
		store:     store,
		onError:   func(error) {},
		onTimeout: func(any) {},
		delay:     DefaultDelay,
		timeout:   DefaultTimeout,
		filters:   DefaultFilters,
		policy: sweepPolicy{
			aggregations: models.AllAggregations(),
			playerLimit:  DefaultPlayerLimit,
			bots:         catalog.Bots(),
		},
		results: make(chan models.SequellResult, resultBuffer),
		stop:    make(chan struct{}),
		done:    make(chan error, 1),
	}

	for _, opt := range opts {
		opt(j)
	}

	return j
}

// Start subscribes to the client and issues the first query. The returned channel
// yields nil when every axis is exhausted, or ctx.Err() if ctx is cancelled first.
func (j *GameInfoSyncJob) Start(ctx context.Context) (<-chan error, error) {
	if !j.started.CompareAndSwap(false, true) {
		return nil, ErrJobAlreadyStarted
	}

	if logging.JobFromContext(ctx) == "" {
		ctx = logging.ContextWithJob(ctx, GameInfoJobName)
	}
	if j.state == nil {
		j.state = j.loadCheckpoint(ctx)
	}
	logging.Ctx(ctx).Info().
		Int("player_limit", j.policy.playerLimit).
		Interface("aggregations", j.policy.aggregations).
		Msg("Starting game info sync")

	j.killed = make(map[string]struct{})
	j.unsubscribe = j.client.Subscribe(j.forward)

	go j.run(ctx)

	return j.done, nil
}

// forward hands a result to the run goroutine. It runs on the client's listener goroutine.
func (j *GameInfoSyncJob) forward(result models.SequellResult) {
	select {
	case j.results <- result:
	case <-j.stop:
	}
}

func (j *GameInfoSyncJob) run(ctx context.Context) {
	defer j.stopTimers()

	j.processResult(ctx, models.SequellResult{Type: models.ResultInit})

	for !j.finished {
		select {
		case <-ctx.Done():
			logging.Ctx(ctx).Warn().Err(ctx.Err()).Msg("Game info sync cancelled")
			j.finish(ctx, ctx.Err())

		case result := <-j.results:
			j.processResult(ctx, result)

		case <-timerC(j.sendTimer):
			j.sendTimer = nil
			j.sendPending(ctx)

		case <-timerC(j.timeoutTimer):
			j.timeoutTimer = nil
			metrics.SweepTimeouts.Inc()
			logging.Ctx(ctx).Warn().Interface("query", j.pending).Msg("Query timeout")
			j.onTimeout(j.pending)
			j.processResult(ctx, models.SequellResult{Type: models.ResultTimeout})
		}
	}
}

// processResult persists result and takes the next sweep step.
func (j *GameInfoSyncJob) processResult(ctx context.Context, result models.SequellResult) {
	logging.Ctx(ctx).Debug().Str("type", string(result.Type)).Str("gid", result.GID).Msg("Processing result")

	if j.timeoutTimer != nil && (result.Type == models.ResultLg || result.Type == models.ResultKilled) {
		j.timeoutTimer.Stop()
		j.timeoutTimer = nil
	}

	j.persistResult(ctx, result)

	// Saved before the next query is popped, so a resumed sweep re-issues it.
	var snapshot *SweepState
	if j.checkpoint != nil {
		snapshot = j.state.Clone()
	}

	for {
		d := decide(j.state, &j.policy, j.killed, result)

		switch d.Kind {
		case DecisionNone:
		case DecisionQuery:
			metrics.RecordSweepQuery(string(d.Axis))
			metrics.RecordSweepRemaining(
				max(j.policy.playerLimit-1-j.state.PlayerCount(), 0),
				len(j.state.Races), len(j.state.Backgrounds), len(j.state.Gods))
			logging.Ctx(ctx).Debug().
				Str("axis", string(d.Axis)).
				Int("players", j.state.PlayerCount()).
				Int("races_left", len(j.state.Races)).
				Int("backgrounds_left", len(j.state.Backgrounds)).
				Int("gods_left", len(j.state.Gods)).
				Msg("Next query")
			q := d.Query
			q.Filters = q.Filters.Merge(j.filters)
			j.saveCheckpoint(ctx, snapshot)
			j.next(ctx, q)
		case DecisionReplay:
			metrics.SweepReplays.Inc()
			logging.Ctx(ctx).Debug().Str("message", d.Message).Msg("Replaying killed query")
			j.next(ctx, d.Message)
		case DecisionStall:
			result = models.SequellResult{Type: models.ResultTimeout}
			continue
		case DecisionDone:
			j.finish(ctx, nil)
		}
		return
	}
}

// persistResult stores lg and log results. Failures are reported and never stop the sweep.
func (j *GameInfoSyncJob) persistResult(ctx context.Context, result models.SequellResult) {
	switch result.Type {
	case models.ResultLg:
		info := result.GameInfo
		if verr := validation.ValidateStruct(&info); verr != nil {
			metrics.RecordPersist("game_info", verr)
			j.emitError(ctx, fmt.Errorf("invalid game %q: %w", info.GID, verr))
			return
		}

		stored, err := j.store.UpsertGameInfo(ctx, &info)
		metrics.RecordPersist("game_info", err)
		if err != nil {
			j.emitError(ctx, fmt.Errorf("persist game %s: %w", info.GID, err))
			return
		}

		if !j.skipMorgue && !stored.HasMorgue() {
			metrics.SweepMorgueRequests.Inc()
			if err := j.client.Log(ctx, models.LogQuery{GID: info.GID}); err != nil {
				j.emitError(ctx, fmt.Errorf("request morgue for %s: %w", info.GID, err))
			}
		}

	case models.ResultLog:
		if result.Morgue == "" {
			logging.Ctx(ctx).Debug().Str("gid", result.GID).Msg("Log result without morgue link")
			return
		}
		err := j.store.UpsertMorgue(ctx, result.MorgueMatch(), result.Morgue)
		metrics.RecordPersist("morgue", err)
		if err != nil {
			j.emitError(ctx, fmt.Errorf("persist morgue %s: %w", result.Morgue, err))
		}
	}
}

// next schedules query (a models.LgQuery or a verbatim message) after the delay
// and arms the timeout for delay+timeout. A query still waiting out its delay
// is sent right away, so a late reply never drops a scheduled query.
func (j *GameInfoSyncJob) next(ctx context.Context, query any) {
	if j.sendTimer != nil {
		j.sendTimer.Stop()
		j.sendTimer = nil
		j.sendPending(ctx)
	}
	j.stopTimers()
	j.pending = query
	j.sendTimer = time.NewTimer(j.delay)
	j.timeoutTimer = time.NewTimer(j.delay + j.timeout)
}

func (j *GameInfoSyncJob) sendPending(ctx context.Context) {
	var err error
	switch q := j.pending.(type) {
	case string:
		err = j.client.Send(ctx, q)
	case models.LgQuery:
		err = j.client.LG(ctx, q)
	}
	if err != nil {
		// The timeout timer is still armed and moves the sweep on.
		j.emitError(ctx, fmt.Errorf("send query: %w", err))
	}
}

func (j *GameInfoSyncJob) emitError(ctx context.Context, err error) {
	logging.Ctx(ctx).Error().Err(err).Msg("Game info sync error")
	j.onError(err)
}

// finish ends the run. Only the first call has any effect.
func (j *GameInfoSyncJob) finish(ctx context.Context, err error) {
	j.finishOnce.Do(func() {
		j.finished = true
		j.unsubscribe()
		close(j.stop)
		j.stopTimers()

		logging.Ctx(ctx).Info().
			Int("players", j.state.PlayerCount()).
			Msg("Game info sync done")

		if err == nil {
			j.clearCheckpoint(ctx)
		}

		if j.onFinished != nil {
			j.onFinished()
		}
		j.done <- err
		close(j.done)
	})
}

// loadCheckpoint returns the stored sweep state, or a fresh one when none
// is stored or it cannot be read.
func (j *GameInfoSyncJob) loadCheckpoint(ctx context.Context) *SweepState {
	if j.checkpoint == nil {
		return NewSweepState()
	}
	state, err := j.checkpoint.LoadSweepState(ctx, GameInfoJobName)
	metrics.RecordCheckpoint("load", err)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to load sweep checkpoint, starting a full sweep")
		return NewSweepState()
	}
	if state == nil {
		return NewSweepState()
	}
	logging.Ctx(ctx).Info().
		Int("players", state.PlayerCount()).
		Int("races_left", len(state.Races)).
		Int("backgrounds_left", len(state.Backgrounds)).
		Int("gods_left", len(state.Gods)).
		Msg("Resuming sweep from checkpoint")
	return state
}

func (j *GameInfoSyncJob) saveCheckpoint(ctx context.Context, state *SweepState) {
	if j.checkpoint == nil || state == nil {
		return
	}
	err := j.checkpoint.SaveSweepState(ctx, GameInfoJobName, state)
	metrics.RecordCheckpoint("save", err)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to save sweep checkpoint")
	}
}

func (j *GameInfoSyncJob) clearCheckpoint(ctx context.Context) {
	if j.checkpoint == nil {
		return
	}
	err := j.checkpoint.ClearSweepState(ctx, GameInfoJobName)
	metrics.RecordCheckpoint("clear", err)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to clear sweep checkpoint")
	}
}

func (j *GameInfoSyncJob) stopTimers() {
	if j.sendTimer != nil {
		j.sendTimer.Stop()
		j.sendTimer = nil
	}
	if j.timeoutTimer != nil {
		j.timeoutTimer.Stop()
		j.timeoutTimer = nil
	}
}

func timerC(t *time.Timer) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}
