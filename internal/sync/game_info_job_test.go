// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package sync

import (
	"context"
	"errors"
	"fmt"
	stdsync "sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/crawlspeed/internal/models"
)

func TestGameInfoSyncJob_Defaults(t *testing.T) {
	t.Parallel()

	j := NewGameInfoSyncJob(newFakeClient(), newMemStore(), WithDelay(0), WithTimeout(-1), WithPlayerLimit(0))

	if j.delay != DefaultDelay || j.timeout != DefaultTimeout {
		t.Errorf("delay/timeout = %v/%v", j.delay, j.timeout)
	}
	if j.policy.playerLimit != DefaultPlayerLimit {
		t.Errorf("playerLimit = %d, want %d", j.policy.playerLimit, DefaultPlayerLimit)
	}
	if j.filters != DefaultFilters {
		t.Errorf("filters = %+v", j.filters)
	}
	if len(j.policy.aggregations) != 4 {
		t.Errorf("aggregations = %v", j.policy.aggregations)
	}
	if j.skipMorgue {
		t.Error("skipMorgue should default to false")
	}
}

func TestGameInfoSyncJob_RaceOnlyEndToEnd(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.onLG = func(q models.LgQuery) []models.SequellResult {
		return []models.SequellResult{lgResult("speedy"+q.Race, q.Race, "Fi", len(q.Race))}
	}
	client.onLog = func(q models.LogQuery) []models.SequellResult {
		return []models.SequellResult{{
			Type:     models.ResultLog,
			GameInfo: models.GameInfo{GID: q.GID, Morgue: "http://x/" + q.GID + ".txt"},
		}}
	}
	store := newMemStore()

	var finished atomic.Int32
	var errs []error
	var errMu stdsync.Mutex

	job := NewGameInfoSyncJob(client, store, fastOptions(
		WithAggregations(models.AggregationRace),
		WithSweepState(&SweepState{Races: []string{"Ba", "Ce"}}),
		WithOnFinished(func() { finished.Add(1) }),
		WithOnError(func(err error) {
			errMu.Lock()
			errs = append(errs, err)
			errMu.Unlock()
		}),
	)...)

	done, err := job.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := waitDone(t, done); err != nil {
		t.Fatalf("job error = %v", err)
	}

	queries := client.lgQueries()
	if len(queries) != 2 || queries[0].Race != "Ba" || queries[1].Race != "Ce" {
		t.Fatalf("queries = %+v", queries)
	}
	for _, q := range queries {
		if q.Filters.Min != "dur" {
			t.Errorf("filters not merged: %+v", q.Filters)
		}
		if len(q.PlayerBlacklist) != 1 || q.PlayerBlacklist[0] != "bot" {
			t.Errorf("blacklist = %v", q.PlayerBlacklist)
		}
	}

	if store.gameCount() != 2 {
		t.Errorf("stored games = %d, want 2", store.gameCount())
	}
	if logs := client.logQueries(); len(logs) != 2 {
		t.Errorf("morgue requests = %d, want 2", len(logs))
	}
	if finished.Load() != 1 {
		t.Errorf("onFinished called %d times, want 1", finished.Load())
	}
	if client.subscriberCount() != 0 {
		t.Error("job did not unsubscribe")
	}

	errMu.Lock()
	defer errMu.Unlock()
	if len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestGameInfoSyncJob_TimeoutAdvances(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	var timeouts []any
	var mu stdsync.Mutex

	job := NewGameInfoSyncJob(client, newMemStore(),
		WithDelay(time.Millisecond),
		WithTimeout(5*time.Millisecond),
		WithAggregations(models.AggregationRace),
		WithSweepState(&SweepState{Races: []string{"Ba", "Ce"}}),
		WithOnTimeout(func(q any) {
			mu.Lock()
			timeouts = append(timeouts, q)
			mu.Unlock()
		}),
	)

	if err := Run(context.Background(), job); err != nil {
		t.Fatalf("Run: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(timeouts) != 2 {
		t.Fatalf("timeouts = %d, want 2", len(timeouts))
	}
	q, ok := timeouts[1].(models.LgQuery)
	if !ok || q.Race != "Ce" {
		t.Errorf("second timeout query = %#v", timeouts[1])
	}
}

func TestGameInfoSyncJob_TerminationBound(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	const playerLimit = 10
	job := NewGameInfoSyncJob(client, newMemStore(),
		WithDelay(time.Millisecond),
		WithTimeout(time.Millisecond),
		WithPlayerLimit(playerLimit),
	)

	if err := Run(context.Background(), job); err != nil {
		t.Fatalf("Run: %v", err)
	}

	state := NewSweepState()
	bound := len(state.Races) + len(state.Backgrounds) + len(state.Gods) + playerLimit + 1
	got := len(client.lgQueries()) + len(client.sentMessages())
	if got > bound {
		t.Errorf("issued %d queries, bound is %d", got, bound)
	}
	if want := playerLimit + len(state.Races) + len(state.Backgrounds) + len(state.Gods); got != want {
		t.Errorf("issued %d queries, want %d", got, want)
	}
}

func TestGameInfoSyncJob_KilledReplayedOnce(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.onLG = func(q models.LgQuery) []models.SequellResult {
		return []models.SequellResult{{Type: models.ResultKilled, Message: "!lg * win race=" + q.Race}}
	}
	client.onSend = func(msg string) []models.SequellResult {
		return []models.SequellResult{{Type: models.ResultKilled, Message: msg}}
	}

	var timeouts atomic.Int32
	job := NewGameInfoSyncJob(client, newMemStore(), fastOptions(
		WithAggregations(models.AggregationRace),
		WithSweepState(&SweepState{Races: []string{"Ba"}}),
		WithOnTimeout(func(any) { timeouts.Add(1) }),
	)...)

	if err := Run(context.Background(), job); err != nil {
		t.Fatalf("Run: %v", err)
	}

	sends := client.sentMessages()
	if len(sends) != 1 || sends[0] != "!lg * win race=Ba" {
		t.Errorf("replays = %v, want exactly one", sends)
	}
	if timeouts.Load() != 0 {
		t.Errorf("a stalled replay should not fire the timeout observer")
	}
}

func TestGameInfoSyncJob_PlayerLimit(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	var n atomic.Int32
	client.onLG = func(models.LgQuery) []models.SequellResult {
		i := int(n.Add(1))
		return []models.SequellResult{lgResult(fmt.Sprintf("p%d", i), "Mi", "Be", i)}
	}

	job := NewGameInfoSyncJob(client, newMemStore(), fastOptions(
		WithAggregations(models.AggregationPlayer),
		WithPlayerLimit(3),
		WithSkipMorgue(true),
	)...)

	if err := Run(context.Background(), job); err != nil {
		t.Fatalf("Run: %v", err)
	}

	queries := client.lgQueries()
	if len(queries) != 3 {
		t.Fatalf("player queries = %d, want 3", len(queries))
	}
	last := queries[2].PlayerBlacklist
	if len(last) != 3 || last[1] != "p1" || last[2] != "p2" {
		t.Errorf("last blacklist = %v", last)
	}
	if len(job.state.Players) != 2 {
		t.Errorf("players = %v, want 2", job.state.Players)
	}
	if logs := client.logQueries(); len(logs) != 0 {
		t.Errorf("morgue requested with skipMorgue: %v", logs)
	}
}

func TestGameInfoSyncJob_DuplicateGID(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.onLG = func(models.LgQuery) []models.SequellResult {
		return []models.SequellResult{lgResult("ego", "Mi", "Be", 0)}
	}
	store := newMemStore()

	job := NewGameInfoSyncJob(client, store, fastOptions(
		WithAggregations(models.AggregationRace),
		WithSweepState(&SweepState{Races: []string{"Ba", "Ce", "DD"}}),
		WithSkipMorgue(true),
	)...)

	if err := Run(context.Background(), job); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if store.upsertCount() != 3 {
		t.Errorf("upserts = %d, want 3", store.upsertCount())
	}
	if store.gameCount() != 1 {
		t.Errorf("stored games = %d, want 1", store.gameCount())
	}
}

func TestGameInfoSyncJob_AllAxesDisabled(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	var finished atomic.Bool
	job := NewGameInfoSyncJob(client, newMemStore(), fastOptions(
		WithAggregations(),
		WithOnFinished(func() { finished.Store(true) }),
	)...)

	if err := Run(context.Background(), job); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(client.lgQueries()) != 0 {
		t.Errorf("queries issued with no axes: %v", client.lgQueries())
	}
	if !finished.Load() {
		t.Error("onFinished not called")
	}
}

func TestGameInfoSyncJob_StartTwice(t *testing.T) {
	t.Parallel()

	job := NewGameInfoSyncJob(newFakeClient(), newMemStore(), fastOptions(WithAggregations())...)

	done, err := job.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := job.Start(context.Background()); !errors.Is(err, ErrJobAlreadyStarted) {
		t.Errorf("second Start error = %v, want ErrJobAlreadyStarted", err)
	}
	waitDone(t, done)

	// The completion channel is closed after its single value.
	if _, ok := <-done; ok {
		t.Error("completion channel delivered a second value")
	}
}

func TestGameInfoSyncJob_ContextCancel(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	job := NewGameInfoSyncJob(client, newMemStore(),
		WithDelay(time.Hour),
		WithAggregations(models.AggregationRace),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done, err := job.Start(ctx)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	cancel()

	if err := waitDone(t, done); !errors.Is(err, context.Canceled) {
		t.Errorf("job error = %v, want context.Canceled", err)
	}
	if client.subscriberCount() != 0 {
		t.Error("job did not unsubscribe on cancel")
	}

	// Results after completion are dropped without blocking.
	client.emit(lgResult("late", "Mi", "Be", 0))
}

func TestGameInfoSyncJob_PersistErrorsAreNonFatal(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.onLG = func(q models.LgQuery) []models.SequellResult {
		return []models.SequellResult{lgResult("ego", q.Race, "Fi", 1)}
	}
	store := newMemStore()
	store.upsertErr = errors.New("disk full")

	var errCount atomic.Int32
	job := NewGameInfoSyncJob(client, store, fastOptions(
		WithAggregations(models.AggregationRace),
		WithSweepState(&SweepState{Races: []string{"Ba", "Ce"}}),
		WithOnError(func(error) { errCount.Add(1) }),
	)...)

	if err := Run(context.Background(), job); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if errCount.Load() != 2 {
		t.Errorf("errors = %d, want 2", errCount.Load())
	}
	if len(client.lgQueries()) != 2 {
		t.Errorf("sweep stopped early: %d queries", len(client.lgQueries()))
	}
	if len(client.logQueries()) != 0 {
		t.Error("morgue requested for a game that was not stored")
	}
}

func TestGameInfoSyncJob_InvalidRecordReported(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.onLG = func(models.LgQuery) []models.SequellResult {
		bad := lgResult("ego", "Mi", "Be", 0)
		bad.GID = ""
		return []models.SequellResult{bad}
	}
	store := newMemStore()

	var errCount atomic.Int32
	job := NewGameInfoSyncJob(client, store, fastOptions(
		WithAggregations(models.AggregationRace),
		WithSweepState(&SweepState{Races: []string{"Ba"}}),
		WithOnError(func(error) { errCount.Add(1) }),
	)...)

	if err := Run(context.Background(), job); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if errCount.Load() != 1 || store.upsertCount() != 0 {
		t.Errorf("errors = %d, upserts = %d", errCount.Load(), store.upsertCount())
	}
}

func TestGameInfoSyncJob_SendErrorFallsBackToTimeout(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.sendErr = errors.New("not connected")

	var errCount, timeouts atomic.Int32
	job := NewGameInfoSyncJob(client, newMemStore(),
		WithDelay(time.Millisecond),
		WithTimeout(5*time.Millisecond),
		WithAggregations(models.AggregationGod),
		WithSweepState(&SweepState{Gods: []string{"Trog"}}),
		WithOnError(func(error) { errCount.Add(1) }),
		WithOnTimeout(func(any) { timeouts.Add(1) }),
	)

	if err := Run(context.Background(), job); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if errCount.Load() != 1 || timeouts.Load() != 1 {
		t.Errorf("errors = %d, timeouts = %d; want 1 and 1", errCount.Load(), timeouts.Load())
	}
}

func TestGameInfoSyncJob_CustomFiltersOverride(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.onLG = func(q models.LgQuery) []models.SequellResult {
		return []models.SequellResult{lgResult("ego", q.Race, "Fi", 0)}
	}

	job := NewGameInfoSyncJob(client, newMemStore(), fastOptions(
		WithAggregations(models.AggregationRace),
		WithSweepState(&SweepState{Races: []string{"Ba"}}),
		WithFilters(models.QueryFilters{Min: "turn"}),
		WithBots([]string{"Sequell", "Henzell"}),
		WithSkipMorgue(true),
	)...)

	if err := Run(context.Background(), job); err != nil {
		t.Fatalf("Run: %v", err)
	}

	q := client.lgQueries()[0]
	if q.Filters.Min != "turn" {
		t.Errorf("filters = %+v", q.Filters)
	}
	if len(q.PlayerBlacklist) != 2 || q.PlayerBlacklist[0] != "Sequell" {
		t.Errorf("blacklist = %v", q.PlayerBlacklist)
	}
}

func TestGameInfoSyncJob_LateReplyKeepsScheduledQuery(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.onLG = func(q models.LgQuery) []models.SequellResult {
		if q.Race == "Ba" {
			// Arrives after the timeout moved the sweep on to Ce, before Ce is sent.
			go func() {
				time.Sleep(120 * time.Millisecond)
				client.emit(lgResult("late", "Ba", "Fi", 1))
			}()
		}
		return nil
	}

	job := NewGameInfoSyncJob(client, newMemStore(),
		WithDelay(200*time.Millisecond),
		WithTimeout(50*time.Millisecond),
		WithSkipMorgue(true),
		WithAggregations(models.AggregationRace),
		WithSweepState(&SweepState{Races: []string{"Ba", "Ce", "Dg"}}),
	)

	if err := Run(context.Background(), job); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var races []string
	for _, q := range client.lgQueries() {
		races = append(races, q.Race)
	}
	if fmt.Sprint(races) != "[Ba Ce Dg]" {
		t.Errorf("races queried = %v, want [Ba Ce Dg]", races)
	}
}
