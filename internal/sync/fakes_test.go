// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package sync

import (
	"context"
	"errors"
	stdsync "sync"
	"testing"
	"time"

	"github.com/tomtom215/crawlspeed/internal/models"
)

// fakeClient records outgoing queries and lets tests push results.
// The optional responders run in their own goroutine, like replies from the bot.
type fakeClient struct {
	mu      stdsync.Mutex
	lgs     []models.LgQuery
	logs    []models.LogQuery
	sends   []string
	subs    map[int]func(models.SequellResult)
	nextSub int

	onLG   func(q models.LgQuery) []models.SequellResult
	onLog  func(q models.LogQuery) []models.SequellResult
	onSend func(msg string) []models.SequellResult

	sendErr error
}

func newFakeClient() *fakeClient {
	return &fakeClient{subs: make(map[int]func(models.SequellResult))}
}

func (c *fakeClient) Subscribe(fn func(models.SequellResult)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *fakeClient) LG(_ context.Context, q models.LgQuery) error {
	c.mu.Lock()
	c.lgs = append(c.lgs, q)
	respond, err := c.onLG, c.sendErr
	c.mu.Unlock()
	if err != nil {
		return err
	}
	if respond != nil {
		go c.emit(respond(q)...)
	}
	return nil
}

func (c *fakeClient) Log(_ context.Context, q models.LogQuery) error {
	c.mu.Lock()
	c.logs = append(c.logs, q)
	respond := c.onLog
	c.mu.Unlock()
	if respond != nil {
		go c.emit(respond(q)...)
	}
	return nil
}

func (c *fakeClient) Send(_ context.Context, msg string) error {
	c.mu.Lock()
	c.sends = append(c.sends, msg)
	respond, err := c.onSend, c.sendErr
	c.mu.Unlock()
	if err != nil {
		return err
	}
	if respond != nil {
		go c.emit(respond(msg)...)
	}
	return nil
}

// emit delivers results to every subscriber, in order.
func (c *fakeClient) emit(results ...models.SequellResult) {
	for _, r := range results {
		c.mu.Lock()
		handlers := make([]func(models.SequellResult), 0, len(c.subs))
		for _, fn := range c.subs {
			handlers = append(handlers, fn)
		}
		c.mu.Unlock()
		for _, fn := range handlers {
			fn(r)
		}
	}
}

func (c *fakeClient) subscriberCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

func (c *fakeClient) lgQueries() []models.LgQuery {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.LgQuery(nil), c.lgs...)
}

func (c *fakeClient) logQueries() []models.LogQuery {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.LogQuery(nil), c.logs...)
}

func (c *fakeClient) sentMessages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.sends...)
}

// memStore is an in-memory GameInfoStore and HighscoreStore keyed by gid.
type memStore struct {
	mu         stdsync.Mutex
	games      map[string]models.GameInfo
	highscores map[string]models.ComboHighscore
	upserts    int
	morgues    []string

	upsertErr    error
	highscoreErr func(hs *models.ComboHighscore) error
}

func newMemStore() *memStore {
	return &memStore{
		games:      make(map[string]models.GameInfo),
		highscores: make(map[string]models.ComboHighscore),
	}
}

func (s *memStore) UpsertGameInfo(_ context.Context, info *models.GameInfo) (*models.GameInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserts++
	if s.upsertErr != nil {
		return nil, s.upsertErr
	}
	stored := *info
	if prev, ok := s.games[info.GID]; ok && stored.Morgue == "" {
		stored.Morgue = prev.Morgue
	}
	s.games[info.GID] = stored
	return &stored, nil
}

func (s *memStore) UpsertMorgue(_ context.Context, match models.MorgueMatch, morgue string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[match.GID]
	if !ok {
		return errors.New("no such game")
	}
	g.Morgue = morgue
	s.games[match.GID] = g
	s.morgues = append(s.morgues, morgue)
	return nil
}

func (s *memStore) UpsertComboHighscore(_ context.Context, hs *models.ComboHighscore) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.highscoreErr != nil {
		if err := s.highscoreErr(hs); err != nil {
			return err
		}
	}
	s.highscores[hs.GID] = *hs
	return nil
}

func (s *memStore) gameCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.games)
}

func (s *memStore) upsertCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upserts
}

// fakeScraper returns a fixed list or error.
type fakeScraper struct {
	scores []models.ComboHighscore
	err    error
}

func (f *fakeScraper) FetchComboHighscores(context.Context) ([]models.ComboHighscore, error) {
	return f.scores, f.err
}

// lgResult builds a valid lg result for a won game.
func lgResult(player, race, background string, second int) models.SequellResult {
	date := time.Date(2020, 1, 1, 12, 0, second, 0, time.UTC)
	return models.SequellResult{
		Type: models.ResultLg,
		GameInfo: models.GameInfo{
			GID:        player + ":cao:" + date.Format("20060102150405") + "S",
			Player:     player,
			Race:       race,
			Background: background,
			Duration:   1800 + second,
			Turns:      15000,
			XL:         27,
			Runes:      3,
			Score:      100000,
			Version:    "0.24",
			Src:        "cao",
			Date:       date,
		},
	}
}

// waitDone waits for the completion channel and returns its value.
func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(10 * time.Second):
		t.Fatal("job did not finish")
		return nil
	}
}

// fastOptions keeps the sweep quick in tests.
func fastOptions(opts ...Option) []Option {
	return append([]Option{
		WithDelay(time.Millisecond),
		WithTimeout(5 * time.Second),
	}, opts...)
}
