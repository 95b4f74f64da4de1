// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tomtom215/crawlspeed/internal/config"
	"github.com/tomtom215/crawlspeed/internal/logging"
	"github.com/tomtom215/crawlspeed/internal/metrics"
	"github.com/tomtom215/crawlspeed/internal/models"
)

// maxPageSize caps the highscore page body.
const maxPageSize = 20 * 1024 * 1024

// ErrNoTable is returned when the page contains no leaderboard table.
var ErrNoTable = errors.New("scraper: no highscore table found")

// ErrPageTooLarge is returned when the page body exceeds the size cap.
var ErrPageTooLarge = errors.New("scraper: highscore page too large")

// WebScraper reads combo highscores from a server's scoring page.
type WebScraper struct {
	url      string
	source   string
	client   *http.Client
	maxBytes int64
}

// NewWebScraper creates a scraper for cfg.URL. cfg.Source is used as the src
// field of every record and as part of the generated game id.
func NewWebScraper(cfg config.HighscoreConfig) *WebScraper {
	return &WebScraper{
		url:    cfg.URL,
		source: cfg.Source,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		maxBytes: maxPageSize,
	}
}

// FetchComboHighscores downloads and parses the highscore page. Any transport or
// status error fails the whole call.
func (s *WebScraper) FetchComboHighscores(ctx context.Context) ([]models.ComboHighscore, error) {
	start := time.Now()
	body, err := s.fetch(ctx)
	metrics.ScraperFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	rows, err := parseTable(body)
	if err != nil {
		return nil, err
	}

	scores := make([]models.ComboHighscore, 0, len(rows))
	for _, row := range rows {
		hs, reason := row.toHighscore(s.source)
		if reason != "" {
			metrics.ScraperRowsSkipped.WithLabelValues(reason).Inc()
			logging.Debug().
				Str("player", row.get(colPlayer)).
				Str("character", row.get(colCharacter)).
				Str("reason", reason).
				Msg("Skipping highscore row")
			continue
		}
		scores = append(scores, hs)
	}

	logging.Info().
		Str("url", s.url).
		Int("rows", len(rows)).
		Int("records", len(scores)).
		Dur("elapsed", time.Since(start)).
		Msg("Fetched combo highscores")

	return scores, nil
}

// fetch performs a single HTTP GET request.
func (s *WebScraper) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "Crawlspeed-Highscore-Scraper/1.0")
	req.Header.Set("Accept", "text/html")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("%w: over %d bytes", ErrPageTooLarge, s.maxBytes)
	}

	return data, nil
}
