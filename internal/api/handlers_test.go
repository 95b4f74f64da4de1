// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/crawlspeed/internal/models"
)

type fakeStore struct {
	pingErr  error
	countErr error
	games    int64
	combos   int64
	version  int
	calls    atomic.Int32
}

func (s *fakeStore) Ping(context.Context) error { return s.pingErr }

func (s *fakeStore) CountGameInfos(context.Context) (int64, error) {
	s.calls.Add(1)
	return s.games, s.countErr
}

func (s *fakeStore) CountComboHighscores(context.Context) (int64, error) {
	return s.combos, nil
}

func (s *fakeStore) GetCurrentSchemaVersion(context.Context) (int, error) {
	return s.version, nil
}

type fakeConn bool

func (c fakeConn) IsConnected() bool { return bool(c) }

type fakeJobs []models.JobStatus

func (j fakeJobs) JobStatuses() []models.JobStatus { return j }

func newTestServer(t *testing.T, h *Handler, cfg RouterConfig) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(h, cfg).Setup())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, models.APIResponse) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()

	var body models.APIResponse
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return resp, body
}

func TestHealthLive(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, NewHandler(&fakeStore{pingErr: errors.New("down")}, fakeConn(false), nil), DefaultRouterConfig())

	resp, body := get(t, srv, "/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if body.Status != "success" {
		t.Errorf("body status = %q", body.Status)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestHealthReady(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		store    *fakeStore
		sequell  ConnectionState
		wantCode int
	}{
		{"all up", &fakeStore{}, fakeConn(true), http.StatusOK},
		{"sequell disabled", &fakeStore{}, nil, http.StatusOK},
		{"database down", &fakeStore{pingErr: errors.New("closed")}, fakeConn(true), http.StatusServiceUnavailable},
		{"sequell disconnected", &fakeStore{}, fakeConn(false), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := newTestServer(t, NewHandler(tt.store, tt.sequell, nil), DefaultRouterConfig())

			resp, body := get(t, srv, "/readyz")
			if resp.StatusCode != tt.wantCode {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantCode)
			}
			wantStatus := "ready"
			if tt.wantCode != http.StatusOK {
				wantStatus = "not_ready"
			}
			if body.Status != wantStatus {
				t.Errorf("body status = %q, want %q", body.Status, wantStatus)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	t.Parallel()

	finished := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	jobs := fakeJobs{{Name: "game-info-sync", Runs: 2, LastFinish: &finished}}
	srv := newTestServer(t, NewHandler(&fakeStore{games: 1204, combos: 412, version: 3}, fakeConn(true), jobs), DefaultRouterConfig())

	resp, err := http.Get(srv.URL + "/api/v1/status")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Status string            `json:"status"`
		Data   models.SyncStatus `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Data.GameInfos != 1204 || body.Data.ComboHighscores != 412 || body.Data.SchemaVersion != 3 {
		t.Errorf("data = %+v", body.Data)
	}
	if len(body.Data.Jobs) != 1 || body.Data.Jobs[0].Name != "game-info-sync" || body.Data.Jobs[0].Runs != 2 {
		t.Errorf("jobs = %+v", body.Data.Jobs)
	}
}

func TestStatusCachesCounts(t *testing.T) {
	t.Parallel()

	store := &fakeStore{games: 5}
	srv := newTestServer(t, NewHandler(store, nil, nil), DefaultRouterConfig())

	for i := 0; i < 3; i++ {
		resp, _ := get(t, srv, "/api/v1/status")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
	}
	if calls := store.calls.Load(); calls != 1 {
		t.Errorf("CountGameInfos calls = %d, want 1", calls)
	}
}

func TestStatusDatabaseError(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, NewHandler(&fakeStore{countErr: errors.New("IO Error: disk full")}, nil, nil), DefaultRouterConfig())

	resp, body := get(t, srv, "/api/v1/status")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
	if body.Error == nil || body.Error.Code != "DATABASE_ERROR" {
		t.Fatalf("error = %+v", body.Error)
	}
	if strings.Contains(body.Error.Message, "disk full") {
		t.Errorf("internal error leaked to client: %q", body.Error.Message)
	}
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, NewHandler(&fakeStore{}, nil, nil), DefaultRouterConfig())

	resp, body := get(t, srv, "/api/v1/nope")
	if resp.StatusCode != http.StatusNotFound || body.Error == nil || body.Error.Code != "NOT_FOUND" {
		t.Errorf("GET unknown route = %d %+v", resp.StatusCode, body.Error)
	}

	post, err := http.Post(srv.URL+"/readyz", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	post.Body.Close()
	if post.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("POST /readyz = %d, want 405", post.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, NewHandler(&fakeStore{}, nil, nil), DefaultRouterConfig())

	// Hit an instrumented route first so the request counter has a sample.
	get(t, srv, "/api/v1/status")

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	buf := new(strings.Builder)
	if _, err := io.Copy(buf, resp.Body); err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(buf.String(), "api_requests_total") {
		t.Error("metrics output missing api_requests_total")
	}
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	cfg := DefaultRouterConfig()
	cfg.RateLimitRequests = 2
	srv := newTestServer(t, NewHandler(&fakeStore{}, nil, nil), cfg)

	for i := 0; i < 2; i++ {
		if resp, _ := get(t, srv, "/api/v1/status"); resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, resp.StatusCode)
		}
	}
	resp, body := get(t, srv, "/api/v1/status")
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", resp.StatusCode)
	}
	if body.Error == nil || body.Error.Code != "RATE_LIMITED" {
		t.Errorf("error = %+v", body.Error)
	}

	// Probes have their own budget.
	if resp, _ := get(t, srv, "/healthz"); resp.StatusCode != http.StatusOK {
		t.Errorf("/healthz status = %d, want 200", resp.StatusCode)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	t.Parallel()

	cfg := DefaultRouterConfig()
	cfg.RateLimitRequests = 1
	cfg.RateLimitDisabled = true
	srv := newTestServer(t, NewHandler(&fakeStore{}, nil, nil), cfg)

	for i := 0; i < 3; i++ {
		if resp, _ := get(t, srv, "/api/v1/status"); resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, resp.StatusCode)
		}
	}
}

func TestEventStreamRoute(t *testing.T) {
	t.Parallel()

	stream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	with := httptest.NewServer(NewRouter(NewHandler(&fakeStore{}, nil, nil), DefaultRouterConfig()).WithEventStream(stream).Setup())
	t.Cleanup(with.Close)
	without := newTestServer(t, NewHandler(&fakeStore{}, nil, nil), DefaultRouterConfig())

	tests := []struct {
		name string
		srv  *httptest.Server
		want int
	}{
		{"mounted", with, http.StatusNoContent},
		{"not mounted", without, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			resp, err := http.Get(tt.srv.URL + "/api/v1/events")
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}
