// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

// Package main is the entry point for the crawlspeed server.
//
// crawlspeed keeps a DuckDB database of the fastest Dungeon Crawl Stone Soup
// wins. It sweeps the Sequell IRC bot (through its websocket bridge) by player,
// species, background and god, attaches morgue links, and scrapes the combo
// highscore list.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: defaults, config.yaml, then environment (Koanf v2)
//  2. Logging: zerolog, JSON or console
//  3. Database: DuckDB with versioned migrations, plus an optional BadgerDB
//     sweep checkpoint (SYNC_CHECKPOINT_DIR)
//  4. Sequell client: websocket bridge with rate-limited, circuit-broken sends
//  5. Job events: websocket feed at /api/v1/events, plus NATS with -tags nats
//  6. Supervisor tree: Sequell connection, scheduled jobs, event hub, HTTP server
//
// # Build Tags
//
//	go build ./cmd/server                # default build, no event publishing
//	go build -tags nats ./cmd/server     # publish job events to NATS
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. A running sweep stops at its
// next step, the HTTP server drains for up to 10s, and DuckDB is checkpointed
// on close.
//
// # Example Usage
//
//	export SEQUELL_URL=wss://sequell-bridge.example.org/ws
//	export SYNC_INTERVAL=6h
//	export HIGHSCORE_INTERVAL=24h
//	export DUCKDB_PATH=/data/crawlspeed.duckdb
//	export SYNC_CHECKPOINT_DIR=/data/checkpoint
//	./crawlspeed
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/crawlspeed/internal/api"
	"github.com/tomtom215/crawlspeed/internal/checkpoint"
	"github.com/tomtom215/crawlspeed/internal/config"
	"github.com/tomtom215/crawlspeed/internal/database"
	"github.com/tomtom215/crawlspeed/internal/eventprocessor"
	"github.com/tomtom215/crawlspeed/internal/logging"
	"github.com/tomtom215/crawlspeed/internal/scraper"
	"github.com/tomtom215/crawlspeed/internal/sequell"
	"github.com/tomtom215/crawlspeed/internal/supervisor"
	"github.com/tomtom215/crawlspeed/internal/supervisor/services"
	jobsync "github.com/tomtom215/crawlspeed/internal/sync"
	"github.com/tomtom215/crawlspeed/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("sequell_url", cfg.Sequell.URL).
		Bool("sync_enabled", cfg.Sync.Enabled).
		Bool("highscore_enabled", cfg.Highscore.Enabled).
		Str("db_path", cfg.Database.Path).
		Msg("Starting crawlspeed")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("crawlspeed stopped with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run(cfg *config.Config) error {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := InitEvents(cfg)
	if err != nil {
		return fmt.Errorf("initialize job events: %w", err)
	}
	defer events.Shutdown(context.Background())

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	hub := websocket.NewHub()
	tree.AddAPIService(services.NewWebSocketHubService(hub))
	publisher := eventprocessor.NewFanout(hub, events.Publisher())

	var sequellClient *sequell.Client
	var jobServices []*services.JobService

	if cfg.Sync.Enabled {
		sequellClient = sequell.NewClient(cfg.Sequell)
		defer sequellClient.Close()
		tree.AddProtocolService(services.NewSequellService(sequellClient))

		opts, err := gameInfoJobOptions(cfg.Sync, eventprocessor.NewObserver(publisher, gameInfoJobName, 0))
		if err != nil {
			return err
		}
		if cfg.Sync.CheckpointDir != "" {
			store, err := checkpoint.Open(checkpoint.DefaultConfig(cfg.Sync.CheckpointDir))
			if err != nil {
				return fmt.Errorf("open sweep checkpoint: %w", err)
			}
			defer func() {
				if err := store.Close(); err != nil {
					logging.Error().Err(err).Msg("Error closing checkpoint store")
				}
			}()
			tree.AddJobService(store)
			opts = append(opts, jobsync.WithCheckpoint(store))
		}
		svc := services.NewJobService(
			gameInfoJobName,
			cfg.Sync.Interval,
			gameInfoJobFactory(sequellClient, db, opts),
			services.WithReadiness(sequellClient.IsConnected, time.Second),
		)
		tree.AddJobService(svc)
		jobServices = append(jobServices, svc)
	}

	if cfg.Highscore.Enabled {
		svc := services.NewJobService(
			comboHighscoreJobName,
			cfg.Highscore.Interval,
			comboHighscoreJobFactory(scraper.NewWebScraper(cfg.Highscore), db,
				eventprocessor.NewObserver(publisher, comboHighscoreJobName, 0)),
		)
		tree.AddJobService(svc)
		jobServices = append(jobServices, svc)
	}

	handler := api.NewHandler(db, connectionState(sequellClient), services.NewJobStatusSet(jobServices...))
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.NewRouter(handler, api.DefaultRouterConfig()).WithEventStream(websocket.Handler(hub, nil)).Setup(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	var treeErr error
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
			treeErr = err
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	return treeErr
}

// connectionState avoids handing the api package a typed nil client.
func connectionState(c *sequell.Client) api.ConnectionState {
	if c == nil {
		return nil
	}
	return c
}
