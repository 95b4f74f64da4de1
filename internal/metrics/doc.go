// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry through promauto and exposed
at /metrics by the api package:

	curl http://localhost:3860/metrics

# Available Metrics

Database:
  - duckdb_query_duration_seconds{operation,table}
  - duckdb_query_errors_total{operation,table,error_type}

Sequell client:
  - sequell_connected, sequell_reconnects_total, sequell_queue_depth
  - sequell_messages_sent_total, sequell_send_errors_total{reason}
  - sequell_results_received_total{type}

Sweep (game info sync):
  - sweep_queries_total{axis}, sweep_timeouts_total, sweep_killed_replays_total
  - sweep_records_persisted_total{kind}, sweep_persist_errors_total{kind}
  - sweep_morgue_requests_total, sweep_remaining_items{axis}
  - sweep_checkpoint_operations_total{operation,status}

Jobs:
  - job_runs_total{job,status}, job_duration_seconds{job}
  - job_last_success_timestamp{job}, job_running{job}

Scraper:
  - scraper_fetch_duration_seconds, scraper_rows_skipped_total{reason}

HTTP, websocket, NATS and circuit breaker collectors follow the same naming.

Callers use the Record* helpers rather than touching collectors directly:

	start := time.Now()
	err := db.UpsertGameInfo(ctx, info)
	metrics.RecordDBQuery("upsert", "game_infos", time.Since(start), err)
*/
package metrics
