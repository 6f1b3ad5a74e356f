// AdSynth - Synthetic Advertising Data and Analytics Platform
// Copyright 2026 AdSynth contributors
// SPDX-License-Identifier: MIT
// https://github.com/adsynth/adsynth

/*
database_schema.go - Database Schema Management

Tables:
  - advertisers, campaigns, line_items, creatives: the synthetic entity
    hierarchy, one row per generated entity
  - raw_performance_hourly: immutable raw counters, one row per campaign per
    flight hour (unique on campaign_id + hour_ts)
  - campaign_performance_derived: the SQL metrics surface, 1:1 with
    raw_performance_hourly, fully rebuilt by the transform

Schema Strategy:
All columns are defined in the initial CREATE TABLE statements. Schema
migration is out of scope; regenerating the dataset is always cheaper than
migrating it.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// tableCreationQueries returns the table creation SQL statements.
func tableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS advertisers (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			vertical TEXT NOT NULL,
			currency TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS campaigns (
			id UUID PRIMARY KEY,
			advertiser_id UUID NOT NULL,
			name TEXT NOT NULL,
			objective TEXT NOT NULL,
			status TEXT NOT NULL,
			pacing TEXT NOT NULL,
			flight_start TIMESTAMP NOT NULL,
			flight_end TIMESTAMP NOT NULL,
			daily_budget_cents BIGINT NOT NULL,
			currency TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS line_items (
			id UUID PRIMARY KEY,
			campaign_id UUID NOT NULL,
			name TEXT NOT NULL,
			format TEXT NOT NULL,
			bid_strategy TEXT NOT NULL,
			cpm_bid_cents BIGINT NOT NULL,
			targeting TEXT,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS creatives (
			id UUID PRIMARY KEY,
			line_item_id UUID NOT NULL,
			name TEXT NOT NULL,
			mime_type TEXT NOT NULL,
			duration_seconds DOUBLE NOT NULL,
			interactive BOOLEAN NOT NULL,
			qr_enabled BOOLEAN NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,

		// Raw hourly counters. Immutable after insert; bulk-replaced per
		// campaign on regeneration. Temporal attributes are computed once at
		// generation time so both metrics surfaces read identical values.
		`CREATE TABLE IF NOT EXISTS raw_performance_hourly (
			campaign_id UUID NOT NULL,
			hour_ts TIMESTAMP NOT NULL,
			-- supply funnel
			requests BIGINT NOT NULL,
			responses BIGINT NOT NULL,
			eligible_impressions BIGINT NOT NULL,
			auctions_won BIGINT NOT NULL,
			impressions BIGINT NOT NULL,
			-- delivery quality
			viewable_impressions BIGINT NOT NULL,
			audible_impressions BIGINT NOT NULL,
			-- video progression
			video_start BIGINT NOT NULL,
			video_q25 BIGINT NOT NULL,
			video_q50 BIGINT NOT NULL,
			video_q75 BIGINT NOT NULL,
			video_q100 BIGINT NOT NULL,
			skips BIGINT NOT NULL,
			-- engagement
			clicks BIGINT NOT NULL,
			qr_scans BIGINT NOT NULL,
			interactive_engagements BIGINT NOT NULL,
			-- financial (minor currency units)
			spend_cents BIGINT NOT NULL,
			-- reliability
			error_count BIGINT NOT NULL,
			timeout_count BIGINT NOT NULL,
			-- temporal attributes
			hour_of_day INTEGER NOT NULL,
			day_of_week INTEGER NOT NULL,
			is_business_hour BOOLEAN NOT NULL,
			PRIMARY KEY (campaign_id, hour_ts)
		)`,

		// The SQL metrics surface. One row per raw row; rebuilt, never
		// updated in place.
		`CREATE TABLE IF NOT EXISTS campaign_performance_derived (
			campaign_id UUID NOT NULL,
			hour_ts TIMESTAMP NOT NULL,
			ctr_recalc DOUBLE NOT NULL,
			viewability_rate DOUBLE NOT NULL,
			audibility_rate DOUBLE NOT NULL,
			video_start_rate DOUBLE NOT NULL,
			video_completion_rate DOUBLE NOT NULL,
			video_skip_rate_ext DOUBLE NOT NULL,
			qr_scan_rate DOUBLE NOT NULL,
			interactive_rate DOUBLE NOT NULL,
			auction_win_rate DOUBLE NOT NULL,
			supply_funnel_efficiency DOUBLE NOT NULL,
			response_rate DOUBLE NOT NULL,
			error_rate DOUBLE NOT NULL,
			timeout_rate DOUBLE NOT NULL,
			effective_cpm BIGINT NOT NULL,
			avg_watch_time_seconds DOUBLE NOT NULL,
			PRIMARY KEY (campaign_id, hour_ts)
		)`,
	}
}

// createIndexes creates indexes for common query patterns.
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_campaigns_advertiser ON campaigns(advertiser_id)`,
		`CREATE INDEX IF NOT EXISTS idx_line_items_campaign ON line_items(campaign_id)`,
		`CREATE INDEX IF NOT EXISTS idx_creatives_line_item ON creatives(line_item_id)`,
		`CREATE INDEX IF NOT EXISTS idx_raw_perf_hour ON raw_performance_hourly(hour_ts)`,
		`CREATE INDEX IF NOT EXISTS idx_derived_hour ON campaign_performance_derived(hour_ts)`,
	}

	for _, query := range indexes {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}

	return nil
}
