// AdSynth - Synthetic Advertising Data and Analytics Platform
// Copyright 2026 AdSynth contributors
// SPDX-License-Identifier: MIT
// https://github.com/adsynth/adsynth

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/adsynth/adsynth/internal/logging"
	"github.com/adsynth/adsynth/internal/models"
)

// rawPerformanceColumns is the canonical column list of raw_performance_hourly,
// in insert order. The scan helpers below must stay aligned with it.
const rawPerformanceColumns = `campaign_id, hour_ts,
	requests, responses, eligible_impressions, auctions_won, impressions,
	viewable_impressions, audible_impressions,
	video_start, video_q25, video_q50, video_q75, video_q100, skips,
	clicks, qr_scans, interactive_engagements,
	spend_cents, error_count, timeout_count,
	hour_of_day, day_of_week, is_business_hour`

// InsertRawPerformance bulk-inserts raw hourly rows in one transaction.
// Rows are validated at this boundary; a single invalid row aborts the batch.
func (db *DB) InsertRawPerformance(ctx context.Context, records []models.RawPerformanceRecord) (err error) {
	if len(records) == 0 {
		return nil
	}

	for i := range records {
		if err := records[i].Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error().Err(rbErr).AnErr("original_error", err).Msg("Transaction rollback failed")
			}
		}
	}()

	if err = insertRawRows(ctx, tx, records); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	logging.Debug().
		Int("rows", len(records)).
		Dur("duration", time.Since(start)).
		Msg("Raw performance rows inserted")

	return nil
}

// ReplaceCampaignPerformance atomically replaces one campaign's raw rows.
// Derived rows for the campaign are dropped in the same transaction; they are
// stale the moment the raw facts change and must be rebuilt by the transform.
func (db *DB) ReplaceCampaignPerformance(ctx context.Context, campaignID uuid.UUID, records []models.RawPerformanceRecord) (err error) {
	for i := range records {
		if records[i].CampaignID != campaignID {
			return fmt.Errorf("record %d belongs to campaign %s, not %s", i, records[i].CampaignID, campaignID)
		}
		if err := records[i].Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error().Err(rbErr).AnErr("original_error", err).Msg("Transaction rollback failed")
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM campaign_performance_derived WHERE campaign_id = ?`, campaignID); err != nil {
		return fmt.Errorf("failed to clear derived rows: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM raw_performance_hourly WHERE campaign_id = ?`, campaignID); err != nil {
		return fmt.Errorf("failed to clear raw rows: %w", err)
	}

	if err = insertRawRows(ctx, tx, records); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	logging.Debug().
		Str("campaign_id", campaignID.String()).
		Int("rows", len(records)).
		Msg("Campaign performance replaced")

	return nil
}

func insertRawRows(ctx context.Context, tx *sql.Tx, records []models.RawPerformanceRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := `INSERT INTO raw_performance_hourly (` + rawPerformanceColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare raw performance insert: %w", err)
	}
	defer closeStmt(stmt)

	for i := range records {
		r := &records[i]
		if _, err := stmt.ExecContext(ctx,
			r.CampaignID, r.HourTimestamp,
			r.Requests, r.Responses, r.EligibleImpressions, r.AuctionsWon, r.Impressions,
			r.ViewableImpressions, r.AudibleImpressions,
			r.VideoStart, r.VideoQ25, r.VideoQ50, r.VideoQ75, r.VideoQ100, r.Skips,
			r.Clicks, r.QRScans, r.InteractiveEngagements,
			r.SpendCents, r.ErrorCount, r.TimeoutCount,
			r.HourOfDay, r.DayOfWeek, r.IsBusinessHour,
		); err != nil {
			return fmt.Errorf("failed to insert raw row for campaign %s at %s: %w",
				r.CampaignID, r.HourTimestamp.Format(time.RFC3339), err)
		}
	}

	return nil
}

// QueryRawPerformance returns raw rows ordered by (campaign_id, hour_ts).
// A nil campaignID selects all campaigns.
func (db *DB) QueryRawPerformance(ctx context.Context, campaignID *uuid.UUID) ([]models.RawPerformanceRecord, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT ` + rawPerformanceColumns + ` FROM raw_performance_hourly`
	var args []interface{}
	if campaignID != nil {
		query += ` WHERE campaign_id = ?`
		args = append(args, *campaignID)
	}
	query += ` ORDER BY campaign_id, hour_ts`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query raw performance: %w", err)
	}
	defer rows.Close()

	var records []models.RawPerformanceRecord
	for rows.Next() {
		var r models.RawPerformanceRecord
		if err := rows.Scan(
			&r.CampaignID, &r.HourTimestamp,
			&r.Requests, &r.Responses, &r.EligibleImpressions, &r.AuctionsWon, &r.Impressions,
			&r.ViewableImpressions, &r.AudibleImpressions,
			&r.VideoStart, &r.VideoQ25, &r.VideoQ50, &r.VideoQ75, &r.VideoQ100, &r.Skips,
			&r.Clicks, &r.QRScans, &r.InteractiveEngagements,
			&r.SpendCents, &r.ErrorCount, &r.TimeoutCount,
			&r.HourOfDay, &r.DayOfWeek, &r.IsBusinessHour,
		); err != nil {
			return nil, fmt.Errorf("failed to scan raw performance row: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating raw performance rows: %w", err)
	}

	return records, nil
}

// QueryDerivedMetrics returns derived rows ordered by (campaign_id, hour_ts).
// A nil campaignID selects all campaigns.
func (db *DB) QueryDerivedMetrics(ctx context.Context, campaignID *uuid.UUID) ([]models.DerivedMetricsRecord, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT campaign_id, hour_ts,
		ctr_recalc, viewability_rate, audibility_rate,
		video_start_rate, video_completion_rate, video_skip_rate_ext,
		qr_scan_rate, interactive_rate, auction_win_rate,
		supply_funnel_efficiency, response_rate, error_rate, timeout_rate,
		effective_cpm, avg_watch_time_seconds
	FROM campaign_performance_derived`
	var args []interface{}
	if campaignID != nil {
		query += ` WHERE campaign_id = ?`
		args = append(args, *campaignID)
	}
	query += ` ORDER BY campaign_id, hour_ts`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query derived metrics: %w", err)
	}
	defer rows.Close()

	var records []models.DerivedMetricsRecord
	for rows.Next() {
		var d models.DerivedMetricsRecord
		if err := rows.Scan(
			&d.CampaignID, &d.HourTimestamp,
			&d.CTRRecalc, &d.ViewabilityRate, &d.AudibilityRate,
			&d.VideoStartRate, &d.VideoCompletionRate, &d.VideoSkipRate,
			&d.QRScanRate, &d.InteractiveRate, &d.AuctionWinRate,
			&d.SupplyFunnelEfficiency, &d.ResponseRate, &d.ErrorRate, &d.TimeoutRate,
			&d.EffectiveCPM, &d.AvgWatchTimeSeconds,
		); err != nil {
			return nil, fmt.Errorf("failed to scan derived metrics row: %w", err)
		}
		records = append(records, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating derived metrics rows: %w", err)
	}

	return records, nil
}
