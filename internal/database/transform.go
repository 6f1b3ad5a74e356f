// AdSynth - Synthetic Advertising Data and Analytics Platform
// Copyright 2026 AdSynth contributors
// SPDX-License-Identifier: MIT
// https://github.com/adsynth/adsynth

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adsynth/adsynth/internal/engine"
	"github.com/adsynth/adsynth/internal/logging"
)

// TransformResult reports one run of the derived-metrics transform.
type TransformResult struct {
	RowsTransformed int64         `json:"rows_transformed"`
	Duration        time.Duration `json:"-"`
	DurationMillis  int64         `json:"duration_ms"`
}

// derivedSelectList renders the transform's SELECT list from the metric
// catalogue. Nothing in this file restates a formula: the rate expressions,
// the CPM expression, and the watch-time expression all come from the same
// catalogue the in-process engine computes from.
func derivedSelectList() string {
	cols := make([]string, 0, len(engine.RatioCatalog)+4)
	cols = append(cols, "campaign_id", "hour_ts")
	for _, m := range engine.RatioCatalog {
		cols = append(cols, m.SQLExpr())
	}
	cols = append(cols, engine.EffectiveCPMSQLExpr(), engine.WatchTimeSQLExpr())
	return strings.Join(cols, ",\n\t")
}

// TransformDerivedMetrics rebuilds the derived metrics table from raw rows
// with one set-based INSERT ... SELECT. A nil campaignID rebuilds every
// campaign; otherwise only the named campaign's rows are dropped and rebuilt.
// The delete and insert share a transaction, so readers never observe a
// partially rebuilt surface. Running it twice on unchanged raw data yields an
// identical table.
//
// Returns ErrNoRawData when the scope contains no raw rows to transform.
func (db *DB) TransformDerivedMetrics(ctx context.Context, campaignID *uuid.UUID, assetDuration float64) (result *TransformResult, err error) {
	if assetDuration <= 0 {
		assetDuration = engine.DefaultAssetDuration
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()

	scope := ""
	var scopeArgs []interface{}
	if campaignID != nil {
		scope = " WHERE campaign_id = ?"
		scopeArgs = append(scopeArgs, *campaignID)
	}

	var rawRows int64
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM raw_performance_hourly"+scope, scopeArgs...).Scan(&rawRows); err != nil {
		return nil, fmt.Errorf("failed to count raw rows: %w", err)
	}
	if rawRows == 0 {
		return nil, ErrNoRawData
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error().Err(rbErr).AnErr("original_error", err).Msg("Transaction rollback failed")
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM campaign_performance_derived"+scope, scopeArgs...); err != nil {
		return nil, fmt.Errorf("failed to clear derived rows: %w", err)
	}

	// Placeholder order: the watch-time duration binds appear in the SELECT
	// list, before any scope placeholder in the WHERE clause.
	insert := "INSERT INTO campaign_performance_derived\nSELECT " + derivedSelectList() +
		"\nFROM raw_performance_hourly" + scope

	args := engine.WatchTimeSQLArgs(assetDuration)
	args = append(args, scopeArgs...)

	res, err := tx.ExecContext(ctx, insert, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to materialize derived metrics: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		// DuckDB reports affected rows; fall back to the raw count if not.
		rows = rawRows
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	elapsed := time.Since(start)
	logging.Info().
		Int64("rows", rows).
		Dur("duration", elapsed).
		Msg("Derived metrics transform completed")

	return &TransformResult{
		RowsTransformed: rows,
		Duration:        elapsed,
		DurationMillis:  elapsed.Milliseconds(),
	}, nil
}
