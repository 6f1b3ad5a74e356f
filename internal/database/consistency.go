// AdSynth - Synthetic Advertising Data and Analytics Platform
// Copyright 2026 AdSynth contributors
// SPDX-License-Identifier: MIT
// https://github.com/adsynth/adsynth

package database

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/adsynth/adsynth/internal/engine"
	"github.com/adsynth/adsynth/internal/logging"
	"github.com/adsynth/adsynth/internal/models"
)

// RateTolerance is the maximum absolute difference allowed between the two
// surfaces for any rounded rate or watch-time value. Both surfaces round to
// fixed decimals, so agreement inside half an ulp of the last kept digit is
// the correctness bar; 1e-9 of slack absorbs float representation noise.
const RateTolerance = 1e-4

// Mismatch describes one field where the two surfaces disagree.
type Mismatch struct {
	CampaignID    uuid.UUID `json:"campaign_id"`
	HourTimestamp time.Time `json:"hour_timestamp"`
	Field         string    `json:"field"`
	EngineValue   float64   `json:"engine_value"`
	SQLValue      float64   `json:"sql_value"`
}

// ConsistencyReport is the outcome of one cross-surface verification run.
type ConsistencyReport struct {
	Consistent    bool       `json:"consistent"`
	RowsCompared  int64      `json:"rows_compared"`
	FieldsPerRow  int        `json:"fields_per_row"`
	MismatchCount int64      `json:"mismatch_count"`
	Mismatches    []Mismatch `json:"mismatches,omitempty"`
	MissingRows   int64      `json:"missing_rows"`
	OrphanedRows  int64      `json:"orphaned_rows"`
	DurationMilli int64      `json:"duration_ms"`
}

// VerifyConsistency recomputes every derived row in-process and compares it
// field by field against the SQL surface. A nil campaignID verifies the whole
// dataset. Rates and watch time compare within RateTolerance; effective CPM
// is integer money and must match exactly.
//
// Rows present in only one surface count as missing (raw without derived) or
// orphaned (derived without raw); either makes the report inconsistent.
// Returns ErrNoRawData when the scope holds no raw rows.
func (db *DB) VerifyConsistency(ctx context.Context, campaignID *uuid.UUID, eng *engine.Engine) (*ConsistencyReport, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()

	raw, err := db.QueryRawPerformance(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, ErrNoRawData
	}

	derived, err := db.QueryDerivedMetrics(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	type rowKey struct {
		campaign uuid.UUID
		hour     time.Time
	}
	sqlRows := make(map[rowKey]*models.DerivedMetricsRecord, len(derived))
	for i := range derived {
		d := &derived[i]
		sqlRows[rowKey{d.CampaignID, d.HourTimestamp.UTC()}] = d
	}

	report := &ConsistencyReport{
		Consistent:   true,
		FieldsPerRow: len(engine.RatioCatalog) + 2,
	}

	for i := range raw {
		r := &raw[i]
		key := rowKey{r.CampaignID, r.HourTimestamp.UTC()}
		sqlRow, ok := sqlRows[key]
		if !ok {
			report.MissingRows++
			report.Consistent = false
			continue
		}
		delete(sqlRows, key)

		want := eng.Compute(r)
		report.RowsCompared++

		for _, m := range engine.RatioCatalog {
			ev, sv := m.Value(&want), m.Value(sqlRow)
			if math.Abs(ev-sv) > RateTolerance {
				report.addMismatch(r, m.Name, ev, sv)
			}
		}
		if want.EffectiveCPM != sqlRow.EffectiveCPM {
			report.addMismatch(r, "effective_cpm", float64(want.EffectiveCPM), float64(sqlRow.EffectiveCPM))
		}
		if math.Abs(want.AvgWatchTimeSeconds-sqlRow.AvgWatchTimeSeconds) > RateTolerance {
			report.addMismatch(r, "avg_watch_time_seconds", want.AvgWatchTimeSeconds, sqlRow.AvgWatchTimeSeconds)
		}
	}

	report.OrphanedRows = int64(len(sqlRows))
	if report.OrphanedRows > 0 {
		report.Consistent = false
	}

	report.DurationMilli = time.Since(start).Milliseconds()

	event := logging.Info()
	if !report.Consistent {
		event = logging.Error()
	}
	event.
		Bool("consistent", report.Consistent).
		Int64("rows_compared", report.RowsCompared).
		Int64("mismatches", report.MismatchCount).
		Int64("missing_rows", report.MissingRows).
		Int64("orphaned_rows", report.OrphanedRows).
		Msg("Cross-surface consistency check completed")

	return report, nil
}

// maxReportedMismatches caps the mismatch list so a systematically broken
// transform does not balloon the report. The counters still reflect the total.
const maxReportedMismatches = 50

func (r *ConsistencyReport) addMismatch(raw *models.RawPerformanceRecord, field string, engineValue, sqlValue float64) {
	r.Consistent = false
	r.MismatchCount++
	if len(r.Mismatches) >= maxReportedMismatches {
		return
	}
	r.Mismatches = append(r.Mismatches, Mismatch{
		CampaignID:    raw.CampaignID,
		HourTimestamp: raw.HourTimestamp,
		Field:         field,
		EngineValue:   engineValue,
		SQLValue:      sqlValue,
	})
}

// String renders a one-line summary for logs and error messages.
func (r *ConsistencyReport) String() string {
	if r.Consistent {
		return fmt.Sprintf("consistent: %d rows, %d fields each", r.RowsCompared, r.FieldsPerRow)
	}
	return fmt.Sprintf("inconsistent: %d mismatches over %d rows (%d missing, %d orphaned)",
		r.MismatchCount, r.RowsCompared, r.MissingRows, r.OrphanedRows)
}
