// AdSynth - Synthetic Advertising Data and Analytics Platform
// Copyright 2026 AdSynth contributors
// SPDX-License-Identifier: MIT
// https://github.com/adsynth/adsynth

package database

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/adsynth/adsynth/internal/engine"
	"github.com/adsynth/adsynth/internal/models"
)

// scenarioRecord is the worked reporting example: $25.00 spent on 1000
// impressions with a half-completing video audience.
func scenarioRecord(campaignID uuid.UUID) models.RawPerformanceRecord {
	r := models.RawPerformanceRecord{
		CampaignID:    campaignID,
		HourTimestamp: testAnchor,

		Requests:            1200,
		Responses:           1100,
		EligibleImpressions: 900,
		AuctionsWon:         850,
		Impressions:         1000,

		ViewableImpressions: 700,
		AudibleImpressions:  500,

		VideoStart: 800,
		VideoQ25:   700,
		VideoQ50:   600,
		VideoQ75:   500,
		VideoQ100:  400,
		Skips:      100,

		Clicks:  50,
		QRScans: 5,

		InteractiveEngagements: 10,

		SpendCents: 2500,

		ErrorCount:   3,
		TimeoutCount: 2,
	}
	r.SetTemporalFields()
	return r
}

func TestTransformScenario(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	campaignID := uuid.New()
	if err := db.InsertRawPerformance(ctx, []models.RawPerformanceRecord{scenarioRecord(campaignID)}); err != nil {
		t.Fatalf("InsertRawPerformance failed: %v", err)
	}

	result, err := db.TransformDerivedMetrics(ctx, nil, 30.0)
	if err != nil {
		t.Fatalf("TransformDerivedMetrics failed: %v", err)
	}
	if result.RowsTransformed != 1 {
		t.Errorf("expected 1 row transformed, got %d", result.RowsTransformed)
	}

	derived, err := db.QueryDerivedMetrics(ctx, &campaignID)
	if err != nil {
		t.Fatalf("QueryDerivedMetrics failed: %v", err)
	}
	if len(derived) != 1 {
		t.Fatalf("expected 1 derived row, got %d", len(derived))
	}

	d := derived[0]
	cases := []struct {
		field string
		got   float64
		want  float64
	}{
		{"ctr_recalc", d.CTRRecalc, 0.0500},
		{"viewability_rate", d.ViewabilityRate, 0.7000},
		{"video_completion_rate", d.VideoCompletionRate, 0.5000},
		{"supply_funnel_efficiency", d.SupplyFunnelEfficiency, 0.7500},
	}
	for _, c := range cases {
		if math.Abs(c.got-c.want) > RateTolerance {
			t.Errorf("%s: got %v, want %v", c.field, c.got, c.want)
		}
	}
	if d.EffectiveCPM != 2500 {
		t.Errorf("effective_cpm: got %d, want 2500", d.EffectiveCPM)
	}
}

func TestTransformMatchesEngineOnScenario(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	campaignID := uuid.New()
	raw := scenarioRecord(campaignID)
	if err := db.InsertRawPerformance(ctx, []models.RawPerformanceRecord{raw}); err != nil {
		t.Fatalf("InsertRawPerformance failed: %v", err)
	}
	if _, err := db.TransformDerivedMetrics(ctx, nil, 30.0); err != nil {
		t.Fatalf("TransformDerivedMetrics failed: %v", err)
	}

	derived, err := db.QueryDerivedMetrics(ctx, &campaignID)
	if err != nil {
		t.Fatalf("QueryDerivedMetrics failed: %v", err)
	}

	want := engine.New(30.0).Compute(&raw)
	got := derived[0]
	for _, m := range engine.RatioCatalog {
		if math.Abs(m.Value(&got)-m.Value(&want)) > RateTolerance {
			t.Errorf("%s: SQL %v, engine %v", m.Name, m.Value(&got), m.Value(&want))
		}
	}
	if got.EffectiveCPM != want.EffectiveCPM {
		t.Errorf("effective_cpm: SQL %d, engine %d", got.EffectiveCPM, want.EffectiveCPM)
	}
	if math.Abs(got.AvgWatchTimeSeconds-want.AvgWatchTimeSeconds) > RateTolerance {
		t.Errorf("avg_watch_time_seconds: SQL %v, engine %v", got.AvgWatchTimeSeconds, want.AvgWatchTimeSeconds)
	}
}

func TestTransformZeroActivityHour(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	campaignID := uuid.New()
	empty := models.RawPerformanceRecord{
		CampaignID:    campaignID,
		HourTimestamp: testAnchor,
	}
	empty.SetTemporalFields()
	if err := db.InsertRawPerformance(ctx, []models.RawPerformanceRecord{empty}); err != nil {
		t.Fatalf("InsertRawPerformance failed: %v", err)
	}
	if _, err := db.TransformDerivedMetrics(ctx, nil, 30.0); err != nil {
		t.Fatalf("TransformDerivedMetrics failed: %v", err)
	}

	derived, err := db.QueryDerivedMetrics(ctx, &campaignID)
	if err != nil {
		t.Fatalf("QueryDerivedMetrics failed: %v", err)
	}
	d := derived[0]
	for _, m := range engine.RatioCatalog {
		if m.Value(&d) != 0.0 {
			t.Errorf("%s: expected 0.0 for zero-activity hour, got %v", m.Name, m.Value(&d))
		}
	}
	if d.EffectiveCPM != 0 || d.AvgWatchTimeSeconds != 0.0 {
		t.Errorf("expected zero money and watch time, got cpm=%d watch=%v", d.EffectiveCPM, d.AvgWatchTimeSeconds)
	}
}

func TestTransformNoRawData(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.TransformDerivedMetrics(context.Background(), nil, 30.0)
	if !errors.Is(err, ErrNoRawData) {
		t.Errorf("expected ErrNoRawData on empty table, got %v", err)
	}
}

func TestTransformIdempotent(t *testing.T) {
	db := setupTestDB(t)
	seedDataset(t, db)
	ctx := context.Background()

	if _, err := db.TransformDerivedMetrics(ctx, nil, 30.0); err != nil {
		t.Fatalf("first transform failed: %v", err)
	}
	first, err := db.QueryDerivedMetrics(ctx, nil)
	if err != nil {
		t.Fatalf("QueryDerivedMetrics failed: %v", err)
	}

	if _, err := db.TransformDerivedMetrics(ctx, nil, 30.0); err != nil {
		t.Fatalf("second transform failed: %v", err)
	}
	second, err := db.QueryDerivedMetrics(ctx, nil)
	if err != nil {
		t.Fatalf("QueryDerivedMetrics failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("re-running the transform on unchanged raw data changed the derived table")
	}
}

func TestTransformCampaignScope(t *testing.T) {
	db := setupTestDB(t)
	_, campaigns := seedDataset(t, db)
	ctx := context.Background()

	scoped := campaigns[0].ID
	result, err := db.TransformDerivedMetrics(ctx, &scoped, 30.0)
	if err != nil {
		t.Fatalf("scoped transform failed: %v", err)
	}

	wantRows := int64(testGeneratorConfig().FlightDays) * 24
	if result.RowsTransformed != wantRows {
		t.Errorf("expected %d scoped rows, got %d", wantRows, result.RowsTransformed)
	}

	// Only the scoped campaign has derived rows.
	all, err := db.QueryDerivedMetrics(ctx, nil)
	if err != nil {
		t.Fatalf("QueryDerivedMetrics failed: %v", err)
	}
	for i := range all {
		if all[i].CampaignID != scoped {
			t.Fatalf("found derived row for unscoped campaign %s", all[i].CampaignID)
		}
	}
}

func TestTransformScopeNoRawData(t *testing.T) {
	db := setupTestDB(t)
	seedDataset(t, db)

	unknown := uuid.New()
	_, err := db.TransformDerivedMetrics(context.Background(), &unknown, 30.0)
	if !errors.Is(err, ErrNoRawData) {
		t.Errorf("expected ErrNoRawData for unknown campaign, got %v", err)
	}
}
