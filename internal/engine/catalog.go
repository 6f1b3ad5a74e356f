// AdSynth - Synthetic Advertising Data and Analytics Platform
// Copyright 2026 AdSynth contributors
// SPDX-License-Identifier: MIT
// https://github.com/adsynth/adsynth

package engine

import (
	"fmt"

	"github.com/adsynth/adsynth/internal/models"
)

// RatioMetric is one entry of the derived-metrics catalogue: a named rate
// defined by a numerator and denominator column of the raw performance table.
//
// The catalogue is the single authoritative definition of the metric
// contract. The in-process surface evaluates Num/Den/Assign; the SQL surface
// renders the same entry through SQLExpr. Neither surface hand-duplicates a
// formula.
type RatioMetric struct {
	// Name is the derived column name in both surfaces.
	Name string

	// NumeratorColumn and DenominatorColumn are raw table column names.
	NumeratorColumn   string
	DenominatorColumn string

	// Num and Den read the corresponding counters from a raw record.
	Num func(*models.RawPerformanceRecord) int64
	Den func(*models.RawPerformanceRecord) int64

	// Assign writes the rounded rate into a derived record.
	Assign func(*models.DerivedMetricsRecord, float64)

	// Value reads the rate back out of a derived record (consistency checks).
	Value func(*models.DerivedMetricsRecord) float64
}

// RatioCatalog is the authoritative set of derived rate metrics. Order is the
// column order of the reporting table.
var RatioCatalog = []RatioMetric{
	{
		Name:              "ctr_recalc",
		NumeratorColumn:   "clicks",
		DenominatorColumn: "impressions",
		Num:               func(r *models.RawPerformanceRecord) int64 { return r.Clicks },
		Den:               func(r *models.RawPerformanceRecord) int64 { return r.Impressions },
		Assign:            func(d *models.DerivedMetricsRecord, v float64) { d.CTRRecalc = v },
		Value:             func(d *models.DerivedMetricsRecord) float64 { return d.CTRRecalc },
	},
	{
		Name:              "viewability_rate",
		NumeratorColumn:   "viewable_impressions",
		DenominatorColumn: "impressions",
		Num:               func(r *models.RawPerformanceRecord) int64 { return r.ViewableImpressions },
		Den:               func(r *models.RawPerformanceRecord) int64 { return r.Impressions },
		Assign:            func(d *models.DerivedMetricsRecord, v float64) { d.ViewabilityRate = v },
		Value:             func(d *models.DerivedMetricsRecord) float64 { return d.ViewabilityRate },
	},
	{
		Name:              "audibility_rate",
		NumeratorColumn:   "audible_impressions",
		DenominatorColumn: "impressions",
		Num:               func(r *models.RawPerformanceRecord) int64 { return r.AudibleImpressions },
		Den:               func(r *models.RawPerformanceRecord) int64 { return r.Impressions },
		Assign:            func(d *models.DerivedMetricsRecord, v float64) { d.AudibilityRate = v },
		Value:             func(d *models.DerivedMetricsRecord) float64 { return d.AudibilityRate },
	},
	{
		Name:              "video_start_rate",
		NumeratorColumn:   "video_start",
		DenominatorColumn: "impressions",
		Num:               func(r *models.RawPerformanceRecord) int64 { return r.VideoStart },
		Den:               func(r *models.RawPerformanceRecord) int64 { return r.Impressions },
		Assign:            func(d *models.DerivedMetricsRecord, v float64) { d.VideoStartRate = v },
		Value:             func(d *models.DerivedMetricsRecord) float64 { return d.VideoStartRate },
	},
	{
		Name:              "video_completion_rate",
		NumeratorColumn:   "video_q100",
		DenominatorColumn: "video_start",
		Num:               func(r *models.RawPerformanceRecord) int64 { return r.VideoQ100 },
		Den:               func(r *models.RawPerformanceRecord) int64 { return r.VideoStart },
		Assign:            func(d *models.DerivedMetricsRecord, v float64) { d.VideoCompletionRate = v },
		Value:             func(d *models.DerivedMetricsRecord) float64 { return d.VideoCompletionRate },
	},
	{
		Name:              "video_skip_rate_ext",
		NumeratorColumn:   "skips",
		DenominatorColumn: "video_start",
		Num:               func(r *models.RawPerformanceRecord) int64 { return r.Skips },
		Den:               func(r *models.RawPerformanceRecord) int64 { return r.VideoStart },
		Assign:            func(d *models.DerivedMetricsRecord, v float64) { d.VideoSkipRate = v },
		Value:             func(d *models.DerivedMetricsRecord) float64 { return d.VideoSkipRate },
	},
	{
		Name:              "qr_scan_rate",
		NumeratorColumn:   "qr_scans",
		DenominatorColumn: "impressions",
		Num:               func(r *models.RawPerformanceRecord) int64 { return r.QRScans },
		Den:               func(r *models.RawPerformanceRecord) int64 { return r.Impressions },
		Assign:            func(d *models.DerivedMetricsRecord, v float64) { d.QRScanRate = v },
		Value:             func(d *models.DerivedMetricsRecord) float64 { return d.QRScanRate },
	},
	{
		Name:              "interactive_rate",
		NumeratorColumn:   "interactive_engagements",
		DenominatorColumn: "impressions",
		Num:               func(r *models.RawPerformanceRecord) int64 { return r.InteractiveEngagements },
		Den:               func(r *models.RawPerformanceRecord) int64 { return r.Impressions },
		Assign:            func(d *models.DerivedMetricsRecord, v float64) { d.InteractiveRate = v },
		Value:             func(d *models.DerivedMetricsRecord) float64 { return d.InteractiveRate },
	},
	{
		Name:              "auction_win_rate",
		NumeratorColumn:   "auctions_won",
		DenominatorColumn: "eligible_impressions",
		Num:               func(r *models.RawPerformanceRecord) int64 { return r.AuctionsWon },
		Den:               func(r *models.RawPerformanceRecord) int64 { return r.EligibleImpressions },
		Assign:            func(d *models.DerivedMetricsRecord, v float64) { d.AuctionWinRate = v },
		Value:             func(d *models.DerivedMetricsRecord) float64 { return d.AuctionWinRate },
	},
	{
		Name:              "supply_funnel_efficiency",
		NumeratorColumn:   "eligible_impressions",
		DenominatorColumn: "requests",
		Num:               func(r *models.RawPerformanceRecord) int64 { return r.EligibleImpressions },
		Den:               func(r *models.RawPerformanceRecord) int64 { return r.Requests },
		Assign:            func(d *models.DerivedMetricsRecord, v float64) { d.SupplyFunnelEfficiency = v },
		Value:             func(d *models.DerivedMetricsRecord) float64 { return d.SupplyFunnelEfficiency },
	},
	{
		Name:              "response_rate",
		NumeratorColumn:   "responses",
		DenominatorColumn: "requests",
		Num:               func(r *models.RawPerformanceRecord) int64 { return r.Responses },
		Den:               func(r *models.RawPerformanceRecord) int64 { return r.Requests },
		Assign:            func(d *models.DerivedMetricsRecord, v float64) { d.ResponseRate = v },
		Value:             func(d *models.DerivedMetricsRecord) float64 { return d.ResponseRate },
	},
	{
		Name:              "error_rate",
		NumeratorColumn:   "error_count",
		DenominatorColumn: "requests",
		Num:               func(r *models.RawPerformanceRecord) int64 { return r.ErrorCount },
		Den:               func(r *models.RawPerformanceRecord) int64 { return r.Requests },
		Assign:            func(d *models.DerivedMetricsRecord, v float64) { d.ErrorRate = v },
		Value:             func(d *models.DerivedMetricsRecord) float64 { return d.ErrorRate },
	},
	{
		Name:              "timeout_rate",
		NumeratorColumn:   "timeout_count",
		DenominatorColumn: "requests",
		Num:               func(r *models.RawPerformanceRecord) int64 { return r.TimeoutCount },
		Den:               func(r *models.RawPerformanceRecord) int64 { return r.Requests },
		Assign:            func(d *models.DerivedMetricsRecord, v float64) { d.TimeoutRate = v },
		Value:             func(d *models.DerivedMetricsRecord) float64 { return d.TimeoutRate },
	},
}

// SQLExpr renders the catalogue entry as a DuckDB SELECT expression that is
// numerically equivalent to RoundRate(SafeRatio(num, den, 0)).
func (m RatioMetric) SQLExpr() string {
	return fmt.Sprintf(
		"ROUND(COALESCE(CAST(%s AS DOUBLE) / NULLIF(CAST(%s AS DOUBLE), 0), 0), 4) AS %s",
		m.NumeratorColumn, m.DenominatorColumn, m.Name)
}

// EffectiveCPMSQLExpr is the SQL rendition of EffectiveCPM: spend in minor
// units times 1000 over impressions, floored to an integer, 0 on empty hours.
func EffectiveCPMSQLExpr() string {
	return "CAST(FLOOR(COALESCE(CAST(spend_cents AS DOUBLE) * 1000 / NULLIF(CAST(impressions AS DOUBLE), 0), 0)) AS BIGINT) AS effective_cpm"
}

// WatchTimeSQLExpr is the SQL rendition of EstimateWatchTime followed by the
// 1-decimal rounding contract. The single placeholder binds the asset
// duration in seconds. GREATEST(..., 0) mirrors the per-segment clamping.
func WatchTimeSQLExpr() string {
	return `ROUND(
		CASE WHEN video_start <= 0 THEN 0.0
		ELSE (
			GREATEST(CAST(video_start - video_q25 AS DOUBLE), 0) * 0.125 * ? +
			GREATEST(CAST(video_q25 - video_q50 AS DOUBLE), 0) * 0.375 * ? +
			GREATEST(CAST(video_q50 - video_q75 AS DOUBLE), 0) * 0.625 * ? +
			GREATEST(CAST(video_q75 - video_q100 AS DOUBLE), 0) * 0.875 * ? +
			GREATEST(CAST(video_q100 AS DOUBLE), 0) * 1.0 * ?
		) / CAST(video_start AS DOUBLE)
		END, 1) AS avg_watch_time_seconds`
}

// WatchTimeSQLArgs returns the bind arguments for WatchTimeSQLExpr.
func WatchTimeSQLArgs(assetDuration float64) []interface{} {
	return []interface{}{assetDuration, assetDuration, assetDuration, assetDuration, assetDuration}
}
