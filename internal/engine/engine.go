// AdSynth - Synthetic Advertising Data and Analytics Platform
// Copyright 2026 AdSynth contributors
// SPDX-License-Identifier: MIT
// https://github.com/adsynth/adsynth

/*
Package engine implements the in-process metrics surface: pure functions that
derive rate and money metrics from raw hourly counters.

The same contract is implemented a second time as a set-based SQL transform
(internal/database). Both surfaces are generated from the single metric
catalogue in catalog.go and must agree numerically on every output field;
the database package's consistency checker enforces that agreement.

All computation here is pure, stateless, and synchronous. Records are
independent, so callers are free to process batches concurrently.
*/
package engine

import (
	"math"

	"github.com/adsynth/adsynth/internal/models"
)

// DefaultAssetDuration is the assumed video asset length in seconds when no
// creative-level duration is configured.
const DefaultAssetDuration = 30.0

// SafeRatio divides numerator by denominator, returning def when the
// denominator is zero or either input is not a well-formed number.
// It never panics and never divides by zero. The result is unrounded;
// rounding policy belongs to the caller.
//
// Every derived rate in the catalogue routes through this function, so the
// zero-denominator edge case cannot diverge between metrics.
func SafeRatio(numerator, denominator, def float64) float64 {
	if denominator == 0 || math.IsNaN(denominator) || math.IsInf(denominator, 0) {
		return def
	}
	if math.IsNaN(numerator) || math.IsInf(numerator, 0) {
		return def
	}
	return numerator / denominator
}

// RoundRate rounds a ratio to the 4-decimal contract shared by both surfaces.
func RoundRate(x float64) float64 {
	return math.Round(x*10000) / 10000
}

// RoundWatchTime rounds watch time to the 1-decimal display contract.
func RoundWatchTime(x float64) float64 {
	return math.Round(x*10) / 10
}

// EffectiveCPM computes the effective CPM in minor currency units:
// floor(spend_cents * 1000 / impressions), 0 when there are no impressions.
// Truncation, not rounding, per the money-field contract.
func EffectiveCPM(spendCents, impressions int64) int64 {
	return int64(math.Floor(SafeRatio(float64(spendCents)*1000, float64(impressions), 0)))
}

// EstimateWatchTime back-derives the average seconds watched from quartile
// counters. Quartile counters only report how many viewers reached each
// milestone, so the audience is partitioned into five mutually exclusive
// segments (stopped before 25%, 25-50%, 50-75%, 75-100%, completed), each
// weighted by the midpoint of its time range.
//
// Segments are independently clamped to non-negative, so a non-monotonic
// quartile sequence (a data-quality violation) degrades one segment without
// corrupting the others or going negative. The result is unrounded.
func EstimateWatchTime(videoStart, q25, q50, q75, q100 int64, assetDuration float64) float64 {
	if videoStart <= 0 {
		return 0.0
	}

	seg0 := maxInt64(0, videoStart-q25) // watched 0-25%
	seg1 := maxInt64(0, q25-q50)        // watched 25-50%
	seg2 := maxInt64(0, q50-q75)        // watched 50-75%
	seg3 := maxInt64(0, q75-q100)       // watched 75-100%
	seg4 := maxInt64(0, q100)           // completed

	total := float64(seg0)*0.125*assetDuration +
		float64(seg1)*0.375*assetDuration +
		float64(seg2)*0.625*assetDuration +
		float64(seg3)*0.875*assetDuration +
		float64(seg4)*1.0*assetDuration

	return total / float64(videoStart)
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// Engine is the in-process metrics surface. It is stateless; the only
// configuration is the asset duration used for watch-time estimation.
type Engine struct {
	assetDuration float64
}

// New returns an Engine. assetDuration <= 0 falls back to DefaultAssetDuration.
func New(assetDuration float64) *Engine {
	if assetDuration <= 0 {
		assetDuration = DefaultAssetDuration
	}
	return &Engine{assetDuration: assetDuration}
}

// AssetDuration returns the configured asset duration in seconds.
func (e *Engine) AssetDuration() float64 {
	return e.assetDuration
}

// Compute derives the full metrics record for one raw record. It is a pure
// function of its input: same record in, same record out, no hidden state.
func (e *Engine) Compute(r *models.RawPerformanceRecord) models.DerivedMetricsRecord {
	d := models.DerivedMetricsRecord{
		CampaignID:    r.CampaignID,
		HourTimestamp: r.HourTimestamp,
	}

	for _, m := range RatioCatalog {
		m.Assign(&d, RoundRate(SafeRatio(float64(m.Num(r)), float64(m.Den(r)), 0)))
	}

	d.EffectiveCPM = EffectiveCPM(r.SpendCents, r.Impressions)
	d.AvgWatchTimeSeconds = RoundWatchTime(EstimateWatchTime(
		r.VideoStart, r.VideoQ25, r.VideoQ50, r.VideoQ75, r.VideoQ100, e.assetDuration))

	return d
}

// ComputeBatch derives metrics for a batch of records. Rows are independent;
// order is preserved.
func (e *Engine) ComputeBatch(records []models.RawPerformanceRecord) []models.DerivedMetricsRecord {
	out := make([]models.DerivedMetricsRecord, len(records))
	for i := range records {
		out[i] = e.Compute(&records[i])
	}
	return out
}
