// AdSynth - Synthetic Advertising Data and Analytics Platform
// Copyright 2026 AdSynth contributors
// SPDX-License-Identifier: MIT
// https://github.com/adsynth/adsynth

package models

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// validate is the shared validator for ingestion-boundary checks.
var validate = validator.New()

// RawPerformanceRecord is one row of hourly raw counters for one campaign.
// It is created once by the generator, immutable afterwards, and consumed
// read-only by both metrics surfaces. Counters are well-typed non-negative
// integers; the record itself carries no derived values.
type RawPerformanceRecord struct {
	CampaignID    uuid.UUID `json:"campaign_id" validate:"required"`
	HourTimestamp time.Time `json:"hour_timestamp" validate:"required"`

	// Supply funnel: requests >= responses >= eligible >= auctions_won ~ impressions.
	Requests            int64 `json:"requests" validate:"gte=0"`
	Responses           int64 `json:"responses" validate:"gte=0"`
	EligibleImpressions int64 `json:"eligible_impressions" validate:"gte=0"`
	AuctionsWon         int64 `json:"auctions_won" validate:"gte=0"`
	Impressions         int64 `json:"impressions" validate:"gte=0"`

	// Delivery quality.
	ViewableImpressions int64 `json:"viewable_impressions" validate:"gte=0"`
	AudibleImpressions  int64 `json:"audible_impressions" validate:"gte=0"`

	// Video progression: video_start >= q25 >= q50 >= q75 >= q100.
	VideoStart int64 `json:"video_start" validate:"gte=0"`
	VideoQ25   int64 `json:"video_q25" validate:"gte=0"`
	VideoQ50   int64 `json:"video_q50" validate:"gte=0"`
	VideoQ75   int64 `json:"video_q75" validate:"gte=0"`
	VideoQ100  int64 `json:"video_q100" validate:"gte=0"`
	Skips      int64 `json:"skips" validate:"gte=0"`

	// Engagement.
	Clicks                 int64 `json:"clicks" validate:"gte=0"`
	QRScans                int64 `json:"qr_scans" validate:"gte=0"`
	InteractiveEngagements int64 `json:"interactive_engagements" validate:"gte=0"`

	// Financial. SpendCents is in minor currency units (cents).
	SpendCents int64 `json:"spend_cents" validate:"gte=0"`

	// Reliability.
	ErrorCount   int64 `json:"error_count" validate:"gte=0"`
	TimeoutCount int64 `json:"timeout_count" validate:"gte=0"`

	// Temporal attributes, computed once from HourTimestamp at creation.
	HourOfDay      int  `json:"hour_of_day" validate:"gte=0,lte=23"`
	DayOfWeek      int  `json:"day_of_week" validate:"gte=0,lte=6"`
	IsBusinessHour bool `json:"is_business_hour"`
}

// Validate performs the ingestion-boundary check: well-typed, non-negative
// counters and a populated identity. It deliberately does NOT enforce funnel
// monotonicity; out-of-order counters are a data-quality condition that the
// metrics engine degrades gracefully on rather than rejecting.
func (r *RawPerformanceRecord) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("raw performance record invalid: %w", err)
	}
	return nil
}

// FunnelViolations reports which ordering constraints the record breaks.
// The generator's tests use this to assert constraint-satisfying output;
// the metrics engine never calls it.
func (r *RawPerformanceRecord) FunnelViolations() []string {
	var v []string
	if r.Responses > r.Requests {
		v = append(v, "responses > requests")
	}
	if r.EligibleImpressions > r.Responses {
		v = append(v, "eligible_impressions > responses")
	}
	if r.AuctionsWon > r.EligibleImpressions {
		v = append(v, "auctions_won > eligible_impressions")
	}
	if r.ViewableImpressions > r.Impressions {
		v = append(v, "viewable_impressions > impressions")
	}
	if r.AudibleImpressions > r.Impressions {
		v = append(v, "audible_impressions > impressions")
	}
	if r.VideoQ25 > r.VideoStart {
		v = append(v, "video_q25 > video_start")
	}
	if r.VideoQ50 > r.VideoQ25 {
		v = append(v, "video_q50 > video_q25")
	}
	if r.VideoQ75 > r.VideoQ50 {
		v = append(v, "video_q75 > video_q50")
	}
	if r.VideoQ100 > r.VideoQ75 {
		v = append(v, "video_q100 > video_q75")
	}
	if r.Skips > r.VideoStart {
		v = append(v, "skips > video_start")
	}
	if r.Clicks > r.Impressions {
		v = append(v, "clicks > impressions")
	}
	if r.QRScans > r.Impressions {
		v = append(v, "qr_scans > impressions")
	}
	if r.InteractiveEngagements > r.Impressions {
		v = append(v, "interactive_engagements > impressions")
	}
	if r.ErrorCount > r.Requests {
		v = append(v, "error_count > requests")
	}
	if r.TimeoutCount > r.Requests {
		v = append(v, "timeout_count > requests")
	}
	return v
}

// SetTemporalFields derives the hour-of-day, day-of-week, and business-hour
// attributes from HourTimestamp. Day-of-week uses Monday=0..Sunday=6;
// business hours are 09:00-17:59 UTC on weekdays.
func (r *RawPerformanceRecord) SetTemporalFields() {
	h := r.HourTimestamp.UTC()
	r.HourOfDay = h.Hour()
	r.DayOfWeek = mondayIndexed(h.Weekday())
	r.IsBusinessHour = r.HourOfDay >= 9 && r.HourOfDay <= 17 && r.DayOfWeek < 5
}

// mondayIndexed converts time.Weekday (Sunday=0) to Monday=0..Sunday=6.
func mondayIndexed(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// DerivedMetricsRecord is the 1:1 derived row for a RawPerformanceRecord.
// Rates are in [0,1] rounded to 4 decimals; EffectiveCPM is integer minor
// currency units (truncated); AvgWatchTimeSeconds is rounded to 1 decimal.
// Both computation surfaces must produce identical values for the same input.
type DerivedMetricsRecord struct {
	CampaignID    uuid.UUID `json:"campaign_id"`
	HourTimestamp time.Time `json:"hour_timestamp"`

	CTRRecalc              float64 `json:"ctr_recalc"`
	ViewabilityRate        float64 `json:"viewability_rate"`
	AudibilityRate         float64 `json:"audibility_rate"`
	VideoStartRate         float64 `json:"video_start_rate"`
	VideoCompletionRate    float64 `json:"video_completion_rate"`
	VideoSkipRate          float64 `json:"video_skip_rate_ext"`
	QRScanRate             float64 `json:"qr_scan_rate"`
	InteractiveRate        float64 `json:"interactive_rate"`
	AuctionWinRate         float64 `json:"auction_win_rate"`
	SupplyFunnelEfficiency float64 `json:"supply_funnel_efficiency"`
	ResponseRate           float64 `json:"response_rate"`
	ErrorRate              float64 `json:"error_rate"`
	TimeoutRate            float64 `json:"timeout_rate"`

	EffectiveCPM        int64   `json:"effective_cpm"`
	AvgWatchTimeSeconds float64 `json:"avg_watch_time_seconds"`
}
