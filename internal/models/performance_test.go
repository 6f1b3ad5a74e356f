// AdSynth - Synthetic Advertising Data and Analytics Platform
// Copyright 2026 AdSynth contributors
// SPDX-License-Identifier: MIT
// https://github.com/adsynth/adsynth

package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func validRecord() RawPerformanceRecord {
	r := RawPerformanceRecord{
		CampaignID:          uuid.New(),
		HourTimestamp:       time.Date(2026, 3, 4, 14, 0, 0, 0, time.UTC), // Wednesday
		Requests:            1200,
		Responses:           1150,
		EligibleImpressions: 1000,
		AuctionsWon:         950,
		Impressions:         940,
		ViewableImpressions: 800,
		AudibleImpressions:  500,
		VideoStart:          900,
		VideoQ25:            700,
		VideoQ50:            500,
		VideoQ75:            300,
		VideoQ100:           100,
		Skips:               200,
		Clicks:              20,
		QRScans:             3,

		InteractiveEngagements: 10,
		SpendCents:             250000,
		ErrorCount:             2,
		TimeoutCount:           1,
	}
	r.SetTemporalFields()
	return r
}

func TestValidateAcceptsWellFormedRecord(t *testing.T) {
	r := validRecord()
	if err := r.Validate(); err != nil {
		t.Fatalf("expected valid record, got %v", err)
	}
}

func TestValidateRejectsNegativeCounters(t *testing.T) {
	r := validRecord()
	r.Clicks = -1
	if err := r.Validate(); err == nil {
		t.Error("expected validation error for negative clicks")
	}

	r = validRecord()
	r.SpendCents = -100
	if err := r.Validate(); err == nil {
		t.Error("expected validation error for negative spend")
	}
}

func TestValidateRejectsMissingIdentity(t *testing.T) {
	r := validRecord()
	r.CampaignID = uuid.Nil
	if err := r.Validate(); err == nil {
		t.Error("expected validation error for nil campaign ID")
	}
}

func TestSetTemporalFields(t *testing.T) {
	tests := []struct {
		name         string
		ts           time.Time
		hour         int
		dow          int
		businessHour bool
	}{
		{"wednesday afternoon", time.Date(2026, 3, 4, 14, 0, 0, 0, time.UTC), 14, 2, true},
		{"wednesday early", time.Date(2026, 3, 4, 6, 0, 0, 0, time.UTC), 6, 2, false},
		{"wednesday evening", time.Date(2026, 3, 4, 18, 0, 0, 0, time.UTC), 18, 2, false},
		{"business hour start", time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), 9, 0, true},
		{"business hour end", time.Date(2026, 3, 6, 17, 0, 0, 0, time.UTC), 17, 4, true},
		{"saturday noon", time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC), 12, 5, false},
		{"sunday noon", time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC), 12, 6, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := RawPerformanceRecord{HourTimestamp: tt.ts}
			r.SetTemporalFields()
			if r.HourOfDay != tt.hour {
				t.Errorf("hour_of_day: expected %d, got %d", tt.hour, r.HourOfDay)
			}
			if r.DayOfWeek != tt.dow {
				t.Errorf("day_of_week: expected %d, got %d", tt.dow, r.DayOfWeek)
			}
			if r.IsBusinessHour != tt.businessHour {
				t.Errorf("is_business_hour: expected %v, got %v", tt.businessHour, r.IsBusinessHour)
			}
		})
	}
}

func TestFunnelViolationsCleanRecord(t *testing.T) {
	r := validRecord()
	if v := r.FunnelViolations(); len(v) != 0 {
		t.Errorf("expected no violations, got %v", v)
	}
}

func TestFunnelViolationsDetectsOrdering(t *testing.T) {
	r := validRecord()
	r.Responses = r.Requests + 1
	r.VideoQ50 = r.VideoQ25 + 1
	r.Clicks = r.Impressions + 1

	v := r.FunnelViolations()
	if len(v) != 3 {
		t.Fatalf("expected 3 violations, got %d: %v", len(v), v)
	}
}
