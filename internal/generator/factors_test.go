// AdSynth - Synthetic Advertising Data and Analytics Platform
// Copyright 2026 AdSynth contributors
// SPDX-License-Identifier: MIT
// https://github.com/adsynth/adsynth

package generator

import (
	"math"
	"testing"
	"time"
)

func TestHourlyBoostPeaksMidday(t *testing.T) {
	day := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC) // a Wednesday

	peak := hourlyBoost(day.Add(13 * time.Hour))
	if math.Abs(peak-1.45) > 1e-9 {
		t.Errorf("expected +45%% boost at 13:00, got %v", peak)
	}

	for _, h := range []int{0, 5, 8, 18, 23} {
		if got := hourlyBoost(day.Add(time.Duration(h) * time.Hour)); got != 1.0 {
			t.Errorf("hour %d: expected no boost, got %v", h, got)
		}
	}

	// Inside the window the boost decays away from the peak but stays > 1.
	for _, h := range []int{9, 10, 11, 12, 14, 15, 16, 17} {
		got := hourlyBoost(day.Add(time.Duration(h) * time.Hour))
		if got <= 1.0 || got > 1.45 {
			t.Errorf("hour %d: boost %v outside (1.0, 1.45]", h, got)
		}
	}
}

func TestDowFactor(t *testing.T) {
	// 2026-03-02 is a Monday.
	monday := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		offsetDays int
		want       float64
	}{
		{0, 1.00}, // Mon
		{1, 1.00}, // Tue
		{2, 1.00}, // Wed
		{3, 1.00}, // Thu
		{4, 0.97}, // Fri
		{5, 0.88}, // Sat
		{6, 0.92}, // Sun
	}
	for _, c := range cases {
		d := monday.AddDate(0, 0, c.offsetDays)
		if got := dowFactor(d); got != c.want {
			t.Errorf("%s: expected %v, got %v", d.Weekday(), c.want, got)
		}
	}
}

func TestRampFactorBounds(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 14)

	for hour := start; !hour.After(end); hour = hour.Add(time.Hour) {
		got := rampFactor(start, hour, end)
		// logistic in [0.85, 1.15] times ±3% weekly sine
		if got < 0.85*0.97 || got > 1.15*1.03 {
			t.Fatalf("ramp factor %v at %s outside expected envelope", got, hour)
		}
	}

	// The ramp rises across the flight.
	early := rampFactor(start, start, end)
	late := rampFactor(start, end, end)
	if late <= early {
		t.Errorf("expected ramp to rise over the flight: start %v, end %v", early, late)
	}
}

func TestAnnualFactorBounds(t *testing.T) {
	for month := time.January; month <= time.December; month++ {
		d := time.Date(2026, month, 15, 0, 0, 0, 0, time.UTC)
		got := annualFactor(d)
		if got < 0.8 || got > 1.0 {
			t.Errorf("%s: annual factor %v outside [0.8, 1.0]", month, got)
		}
	}

	jan1 := annualFactor(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	if math.Abs(jan1-1.0) > 1e-9 {
		t.Errorf("expected annual factor 1.0 on Jan 1, got %v", jan1)
	}
}

func TestPosInt(t *testing.T) {
	if got := posInt(-3.7); got != 0 {
		t.Errorf("expected 0 for negative input, got %d", got)
	}
	if got := posInt(3.7); got != 3 {
		t.Errorf("expected truncation to 3, got %d", got)
	}
	if got := posInt(0); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}
