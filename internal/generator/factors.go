// AdSynth - Synthetic Advertising Data and Analytics Platform
// Copyright 2026 AdSynth contributors
// SPDX-License-Identifier: MIT
// https://github.com/adsynth/adsynth

package generator

import (
	"math"
	"time"
)

// Seasonality factors multiplied together per hourly bucket. Each returns a
// value near 1.0; the product scales the hour's base traffic volume.

// hourlyBoost is a Gaussian uplift over 09:00-17:00 UTC peaking around 13:00
// (+45% at the peak). Hours outside the window get no boost.
func hourlyBoost(t time.Time) float64 {
	h := t.Hour()
	if h < 9 || h > 17 {
		return 1.0
	}
	const mu, sigma = 13.0, 2.5
	x := (float64(h) - mu) / sigma
	return 1.0 + 0.45*math.Exp(-0.5*x*x)
}

// dowFactor dampens weekend-adjacent traffic: Fri 0.97, Sat 0.88, Sun 0.92.
func dowFactor(t time.Time) float64 {
	switch t.Weekday() {
	case time.Friday:
		return 0.97
	case time.Saturday:
		return 0.88
	case time.Sunday:
		return 0.92
	default:
		return 1.00
	}
}

// rampFactor models campaign delivery ramping up over the flight: a logistic
// curve from 0.85 to 1.15 of nominal volume, with a ±3% weekly sine on top.
func rampFactor(flightStart, current, flightEnd time.Time) float64 {
	totalHours := math.Max(1.0, flightEnd.Sub(flightStart).Hours())
	t := math.Min(1.0, math.Max(0.0, current.Sub(flightStart).Hours()/totalHours))
	x := (t - 0.5) * 6.0
	s := 1.0 / (1.0 + math.Exp(-x))
	ramp := 0.85 + 0.30*s

	weekly := 1.0 + 0.03*math.Sin(2.0*math.Pi*current.Sub(flightStart).Hours()/168.0)
	return ramp * weekly
}

// annualFactor is a yearly cosine cycle in [0.8, 1.0], peaking on January 1.
func annualFactor(t time.Time) float64 {
	x := 2.0 * math.Pi * float64(t.YearDay()-1) / 365.0
	return (math.Cos(x)+1.0)/10.0 + 0.8
}

// isEvening reports prime viewing hours (18:00-22:59 UTC), when audibility
// and video start rates run slightly higher.
func isEvening(t time.Time) bool {
	h := t.Hour()
	return h >= 18 && h <= 22
}

// posInt truncates to a non-negative integer count.
func posInt(v float64) int64 {
	if v <= 0 {
		return 0
	}
	return int64(v)
}

// clampFloat bounds v to [lo, hi].
func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// minInt64 returns the smaller of two counters.
func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
