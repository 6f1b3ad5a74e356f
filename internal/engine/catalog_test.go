// AdSynth - Synthetic Advertising Data and Analytics Platform
// Copyright 2026 AdSynth contributors
// SPDX-License-Identifier: MIT
// https://github.com/adsynth/adsynth

package engine

import (
	"strings"
	"testing"

	"github.com/adsynth/adsynth/internal/models"
)

// catalogPairs is the documented numerator/denominator contract. The test
// pins the catalogue to it so an accidental edit to catalog.go fails loudly.
var catalogPairs = map[string][2]string{
	"ctr_recalc":               {"clicks", "impressions"},
	"viewability_rate":         {"viewable_impressions", "impressions"},
	"audibility_rate":          {"audible_impressions", "impressions"},
	"video_start_rate":         {"video_start", "impressions"},
	"video_completion_rate":    {"video_q100", "video_start"},
	"video_skip_rate_ext":      {"skips", "video_start"},
	"qr_scan_rate":             {"qr_scans", "impressions"},
	"interactive_rate":         {"interactive_engagements", "impressions"},
	"auction_win_rate":         {"auctions_won", "eligible_impressions"},
	"supply_funnel_efficiency": {"eligible_impressions", "requests"},
	"response_rate":            {"responses", "requests"},
	"error_rate":               {"error_count", "requests"},
	"timeout_rate":             {"timeout_count", "requests"},
}

func TestCatalogMatchesContract(t *testing.T) {
	if len(RatioCatalog) != len(catalogPairs) {
		t.Fatalf("catalogue has %d entries, contract has %d", len(RatioCatalog), len(catalogPairs))
	}

	seen := map[string]bool{}
	for _, m := range RatioCatalog {
		if seen[m.Name] {
			t.Errorf("duplicate catalogue entry %q", m.Name)
		}
		seen[m.Name] = true

		pair, ok := catalogPairs[m.Name]
		if !ok {
			t.Errorf("catalogue entry %q is not in the contract", m.Name)
			continue
		}
		if m.NumeratorColumn != pair[0] || m.DenominatorColumn != pair[1] {
			t.Errorf("%s: expected %s/%s, got %s/%s",
				m.Name, pair[0], pair[1], m.NumeratorColumn, m.DenominatorColumn)
		}
	}
}

func TestCatalogAccessorsAgreeWithColumns(t *testing.T) {
	// Distinct prime-ish values per column so accessors can't be confused.
	r := models.RawPerformanceRecord{
		Requests:            101,
		Responses:           103,
		EligibleImpressions: 107,
		AuctionsWon:         109,
		Impressions:         113,
		ViewableImpressions: 127,
		AudibleImpressions:  131,
		VideoStart:          137,
		VideoQ25:            139,
		VideoQ50:            149,
		VideoQ75:            151,
		VideoQ100:           157,
		Skips:               163,
		Clicks:              167,
		QRScans:             173,

		InteractiveEngagements: 179,
		ErrorCount:             181,
		TimeoutCount:           191,
	}
	byColumn := map[string]int64{
		"requests":                101,
		"responses":               103,
		"eligible_impressions":    107,
		"auctions_won":            109,
		"impressions":             113,
		"viewable_impressions":    127,
		"audible_impressions":     131,
		"video_start":             137,
		"video_q100":              157,
		"skips":                   163,
		"clicks":                  167,
		"qr_scans":                173,
		"interactive_engagements": 179,
		"error_count":             181,
		"timeout_count":           191,
	}

	for _, m := range RatioCatalog {
		if want := byColumn[m.NumeratorColumn]; m.Num(&r) != want {
			t.Errorf("%s: Num reads %d, column %s holds %d", m.Name, m.Num(&r), m.NumeratorColumn, want)
		}
		if want := byColumn[m.DenominatorColumn]; m.Den(&r) != want {
			t.Errorf("%s: Den reads %d, column %s holds %d", m.Name, m.Den(&r), m.DenominatorColumn, want)
		}
	}
}

func TestCatalogAssignValueRoundTrip(t *testing.T) {
	for i, m := range RatioCatalog {
		var d models.DerivedMetricsRecord
		want := float64(i+1) / 100
		m.Assign(&d, want)
		if got := m.Value(&d); got != want {
			t.Errorf("%s: Assign/Value round trip lost value: wrote %v, read %v", m.Name, want, got)
		}
	}
}

func TestCatalogAssignTargetsAreDistinct(t *testing.T) {
	var d models.DerivedMetricsRecord
	for i, m := range RatioCatalog {
		m.Assign(&d, float64(i+1))
	}
	for i, m := range RatioCatalog {
		if got := m.Value(&d); got != float64(i+1) {
			t.Errorf("%s: field overwritten by another entry (got %v, want %v)", m.Name, got, float64(i+1))
		}
	}
}

func TestSQLExprShape(t *testing.T) {
	m := RatioCatalog[0]
	expr := m.SQLExpr()
	for _, fragment := range []string{"ROUND(", "COALESCE(", "NULLIF(", m.NumeratorColumn, m.DenominatorColumn, "AS " + m.Name} {
		if !strings.Contains(expr, fragment) {
			t.Errorf("SQLExpr missing %q: %s", fragment, expr)
		}
	}
}

func TestWatchTimeSQLArgsMatchPlaceholders(t *testing.T) {
	expr := WatchTimeSQLExpr()
	placeholders := strings.Count(expr, "?")
	args := WatchTimeSQLArgs(30.0)
	if placeholders != len(args) {
		t.Errorf("watch-time SQL has %d placeholders but %d args", placeholders, len(args))
	}
	for _, a := range args {
		if a.(float64) != 30.0 {
			t.Errorf("expected all args to carry the asset duration, got %v", a)
		}
	}
}
