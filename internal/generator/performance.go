// AdSynth - Synthetic Advertising Data and Analytics Platform
// Copyright 2026 AdSynth contributors
// SPDX-License-Identifier: MIT
// https://github.com/adsynth/adsynth

package generator

import (
	"math"
	"math/rand"
	"time"

	"github.com/adsynth/adsynth/internal/models"
)

// CampaignPerformance synthesizes one raw counter row per UTC hour across the
// campaign's flight, inclusive of both end days. Output is deterministic for
// a given generator seed and campaign ID, and always satisfies the funnel
// ordering constraints: each stage is clamped to its predecessor after the
// stage ratio is sampled.
func (g *Generator) CampaignPerformance(camp *models.Campaign) []models.RawPerformanceRecord {
	rng := rand.New(rand.NewSource(campaignSeed(g.cfg.Seed, camp.ID)))

	start := dayStart(camp.FlightStart)
	end := dayStart(camp.FlightEnd).Add(23 * time.Hour)

	var records []models.RawPerformanceRecord
	for hour := start; !hour.After(end); hour = hour.Add(time.Hour) {
		records = append(records, g.hourlyRecord(rng, camp, hour, start, end))
	}
	return records
}

// hourlyRecord synthesizes the counters for one hourly bucket.
func (g *Generator) hourlyRecord(rng *rand.Rand, camp *models.Campaign, hour, flightStart, flightEnd time.Time) models.RawPerformanceRecord {
	factor := hourlyBoost(hour) * dowFactor(hour) * rampFactor(flightStart, hour, flightEnd) * annualFactor(hour)

	// Demand volume for the hour, scaled by the seasonality product.
	base := posInt(float64(rng.Intn(9001)+1000) * factor)

	// Supply funnel, top down. Each stage samples a pass-through ratio and
	// is then clamped to its predecessor so the chain is monotone.
	requests := posInt(float64(base) * uniform(rng, 1.1, 1.8))
	responses := minInt64(requests, posInt(float64(requests)*uniform(rng, 0.92, 1.04)))
	eligible := minInt64(responses, posInt(float64(responses)*uniform(rng, 0.85, 0.99)))
	auctionsWon := minInt64(eligible, posInt(float64(eligible)*uniform(rng, 0.90, 1.02)))
	impressions := minInt64(base, auctionsWon)

	// Delivery quality.
	viewability := clampFloat(uniform(rng, 0.80, 0.98)*factor, 0.70, 0.99)
	audibilityAdj := 0.95
	if isEvening(hour) {
		audibilityAdj = 1.05
	}
	audibility := clampFloat(uniform(rng, 0.35, 0.80)*audibilityAdj, 0.20, 0.95)
	viewable := minInt64(impressions, posInt(float64(impressions)*viewability))
	audible := minInt64(impressions, posInt(float64(impressions)*audibility))

	// Video progression. Quartile reach ratios are sampled monotone
	// non-increasing, then the counts are min-chained as well.
	startAdj := 0.98
	if isEvening(hour) {
		startAdj = 1.02
	}
	startRate := clampFloat(uniform(rng, 0.85, 0.97)*startAdj, 0.70, 0.99)
	videoStart := minInt64(impressions, posInt(float64(impressions)*startRate))

	q25Rate := clampFloat(uniform(rng, 0.70, 0.95), 0.60, 0.98)
	q50Rate := math.Max(0.40, math.Min(q25Rate, uniform(rng, 0.55, 0.90)))
	q75Rate := math.Max(0.25, math.Min(q50Rate, uniform(rng, 0.40, 0.80)))
	q100Rate := math.Max(0.10, math.Min(q75Rate, uniform(rng, 0.25, 0.70)))

	q25 := minInt64(videoStart, posInt(float64(videoStart)*q25Rate))
	q50 := minInt64(q25, posInt(float64(videoStart)*q50Rate))
	q75 := minInt64(q50, posInt(float64(videoStart)*q75Rate))
	q100 := minInt64(q75, posInt(float64(videoStart)*q100Rate))

	skipRate := clampFloat(uniform(rng, 0.10, 0.40)*(2.0-math.Min(1.5, factor)), 0.05, 0.60)
	skips := minInt64(videoStart, posInt(float64(videoStart)*skipRate))

	// Engagement.
	ctr := clampFloat(uniform(rng, 0.001, 0.02)*uniform(rng, 0.8, 1.2)*factor, 0.0001, 0.05)
	clicks := minInt64(impressions, posInt(float64(impressions)*ctr))
	qrScans := minInt64(impressions, posInt(float64(impressions)*uniform(rng, 0.0003, 0.006)))
	interactive := minInt64(impressions, posInt(float64(impressions)*uniform(rng, 0.001, 0.02)))

	// Spend. CPM in cents scaled by hour quality; spend in minor units.
	cpmCents := float64(rng.Intn(3301)+1200) * uniform(rng, 0.9, 1.1) * (0.95 + 0.1*math.Min(1.5, factor))
	spendCents := impressions * int64(cpmCents) / 1000

	// Reliability. Well under 1% of requests.
	errorCount := minInt64(requests, posInt(float64(requests)*uniform(rng, 0.0005, 0.004)))
	timeoutCount := minInt64(requests, posInt(float64(requests)*uniform(rng, 0.0005, 0.003)))

	r := models.RawPerformanceRecord{
		CampaignID:    camp.ID,
		HourTimestamp: hour,

		Requests:            requests,
		Responses:           responses,
		EligibleImpressions: eligible,
		AuctionsWon:         auctionsWon,
		Impressions:         impressions,

		ViewableImpressions: viewable,
		AudibleImpressions:  audible,

		VideoStart: videoStart,
		VideoQ25:   q25,
		VideoQ50:   q50,
		VideoQ75:   q75,
		VideoQ100:  q100,
		Skips:      skips,

		Clicks:  clicks,
		QRScans: qrScans,

		InteractiveEngagements: interactive,

		SpendCents: spendCents,

		ErrorCount:   errorCount,
		TimeoutCount: timeoutCount,
	}
	r.SetTemporalFields()
	return r
}

// AllPerformance synthesizes raw rows for every campaign in a dataset.
func (g *Generator) AllPerformance(campaigns []models.Campaign) []models.RawPerformanceRecord {
	var records []models.RawPerformanceRecord
	for i := range campaigns {
		records = append(records, g.CampaignPerformance(&campaigns[i])...)
	}
	return records
}

// uniform draws from [lo, hi).
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// dayStart truncates to 00:00 UTC of the timestamp's day.
func dayStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
