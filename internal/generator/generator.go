// AdSynth - Synthetic Advertising Data and Analytics Platform
// Copyright 2026 AdSynth contributors
// SPDX-License-Identifier: MIT
// https://github.com/adsynth/adsynth

/*
Package generator synthesizes the advertising dataset: an entity hierarchy
(advertisers, campaigns, line items, creatives) and hourly raw performance
counters across each campaign's flight.

Generation is deterministic: the same seed always produces the same dataset.
Each campaign's performance rows are additionally seeded by the campaign ID,
so regenerating a single campaign reproduces exactly the rows a full run
would have produced for it.

The generator is pure with respect to storage: it returns records and never
touches the database. Counter output always satisfies the funnel ordering
constraints; the metrics surfaces are defensive about violations, but the
generator does not produce any.
*/
package generator

import (
	"encoding/binary"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/adsynth/adsynth/internal/config"
	"github.com/adsynth/adsynth/internal/models"
)

const (
	lineItemsPerCampaign  = 2
	creativesPerLineItem  = 2
	defaultFlightDays     = 14
	defaultAdvertisers    = 5
	defaultCampaignsPerAd = 3
)

// Dataset is one complete synthesized entity hierarchy.
type Dataset struct {
	Advertisers []models.Advertiser
	Campaigns   []models.Campaign
	LineItems   []models.LineItem
	Creatives   []models.Creative
}

// Generator synthesizes datasets according to its configuration.
type Generator struct {
	cfg config.GeneratorConfig
}

// New returns a Generator. Zero-valued counts fall back to defaults; a zero
// seed is replaced with one derived from the current time, which makes the
// run non-reproducible but still internally consistent.
func New(cfg config.GeneratorConfig) *Generator {
	if cfg.Advertisers <= 0 {
		cfg.Advertisers = defaultAdvertisers
	}
	if cfg.CampaignsPerAdvertiser <= 0 {
		cfg.CampaignsPerAdvertiser = defaultCampaignsPerAd
	}
	if cfg.FlightDays <= 0 {
		cfg.FlightDays = defaultFlightDays
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return &Generator{cfg: cfg}
}

// Seed returns the effective seed for this generator.
func (g *Generator) Seed() int64 {
	return g.cfg.Seed
}

// brand name pools. Fictitious by construction; combinations are drawn
// seeded, so the same seed names the same brands.
var (
	brandPrefixes = []string{
		"Apex", "Blue Harbor", "Cascade", "Drift", "Ember", "Fathom",
		"Golden Gate", "Horizon", "Ironwood", "Juniper", "Keystone", "Lumen",
		"Meridian", "Northwind", "Orchard", "Pinnacle", "Quarry", "Redwood",
		"Solstice", "Truevale",
	}
	brandSuffixes = []string{
		"Labs", "Motors", "Foods", "Financial", "Outfitters", "Studios",
		"Airlines", "Mobile", "Games", "Insurance", "Kitchen", "Market",
	}
	campaignThemes = []string{
		"Brand Launch", "Holiday Push", "Always On", "Product Spotlight",
		"Premiere Tie-In", "Seasonal Sale", "Awareness Blitz", "Retargeting Wave",
	}
)

// Dataset synthesizes the full entity hierarchy. Flights are anchored so
// every campaign ends on the day before anchor (UTC), giving a fully
// populated historical window.
func (g *Generator) Dataset(anchor time.Time) *Dataset {
	rng := rand.New(rand.NewSource(g.cfg.Seed))

	flightEnd := anchor.UTC().Truncate(24*time.Hour).AddDate(0, 0, -1)
	flightStart := flightEnd.AddDate(0, 0, -(g.cfg.FlightDays - 1))
	now := anchor.UTC()

	ds := &Dataset{}
	for i := 0; i < g.cfg.Advertisers; i++ {
		adv := models.Advertiser{
			ID:        deterministicUUID(rng),
			Name:      pick(rng, brandPrefixes) + " " + pick(rng, brandSuffixes),
			Vertical:  pick(rng, models.Verticals),
			Currency:  "USD",
			CreatedAt: now,
		}
		ds.Advertisers = append(ds.Advertisers, adv)

		for j := 0; j < g.cfg.CampaignsPerAdvertiser; j++ {
			camp := models.Campaign{
				ID:           deterministicUUID(rng),
				AdvertiserID: adv.ID,
				Name:         fmt.Sprintf("%s %s %d", adv.Name, pick(rng, campaignThemes), flightStart.Year()),
				Objective:    pick(rng, models.CampaignObjectives),
				Status:       models.StatusActive,
				Pacing:       pick(rng, models.PacingStrategies),
				FlightStart:  flightStart,
				FlightEnd:    flightEnd,

				DailyBudgetCents: int64(rng.Intn(9501)+500) * 100, // $500 - $10,000/day
				Currency:         "USD",
				CreatedAt:        now,
			}
			ds.Campaigns = append(ds.Campaigns, camp)

			g.appendDelivery(rng, ds, &camp, now)
		}
	}

	return ds
}

// appendDelivery adds line items and creatives for one campaign.
func (g *Generator) appendDelivery(rng *rand.Rand, ds *Dataset, camp *models.Campaign, now time.Time) {
	for k := 0; k < lineItemsPerCampaign; k++ {
		format := pick(rng, models.AdFormats)
		li := models.LineItem{
			ID:         deterministicUUID(rng),
			CampaignID: camp.ID,
			Name:       fmt.Sprintf("%s / %s %d", camp.Name, format, k+1),
			Format:     format,
			Bid:        pick(rng, models.BidStrategies),

			CPMBidCents: int64(rng.Intn(3301) + 1200), // $12 - $45 CPM
			Targeting:   pick(rng, targetingSegments),
			CreatedAt:   now,
		}
		ds.LineItems = append(ds.LineItems, li)

		for c := 0; c < creativesPerLineItem; c++ {
			ds.Creatives = append(ds.Creatives, models.Creative{
				ID:         deterministicUUID(rng),
				LineItemID: li.ID,
				Name:       fmt.Sprintf("%s / cut %d", li.Name, c+1),
				MimeType:   "video/mp4",

				DurationSeconds: pick(rng, assetDurations),
				Interactive:     format == models.FormatInteractiveOverlay,
				QREnabled:       format == models.FormatQRCode,
				CreatedAt:       now,
			})
		}
	}
}

var (
	targetingSegments = []string{
		"geo:us;device:ctv", "geo:us-west;device:ctv",
		"geo:us;genre:drama", "geo:us;genre:sports",
		"geo:ca;device:ctv", "geo:us;daypart:primetime",
	}
	assetDurations = []float64{15.0, 30.0, 30.0, 60.0}
)

// pick returns a seeded-random element of a non-empty slice.
func pick[T any](rng *rand.Rand, xs []T) T {
	return xs[rng.Intn(len(xs))]
}

// deterministicUUID draws a v4-shaped UUID from the seeded stream so entity
// IDs are reproducible for a given seed.
func deterministicUUID(rng *rand.Rand) uuid.UUID {
	var id uuid.UUID
	binary.BigEndian.PutUint64(id[0:8], rng.Uint64())
	binary.BigEndian.PutUint64(id[8:16], rng.Uint64())
	id[6] = (id[6] & 0x0f) | 0x40 // version 4
	id[8] = (id[8] & 0x3f) | 0x80 // RFC 4122 variant
	return id
}

// campaignSeed derives the per-campaign RNG seed from the run seed and the
// campaign identity, so a single campaign regenerates identically to its
// slice of a full run.
func campaignSeed(runSeed int64, campaignID uuid.UUID) int64 {
	return runSeed ^ int64(binary.BigEndian.Uint64(campaignID[0:8]))
}
