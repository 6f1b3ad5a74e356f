// AdSynth - Synthetic Advertising Data and Analytics Platform
// Copyright 2026 AdSynth contributors
// SPDX-License-Identifier: MIT
// https://github.com/adsynth/adsynth

package models

import (
	"time"

	"github.com/google/uuid"
)

// Advertiser is the top of the entity hierarchy: a brand buying campaigns.
type Advertiser struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name" validate:"required"`
	Vertical  string    `json:"vertical" validate:"required"`
	Currency  string    `json:"currency" validate:"required,len=3"`
	CreatedAt time.Time `json:"created_at"`
}

// Campaign is a bounded buy for one advertiser, with a flight window that
// determines which hourly buckets the generator fills.
type Campaign struct {
	ID           uuid.UUID         `json:"id"`
	AdvertiserID uuid.UUID         `json:"advertiser_id" validate:"required"`
	Name         string            `json:"name" validate:"required"`
	Objective    CampaignObjective `json:"objective" validate:"required"`
	Status       CampaignStatus    `json:"status" validate:"required"`
	Pacing       PacingStrategy    `json:"pacing" validate:"required"`

	// Flight window, inclusive on both ends. Hourly facts cover every UTC
	// hour from the start of FlightStart's day through the last hour of
	// FlightEnd's day.
	FlightStart time.Time `json:"flight_start" validate:"required"`
	FlightEnd   time.Time `json:"flight_end" validate:"required,gtefield=FlightStart"`

	// DailyBudgetCents is the daily budget in minor currency units.
	DailyBudgetCents int64  `json:"daily_budget_cents" validate:"gte=0"`
	Currency         string `json:"currency" validate:"required,len=3"`

	CreatedAt time.Time `json:"created_at"`
}

// LineItem is a deliverable slice of a campaign with its own format and bid.
type LineItem struct {
	ID         uuid.UUID   `json:"id"`
	CampaignID uuid.UUID   `json:"campaign_id" validate:"required"`
	Name       string      `json:"name" validate:"required"`
	Format     AdFormat    `json:"format" validate:"required"`
	Bid        BidStrategy `json:"bid_strategy" validate:"required"`

	// CPMBidCents is the CPM bid in minor currency units.
	CPMBidCents int64  `json:"cpm_bid_cents" validate:"gte=0"`
	Targeting   string `json:"targeting,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Creative is an ad asset attached to a line item.
type Creative struct {
	ID         uuid.UUID `json:"id"`
	LineItemID uuid.UUID `json:"line_item_id" validate:"required"`
	Name       string    `json:"name" validate:"required"`
	MimeType   string    `json:"mime_type" validate:"required"`

	// DurationSeconds is the video asset length used for watch-time
	// estimation. Zero for non-video formats.
	DurationSeconds float64 `json:"duration_seconds" validate:"gte=0"`

	Interactive bool `json:"interactive"`
	QREnabled   bool `json:"qr_enabled"`

	CreatedAt time.Time `json:"created_at"`
}
