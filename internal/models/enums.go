// AdSynth - Synthetic Advertising Data and Analytics Platform
// Copyright 2026 AdSynth contributors
// SPDX-License-Identifier: MIT
// https://github.com/adsynth/adsynth

// Package models defines the statically-typed domain records shared by the
// generator, the metrics engine, and the database layer.
package models

// CampaignStatus is the lifecycle state of a campaign.
type CampaignStatus string

const (
	StatusDraft     CampaignStatus = "draft"
	StatusActive    CampaignStatus = "active"
	StatusPaused    CampaignStatus = "paused"
	StatusCompleted CampaignStatus = "completed"
)

// CampaignObjective is the marketing goal a campaign optimizes for.
type CampaignObjective string

const (
	ObjectiveAwareness     CampaignObjective = "awareness"
	ObjectiveConsideration CampaignObjective = "consideration"
	ObjectiveConversion    CampaignObjective = "conversion"
)

// PacingStrategy controls how budget is spread across a flight.
type PacingStrategy string

const (
	PacingEven        PacingStrategy = "even"
	PacingASAP        PacingStrategy = "asap"
	PacingFrontLoaded PacingStrategy = "front_loaded"
)

// AdFormat is the creative format of a line item.
type AdFormat string

const (
	FormatStandardVideo      AdFormat = "standard_video"
	FormatPauseAd            AdFormat = "pause_ad"
	FormatInteractiveOverlay AdFormat = "interactive_overlay"
	FormatQRCode             AdFormat = "qr_code"
)

// BidStrategy is how a line item bids into the auction.
type BidStrategy string

const (
	BidFixedCPM  BidStrategy = "fixed_cpm"
	BidTargetCPM BidStrategy = "target_cpm"
	BidFloorPlus BidStrategy = "floor_plus"
)

// Verticals lists the advertiser industry verticals the generator draws from.
var Verticals = []string{
	"automotive",
	"consumer_electronics",
	"entertainment",
	"fashion",
	"finance",
	"food_delivery",
	"gaming",
	"insurance",
	"quick_service_restaurant",
	"retail",
	"telecom",
	"travel",
}

// CampaignStatuses lists all valid campaign statuses.
var CampaignStatuses = []CampaignStatus{StatusDraft, StatusActive, StatusPaused, StatusCompleted}

// CampaignObjectives lists all valid campaign objectives.
var CampaignObjectives = []CampaignObjective{ObjectiveAwareness, ObjectiveConsideration, ObjectiveConversion}

// PacingStrategies lists all valid pacing strategies.
var PacingStrategies = []PacingStrategy{PacingEven, PacingASAP, PacingFrontLoaded}

// AdFormats lists all valid ad formats.
var AdFormats = []AdFormat{FormatStandardVideo, FormatPauseAd, FormatInteractiveOverlay, FormatQRCode}

// BidStrategies lists all valid bid strategies.
var BidStrategies = []BidStrategy{BidFixedCPM, BidTargetCPM, BidFloorPlus}
