// AdSynth - Synthetic Advertising Data and Analytics Platform
// Copyright 2026 AdSynth contributors
// SPDX-License-Identifier: MIT
// https://github.com/adsynth/adsynth

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/adsynth/adsynth/internal/config"
	"github.com/adsynth/adsynth/internal/database"
	"github.com/adsynth/adsynth/internal/engine"
	"github.com/adsynth/adsynth/internal/generator"
	"github.com/adsynth/adsynth/internal/logging"
	"github.com/adsynth/adsynth/internal/metrics"
	"github.com/adsynth/adsynth/internal/models"
)

// Handler holds the dependencies for all HTTP endpoints.
type Handler struct {
	db      *database.DB
	cfg     *config.Config
	started time.Time
}

// NewHandler creates an API handler.
func NewHandler(db *database.DB, cfg *config.Config) *Handler {
	return &Handler{
		db:      db,
		cfg:     cfg,
		started: time.Now(),
	}
}

// assetDuration returns the configured watch-time asset duration.
func (h *Handler) assetDuration() float64 {
	if d := h.cfg.Generator.AssetDurationSeconds; d > 0 {
		return d
	}
	return engine.DefaultAssetDuration
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if err := h.db.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "DATABASE_ERROR", "database unreachable", err)
		return
	}

	counts, err := h.db.Counts(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to read dataset counts", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
		"dataset":        counts,
	}, time.Since(start))
}

// GenerateRequest is the optional body of POST /api/v1/generate. Zero-valued
// fields fall back to the configured defaults.
type GenerateRequest struct {
	Seed                   int64 `json:"seed"`
	Advertisers            int   `json:"advertisers" validate:"gte=0,lte=100"`
	CampaignsPerAdvertiser int   `json:"campaigns_per_advertiser" validate:"gte=0,lte=50"`
	FlightDays             int   `json:"flight_days" validate:"gte=0,lte=92"`
}

// Generate handles POST /api/v1/generate: synthesizes a fresh dataset (entity
// hierarchy plus raw hourly performance), replacing whatever exists.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req GenerateRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err)
			return
		}
	}
	if req.Advertisers < 0 || req.Advertisers > 100 ||
		req.CampaignsPerAdvertiser < 0 || req.CampaignsPerAdvertiser > 50 ||
		req.FlightDays < 0 || req.FlightDays > 92 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "generation parameters out of range", nil)
		return
	}

	genCfg := h.cfg.Generator
	if req.Seed != 0 {
		genCfg.Seed = req.Seed
	}
	if req.Advertisers > 0 {
		genCfg.Advertisers = req.Advertisers
	}
	if req.CampaignsPerAdvertiser > 0 {
		genCfg.CampaignsPerAdvertiser = req.CampaignsPerAdvertiser
	}
	if req.FlightDays > 0 {
		genCfg.FlightDays = req.FlightDays
	}

	g := generator.New(genCfg)
	ds := g.Dataset(time.Now().UTC())

	ctx := r.Context()
	if err := h.db.ReplaceEntities(ctx, ds.Advertisers, ds.Campaigns, ds.LineItems, ds.Creatives); err != nil {
		metrics.RecordGeneration(time.Since(start), 0, err)
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to store entities", err)
		return
	}

	raw := g.AllPerformance(ds.Campaigns)
	if err := h.db.InsertRawPerformance(ctx, raw); err != nil {
		metrics.RecordGeneration(time.Since(start), 0, err)
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to store raw performance", err)
		return
	}

	metrics.RecordGeneration(time.Since(start), int64(len(raw)), nil)
	logging.Ctx(ctx).Info().
		Int64("seed", g.Seed()).
		Int("campaigns", len(ds.Campaigns)).
		Int("raw_rows", len(raw)).
		Msg("Dataset generated")

	respondSuccess(w, http.StatusCreated, map[string]interface{}{
		"seed":        g.Seed(),
		"advertisers": len(ds.Advertisers),
		"campaigns":   len(ds.Campaigns),
		"line_items":  len(ds.LineItems),
		"creatives":   len(ds.Creatives),
		"raw_rows":    len(raw),
	}, time.Since(start))
}

// RegeneratePerformance handles POST /api/v1/performance/{campaignID}/regenerate:
// re-synthesizes one campaign's raw rows (optionally with a ?seed= override)
// and drops its now-stale derived rows.
func (h *Handler) RegeneratePerformance(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	campaignID, err := uuid.Parse(chi.URLParam(r, "campaignID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid campaign ID", err)
		return
	}

	ctx := r.Context()
	camp, err := h.db.GetCampaign(ctx, campaignID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "campaign not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to load campaign", err)
		return
	}

	genCfg := h.cfg.Generator
	if s := r.URL.Query().Get("seed"); s != "" {
		seed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid seed parameter", err)
			return
		}
		genCfg.Seed = seed
	}

	rows := generator.New(genCfg).CampaignPerformance(camp)
	if err := h.db.ReplaceCampaignPerformance(ctx, campaignID, rows); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to replace performance rows", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"campaign_id": campaignID,
		"raw_rows":    len(rows),
	}, time.Since(start))
}

// Transform handles POST /api/v1/transform: rebuilds the SQL metrics surface,
// optionally scoped by ?campaign_id=.
func (h *Handler) Transform(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	campaignID, ok := h.optionalCampaignID(w, r)
	if !ok {
		return
	}

	result, err := h.db.TransformDerivedMetrics(r.Context(), campaignID, h.assetDuration())
	if err != nil {
		if errors.Is(err, database.ErrNoRawData) {
			respondError(w, http.StatusNotFound, "NO_RAW_DATA", "no raw performance rows to transform", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "transform failed", err)
		return
	}

	metrics.RecordTransform(result.Duration, result.RowsTransformed)
	respondSuccess(w, http.StatusOK, result, time.Since(start))
}

// Verify handles GET /api/v1/verify: runs the cross-surface consistency
// checker, optionally scoped by ?campaign_id=. Divergence between the two
// metrics surfaces is a conflict, not a success with a sad payload.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	campaignID, ok := h.optionalCampaignID(w, r)
	if !ok {
		return
	}

	report, err := h.db.VerifyConsistency(r.Context(), campaignID, engine.New(h.assetDuration()))
	if err != nil {
		if errors.Is(err, database.ErrNoRawData) {
			metrics.RecordConsistencyCheck(false, 0, err)
			respondError(w, http.StatusNotFound, "NO_RAW_DATA", "no raw performance rows to verify", nil)
			return
		}
		metrics.RecordConsistencyCheck(false, 0, err)
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "consistency check failed", err)
		return
	}

	metrics.RecordConsistencyCheck(report.Consistent, report.MismatchCount, nil)

	if !report.Consistent {
		respondJSON(w, http.StatusConflict, &models.APIResponse{
			Status: "error",
			Data:   report,
			Metadata: models.Metadata{
				Timestamp:   time.Now().UTC(),
				QueryTimeMS: time.Since(start).Milliseconds(),
			},
			Error: &models.APIError{
				Code:    "CONSISTENCY_ERROR",
				Message: report.String(),
			},
		})
		return
	}

	respondSuccess(w, http.StatusOK, report, time.Since(start))
}

// Campaigns handles GET /api/v1/campaigns.
func (h *Handler) Campaigns(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	campaigns, err := h.db.ListCampaigns(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to list campaigns", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"total":     len(campaigns),
		"campaigns": campaigns,
	}, time.Since(start))
}

// CampaignReport handles GET /api/v1/campaigns/{campaignID}/report: the
// campaign plus its hourly derived metrics from the SQL surface.
func (h *Handler) CampaignReport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	campaignID, err := uuid.Parse(chi.URLParam(r, "campaignID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid campaign ID", err)
		return
	}

	ctx := r.Context()
	camp, err := h.db.GetCampaign(ctx, campaignID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "campaign not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to load campaign", err)
		return
	}

	derived, err := h.db.QueryDerivedMetrics(ctx, &campaignID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to load derived metrics", err)
		return
	}

	limit, offset, ok := paginationParams(w, r, len(derived))
	if !ok {
		return
	}
	page := derived[offset:minInt(offset+limit, len(derived))]

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"campaign":  camp,
		"row_count": len(derived),
		"limit":     limit,
		"offset":    offset,
		"metrics":   page,
	}, time.Since(start))
}

const (
	defaultReportLimit = 500
	maxReportLimit     = 5000
)

// paginationParams parses ?limit= and ?offset= for row-level endpoints. The
// bool result is false when a response was already written. Offsets past the
// end of the result set clamp to an empty page rather than erroring.
func paginationParams(w http.ResponseWriter, r *http.Request, total int) (limit, offset int, ok bool) {
	limit = defaultReportLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxReportLimit {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid limit parameter", err)
			return 0, 0, false
		}
		limit = n
	}
	if s := r.URL.Query().Get("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid offset parameter", err)
			return 0, 0, false
		}
		offset = n
	}
	if offset > total {
		offset = total
	}
	return limit, offset, true
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// optionalCampaignID parses the ?campaign_id= query parameter. The bool
// result is false when a response was already written.
func (h *Handler) optionalCampaignID(w http.ResponseWriter, r *http.Request) (*uuid.UUID, bool) {
	s := r.URL.Query().Get("campaign_id")
	if s == "" {
		return nil, true
	}
	id, err := uuid.Parse(s)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid campaign_id parameter", err)
		return nil, false
	}
	return &id, true
}
