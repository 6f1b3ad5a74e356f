// AdSynth - Synthetic Advertising Data and Analytics Platform
// Copyright 2026 AdSynth contributors
// SPDX-License-Identifier: MIT
// https://github.com/adsynth/adsynth

// Package api provides HTTP routing using the Chi router.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adsynth/adsynth/internal/config"
	"github.com/adsynth/adsynth/internal/database"
)

// Router wires handlers and middleware into an http.Handler.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a Router from application dependencies.
func NewRouter(db *database.DB, cfg *config.Config) *Router {
	mwCfg := DefaultChiMiddlewareConfig()
	mwCfg.CORSAllowedOrigins = cfg.API.CORSOrigins
	if cfg.API.RateLimitReqs > 0 {
		mwCfg.RateLimitRequests = cfg.API.RateLimitReqs
	}
	if cfg.API.RateLimitWindow > 0 {
		mwCfg.RateLimitWindow = cfg.API.RateLimitWindow
	}
	mwCfg.RateLimitDisabled = cfg.API.RateLimitDisabled

	return &Router{
		handler:       NewHandler(db, cfg),
		chiMiddleware: NewChiMiddleware(mwCfg),
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(AccessLogging)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(PrometheusMetrics)

		r.Get("/health", router.handler.Health)

		r.Post("/generate", router.handler.Generate)
		r.Post("/performance/{campaignID}/regenerate", router.handler.RegeneratePerformance)
		r.Post("/transform", router.handler.Transform)
		r.Get("/verify", router.handler.Verify)

		r.Get("/campaigns", router.handler.Campaigns)
		r.Get("/campaigns/{campaignID}/report", router.handler.CampaignReport)
	})

	// Prometheus scrape endpoint, outside the rate limiter.
	r.Handle("/metrics", promhttp.Handler())

	return r
}
