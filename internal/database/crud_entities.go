// AdSynth - Synthetic Advertising Data and Analytics Platform
// Copyright 2026 AdSynth contributors
// SPDX-License-Identifier: MIT
// https://github.com/adsynth/adsynth

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/adsynth/adsynth/internal/logging"
	"github.com/adsynth/adsynth/internal/models"
)

// defaultQueryTimeout bounds queries whose caller supplied a context without
// a deadline.
const defaultQueryTimeout = 30 * time.Second

// ensureContext returns a context that carries a deadline.
func (db *DB) ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// DatasetCounts summarizes the synthesized dataset.
type DatasetCounts struct {
	Advertisers int64 `json:"advertisers"`
	Campaigns   int64 `json:"campaigns"`
	LineItems   int64 `json:"line_items"`
	Creatives   int64 `json:"creatives"`
	RawRows     int64 `json:"raw_performance_rows"`
	DerivedRows int64 `json:"derived_metrics_rows"`
}

// ReplaceEntities replaces the full entity hierarchy in one transaction.
// The synthetic dataset is regenerated wholesale, never migrated, so the
// previous hierarchy (including performance facts) is dropped first.
func (db *DB) ReplaceEntities(ctx context.Context, advertisers []models.Advertiser, campaigns []models.Campaign, lineItems []models.LineItem, creatives []models.Creative) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error().Err(rbErr).AnErr("original_error", err).Msg("Transaction rollback failed")
			}
		}
	}()

	for _, table := range []string{"campaign_performance_derived", "raw_performance_hourly", "creatives", "line_items", "campaigns", "advertisers"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err = insertAdvertisers(ctx, tx, advertisers); err != nil {
		return err
	}
	if err = insertCampaigns(ctx, tx, campaigns); err != nil {
		return err
	}
	if err = insertLineItems(ctx, tx, lineItems); err != nil {
		return err
	}
	if err = insertCreatives(ctx, tx, creatives); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	logging.Debug().
		Int("advertisers", len(advertisers)).
		Int("campaigns", len(campaigns)).
		Int("line_items", len(lineItems)).
		Int("creatives", len(creatives)).
		Msg("Entity hierarchy replaced")

	return nil
}

func insertAdvertisers(ctx context.Context, tx *sql.Tx, advertisers []models.Advertiser) error {
	if len(advertisers) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO advertisers (id, name, vertical, currency, created_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare advertiser insert: %w", err)
	}
	defer closeStmt(stmt)

	for i := range advertisers {
		a := &advertisers[i]
		if _, err := stmt.ExecContext(ctx, a.ID, a.Name, a.Vertical, a.Currency, a.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert advertiser %s: %w", a.Name, err)
		}
	}
	return nil
}

func insertCampaigns(ctx context.Context, tx *sql.Tx, campaigns []models.Campaign) error {
	if len(campaigns) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO campaigns (id, advertiser_id, name, objective, status, pacing,
			flight_start, flight_end, daily_budget_cents, currency, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare campaign insert: %w", err)
	}
	defer closeStmt(stmt)

	for i := range campaigns {
		c := &campaigns[i]
		if _, err := stmt.ExecContext(ctx, c.ID, c.AdvertiserID, c.Name, string(c.Objective),
			string(c.Status), string(c.Pacing), c.FlightStart, c.FlightEnd,
			c.DailyBudgetCents, c.Currency, c.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert campaign %s: %w", c.Name, err)
		}
	}
	return nil
}

func insertLineItems(ctx context.Context, tx *sql.Tx, lineItems []models.LineItem) error {
	if len(lineItems) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO line_items (id, campaign_id, name, format, bid_strategy, cpm_bid_cents, targeting, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare line item insert: %w", err)
	}
	defer closeStmt(stmt)

	for i := range lineItems {
		li := &lineItems[i]
		if _, err := stmt.ExecContext(ctx, li.ID, li.CampaignID, li.Name, string(li.Format),
			string(li.Bid), li.CPMBidCents, li.Targeting, li.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert line item %s: %w", li.Name, err)
		}
	}
	return nil
}

func insertCreatives(ctx context.Context, tx *sql.Tx, creatives []models.Creative) error {
	if len(creatives) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO creatives (id, line_item_id, name, mime_type, duration_seconds, interactive, qr_enabled, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare creative insert: %w", err)
	}
	defer closeStmt(stmt)

	for i := range creatives {
		c := &creatives[i]
		if _, err := stmt.ExecContext(ctx, c.ID, c.LineItemID, c.Name, c.MimeType,
			c.DurationSeconds, c.Interactive, c.QREnabled, c.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert creative %s: %w", c.Name, err)
		}
	}
	return nil
}

// GetCampaign fetches one campaign by ID. Returns ErrNotFound if absent.
func (db *DB) GetCampaign(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT id, advertiser_id, name, objective, status, pacing,
		flight_start, flight_end, daily_budget_cents, currency, created_at
	FROM campaigns WHERE id = ?`

	var c models.Campaign
	var objective, status, pacing string
	err := db.conn.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.AdvertiserID, &c.Name, &objective, &status, &pacing,
		&c.FlightStart, &c.FlightEnd, &c.DailyBudgetCents, &c.Currency, &c.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("campaign %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query campaign: %w", err)
	}

	c.Objective = models.CampaignObjective(objective)
	c.Status = models.CampaignStatus(status)
	c.Pacing = models.PacingStrategy(pacing)
	return &c, nil
}

// ListCampaigns returns all campaigns ordered by name.
func (db *DB) ListCampaigns(ctx context.Context) ([]models.Campaign, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT id, advertiser_id, name, objective, status, pacing,
		flight_start, flight_end, daily_budget_cents, currency, created_at
	FROM campaigns ORDER BY name`

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []models.Campaign
	for rows.Next() {
		var c models.Campaign
		var objective, status, pacing string
		if err := rows.Scan(&c.ID, &c.AdvertiserID, &c.Name, &objective, &status, &pacing,
			&c.FlightStart, &c.FlightEnd, &c.DailyBudgetCents, &c.Currency, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		c.Objective = models.CampaignObjective(objective)
		c.Status = models.CampaignStatus(status)
		c.Pacing = models.PacingStrategy(pacing)
		campaigns = append(campaigns, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating campaigns: %w", err)
	}

	return campaigns, nil
}

// Counts returns row counts for every dataset table.
func (db *DB) Counts(ctx context.Context) (*DatasetCounts, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	counts := &DatasetCounts{}
	targets := []struct {
		table string
		dest  *int64
	}{
		{"advertisers", &counts.Advertisers},
		{"campaigns", &counts.Campaigns},
		{"line_items", &counts.LineItems},
		{"creatives", &counts.Creatives},
		{"raw_performance_hourly", &counts.RawRows},
		{"campaign_performance_derived", &counts.DerivedRows},
	}

	for _, t := range targets {
		if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+t.table).Scan(t.dest); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", t.table, err)
		}
	}

	return counts, nil
}

// closeStmt closes a prepared statement, logging failures.
func closeStmt(stmt *sql.Stmt) {
	if err := stmt.Close(); err != nil {
		logging.Warn().Err(err).Msg("Failed to close prepared statement")
	}
}
