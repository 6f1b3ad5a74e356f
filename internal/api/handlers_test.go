// AdSynth - Synthetic Advertising Data and Analytics Platform
// Copyright 2026 AdSynth contributors
// SPDX-License-Identifier: MIT
// https://github.com/adsynth/adsynth

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/adsynth/adsynth/internal/config"
	"github.com/adsynth/adsynth/internal/database"
	"github.com/adsynth/adsynth/internal/models"
)

// testAPISemaphore serializes DuckDB lifecycles across tests; concurrent CGO
// database instances can hang under CI resource pressure.
var testAPISemaphore = make(chan struct{}, 1)

type testServer struct {
	router http.Handler
	db     *database.DB
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	testAPISemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testAPISemaphore
	})

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Path:      ":memory:",
			MaxMemory: "1GB",
			Threads:   2,
		},
		Generator: config.GeneratorConfig{
			Seed:                   42,
			Advertisers:            1,
			CampaignsPerAdvertiser: 2,
			FlightDays:             2,
			AssetDurationSeconds:   30.0,
		},
		API: config.APIConfig{
			RateLimitDisabled: true,
		},
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})

	return &testServer{
		router: NewRouter(db, cfg).Setup(),
		db:     db,
	}
}

// do performs a request and decodes the standard response envelope.
func (s *testServer) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, *models.APIResponse) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var envelope models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("%s %s: response is not the standard envelope: %v (%s)", method, path, err, rec.Body.String())
	}
	return rec, &envelope
}

// generate runs a small generation and returns the campaign list.
func (s *testServer) generate(t *testing.T) []models.Campaign {
	t.Helper()

	rec, _ := s.do(t, http.MethodPost, "/api/v1/generate", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("generate returned %d: %s", rec.Code, rec.Body.String())
	}

	campaigns, err := s.db.ListCampaigns(context.Background())
	if err != nil {
		t.Fatalf("ListCampaigns failed: %v", err)
	}
	return campaigns
}

func TestHealth(t *testing.T) {
	s := setupTestServer(t)

	rec, envelope := s.do(t, http.MethodGet, "/api/v1/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if envelope.Status != "success" {
		t.Errorf("expected success status, got %q", envelope.Status)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID response header")
	}
}

func TestGenerateAndListCampaigns(t *testing.T) {
	s := setupTestServer(t)
	campaigns := s.generate(t)

	if len(campaigns) != 2 {
		t.Fatalf("expected 2 campaigns, got %d", len(campaigns))
	}

	rec, envelope := s.do(t, http.MethodGet, "/api/v1/campaigns", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data, ok := envelope.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected data shape: %T", envelope.Data)
	}
	if total, _ := data["total"].(float64); int(total) != 2 {
		t.Errorf("expected total 2, got %v", data["total"])
	}
}

func TestGenerateWithOverrides(t *testing.T) {
	s := setupTestServer(t)

	rec, envelope := s.do(t, http.MethodPost, "/api/v1/generate", GenerateRequest{
		Seed:                   7,
		Advertisers:            2,
		CampaignsPerAdvertiser: 1,
		FlightDays:             1,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	data := envelope.Data.(map[string]interface{})
	if seed, _ := data["seed"].(float64); int64(seed) != 7 {
		t.Errorf("expected seed 7, got %v", data["seed"])
	}
	if rows, _ := data["raw_rows"].(float64); int(rows) != 2*24 {
		t.Errorf("expected %d raw rows, got %v", 2*24, data["raw_rows"])
	}
}

func TestGenerateRejectsOutOfRange(t *testing.T) {
	s := setupTestServer(t)

	rec, envelope := s.do(t, http.MethodPost, "/api/v1/generate", GenerateRequest{Advertisers: 5000})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if envelope.Error == nil || envelope.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("expected VALIDATION_ERROR, got %+v", envelope.Error)
	}
}

func TestTransformAndVerify(t *testing.T) {
	s := setupTestServer(t)
	s.generate(t)

	rec, _ := s.do(t, http.MethodPost, "/api/v1/transform", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("transform: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec, envelope := s.do(t, http.MethodGet, "/api/v1/verify", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("verify: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := envelope.Data.(map[string]interface{})
	if consistent, _ := data["consistent"].(bool); !consistent {
		t.Errorf("expected consistent surfaces, got %+v", data)
	}
}

func TestVerifyReportsDivergence(t *testing.T) {
	s := setupTestServer(t)
	s.generate(t)

	if rec, _ := s.do(t, http.MethodPost, "/api/v1/transform", nil); rec.Code != http.StatusOK {
		t.Fatalf("transform failed: %d", rec.Code)
	}

	// Corrupt the SQL surface directly.
	if _, err := s.db.Conn().ExecContext(context.Background(),
		`UPDATE campaign_performance_derived SET viewability_rate = viewability_rate + 0.2`); err != nil {
		t.Fatalf("failed to tamper with derived table: %v", err)
	}

	rec, envelope := s.do(t, http.MethodGet, "/api/v1/verify", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for divergent surfaces, got %d", rec.Code)
	}
	if envelope.Error == nil || envelope.Error.Code != "CONSISTENCY_ERROR" {
		t.Errorf("expected CONSISTENCY_ERROR, got %+v", envelope.Error)
	}
	if envelope.Data == nil {
		t.Error("expected the consistency report in the response data")
	}
}

func TestTransformWithoutData(t *testing.T) {
	s := setupTestServer(t)

	rec, envelope := s.do(t, http.MethodPost, "/api/v1/transform", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on empty database, got %d", rec.Code)
	}
	if envelope.Error == nil || envelope.Error.Code != "NO_RAW_DATA" {
		t.Errorf("expected NO_RAW_DATA, got %+v", envelope.Error)
	}
}

func TestRegeneratePerformance(t *testing.T) {
	s := setupTestServer(t)
	campaigns := s.generate(t)
	camp := campaigns[0]

	rec, envelope := s.do(t, http.MethodPost, "/api/v1/performance/"+camp.ID.String()+"/regenerate?seed=99", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := envelope.Data.(map[string]interface{})
	if rows, _ := data["raw_rows"].(float64); int(rows) != 2*24 {
		t.Errorf("expected %d rows, got %v", 2*24, data["raw_rows"])
	}

	// Derived rows for the campaign are dropped; verify now reports them missing.
	if rec, _ := s.do(t, http.MethodPost, "/api/v1/transform", nil); rec.Code != http.StatusOK {
		t.Fatalf("transform failed: %d", rec.Code)
	}
	rec, _ = s.do(t, http.MethodGet, "/api/v1/verify?campaign_id="+camp.ID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected scoped verify to pass after re-transform, got %d", rec.Code)
	}
}

func TestRegeneratePerformanceUnknownCampaign(t *testing.T) {
	s := setupTestServer(t)
	s.generate(t)

	rec, envelope := s.do(t, http.MethodPost, "/api/v1/performance/00000000-0000-0000-0000-000000000001/regenerate", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if envelope.Error == nil || envelope.Error.Code != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND, got %+v", envelope.Error)
	}
}

func TestCampaignReport(t *testing.T) {
	s := setupTestServer(t)
	campaigns := s.generate(t)
	camp := campaigns[0]

	if rec, _ := s.do(t, http.MethodPost, "/api/v1/transform", nil); rec.Code != http.StatusOK {
		t.Fatalf("transform failed: %d", rec.Code)
	}

	rec, envelope := s.do(t, http.MethodGet, "/api/v1/campaigns/"+camp.ID.String()+"/report", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := envelope.Data.(map[string]interface{})
	if count, _ := data["row_count"].(float64); int(count) != 2*24 {
		t.Errorf("expected %d metric rows, got %v", 2*24, data["row_count"])
	}
}

func TestCampaignReportPagination(t *testing.T) {
	s := setupTestServer(t)
	campaigns := s.generate(t)
	camp := campaigns[0]

	if rec, _ := s.do(t, http.MethodPost, "/api/v1/transform", nil); rec.Code != http.StatusOK {
		t.Fatalf("transform failed: %d", rec.Code)
	}

	base := "/api/v1/campaigns/" + camp.ID.String() + "/report"

	rec, envelope := s.do(t, http.MethodGet, base+"?limit=10&offset=5", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := envelope.Data.(map[string]interface{})
	if count, _ := data["row_count"].(float64); int(count) != 2*24 {
		t.Errorf("expected total row_count %d, got %v", 2*24, data["row_count"])
	}
	page, _ := data["metrics"].([]interface{})
	if len(page) != 10 {
		t.Errorf("expected page of 10 rows, got %d", len(page))
	}

	// Offset past the end clamps to an empty page, not an error.
	rec, envelope = s.do(t, http.MethodGet, base+"?offset=10000", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for out-of-range offset, got %d", rec.Code)
	}
	data = envelope.Data.(map[string]interface{})
	if page, _ := data["metrics"].([]interface{}); len(page) != 0 {
		t.Errorf("expected empty page, got %d rows", len(page))
	}

	rec, envelope = s.do(t, http.MethodGet, base+"?limit=0", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for limit=0, got %d", rec.Code)
	}
	if envelope.Error == nil || envelope.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("expected VALIDATION_ERROR, got %+v", envelope.Error)
	}
}

func TestInvalidCampaignIDParam(t *testing.T) {
	s := setupTestServer(t)

	rec, envelope := s.do(t, http.MethodGet, "/api/v1/verify?campaign_id=not-a-uuid", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if envelope.Error == nil || envelope.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("expected VALIDATION_ERROR, got %+v", envelope.Error)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("api_requests_total")) &&
		!bytes.Contains(rec.Body.Bytes(), []byte("go_goroutines")) {
		t.Error("expected Prometheus exposition output")
	}
}

func TestRateLimitHeadersDisabled(t *testing.T) {
	s := setupTestServer(t)

	// Rate limiting is disabled in the test config; a burst must all pass.
	for i := 0; i < 20; i++ {
		rec, _ := s.do(t, http.MethodGet, "/api/v1/health", nil)
		if rec.Code == http.StatusTooManyRequests {
			t.Fatal("rate limiter rejected requests while disabled")
		}
	}
}
