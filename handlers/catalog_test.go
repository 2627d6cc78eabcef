package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"roofops/services"
	"roofops/testhelpers"
)

func TestHandleCatalogList(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestService(t, app, "RC-REBED", "Rebed Ridge Capping", 42.50)
	testhelpers.CreateTestService(t, app, "RC-POINT", "Repoint Ridge Capping", 28.00)

	cache := services.NewCatalogCache()
	handler := HandleCatalogList(app, cache)
	req := httptest.NewRequest(http.MethodGet, "/api/catalog", nil)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Services []services.Service `json:"services"`
		Tiers    []string           `json:"tiers"`
		Regions  []string           `json:"regions"`
		Units    []string           `json:"units"`
		Defaults struct {
			Tier   string `json:"tier"`
			Region string `json:"region"`
		} `json:"defaults"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Services) != 2 {
		t.Errorf("expected 2 services, got %d", len(resp.Services))
	}
	if len(resp.Tiers) != 3 || len(resp.Regions) != 3 {
		t.Errorf("expected 3 tiers and 3 regions, got %d/%d", len(resp.Tiers), len(resp.Regions))
	}
	if resp.Defaults.Tier != "RESTORE" || resp.Defaults.Region != "metro" {
		t.Errorf("defaults = %+v, want RESTORE/metro", resp.Defaults)
	}
}

func TestHandleCatalogRate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestService(t, app, "RC-REBED", "Rebed Ridge Capping", 100.00)

	cache := services.NewCatalogCache()
	handler := HandleCatalogRate(app, cache)
	req := httptest.NewRequest(http.MethodGet, "/api/catalog/rate?service=RC-REBED&tier=PREMIUM&region=rural", nil)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		UnitRate float64 `json:"unit_rate"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.UnitRate != 148.50 {
		t.Errorf("unit_rate = %v, want 148.50", resp.UnitRate)
	}
}

func TestHandleCatalogRate_InvalidTier(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestService(t, app, "RC-REBED", "Rebed Ridge Capping", 100.00)

	cache := services.NewCatalogCache()
	handler := HandleCatalogRate(app, cache)
	req := httptest.NewRequest(http.MethodGet, "/api/catalog/rate?service=RC-REBED&tier=DELUXE", nil)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleCatalogRate_UnknownService(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cache := services.NewCatalogCache()
	handler := HandleCatalogRate(app, cache)
	req := httptest.NewRequest(http.MethodGet, "/api/catalog/rate?service=NOPE", nil)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandleCatalogRefresh(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestService(t, app, "RC-REBED", "Rebed Ridge Capping", 42.50)

	cache := services.NewCatalogCache()
	if _, err := cache.Services(app); err != nil {
		t.Fatalf("warm cache: %v", err)
	}
	testhelpers.CreateTestService(t, app, "RC-POINT", "Repoint Ridge Capping", 28.00)

	handler := HandleCatalogRefresh(app, cache)
	req := httptest.NewRequest(http.MethodPost, "/api/catalog/refresh", nil)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	list, err := cache.Services(app)
	if err != nil {
		t.Fatalf("reload cache: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("expected refreshed cache with 2 services, got %d", len(list))
	}
}
