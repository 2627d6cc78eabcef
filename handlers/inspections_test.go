package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"roofops/testhelpers"
)

func TestHandleInspectionCreate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	lead := testhelpers.CreateTestLead(t, app, "Inspect Me")

	handler := HandleInspectionCreate(app)
	body := fmt.Sprintf(`{"lead_id":%q,"scheduled_at":"2026-09-03 09:00:00.000Z","roof_type":"Terracotta tile"}`, lead.Id)
	req := newJSONRequest(http.MethodPost, "/api/inspections", body)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["status"] != "scheduled" {
		t.Errorf("status = %v, want scheduled default", resp["status"])
	}

	// Booking an inspection moves a new lead to contacted.
	reloaded, _ := app.FindRecordById("leads", lead.Id)
	if reloaded.GetString("status") != "contacted" {
		t.Errorf("lead status = %q, want contacted", reloaded.GetString("status"))
	}
}

func TestHandleInspectionCreate_MissingLead(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleInspectionCreate(app)
	req := newJSONRequest(http.MethodPost, "/api/inspections", `{"roof_type":"Colorbond"}`)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	testhelpers.AssertJSONContains(t, rec.Body.String(), "lead_id")
}

func TestHandleInspectionList_ByLead(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	lead := testhelpers.CreateTestLead(t, app, "Lead A")
	other := testhelpers.CreateTestLead(t, app, "Lead B")
	testhelpers.CreateTestInspection(t, app, lead.Id)
	testhelpers.CreateTestInspection(t, app, other.Id)

	handler := HandleInspectionList(app)
	req := httptest.NewRequest(http.MethodGet, "/api/inspections?lead="+lead.Id, nil)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		Inspections []map[string]any `json:"inspections"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Inspections) != 1 {
		t.Fatalf("expected 1 inspection, got %d", len(resp.Inspections))
	}
	if resp.Inspections[0]["lead"] != lead.Id {
		t.Errorf("filtered to wrong lead: %v", resp.Inspections[0]["lead"])
	}
}

func TestHandleInspectionUpdate_RecordsFindings(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	lead := testhelpers.CreateTestLead(t, app, "Findings Lead")
	inspection := testhelpers.CreateTestInspection(t, app, lead.Id)

	handler := HandleInspectionUpdate(app)
	body := `{"status":"completed","findings":"Cracked bedding along main ridge, 14 broken tiles"}`
	req := newJSONRequest(http.MethodPost, "/api/inspections/"+inspection.Id, body)
	req.SetPathValue("id", inspection.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	saved, _ := app.FindRecordById("inspections", inspection.Id)
	if saved.GetString("status") != "completed" {
		t.Errorf("status = %q, want completed", saved.GetString("status"))
	}
	if saved.GetString("findings") == "" {
		t.Error("expected findings to be saved")
	}
}

func TestHandleInspectionDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	lead := testhelpers.CreateTestLead(t, app, "Delete Inspection")
	inspection := testhelpers.CreateTestInspection(t, app, lead.Id)

	handler := HandleInspectionDelete(app)
	req := httptest.NewRequest(http.MethodDelete, "/api/inspections/"+inspection.Id, nil)
	req.SetPathValue("id", inspection.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if _, err := app.FindRecordById("inspections", inspection.Id); err == nil {
		t.Error("expected inspection to be deleted")
	}
}
