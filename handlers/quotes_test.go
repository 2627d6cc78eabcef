package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"roofops/testhelpers"
)

func TestHandleQuoteCreate_FromLead(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	lead := testhelpers.CreateTestLead(t, app, "Margaret Wilson")
	lead.Set("email", "margaret@example.com")
	lead.Set("phone", "0412 000 111")
	if err := app.Save(lead); err != nil {
		t.Fatalf("save lead: %v", err)
	}

	handler := HandleQuoteCreate(app)
	body := fmt.Sprintf(`{"lead_id":%q}`, lead.Id)
	req := newJSONRequest(http.MethodPost, "/api/quotes", body)
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
	if resp["client_name"] != "Margaret Wilson" {
		t.Errorf("client_name = %v, want lead name copied", resp["client_name"])
	}
	if resp["client_email"] != "margaret@example.com" {
		t.Errorf("client_email = %v, want lead email copied", resp["client_email"])
	}
	number, _ := resp["quote_number"].(string)
	if !strings.HasPrefix(number, "ARC-QT-") {
		t.Errorf("quote_number = %q, want ARC-QT- prefix", number)
	}
	if resp["tier"] != "RESTORE" || resp["region"] != "metro" {
		t.Errorf("defaults not applied: tier=%v region=%v", resp["tier"], resp["region"])
	}
	if resp["status"] != "draft" {
		t.Errorf("status = %v, want draft", resp["status"])
	}
}

func TestHandleQuoteCreate_FromInspection(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	lead := testhelpers.CreateTestLead(t, app, "Tony Kouris")
	inspection := testhelpers.CreateTestInspection(t, app, lead.Id)

	handler := HandleQuoteCreate(app)
	body := fmt.Sprintf(`{"inspection_id":%q}`, inspection.Id)
	req := newJSONRequest(http.MethodPost, "/api/quotes", body)
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
	if resp["lead"] != lead.Id {
		t.Errorf("lead = %v, want inspection's lead %s", resp["lead"], lead.Id)
	}
}

func TestHandleQuoteCreate_MissingClientName(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleQuoteCreate(app)
	req := newJSONRequest(http.MethodPost, "/api/quotes", `{}`)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	testhelpers.AssertJSONContains(t, rec.Body.String(), "client_name")
}

func TestHandleQuoteCreate_InvalidTier(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleQuoteCreate(app)
	req := newJSONRequest(http.MethodPost, "/api/quotes", `{"client_name":"Ad Hoc","tier":"DELUXE"}`)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	testhelpers.AssertJSONContains(t, rec.Body.String(), "DELUXE")
}

func TestHandleQuoteSave_Valid(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	lead := testhelpers.CreateTestLead(t, app, "Save Lead")
	quote := testhelpers.CreateTestQuote(t, app, lead.Id, "Save Lead")

	handler := HandleQuoteSave(app)
	body := `{"notes":"Access via rear lane","items":[
		{"service_item":"Rebed Ridge Capping","quantity":"4","unit":"lm","unit_rate":"42.50"},
		{"service_item":"Replace Broken Tiles","quantity":"10","unit":"ea","unit_rate":"8.00"}
	]}`
	req := newJSONRequest(http.MethodPost, "/api/quotes/"+quote.Id+"/items", body)
	req.SetPathValue("id", quote.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]float64
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["subtotal"] != 250.00 || resp["gst"] != 25.00 || resp["total"] != 275.00 {
		t.Errorf("totals = %v, want 250/25/275", resp)
	}

	saved, err := app.FindRecordById("quotes", quote.Id)
	if err != nil {
		t.Fatalf("reload quote: %v", err)
	}
	if saved.GetFloat("total") != 275.00 {
		t.Errorf("persisted total = %v, want 275", saved.GetFloat("total"))
	}
	if saved.GetString("notes") != "Access via rear lane" {
		t.Errorf("persisted notes = %q", saved.GetString("notes"))
	}
}

func TestHandleQuoteSave_RejectsBadNumbers(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	lead := testhelpers.CreateTestLead(t, app, "Bad Numbers")
	quote := testhelpers.CreateTestQuote(t, app, lead.Id, "Bad Numbers")

	handler := HandleQuoteSave(app)
	body := `{"items":[
		{"service_item":"Rebed","quantity":"4x","unit":"lm","unit_rate":"42.50"},
		{"service_item":"Tiles","quantity":"2","unit":"ea","unit_rate":"-5"},
		{"service_item":"Valley","quantity":"NaN","unit":"lm","unit_rate":"Inf"}
	]}`
	req := newJSONRequest(http.MethodPost, "/api/quotes/"+quote.Id+"/items", body)
	req.SetPathValue("id", quote.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	testhelpers.AssertJSONContains(t, rec.Body.String(),
		"items[0].quantity", "items[1].unit_rate", "items[2].quantity", "items[2].unit_rate")

	// Nothing persisted on validation failure.
	items, err := app.FindRecordsByFilter("quote_line_items", "quote = {:q}", "", 0, 0, map[string]any{"q": quote.Id})
	if err != nil {
		t.Fatalf("load items: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no line items, got %d", len(items))
	}
}

func TestHandleQuoteSave_NonDraft(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	lead := testhelpers.CreateTestLead(t, app, "Sent Lead")
	quote := testhelpers.CreateTestQuote(t, app, lead.Id, "Sent Lead")
	quote.Set("status", "sent")
	if err := app.Save(quote); err != nil {
		t.Fatalf("save quote: %v", err)
	}

	handler := HandleQuoteSave(app)
	req := newJSONRequest(http.MethodPost, "/api/quotes/"+quote.Id+"/items", `{"items":[]}`)
	req.SetPathValue("id", quote.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestHandleQuoteView_IncludesLineItems(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	lead := testhelpers.CreateTestLead(t, app, "View Lead")
	quote := testhelpers.CreateTestQuote(t, app, lead.Id, "View Lead")
	testhelpers.CreateTestQuoteLineItem(t, app, quote.Id, 0, "Rebed Ridge Capping", 4, 42.50)

	handler := HandleQuoteView(app)
	req := httptest.NewRequest(http.MethodGet, "/api/quotes/"+quote.Id, nil)
	req.SetPathValue("id", quote.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	testhelpers.AssertJSONContains(t, rec.Body.String(), "line_items", "Rebed Ridge Capping")
}

func TestHandleQuoteStatus_DraftToSent(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	lead := testhelpers.CreateTestLead(t, app, "Status Lead")
	quote := testhelpers.CreateTestQuote(t, app, lead.Id, "Status Lead")

	handler := HandleQuoteStatus(app)
	req := newJSONRequest(http.MethodPost, "/api/quotes/"+quote.Id+"/status", `{"status":"sent"}`)
	req.SetPathValue("id", quote.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	saved, _ := app.FindRecordById("quotes", quote.Id)
	if saved.GetString("status") != "sent" {
		t.Errorf("status = %q, want sent", saved.GetString("status"))
	}
	if saved.GetDateTime("sent_at").IsZero() {
		t.Error("expected sent_at to be stamped")
	}
	reloaded, _ := app.FindRecordById("leads", lead.Id)
	if reloaded.GetString("status") != "quoted" {
		t.Errorf("lead status = %q, want quoted", reloaded.GetString("status"))
	}
}

func TestHandleQuoteStatus_AcceptedMovesLeadToWon(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	lead := testhelpers.CreateTestLead(t, app, "Winner")
	quote := testhelpers.CreateTestQuote(t, app, lead.Id, "Winner")
	quote.Set("status", "sent")
	if err := app.Save(quote); err != nil {
		t.Fatalf("save quote: %v", err)
	}

	handler := HandleQuoteStatus(app)
	req := newJSONRequest(http.MethodPost, "/api/quotes/"+quote.Id+"/status", `{"status":"accepted"}`)
	req.SetPathValue("id", quote.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	reloaded, _ := app.FindRecordById("leads", lead.Id)
	if reloaded.GetString("status") != "won" {
		t.Errorf("lead status = %q, want won", reloaded.GetString("status"))
	}
}

func TestHandleQuoteStatus_InvalidTransition(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	lead := testhelpers.CreateTestLead(t, app, "Skipper")
	quote := testhelpers.CreateTestQuote(t, app, lead.Id, "Skipper")

	handler := HandleQuoteStatus(app)
	req := newJSONRequest(http.MethodPost, "/api/quotes/"+quote.Id+"/status", `{"status":"accepted"}`)
	req.SetPathValue("id", quote.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	saved, _ := app.FindRecordById("quotes", quote.Id)
	if saved.GetString("status") != "draft" {
		t.Errorf("status = %q, want draft unchanged", saved.GetString("status"))
	}
}

func TestHandleQuotePDF_Download(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	lead := testhelpers.CreateTestLead(t, app, "PDF Lead")
	quote := testhelpers.CreateTestQuote(t, app, lead.Id, "PDF Lead")
	testhelpers.CreateTestQuoteLineItem(t, app, quote.Id, 0, "Rebed Ridge Capping", 4, 42.50)

	handler := HandleQuotePDF(app)
	req := httptest.NewRequest(http.MethodGet, "/api/quotes/"+quote.Id+"/pdf", nil)
	req.SetPathValue("id", quote.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q, want application/pdf", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, ".pdf") {
		t.Errorf("Content-Disposition = %q, want a pdf filename", cd)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Error("expected a PDF payload")
	}
}

func TestHandleQuoteDelete_CascadesLineItems(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	lead := testhelpers.CreateTestLead(t, app, "Delete Lead")
	quote := testhelpers.CreateTestQuote(t, app, lead.Id, "Delete Lead")
	testhelpers.CreateTestQuoteLineItem(t, app, quote.Id, 0, "Rebed", 4, 42.50)

	handler := HandleQuoteDelete(app)
	req := httptest.NewRequest(http.MethodDelete, "/api/quotes/"+quote.Id, nil)
	req.SetPathValue("id", quote.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if _, err := app.FindRecordById("quotes", quote.Id); err == nil {
		t.Error("expected quote to be deleted")
	}
	items, err := app.FindRecordsByFilter("quote_line_items", "quote = {:q}", "", 0, 0, map[string]any{"q": quote.Id})
	if err != nil {
		t.Fatalf("load items: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected cascade delete, got %d items", len(items))
	}
}

func TestHandleQuoteList_FilterByStatus(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	lead := testhelpers.CreateTestLead(t, app, "List Lead")
	testhelpers.CreateTestQuote(t, app, lead.Id, "Draft One")
	sent := testhelpers.CreateTestQuote(t, app, lead.Id, "Sent One")
	sent.Set("status", "sent")
	if err := app.Save(sent); err != nil {
		t.Fatalf("save quote: %v", err)
	}

	handler := HandleQuoteList(app)
	req := httptest.NewRequest(http.MethodGet, "/api/quotes?status=sent", nil)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		Quotes []map[string]any `json:"quotes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Quotes) != 1 {
		t.Fatalf("expected 1 quote, got %d", len(resp.Quotes))
	}
	if resp.Quotes[0]["client_name"] != "Sent One" {
		t.Errorf("filtered to wrong quote: %v", resp.Quotes[0]["client_name"])
	}
}
