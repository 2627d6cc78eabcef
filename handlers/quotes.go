package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"roofops/services"
)

func quoteJSON(rec *core.Record) map[string]any {
	return map[string]any{
		"id":           rec.Id,
		"quote_number": rec.GetString("quote_number"),
		"lead":         rec.GetString("lead"),
		"client_name":  rec.GetString("client_name"),
		"client_email": rec.GetString("client_email"),
		"client_phone": rec.GetString("client_phone"),
		"site_address": rec.GetString("site_address"),
		"tier":         rec.GetString("tier"),
		"region":       rec.GetString("region"),
		"status":       rec.GetString("status"),
		"subtotal":     rec.GetFloat("subtotal"),
		"gst":          rec.GetFloat("gst"),
		"total":        rec.GetFloat("total"),
		"notes":        rec.GetString("notes"),
		"valid_until":  rec.GetDateTime("valid_until").String(),
		"created":      rec.GetDateTime("created").String(),
	}
}

type quoteCreateRequest struct {
	LeadID       string `json:"lead_id"`
	InspectionID string `json:"inspection_id"`
	ClientName   string `json:"client_name"`
	ClientEmail  string `json:"client_email"`
	ClientPhone  string `json:"client_phone"`
	SiteAddress  string `json:"site_address"`
	Tier         string `json:"tier"`
	Region       string `json:"region"`
}

// HandleQuoteCreate starts a draft quote, either from a lead (client details
// are copied across) or ad hoc. Tier and region fall back to the defaults.
func HandleQuoteCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req quoteCreateRequest
		if err := e.BindBody(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "invalid request body")
		}

		defaults := services.DefaultPricing()
		tier := services.Tier(req.Tier)
		if req.Tier == "" {
			tier = defaults.Tier
		}
		region := services.Region(req.Region)
		if req.Region == "" {
			region = defaults.Region
		}
		if _, err := services.TierMultiplier(tier); err != nil {
			return jsonError(e, http.StatusBadRequest, err.Error())
		}
		if _, err := services.RegionMultiplier(region); err != nil {
			return jsonError(e, http.StatusBadRequest, err.Error())
		}

		clientName := strings.TrimSpace(req.ClientName)
		var leadID string
		if req.InspectionID != "" {
			inspection, err := app.FindRecordById("inspections", req.InspectionID)
			if err != nil {
				return jsonError(e, http.StatusNotFound, "inspection not found")
			}
			if req.LeadID == "" {
				req.LeadID = inspection.GetString("lead")
			}
		}
		if req.LeadID != "" {
			lead, err := app.FindRecordById("leads", req.LeadID)
			if err != nil {
				return jsonError(e, http.StatusNotFound, "lead not found")
			}
			leadID = lead.Id
			if clientName == "" {
				clientName = lead.GetString("name")
			}
			if req.ClientEmail == "" {
				req.ClientEmail = lead.GetString("email")
			}
			if req.ClientPhone == "" {
				req.ClientPhone = lead.GetString("phone")
			}
			if req.SiteAddress == "" {
				req.SiteAddress = lead.GetString("address")
			}
		}
		if clientName == "" {
			return jsonFieldErrors(e, []map[string]string{
				{"field": "client_name", "message": "client name is required"},
			})
		}

		number, err := services.GenerateQuoteNumber(app, time.Now())
		if err != nil {
			log.Printf("quote_create: number: %v", err)
			return jsonError(e, http.StatusInternalServerError, "failed to allocate quote number")
		}

		col, err := app.FindCollectionByNameOrId("quotes")
		if err != nil {
			log.Printf("quote_create: %v", err)
			return jsonError(e, http.StatusInternalServerError, "quotes collection unavailable")
		}

		rec := core.NewRecord(col)
		rec.Set("quote_number", number)
		if leadID != "" {
			rec.Set("lead", leadID)
		}
		rec.Set("client_name", clientName)
		rec.Set("client_email", req.ClientEmail)
		rec.Set("client_phone", req.ClientPhone)
		rec.Set("site_address", req.SiteAddress)
		rec.Set("tier", string(tier))
		rec.Set("region", string(region))
		rec.Set("status", "draft")
		rec.Set("valid_until", services.DefaultValidUntil(time.Now()))

		if err := app.Save(rec); err != nil {
			log.Printf("quote_create: save: %v", err)
			return jsonError(e, http.StatusBadRequest, "failed to save quote")
		}

		return e.JSON(http.StatusCreated, quoteJSON(rec))
	}
}

// HandleQuoteList returns quotes, optionally filtered by status.
func HandleQuoteList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		expr := "id != ''"
		params := map[string]any{}
		if status := e.Request.URL.Query().Get("status"); status != "" {
			expr = "status = {:status}"
			params["status"] = status
		}

		records, err := app.FindRecordsByFilter("quotes", expr, "-created", 200, 0, params)
		if err != nil {
			log.Printf("quote_list: %v", err)
			return jsonError(e, http.StatusInternalServerError, "failed to load quotes")
		}

		quotes := make([]map[string]any, 0, len(records))
		for _, rec := range records {
			quotes = append(quotes, quoteJSON(rec))
		}
		return e.JSON(http.StatusOK, map[string]any{"quotes": quotes})
	}
}

// HandleQuoteView returns one quote with its line items.
func HandleQuoteView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quote, err := app.FindRecordById("quotes", e.Request.PathValue("id"))
		if err != nil {
			return jsonError(e, http.StatusNotFound, "quote not found")
		}

		items, err := services.LoadQuoteLineItems(app, quote.Id)
		if err != nil {
			log.Printf("quote_view: items: %v", err)
			return jsonError(e, http.StatusInternalServerError, "failed to load line items")
		}

		resp := quoteJSON(quote)
		resp["line_items"] = items
		return e.JSON(http.StatusOK, resp)
	}
}

type lineItemInput struct {
	ServiceItem string `json:"service_item"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	Unit        string `json:"unit"`
	UnitRate    string `json:"unit_rate"`
}

type quoteSaveRequest struct {
	Notes string          `json:"notes"`
	Items []lineItemInput `json:"items"`
}

// HandleQuoteSave validates the editor payload and replaces the quote's line
// items in one transaction. Numeric fields arrive as strings from the editor
// and are rejected per field instead of being coerced to zero.
func HandleQuoteSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		quote, err := app.FindRecordById("quotes", quoteID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "quote not found")
		}
		if quote.GetString("status") != "draft" {
			return jsonError(e, http.StatusConflict, "only draft quotes can be edited")
		}

		var req quoteSaveRequest
		if err := e.BindBody(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "invalid request body")
		}

		var fieldErrs []map[string]string
		items := make([]services.LineItem, 0, len(req.Items))
		for i, in := range req.Items {
			qty, qtyErr := services.ParseQuantity(fmt.Sprintf("items[%d].quantity", i), in.Quantity)
			if qtyErr != nil {
				fieldErrs = append(fieldErrs, map[string]string{
					"field": qtyErr.Field, "value": qtyErr.Value, "message": qtyErr.Message,
				})
			}
			rate, rateErr := services.ParseRate(fmt.Sprintf("items[%d].unit_rate", i), in.UnitRate)
			if rateErr != nil {
				fieldErrs = append(fieldErrs, map[string]string{
					"field": rateErr.Field, "value": rateErr.Value, "message": rateErr.Message,
				})
			}
			items = append(items, services.LineItem{
				ServiceItem: in.ServiceItem,
				Description: in.Description,
				Quantity:    qty,
				Unit:        in.Unit,
				UnitRate:    rate,
				SortOrder:   i,
			})
		}
		if len(fieldErrs) > 0 {
			return jsonFieldErrors(e, fieldErrs)
		}

		list := services.NewLineItemList(items)
		totals, err := services.ReplaceQuoteLineItems(app, quoteID, req.Notes, list)
		if err != nil {
			log.Printf("quote_save: %v", err)
			return jsonError(e, http.StatusInternalServerError, "failed to save quote")
		}

		return e.JSON(http.StatusOK, map[string]any{
			"subtotal": totals.Subtotal,
			"gst":      totals.GST,
			"total":    totals.Total,
		})
	}
}

// HandleQuoteDelete removes a quote; its line items cascade.
func HandleQuoteDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quote, err := app.FindRecordById("quotes", e.Request.PathValue("id"))
		if err != nil {
			return jsonError(e, http.StatusNotFound, "quote not found")
		}
		if err := app.Delete(quote); err != nil {
			log.Printf("quote_delete: %v", err)
			return jsonError(e, http.StatusInternalServerError, "failed to delete quote")
		}
		return e.JSON(http.StatusOK, map[string]any{"deleted": true})
	}
}

// allowed status transitions for a quote.
var quoteTransitions = map[string][]string{
	"draft": {"sent"},
	"sent":  {"accepted", "rejected"},
}

// HandleQuoteStatus applies a lifecycle transition.
func HandleQuoteStatus(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quote, err := app.FindRecordById("quotes", e.Request.PathValue("id"))
		if err != nil {
			return jsonError(e, http.StatusNotFound, "quote not found")
		}

		var req struct {
			Status string `json:"status"`
		}
		if err := e.BindBody(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "invalid request body")
		}

		current := quote.GetString("status")
		if !transitionAllowed(current, req.Status) {
			return jsonError(e, http.StatusBadRequest,
				fmt.Sprintf("cannot move quote from %q to %q", current, req.Status))
		}

		quote.Set("status", req.Status)
		if req.Status == "sent" {
			quote.Set("sent_at", time.Now())
		}
		if err := app.Save(quote); err != nil {
			log.Printf("quote_status: save: %v", err)
			return jsonError(e, http.StatusInternalServerError, "failed to update quote")
		}

		// Winning or losing a quote moves the linked lead along the pipeline.
		if leadID := quote.GetString("lead"); leadID != "" {
			leadStatus := ""
			switch req.Status {
			case "sent":
				leadStatus = "quoted"
			case "accepted":
				leadStatus = "won"
			case "rejected":
				leadStatus = "lost"
			}
			if leadStatus != "" {
				if lead, err := app.FindRecordById("leads", leadID); err == nil {
					lead.Set("status", leadStatus)
					if err := app.Save(lead); err != nil {
						log.Printf("quote_status: lead update: %v", err)
					}
				}
			}
		}

		return e.JSON(http.StatusOK, quoteJSON(quote))
	}
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range quoteTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// HandleQuotePDF generates and downloads the quote PDF.
func HandleQuotePDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		if quoteID == "" {
			return e.String(http.StatusBadRequest, "Missing quote ID")
		}

		data, err := services.BuildQuoteExportData(app, quoteID)
		if err != nil {
			log.Printf("quote_pdf: %v", err)
			return e.String(http.StatusNotFound, "Quote not found")
		}

		pdfBytes, err := services.GenerateQuotePDF(data)
		if err != nil {
			log.Printf("quote_pdf: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}

		filename := fmt.Sprintf("Quote_%s.pdf", sanitizeFilename(data.QuoteNumber))

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}

func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}
