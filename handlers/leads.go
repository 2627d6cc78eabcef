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

func leadJSON(rec *core.Record) map[string]any {
	return map[string]any{
		"id":      rec.Id,
		"name":    rec.GetString("name"),
		"email":   rec.GetString("email"),
		"phone":   rec.GetString("phone"),
		"suburb":  rec.GetString("suburb"),
		"address": rec.GetString("address"),
		"source":  rec.GetString("source"),
		"status":  rec.GetString("status"),
		"notes":   rec.GetString("notes"),
		"created": rec.GetDateTime("created").String(),
	}
}

// HandleLeadList searches leads by query string parameters.
func HandleLeadList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		q := e.Request.URL.Query()
		filter := services.LeadFilter{
			Query:  q.Get("q"),
			Status: q.Get("status"),
			Source: q.Get("source"),
			Suburb: q.Get("suburb"),
		}

		records, err := services.SearchLeads(app, filter, 200)
		if err != nil {
			log.Printf("lead_list: %v", err)
			return jsonError(e, http.StatusInternalServerError, "failed to search leads")
		}

		leads := make([]map[string]any, 0, len(records))
		for _, rec := range records {
			leads = append(leads, leadJSON(rec))
		}
		return e.JSON(http.StatusOK, map[string]any{"leads": leads})
	}
}

// HandleLeadView returns one lead with its quotes and inspections.
func HandleLeadView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		leadID := e.Request.PathValue("id")

		lead, err := app.FindRecordById("leads", leadID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "lead not found")
		}

		quotes, err := app.FindRecordsByFilter("quotes", "lead = {:id}", "-created", 0, 0, map[string]any{"id": leadID})
		if err != nil {
			quotes = nil
		}
		inspections, err := app.FindRecordsByFilter("inspections", "lead = {:id}", "-created", 0, 0, map[string]any{"id": leadID})
		if err != nil {
			inspections = nil
		}

		quoteSummaries := make([]map[string]any, 0, len(quotes))
		for _, q := range quotes {
			quoteSummaries = append(quoteSummaries, map[string]any{
				"id":           q.Id,
				"quote_number": q.GetString("quote_number"),
				"status":       q.GetString("status"),
				"total":        q.GetFloat("total"),
			})
		}
		inspectionSummaries := make([]map[string]any, 0, len(inspections))
		for _, i := range inspections {
			inspectionSummaries = append(inspectionSummaries, map[string]any{
				"id":           i.Id,
				"status":       i.GetString("status"),
				"scheduled_at": i.GetDateTime("scheduled_at").String(),
				"roof_type":    i.GetString("roof_type"),
			})
		}

		resp := leadJSON(lead)
		resp["quotes"] = quoteSummaries
		resp["inspections"] = inspectionSummaries
		return e.JSON(http.StatusOK, resp)
	}
}

type leadRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Suburb  string `json:"suburb"`
	Address string `json:"address"`
	Source  string `json:"source"`
	Status  string `json:"status"`
	Notes   string `json:"notes"`
}

// HandleLeadCreate inserts a new lead.
func HandleLeadCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req leadRequest
		if err := e.BindBody(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "invalid request body")
		}
		if strings.TrimSpace(req.Name) == "" {
			return jsonFieldErrors(e, []map[string]string{
				{"field": "name", "message": "name is required"},
			})
		}

		col, err := app.FindCollectionByNameOrId("leads")
		if err != nil {
			log.Printf("lead_create: %v", err)
			return jsonError(e, http.StatusInternalServerError, "leads collection unavailable")
		}

		rec := core.NewRecord(col)
		rec.Set("name", strings.TrimSpace(req.Name))
		rec.Set("email", req.Email)
		rec.Set("phone", req.Phone)
		rec.Set("suburb", req.Suburb)
		rec.Set("address", req.Address)
		rec.Set("source", req.Source)
		rec.Set("notes", req.Notes)
		status := req.Status
		if status == "" {
			status = "new"
		}
		rec.Set("status", status)

		if err := app.Save(rec); err != nil {
			log.Printf("lead_create: save: %v", err)
			return jsonError(e, http.StatusBadRequest, "failed to save lead")
		}

		return e.JSON(http.StatusCreated, leadJSON(rec))
	}
}

// HandleLeadUpdate updates an existing lead.
func HandleLeadUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		lead, err := app.FindRecordById("leads", e.Request.PathValue("id"))
		if err != nil {
			return jsonError(e, http.StatusNotFound, "lead not found")
		}

		var req leadRequest
		if err := e.BindBody(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "invalid request body")
		}
		if strings.TrimSpace(req.Name) == "" {
			return jsonFieldErrors(e, []map[string]string{
				{"field": "name", "message": "name is required"},
			})
		}

		lead.Set("name", strings.TrimSpace(req.Name))
		lead.Set("email", req.Email)
		lead.Set("phone", req.Phone)
		lead.Set("suburb", req.Suburb)
		lead.Set("address", req.Address)
		lead.Set("source", req.Source)
		lead.Set("notes", req.Notes)
		if req.Status != "" {
			lead.Set("status", req.Status)
		}

		if err := app.Save(lead); err != nil {
			log.Printf("lead_update: save: %v", err)
			return jsonError(e, http.StatusBadRequest, "failed to save lead")
		}

		return e.JSON(http.StatusOK, leadJSON(lead))
	}
}

// HandleLeadDelete removes a lead; related inspections cascade.
func HandleLeadDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		lead, err := app.FindRecordById("leads", e.Request.PathValue("id"))
		if err != nil {
			return jsonError(e, http.StatusNotFound, "lead not found")
		}
		if err := app.Delete(lead); err != nil {
			log.Printf("lead_delete: %v", err)
			return jsonError(e, http.StatusInternalServerError, "failed to delete lead")
		}
		return e.JSON(http.StatusOK, map[string]any{"deleted": true})
	}
}

// HandleLeadMerge folds duplicate leads into the primary.
func HandleLeadMerge(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req struct {
			PrimaryID    string   `json:"primary_id"`
			DuplicateIDs []string `json:"duplicate_ids"`
		}
		if err := e.BindBody(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "invalid request body")
		}

		if err := services.MergeLeads(app, req.PrimaryID, req.DuplicateIDs); err != nil {
			log.Printf("lead_merge: %v", err)
			return jsonError(e, http.StatusBadRequest, err.Error())
		}

		return e.JSON(http.StatusOK, map[string]any{
			"merged_into": req.PrimaryID,
			"merged":      len(req.DuplicateIDs),
		})
	}
}

// HandleLeadExport downloads the current lead search as CSV or Excel.
func HandleLeadExport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		q := e.Request.URL.Query()
		filter := services.LeadFilter{
			Query:  q.Get("q"),
			Status: q.Get("status"),
			Source: q.Get("source"),
			Suburb: q.Get("suburb"),
		}

		records, err := services.SearchLeads(app, filter, 0)
		if err != nil {
			log.Printf("lead_export: %v", err)
			return jsonError(e, http.StatusInternalServerError, "failed to load leads")
		}

		stamp := time.Now().Format("2006-01-02")
		if q.Get("format") == "csv" {
			out, err := services.GenerateLeadCSV(records)
			if err != nil {
				log.Printf("lead_export: csv: %v", err)
				return jsonError(e, http.StatusInternalServerError, "failed to generate CSV")
			}
			e.Response.Header().Set("Content-Type", "text/csv")
			e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="leads_%s.csv"`, stamp))
			e.Response.Write(out)
			return nil
		}

		out, err := services.GenerateLeadExcel(records)
		if err != nil {
			log.Printf("lead_export: excel: %v", err)
			return jsonError(e, http.StatusInternalServerError, "failed to generate Excel file")
		}
		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="leads_%s.xlsx"`, stamp))
		e.Response.Write(out)
		return nil
	}
}

// HandleLeadImportValidate parses an uploaded file and reports row errors
// without inserting anything.
func HandleLeadImportValidate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return jsonError(e, http.StatusBadRequest, "missing file upload")
		}
		defer file.Close()

		result, err := services.ValidateLeadFile(file, header.Filename)
		if err != nil {
			log.Printf("lead_import: validate: %v", err)
			return jsonError(e, http.StatusBadRequest, err.Error())
		}

		return e.JSON(http.StatusOK, result)
	}
}

// HandleLeadImportCommit validates the upload again and inserts the valid
// rows in one transaction.
func HandleLeadImportCommit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return jsonError(e, http.StatusBadRequest, "missing file upload")
		}
		defer file.Close()

		result, err := services.ValidateLeadFile(file, header.Filename)
		if err != nil {
			log.Printf("lead_import: validate: %v", err)
			return jsonError(e, http.StatusBadRequest, err.Error())
		}
		if result.ErrorRows > 0 {
			return e.JSON(http.StatusBadRequest, result)
		}

		inserted, err := services.InsertLeads(app, result.ParsedRows)
		if err != nil {
			log.Printf("lead_import: insert: %v", err)
			return jsonError(e, http.StatusInternalServerError, "failed to insert leads")
		}

		return e.JSON(http.StatusOK, map[string]any{"inserted": inserted})
	}
}
