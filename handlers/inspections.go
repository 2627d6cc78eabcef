package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

func inspectionJSON(rec *core.Record) map[string]any {
	return map[string]any{
		"id":           rec.Id,
		"lead":         rec.GetString("lead"),
		"scheduled_at": rec.GetDateTime("scheduled_at").String(),
		"status":       rec.GetString("status"),
		"roof_type":    rec.GetString("roof_type"),
		"findings":     rec.GetString("findings"),
		"created":      rec.GetDateTime("created").String(),
	}
}

type inspectionRequest struct {
	LeadID      string `json:"lead_id"`
	ScheduledAt string `json:"scheduled_at"`
	Status      string `json:"status"`
	RoofType    string `json:"roof_type"`
	Findings    string `json:"findings"`
}

// HandleInspectionList returns inspections, optionally for one lead.
func HandleInspectionList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		expr := "id != ''"
		params := map[string]any{}
		if leadID := e.Request.URL.Query().Get("lead"); leadID != "" {
			expr = "lead = {:lead}"
			params["lead"] = leadID
		}

		records, err := app.FindRecordsByFilter("inspections", expr, "-scheduled_at", 200, 0, params)
		if err != nil {
			log.Printf("inspection_list: %v", err)
			return jsonError(e, http.StatusInternalServerError, "failed to load inspections")
		}

		inspections := make([]map[string]any, 0, len(records))
		for _, rec := range records {
			inspections = append(inspections, inspectionJSON(rec))
		}
		return e.JSON(http.StatusOK, map[string]any{"inspections": inspections})
	}
}

// HandleInspectionCreate books an inspection against a lead and marks the
// lead as contacted if it is still new.
func HandleInspectionCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req inspectionRequest
		if err := e.BindBody(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "invalid request body")
		}
		if req.LeadID == "" {
			return jsonFieldErrors(e, []map[string]string{
				{"field": "lead_id", "message": "lead is required"},
			})
		}

		lead, err := app.FindRecordById("leads", req.LeadID)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "lead not found")
		}

		col, err := app.FindCollectionByNameOrId("inspections")
		if err != nil {
			log.Printf("inspection_create: %v", err)
			return jsonError(e, http.StatusInternalServerError, "inspections collection unavailable")
		}

		status := req.Status
		if status == "" {
			status = "scheduled"
		}

		rec := core.NewRecord(col)
		rec.Set("lead", lead.Id)
		rec.Set("scheduled_at", req.ScheduledAt)
		rec.Set("status", status)
		rec.Set("roof_type", req.RoofType)
		rec.Set("findings", req.Findings)
		if err := app.Save(rec); err != nil {
			log.Printf("inspection_create: save: %v", err)
			return jsonError(e, http.StatusBadRequest, "failed to save inspection")
		}

		if lead.GetString("status") == "new" {
			lead.Set("status", "contacted")
			if err := app.Save(lead); err != nil {
				log.Printf("inspection_create: lead update: %v", err)
			}
		}

		return e.JSON(http.StatusCreated, inspectionJSON(rec))
	}
}

// HandleInspectionUpdate edits schedule, status or findings.
func HandleInspectionUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("inspections", e.Request.PathValue("id"))
		if err != nil {
			return jsonError(e, http.StatusNotFound, "inspection not found")
		}

		var req inspectionRequest
		if err := e.BindBody(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "invalid request body")
		}

		if req.ScheduledAt != "" {
			rec.Set("scheduled_at", req.ScheduledAt)
		}
		if req.Status != "" {
			rec.Set("status", req.Status)
		}
		if req.RoofType != "" {
			rec.Set("roof_type", req.RoofType)
		}
		if req.Findings != "" {
			rec.Set("findings", req.Findings)
		}

		if err := app.Save(rec); err != nil {
			log.Printf("inspection_update: save: %v", err)
			return jsonError(e, http.StatusBadRequest, "failed to save inspection")
		}
		return e.JSON(http.StatusOK, inspectionJSON(rec))
	}
}

// HandleInspectionDelete removes an inspection.
func HandleInspectionDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("inspections", e.Request.PathValue("id"))
		if err != nil {
			return jsonError(e, http.StatusNotFound, "inspection not found")
		}
		if err := app.Delete(rec); err != nil {
			log.Printf("inspection_delete: %v", err)
			return jsonError(e, http.StatusInternalServerError, "failed to delete inspection")
		}
		return e.JSON(http.StatusOK, map[string]any{"deleted": true})
	}
}
