package services

import (
	"fmt"
	"strings"

	"github.com/pocketbase/pocketbase/core"
)

// LeadFilter holds the supported lead search criteria.
type LeadFilter struct {
	Query  string // matched against name, email, phone and suburb
	Status string
	Source string
	Suburb string
}

// BuildLeadFilter turns search criteria into a PocketBase filter expression
// with bound parameters. An empty filter matches all leads.
func BuildLeadFilter(f LeadFilter) (string, map[string]any) {
	var clauses []string
	params := map[string]any{}

	if q := strings.TrimSpace(f.Query); q != "" {
		clauses = append(clauses, "(name ~ {:q} || email ~ {:q} || phone ~ {:q} || suburb ~ {:q})")
		params["q"] = "%" + q + "%"
	}
	if s := strings.TrimSpace(f.Status); s != "" {
		clauses = append(clauses, "status = {:status}")
		params["status"] = s
	}
	if s := strings.TrimSpace(f.Source); s != "" {
		clauses = append(clauses, "source = {:source}")
		params["source"] = s
	}
	if s := strings.TrimSpace(f.Suburb); s != "" {
		clauses = append(clauses, "suburb = {:suburb}")
		params["suburb"] = s
	}

	return strings.Join(clauses, " && "), params
}

// SearchLeads runs a lead search ordered by most recently created.
func SearchLeads(app core.App, f LeadFilter, limit int) ([]*core.Record, error) {
	expr, params := BuildLeadFilter(f)
	if expr == "" {
		expr = "id != ''"
	}
	records, err := app.FindRecordsByFilter("leads", expr, "-created", limit, 0, params)
	if err != nil {
		return nil, fmt.Errorf("search leads: %w", err)
	}
	return records, nil
}
