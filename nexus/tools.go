package nexus

import (
	"fmt"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"roofops/services"
)

// toolFunc executes one tool call against the database and returns a result
// payload for the model.
type toolFunc func(app core.App, args map[string]any) (map[string]any, error)

type tool struct {
	spec ToolSpec
	run  toolFunc
}

// Registry holds the tools the assistant is allowed to call.
type Registry struct {
	tools map[string]tool
	order []string
}

// NewRegistry builds the default tool set: lead search and creation, quote
// summaries, and the service catalog.
func NewRegistry() *Registry {
	r := &Registry{tools: map[string]tool{}}

	r.register(ToolSpec{
		Name:        "search_leads",
		Description: "Search CRM leads by free text (name, email, phone or suburb) and optionally by pipeline status.",
		Params: map[string]ParamSpec{
			"query":  {Type: "string", Description: "Free text to match against name, email, phone and suburb"},
			"status": {Type: "string", Description: "Pipeline status filter: new, contacted, quoted, won or lost"},
		},
	}, runSearchLeads)

	r.register(ToolSpec{
		Name:        "create_lead",
		Description: "Create a new lead in the CRM. Name is required.",
		Params: map[string]ParamSpec{
			"name":   {Type: "string", Description: "Full name of the lead", Required: true},
			"phone":  {Type: "string", Description: "Phone number"},
			"email":  {Type: "string", Description: "Email address"},
			"suburb": {Type: "string", Description: "Suburb"},
			"notes":  {Type: "string", Description: "Free text notes about the enquiry"},
		},
	}, runCreateLead)

	r.register(ToolSpec{
		Name:        "get_quote_summary",
		Description: "Look up a quote by its quote number (e.g. ARC-QT-26-27-001) and return client, status and totals.",
		Params: map[string]ParamSpec{
			"quote_number": {Type: "string", Description: "The quote number to look up", Required: true},
		},
	}, runGetQuoteSummary)

	r.register(ToolSpec{
		Name:        "list_services",
		Description: "List the active service catalog with units and base rates, optionally filtered by category.",
		Params: map[string]ParamSpec{
			"category": {Type: "string", Description: "Category filter, e.g. Restoration, Repairs, Guttering"},
		},
	}, runListServices)

	return r
}

func (r *Registry) register(spec ToolSpec, run toolFunc) {
	r.tools[spec.Name] = tool{spec: spec, run: run}
	r.order = append(r.order, spec.Name)
}

// Specs returns the tool declarations in registration order.
func (r *Registry) Specs() []ToolSpec {
	specs := make([]ToolSpec, 0, len(r.order))
	for _, name := range r.order {
		specs = append(specs, r.tools[name].spec)
	}
	return specs
}

// Execute runs a named tool. Unknown tool names return an error payload
// instead of failing the whole conversation.
func (r *Registry) Execute(app core.App, call ToolCall) ToolResult {
	t, ok := r.tools[call.Name]
	if !ok {
		return ToolResult{Name: call.Name, Content: map[string]any{"error": fmt.Sprintf("unknown tool %q", call.Name)}}
	}
	content, err := t.run(app, call.Args)
	if err != nil {
		return ToolResult{Name: call.Name, Content: map[string]any{"error": err.Error()}}
	}
	return ToolResult{Name: call.Name, Content: content}
}

func argString(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func runSearchLeads(app core.App, args map[string]any) (map[string]any, error) {
	filter := services.LeadFilter{
		Query:  argString(args, "query"),
		Status: argString(args, "status"),
	}
	records, err := services.SearchLeads(app, filter, 10)
	if err != nil {
		return nil, err
	}

	leads := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		leads = append(leads, map[string]any{
			"id":     rec.Id,
			"name":   rec.GetString("name"),
			"phone":  rec.GetString("phone"),
			"email":  rec.GetString("email"),
			"suburb": rec.GetString("suburb"),
			"status": rec.GetString("status"),
		})
	}
	return map[string]any{"count": len(leads), "leads": leads}, nil
}

func runCreateLead(app core.App, args map[string]any) (map[string]any, error) {
	name := argString(args, "name")
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	col, err := app.FindCollectionByNameOrId("leads")
	if err != nil {
		return nil, fmt.Errorf("leads collection: %w", err)
	}

	rec := core.NewRecord(col)
	rec.Set("name", name)
	rec.Set("phone", argString(args, "phone"))
	rec.Set("email", argString(args, "email"))
	rec.Set("suburb", argString(args, "suburb"))
	rec.Set("notes", argString(args, "notes"))
	rec.Set("status", "new")
	if err := app.Save(rec); err != nil {
		return nil, fmt.Errorf("save lead: %w", err)
	}

	return map[string]any{"id": rec.Id, "name": name, "status": "new"}, nil
}

func runGetQuoteSummary(app core.App, args map[string]any) (map[string]any, error) {
	number := argString(args, "quote_number")
	if number == "" {
		return nil, fmt.Errorf("quote_number is required")
	}

	records, err := app.FindRecordsByFilter(
		"quotes",
		"quote_number = {:number}",
		"",
		1,
		0,
		map[string]any{"number": number},
	)
	if err != nil || len(records) == 0 {
		return nil, fmt.Errorf("quote %s not found", number)
	}
	quote := records[0]

	items, err := services.LoadQuoteLineItems(app, quote.Id)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"quote_number": quote.GetString("quote_number"),
		"client_name":  quote.GetString("client_name"),
		"status":       quote.GetString("status"),
		"tier":         quote.GetString("tier"),
		"region":       quote.GetString("region"),
		"line_items":   len(items),
		"subtotal":     quote.GetFloat("subtotal"),
		"gst":          quote.GetFloat("gst"),
		"total":        quote.GetFloat("total"),
	}, nil
}

func runListServices(app core.App, args map[string]any) (map[string]any, error) {
	cache := services.NewCatalogCache()
	all, err := cache.Services(app)
	if err != nil {
		return nil, err
	}

	category := strings.ToLower(argString(args, "category"))
	out := make([]map[string]any, 0, len(all))
	for _, svc := range all {
		if category != "" && strings.ToLower(svc.Category) != category {
			continue
		}
		out = append(out, map[string]any{
			"code":      svc.Code,
			"name":      svc.Name,
			"category":  svc.Category,
			"unit":      svc.Unit,
			"base_rate": svc.BaseRate,
		})
	}
	return map[string]any{"count": len(out), "services": out}, nil
}
