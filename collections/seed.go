package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type serviceDef struct {
	code        string
	name        string
	category    string
	description string
	unit        string
	baseRate    float64
	addonRate   float64
}

type leadDef struct {
	name   string
	email  string
	phone  string
	suburb string
	addr   string
	source string
	status string
	notes  string
}

type lineItemDef struct {
	sortOrder   int
	serviceItem string
	description string
	quantity    float64
	unit        string
	unitRate    float64
	lineTotal   float64
}

type quoteDef struct {
	quoteNumber string
	clientName  string
	clientEmail string
	clientPhone string
	siteAddress string
	tier        string
	region      string
	status      string
	subtotal    float64
	gst         float64
	total       float64
	notes       string
	lineItems   []lineItemDef
}

// Seed populates the service catalog and inserts a couple of sample leads
// and quotes. It is safe to call on every startup because it returns early
// if any catalog records already exist.
func Seed(app *pocketbase.PocketBase) error {
	// ── idempotency: skip if catalog already populated ───────────────
	catalogCol, err := app.FindCollectionByNameOrId("service_catalog")
	if err != nil {
		return fmt.Errorf("seed: could not find service_catalog collection: %w", err)
	}
	existing, err := app.FindAllRecords(catalogCol)
	if err != nil {
		return fmt.Errorf("seed: could not query service_catalog: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: service_catalog is empty – inserting seed data …")

	leadsCol, err := app.FindCollectionByNameOrId("leads")
	if err != nil {
		return fmt.Errorf("seed: could not find leads collection: %w", err)
	}
	inspectionsCol, err := app.FindCollectionByNameOrId("inspections")
	if err != nil {
		return fmt.Errorf("seed: could not find inspections collection: %w", err)
	}
	quotesCol, err := app.FindCollectionByNameOrId("quotes")
	if err != nil {
		return fmt.Errorf("seed: could not find quotes collection: %w", err)
	}
	lineItemsCol, err := app.FindCollectionByNameOrId("quote_line_items")
	if err != nil {
		return fmt.Errorf("seed: could not find quote_line_items collection: %w", err)
	}

	// ── helper: create catalog service ───────────────────────────────
	createService := func(d serviceDef) error {
		r := core.NewRecord(catalogCol)
		r.Set("code", d.code)
		r.Set("name", d.name)
		r.Set("category", d.category)
		r.Set("description", d.description)
		r.Set("unit", d.unit)
		r.Set("base_rate", d.baseRate)
		r.Set("addon_rate", d.addonRate)
		r.Set("active", true)
		return app.Save(r)
	}

	// ── helper: create lead ──────────────────────────────────────────
	createLead := func(d leadDef) (*core.Record, error) {
		r := core.NewRecord(leadsCol)
		r.Set("name", d.name)
		r.Set("email", d.email)
		r.Set("phone", d.phone)
		r.Set("suburb", d.suburb)
		r.Set("address", d.addr)
		r.Set("source", d.source)
		r.Set("status", d.status)
		r.Set("notes", d.notes)
		if err := app.Save(r); err != nil {
			return nil, fmt.Errorf("seed: save lead %q: %w", d.name, err)
		}
		return r, nil
	}

	// ── helper: create quote with line items ─────────────────────────
	createQuote := func(leadID string, d quoteDef) error {
		r := core.NewRecord(quotesCol)
		r.Set("quote_number", d.quoteNumber)
		if leadID != "" {
			r.Set("lead", leadID)
		}
		r.Set("client_name", d.clientName)
		r.Set("client_email", d.clientEmail)
		r.Set("client_phone", d.clientPhone)
		r.Set("site_address", d.siteAddress)
		r.Set("tier", d.tier)
		r.Set("region", d.region)
		r.Set("status", d.status)
		r.Set("subtotal", d.subtotal)
		r.Set("gst", d.gst)
		r.Set("total", d.total)
		r.Set("notes", d.notes)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save quote %q: %w", d.quoteNumber, err)
		}

		for _, li := range d.lineItems {
			lr := core.NewRecord(lineItemsCol)
			lr.Set("quote", r.Id)
			lr.Set("sort_order", li.sortOrder)
			lr.Set("service_item", li.serviceItem)
			lr.Set("description", li.description)
			lr.Set("quantity", li.quantity)
			lr.Set("unit", li.unit)
			lr.Set("unit_rate", li.unitRate)
			lr.Set("line_total", li.lineTotal)
			if err := app.Save(lr); err != nil {
				return fmt.Errorf("seed: save line item %q: %w", li.serviceItem, err)
			}
		}
		return nil
	}

	// ── Service catalog ──────────────────────────────────────────────
	catalog := []serviceDef{
		{code: "RC-REBED", name: "Ridge Capping Rebed & Repoint", category: "Restoration", description: "Remove old mortar, rebed ridge caps and repoint with flexible compound", unit: "lm", baseRate: 42.50, addonRate: 8.00},
		{code: "RC-POINT", name: "Ridge Capping Repoint Only", category: "Restoration", description: "Repoint existing bedding with flexible pointing compound", unit: "lm", baseRate: 24.00, addonRate: 4.50},
		{code: "TILE-REP", name: "Broken Tile Replacement", category: "Repairs", description: "Supply and fit matching replacement tiles", unit: "each", baseRate: 18.00},
		{code: "VALLEY", name: "Valley Iron Replacement", category: "Repairs", description: "Remove rusted valley irons and install new Colorbond valleys", unit: "lm", baseRate: 65.00, addonRate: 12.00},
		{code: "PRESS-CL", name: "High Pressure Roof Clean", category: "Restoration", description: "Pressure clean tiles to remove moss, lichen and grime", unit: "m²", baseRate: 6.50},
		{code: "SEAL-PRIME", name: "Sealer / Primer Coat", category: "Coating", description: "Apply penetrating sealer primer coat", unit: "m²", baseRate: 4.80},
		{code: "MEMB-2CT", name: "Membrane Top Coats x2", category: "Coating", description: "Two coats of heat reflective acrylic membrane, colour of choice", unit: "m²", baseRate: 9.20, addonRate: 1.80},
		{code: "GUTTER-REP", name: "Gutter Replacement", category: "Guttering", description: "Remove old guttering and install new Colorbond quad gutter", unit: "lm", baseRate: 38.40, addonRate: 6.00},
		{code: "DOWNPIPE", name: "Downpipe Replacement", category: "Guttering", description: "Supply and install new Colorbond downpipe", unit: "each", baseRate: 95.00},
		{code: "GUTTER-CL", name: "Gutter Clean", category: "Maintenance", description: "Clear gutters and downpipes of leaves and debris", unit: "lm", baseRate: 4.20},
		{code: "WHIRLY", name: "Whirlybird Installation", category: "Ventilation", description: "Supply and install wind driven roof ventilator", unit: "each", baseRate: 185.00},
		{code: "LEAK-DET", name: "Leak Detection & Minor Repair", category: "Repairs", description: "Locate roof leak and carry out minor repair", unit: "hour", baseRate: 110.00},
		{code: "FLASH-REP", name: "Flashing Replacement", category: "Repairs", description: "Replace deteriorated apron or wall flashings", unit: "lm", baseRate: 48.00},
		{code: "INSPECT", name: "Roof Inspection & Report", category: "Maintenance", description: "Full roof inspection with written condition report and photos", unit: "job", baseRate: 220.00},
	}
	for _, s := range catalog {
		if err := createService(s); err != nil {
			return fmt.Errorf("seed: save service %q: %w", s.code, err)
		}
	}

	// ── Sample leads ─────────────────────────────────────────────────
	l1, err := createLead(leadDef{
		name: "Margaret Wilson", email: "m.wilson@bigpond.com", phone: "0412 345 678",
		suburb: "Berwick", addr: "14 Parkhill Drive, Berwick VIC 3806",
		source: "website", status: "quoted",
		notes: "Ridge capping cracked along main ridge, water stain in hallway ceiling.",
	})
	if err != nil {
		return err
	}

	l2, err := createLead(leadDef{
		name: "Tony Kouris", email: "tonyk@outlook.com", phone: "0433 901 245",
		suburb: "Pakenham", addr: "7 Redgum Court, Pakenham VIC 3810",
		source: "referral", status: "contacted",
		notes: "Full restoration enquiry, terracotta tiles approx 220 m2. Referred by M. Wilson.",
	})
	if err != nil {
		return err
	}

	if _, err := createLead(leadDef{
		name: "Sarah Nguyen", phone: "0401 556 320",
		suburb: "Cranbourne", source: "phone", status: "new",
		notes: "Gutters overflowing at rear of house.",
	}); err != nil {
		return err
	}

	// ── Sample inspection ────────────────────────────────────────────
	insp := core.NewRecord(inspectionsCol)
	insp.Set("lead", l2.Id)
	insp.Set("scheduled_at", "2026-09-03 09:00:00.000Z")
	insp.Set("status", "scheduled")
	insp.Set("roof_type", "terracotta tile")
	if err := app.Save(insp); err != nil {
		return fmt.Errorf("seed: save inspection: %w", err)
	}

	// ── Sample quote ─────────────────────────────────────────────────
	if err := createQuote(l1.Id, quoteDef{
		quoteNumber: "ARC-QT-26-27-001",
		clientName:  "Margaret Wilson",
		clientEmail: "m.wilson@bigpond.com",
		clientPhone: "0412 345 678",
		siteAddress: "14 Parkhill Drive, Berwick VIC 3806",
		tier:        "RESTORE",
		region:      "outer_se",
		status:      "draft",
		subtotal:    1486.34,
		gst:         148.63,
		total:       1634.97,
		notes:       "Access from rear driveway. Colour match: Monier Elabana terracotta.",
		lineItems: []lineItemDef{
			{sortOrder: 0, serviceItem: "Ridge Capping Rebed & Repoint", description: "Main ridge and two hips", quantity: 24, unit: "lm", unitRate: 51.32, lineTotal: 1231.68},
			{sortOrder: 1, serviceItem: "Broken Tile Replacement", description: "Cracked tiles near valley", quantity: 6, unit: "each", unitRate: 21.74, lineTotal: 130.44},
			{sortOrder: 2, serviceItem: "Gutter Clean", description: "Full perimeter", quantity: 24.5, unit: "lm", unitRate: 5.07, lineTotal: 124.22},
		},
	}); err != nil {
		return err
	}

	log.Println("seed: all seed data inserted successfully (14 services, 3 leads, 1 inspection, 1 quote)")
	return nil
}
