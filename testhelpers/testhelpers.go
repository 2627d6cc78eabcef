// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"roofops/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestService creates a service_catalog record and returns it.
func CreateTestService(t *testing.T, app *pocketbase.PocketBase, code, name string, baseRate float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("service_catalog")
	if err != nil {
		t.Fatalf("failed to find service_catalog collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("code", code)
	record.Set("name", name)
	record.Set("category", "Restoration")
	record.Set("unit", "lm")
	record.Set("base_rate", baseRate)
	record.Set("active", true)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test service: %v", err)
	}

	return record
}

// CreateTestLead creates a lead record with the given name and returns it.
func CreateTestLead(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("leads")
	if err != nil {
		t.Fatalf("failed to find leads collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("status", "new")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test lead: %v", err)
	}

	return record
}

// CreateTestQuote creates a draft quote record, optionally linked to a lead.
func CreateTestQuote(t *testing.T, app *pocketbase.PocketBase, leadID, clientName string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quotes")
	if err != nil {
		t.Fatalf("failed to find quotes collection: %v", err)
	}

	record := core.NewRecord(col)
	if leadID != "" {
		record.Set("lead", leadID)
	}
	record.Set("client_name", clientName)
	record.Set("tier", "RESTORE")
	record.Set("region", "metro")
	record.Set("status", "draft")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test quote: %v", err)
	}

	return record
}

// CreateTestQuoteLineItem creates a quote line item record.
func CreateTestQuoteLineItem(t *testing.T, app *pocketbase.PocketBase, quoteID string, sortOrder int, serviceItem string, qty, rate float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quote_line_items")
	if err != nil {
		t.Fatalf("failed to find quote_line_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("quote", quoteID)
	record.Set("sort_order", sortOrder)
	record.Set("service_item", serviceItem)
	record.Set("quantity", qty)
	record.Set("unit", "lm")
	record.Set("unit_rate", rate)
	record.Set("line_total", qty*rate)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test quote line item: %v", err)
	}

	return record
}

// CreateTestInspection creates an inspection record linked to a lead.
func CreateTestInspection(t *testing.T, app *pocketbase.PocketBase, leadID string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("inspections")
	if err != nil {
		t.Fatalf("failed to find inspections collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("lead", leadID)
	record.Set("status", "scheduled")
	record.Set("roof_type", "concrete tile")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test inspection: %v", err)
	}

	return record
}

// CreateTestChatSession creates a chat session record.
func CreateTestChatSession(t *testing.T, app *pocketbase.PocketBase, title string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("chat_sessions")
	if err != nil {
		t.Fatalf("failed to find chat_sessions collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("title", title)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test chat session: %v", err)
	}

	return record
}

// CreateTestChatMessage appends a message to a chat session.
func CreateTestChatMessage(t *testing.T, app *pocketbase.PocketBase, sessionID, role, content string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("chat_messages")
	if err != nil {
		t.Fatalf("failed to find chat_messages collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("session", sessionID)
	record.Set("role", role)
	record.Set("content", content)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test chat message: %v", err)
	}

	return record
}

// AssertJSONContains checks that body contains all specified fragments.
func AssertJSONContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected response to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
