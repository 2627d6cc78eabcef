package services_test

import (
	"errors"
	"testing"

	"github.com/pocketbase/pocketbase/core"

	"roofops/services"
	"roofops/testhelpers"
)

func TestReplaceQuoteLineItemsRoundTrip(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	quote := testhelpers.CreateTestQuote(t, app, "", "Margaret Wilson")

	list := services.NewLineItemList([]services.LineItem{
		{ServiceItem: "Ridge Capping Rebed", Quantity: 2, Unit: "lm", UnitRate: 50},
		{ServiceItem: "Valley Iron", Quantity: 3.5, Unit: "lm", UnitRate: 20},
	})

	totals, err := services.ReplaceQuoteLineItems(app, quote.Id, "rear access", list)
	if err != nil {
		t.Fatalf("ReplaceQuoteLineItems error: %v", err)
	}

	if totals.Subtotal != 170.00 || totals.GST != 17.00 || totals.Total != 187.00 {
		t.Errorf("totals = %+v, want 170/17/187", totals)
	}

	saved, err := app.FindRecordById("quotes", quote.Id)
	if err != nil {
		t.Fatalf("reload quote: %v", err)
	}
	if saved.GetString("notes") != "rear access" {
		t.Errorf("notes = %q, want %q", saved.GetString("notes"), "rear access")
	}
	if saved.GetFloat("total") != 187.00 {
		t.Errorf("stored total = %v, want 187.00", saved.GetFloat("total"))
	}

	items, err := services.LoadQuoteLineItems(app, quote.Id)
	if err != nil {
		t.Fatalf("LoadQuoteLineItems error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("loaded %d items, want 2", len(items))
	}
	if items[0].ServiceItem != "Ridge Capping Rebed" || items[0].SortOrder != 0 {
		t.Errorf("first item = %+v", items[0])
	}
	if items[1].Quantity != 3.5 {
		t.Errorf("second item quantity = %v, want 3.5", items[1].Quantity)
	}
}

func TestReplaceQuoteLineItemsDeletesPrevious(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	quote := testhelpers.CreateTestQuote(t, app, "", "Tony Kouris")
	testhelpers.CreateTestQuoteLineItem(t, app, quote.Id, 0, "Old Item A", 1, 100)
	testhelpers.CreateTestQuoteLineItem(t, app, quote.Id, 1, "Old Item B", 1, 200)

	list := services.NewLineItemList([]services.LineItem{
		{ServiceItem: "New Item", Quantity: 1, UnitRate: 40},
	})

	if _, err := services.ReplaceQuoteLineItems(app, quote.Id, "", list); err != nil {
		t.Fatalf("ReplaceQuoteLineItems error: %v", err)
	}

	items, err := services.LoadQuoteLineItems(app, quote.Id)
	if err != nil {
		t.Fatalf("LoadQuoteLineItems error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("loaded %d items, want 1", len(items))
	}
	if items[0].ServiceItem != "New Item" {
		t.Errorf("item = %q, want New Item", items[0].ServiceItem)
	}
}

func TestReplaceQuoteLineItemsSkipsBlankRows(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	quote := testhelpers.CreateTestQuote(t, app, "", "Sarah Nguyen")

	list := services.NewLineItemList([]services.LineItem{
		{ServiceItem: "Gutter Clean", Quantity: 10, UnitRate: 4.20},
		{ServiceItem: "   ", Quantity: 5, UnitRate: 99},
	})

	totals, err := services.ReplaceQuoteLineItems(app, quote.Id, "", list)
	if err != nil {
		t.Fatalf("ReplaceQuoteLineItems error: %v", err)
	}

	// Persisted totals cover only the named rows.
	if totals.Subtotal != 42.00 {
		t.Errorf("Subtotal = %v, want 42.00", totals.Subtotal)
	}

	items, err := services.LoadQuoteLineItems(app, quote.Id)
	if err != nil {
		t.Fatalf("LoadQuoteLineItems error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("loaded %d items, want 1", len(items))
	}
}

func TestReplaceQuoteLineItemsRollsBackOnFailure(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	quote := testhelpers.CreateTestQuote(t, app, "", "Rollback Quote")
	testhelpers.CreateTestQuoteLineItem(t, app, quote.Id, 0, "Kept Item A", 2, 50)
	testhelpers.CreateTestQuoteLineItem(t, app, quote.Id, 1, "Kept Item B", 1, 70)
	quote.Set("notes", "original notes")
	quote.Set("subtotal", 170.00)
	quote.Set("gst", 17.00)
	quote.Set("total", 187.00)
	if err := app.Save(quote); err != nil {
		t.Fatalf("save quote: %v", err)
	}

	// Fail the insert of the second replacement row so the transaction
	// aborts after the old rows were already deleted.
	app.OnRecordCreate("quote_line_items").BindFunc(func(e *core.RecordEvent) error {
		if e.Record.GetString("service_item") == "Poison Row" {
			return errors.New("simulated storage failure")
		}
		return e.Next()
	})

	list := services.NewLineItemList([]services.LineItem{
		{ServiceItem: "New Item", Quantity: 1, Unit: "lm", UnitRate: 10},
		{ServiceItem: "Poison Row", Quantity: 1, Unit: "lm", UnitRate: 10},
	})
	if _, err := services.ReplaceQuoteLineItems(app, quote.Id, "changed notes", list); err == nil {
		t.Fatal("expected the save to fail")
	}

	items, err := services.LoadQuoteLineItems(app, quote.Id)
	if err != nil {
		t.Fatalf("LoadQuoteLineItems error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("loaded %d items after failed save, want the original 2", len(items))
	}
	if items[0].ServiceItem != "Kept Item A" || items[1].ServiceItem != "Kept Item B" {
		t.Errorf("surviving items = %q, %q", items[0].ServiceItem, items[1].ServiceItem)
	}

	saved, err := app.FindRecordById("quotes", quote.Id)
	if err != nil {
		t.Fatalf("reload quote: %v", err)
	}
	if saved.GetFloat("total") != 187.00 {
		t.Errorf("stored total = %v, want 187.00 untouched", saved.GetFloat("total"))
	}
	if saved.GetString("notes") != "original notes" {
		t.Errorf("notes = %q, want original notes untouched", saved.GetString("notes"))
	}
}

func TestReplaceQuoteLineItemsUnknownQuote(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	list := services.NewLineItemList(nil)
	if _, err := services.ReplaceQuoteLineItems(app, "missing123", "", list); err == nil {
		t.Fatal("expected error for unknown quote id")
	}
}

func TestReplaceQuoteLineItemsEmptyList(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	quote := testhelpers.CreateTestQuote(t, app, "", "Empty Quote")
	testhelpers.CreateTestQuoteLineItem(t, app, quote.Id, 0, "Old Item", 1, 100)

	totals, err := services.ReplaceQuoteLineItems(app, quote.Id, "", services.NewLineItemList(nil))
	if err != nil {
		t.Fatalf("ReplaceQuoteLineItems error: %v", err)
	}
	if totals.Subtotal != 0 || totals.GST != 0 || totals.Total != 0 {
		t.Errorf("totals = %+v, want zeros", totals)
	}

	items, err := services.LoadQuoteLineItems(app, quote.Id)
	if err != nil {
		t.Fatalf("LoadQuoteLineItems error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("loaded %d items, want 0", len(items))
	}
}
