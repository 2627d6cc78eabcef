package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
)

// ReplaceQuoteLineItems saves a quote edit with replace-all semantics: all
// existing line items are deleted, the persistable items are inserted with
// sort_order equal to their position, and the quote's notes and totals are
// updated. The whole sequence runs in one transaction so a mid-sequence
// failure leaves the previous line items and totals intact.
func ReplaceQuoteLineItems(app core.App, quoteID, notes string, list *LineItemList) (QuoteTotals, error) {
	quote, err := app.FindRecordById("quotes", quoteID)
	if err != nil {
		return QuoteTotals{}, fmt.Errorf("quote %s not found: %w", quoteID, err)
	}

	items := list.Persistable()
	totals := CalcQuoteTotals(items)

	err = app.RunInTransaction(func(txApp core.App) error {
		existing, err := txApp.FindRecordsByFilter(
			"quote_line_items",
			"quote = {:quoteId}",
			"sort_order",
			0,
			0,
			map[string]any{"quoteId": quoteID},
		)
		if err != nil {
			return fmt.Errorf("load existing line items: %w", err)
		}
		for _, rec := range existing {
			if err := txApp.Delete(rec); err != nil {
				return fmt.Errorf("delete line item %s: %w", rec.Id, err)
			}
		}

		itemsCol, err := txApp.FindCollectionByNameOrId("quote_line_items")
		if err != nil {
			return fmt.Errorf("quote_line_items collection: %w", err)
		}
		for _, item := range items {
			rec := core.NewRecord(itemsCol)
			rec.Set("quote", quoteID)
			rec.Set("service_item", item.ServiceItem)
			rec.Set("description", item.Description)
			rec.Set("quantity", item.Quantity)
			rec.Set("unit", item.Unit)
			rec.Set("unit_rate", item.UnitRate)
			rec.Set("line_total", item.LineTotal)
			rec.Set("sort_order", item.SortOrder)
			if err := txApp.Save(rec); err != nil {
				return fmt.Errorf("insert line item %d: %w", item.SortOrder, err)
			}
		}

		quote.Set("notes", notes)
		quote.Set("subtotal", totals.Subtotal)
		quote.Set("gst", totals.GST)
		quote.Set("total", totals.Total)
		if err := txApp.Save(quote); err != nil {
			return fmt.Errorf("update quote totals: %w", err)
		}
		return nil
	})
	if err != nil {
		return QuoteTotals{}, err
	}
	return totals, nil
}

// LoadQuoteLineItems reads a quote's line items ordered by sort_order.
func LoadQuoteLineItems(app core.App, quoteID string) ([]LineItem, error) {
	records, err := app.FindRecordsByFilter(
		"quote_line_items",
		"quote = {:quoteId}",
		"sort_order",
		0,
		0,
		map[string]any{"quoteId": quoteID},
	)
	if err != nil {
		return nil, fmt.Errorf("load line items for quote %s: %w", quoteID, err)
	}

	items := make([]LineItem, 0, len(records))
	for _, rec := range records {
		items = append(items, LineItem{
			ID:          rec.Id,
			ServiceItem: rec.GetString("service_item"),
			Description: rec.GetString("description"),
			Quantity:    rec.GetFloat("quantity"),
			Unit:        rec.GetString("unit"),
			UnitRate:    rec.GetFloat("unit_rate"),
			LineTotal:   rec.GetFloat("line_total"),
			SortOrder:   rec.GetInt("sort_order"),
		})
	}
	return items, nil
}
