package services

import "strings"

// LineItem is a single priced row within a quote: one service, a quantity,
// the effective unit rate and the computed line total.
type LineItem struct {
	ID          string  `json:"id,omitempty"`
	ServiceItem string  `json:"service_item"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitRate    float64 `json:"unit_rate"`
	LineTotal   float64 `json:"line_total"`
	SortOrder   int     `json:"sort_order"`
}

// LineItemList is the ordered, mutable collection backing the quote editor.
// Every mutation recomputes the affected line's total so the subtotal read
// can never be stale.
type LineItemList struct {
	items []LineItem
}

// NewLineItemList builds a list from existing items, recomputing each total.
func NewLineItemList(items []LineItem) *LineItemList {
	l := &LineItemList{items: make([]LineItem, len(items))}
	copy(l.items, items)
	for i := range l.items {
		l.items[i].LineTotal = LineTotal(l.items[i].Quantity, l.items[i].UnitRate)
	}
	return l
}

// Add appends an item and computes its line total.
func (l *LineItemList) Add(item LineItem) {
	item.LineTotal = LineTotal(item.Quantity, item.UnitRate)
	l.items = append(l.items, item)
}

// Remove deletes the item at index. Out-of-range indexes are ignored.
func (l *LineItemList) Remove(index int) {
	if index < 0 || index >= len(l.items) {
		return
	}
	l.items = append(l.items[:index], l.items[index+1:]...)
}

// UpdateQuantity replaces the quantity at index and recomputes the line total.
func (l *LineItemList) UpdateQuantity(index int, qty float64) {
	if index < 0 || index >= len(l.items) {
		return
	}
	l.items[index].Quantity = qty
	l.items[index].LineTotal = LineTotal(qty, l.items[index].UnitRate)
}

// UpdateRate replaces the unit rate at index and recomputes the line total.
func (l *LineItemList) UpdateRate(index int, rate float64) {
	if index < 0 || index >= len(l.items) {
		return
	}
	l.items[index].UnitRate = rate
	l.items[index].LineTotal = LineTotal(l.items[index].Quantity, rate)
}

// Len returns the number of items, including blank drafts.
func (l *LineItemList) Len() int {
	return len(l.items)
}

// Items returns a copy of all items in order, blank drafts included, so the
// editor can show a running total before save.
func (l *LineItemList) Items() []LineItem {
	out := make([]LineItem, len(l.items))
	copy(out, l.items)
	return out
}

// Persistable returns the items that will be written on save: only rows with
// a non-empty trimmed service name, renumbered with sort_order = position.
func (l *LineItemList) Persistable() []LineItem {
	var out []LineItem
	for _, item := range l.items {
		if strings.TrimSpace(item.ServiceItem) == "" {
			continue
		}
		item.SortOrder = len(out)
		out = append(out, item)
	}
	return out
}

// Totals derives subtotal/GST/total over every item, blank drafts included.
func (l *LineItemList) Totals() QuoteTotals {
	return CalcQuoteTotals(l.items)
}
