package services

import (
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GenerateQuotePDF creates a PDF document for a quote using maroto/v2.
// It returns the raw PDF bytes or an error.
func GenerateQuotePDF(data *QuoteExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addQuoteHeader(m, data)
	addQuoteClientBlock(m, data)
	addQuoteLineItemsTable(m, data)
	addQuoteTotals(m, data)
	addQuoteAmountInWords(m, data)
	addQuoteNotes(m, data)
	addQuoteTerms(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate quote PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addQuoteHeader adds company name, "QUOTATION" title, contact line and the
// quote number.
func addQuoteHeader(m core.Maroto, data *QuoteExportData) {
	m.AddRows(
		row.New(10).Add(
			col.New(6).Add(
				text.New(data.CompanyName, props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
			col.New(6).Add(
				text.New("QUOTATION", props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Right,
					Color: &props.Color{Red: 33, Green: 37, Blue: 41},
				}),
			),
		),
	)

	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New(fmt.Sprintf("%s | %s", data.CompanyAddress, data.CompanyEmail), props.Text{
					Size:  8,
					Align: align.Left,
					Color: &props.Color{Red: 100, Green: 100, Blue: 100},
				}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Quote #: %s", data.QuoteNumber), props.Text{
					Size:  10,
					Style: fontstyle.Bold,
					Align: align.Right,
				}),
			),
		),
	)

	m.AddRows(
		row.New(6).Add(
			col.New(6).Add(
				text.New(fmt.Sprintf("ABN %s | %s", data.CompanyABN, data.CompanyPhone), props.Text{
					Size:  8,
					Align: align.Left,
					Color: &props.Color{Red: 100, Green: 100, Blue: 100},
				}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Date: %s", data.QuoteDate), props.Text{
					Size:  8,
					Align: align.Right,
				}),
			),
		),
	)

	m.AddRows(row.New(3))
}

// addQuoteClientBlock adds client details on the left and quote metadata on
// the right.
func addQuoteClientBlock(m core.Maroto, data *QuoteExportData) {
	labelStyle := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Left,
		Color: &props.Color{Red: 100, Green: 100, Blue: 100},
	}
	valueStyle := props.Text{
		Size:  8,
		Align: align.Left,
	}
	rightLabelStyle := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Right,
		Color: &props.Color{Red: 100, Green: 100, Blue: 100},
	}
	rightValueStyle := props.Text{
		Size:  8,
		Align: align.Right,
	}

	m.AddRows(
		row.New(6).Add(
			col.New(6).Add(text.New("PREPARED FOR", labelStyle)),
			col.New(6).Add(text.New("QUOTE DETAILS", rightLabelStyle)),
		),
	)

	m.AddRows(
		row.New(7).Add(
			col.New(6).Add(text.New(data.ClientName, props.Text{
				Size:  9,
				Style: fontstyle.Bold,
				Align: align.Left,
			})),
			col.New(3).Add(text.New("Tier:", rightLabelStyle)),
			col.New(3).Add(text.New(data.Tier, rightValueStyle)),
		),
	)

	if data.SiteAddress != "" {
		m.AddRows(
			row.New(7).Add(
				col.New(6).Add(text.New(data.SiteAddress, valueStyle)),
				col.New(3).Add(text.New("Valid Until:", rightLabelStyle)),
				col.New(3).Add(text.New(data.ValidUntil, rightValueStyle)),
			),
		)
	}

	contactParts := []string{}
	if data.ClientPhone != "" {
		contactParts = append(contactParts, data.ClientPhone)
	}
	if data.ClientEmail != "" {
		contactParts = append(contactParts, data.ClientEmail)
	}
	if len(contactParts) > 0 {
		m.AddRows(
			row.New(7).Add(
				col.New(12).Add(text.New(fmt.Sprintf("Contact: %s", strings.Join(contactParts, " | ")), valueStyle)),
			),
		)
	}

	m.AddRows(row.New(3))
}

// addQuoteLineItemsTable adds the line items table with header and body rows.
func addQuoteLineItemsTable(m core.Maroto, data *QuoteExportData) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left
	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("No", headerText)).WithStyle(&headerCell),
			col.New(3).Add(text.New("Service", headerTextLeft)).WithStyle(&headerCell),
			col.New(3).Add(text.New("Description", headerTextLeft)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Qty", headerText)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Unit", headerText)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Rate", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Total", headerText)).WithStyle(&headerCell),
		),
	)

	altBg := &props.Color{Red: 248, Green: 249, Blue: 250}

	for i, item := range data.LineItems {
		bodyText := props.Text{Size: 7, Align: align.Center}
		bodyTextLeft := props.Text{Size: 7, Align: align.Left}
		bodyTextRight := props.Text{Size: 7, Align: align.Right}

		var cellStyle *props.Cell
		if i%2 == 1 {
			cellStyle = &props.Cell{BackgroundColor: altBg}
		}

		colNo := col.New(1).Add(text.New(fmt.Sprintf("%d", item.SINo), bodyText))
		colService := col.New(3).Add(text.New(item.ServiceItem, bodyTextLeft))
		colDesc := col.New(3).Add(text.New(item.Description, bodyTextLeft))
		colQty := col.New(1).Add(text.New(formatQty(item.Quantity), bodyTextRight))
		colUnit := col.New(1).Add(text.New(item.Unit, bodyText))
		colRate := col.New(1).Add(text.New(FormatAUD(item.UnitRate), bodyTextRight))
		colTotal := col.New(2).Add(text.New(FormatAUD(item.LineTotal), bodyTextRight))

		if cellStyle != nil {
			colNo = colNo.WithStyle(cellStyle)
			colService = colService.WithStyle(cellStyle)
			colDesc = colDesc.WithStyle(cellStyle)
			colQty = colQty.WithStyle(cellStyle)
			colUnit = colUnit.WithStyle(cellStyle)
			colRate = colRate.WithStyle(cellStyle)
			colTotal = colTotal.WithStyle(cellStyle)
		}

		m.AddRows(
			row.New(7).Add(colNo, colService, colDesc, colQty, colUnit, colRate, colTotal),
		)
	}

	m.AddRows(row.New(2))
}

// addQuoteTotals adds right-aligned subtotal, GST and total rows.
func addQuoteTotals(m core.Maroto, data *QuoteExportData) {
	summaryBg := &props.Color{Red: 245, Green: 245, Blue: 245}
	summaryCell := &props.Cell{BackgroundColor: summaryBg}

	labelStyle := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Right,
	}
	valueStyle := props.Text{
		Size:  8,
		Align: align.Right,
	}
	grandLabelStyle := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Right,
	}
	grandValueStyle := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Right,
	}

	m.AddRows(
		row.New(6).Add(
			col.New(8),
			col.New(2).Add(text.New("Subtotal:", labelStyle)),
			col.New(2).Add(text.New(FormatAUD(data.Subtotal), valueStyle)),
		),
		row.New(6).Add(
			col.New(8),
			col.New(2).Add(text.New("GST (10%):", labelStyle)),
			col.New(2).Add(text.New(FormatAUD(data.GST), valueStyle)),
		),
		row.New(8).Add(
			col.New(8),
			col.New(2).Add(text.New("Total:", grandLabelStyle)).WithStyle(summaryCell),
			col.New(2).Add(text.New(FormatAUD(data.Total), grandValueStyle)).WithStyle(summaryCell),
		),
	)

	m.AddRows(row.New(2))
}

// addQuoteAmountInWords adds the total spelled out in words.
func addQuoteAmountInWords(m core.Maroto, data *QuoteExportData) {
	if data.AmountInWords == "" {
		return
	}
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(text.New(fmt.Sprintf("Amount in words: %s", data.AmountInWords), props.Text{
				Size:  8,
				Style: fontstyle.Italic,
				Align: align.Left,
			})),
		),
	)
	m.AddRows(row.New(2))
}

// addQuoteNotes adds the free-text notes section if present.
func addQuoteNotes(m core.Maroto, data *QuoteExportData) {
	if strings.TrimSpace(data.Notes) == "" {
		return
	}
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(text.New("NOTES", props.Text{
				Size:  7,
				Style: fontstyle.Bold,
				Align: align.Left,
				Color: &props.Color{Red: 100, Green: 100, Blue: 100},
			})),
		),
		row.New(7).Add(
			col.New(12).Add(text.New(data.Notes, props.Text{
				Size:  8,
				Align: align.Left,
			})),
		),
	)
	m.AddRows(row.New(2))
}

var quoteTerms = []string{
	"Prices are valid until the date shown and subject to site inspection.",
	"50% deposit is required to confirm works; balance due on completion.",
	"All workmanship carries a 7 year warranty; materials per manufacturer.",
	"Prices include GST unless stated otherwise.",
}

// addQuoteTerms adds the standard terms block.
func addQuoteTerms(m core.Maroto, data *QuoteExportData) {
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(text.New("TERMS & CONDITIONS", props.Text{
				Size:  7,
				Style: fontstyle.Bold,
				Align: align.Left,
				Color: &props.Color{Red: 100, Green: 100, Blue: 100},
			})),
		),
	)
	for i, term := range quoteTerms {
		m.AddRows(
			row.New(5).Add(
				col.New(12).Add(text.New(fmt.Sprintf("%d. %s", i+1, term), props.Text{
					Size:  7,
					Align: align.Left,
				})),
			),
		)
	}
}

// formatQty renders a quantity without trailing zeros (2.5 stays 2.5, 3 stays 3).
func formatQty(qty float64) string {
	s := fmt.Sprintf("%.2f", qty)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}
