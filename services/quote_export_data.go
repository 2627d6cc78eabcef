package services

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// QuoteExportData holds all data needed to generate a quote PDF or email.
type QuoteExportData struct {
	// Company (from settings/env, static for now)
	CompanyName    string
	CompanyAddress string
	CompanyEmail   string
	CompanyPhone   string
	CompanyABN     string

	// Quote header
	QuoteNumber string
	QuoteDate   string
	ValidUntil  string
	Status      string
	Tier        string
	Region      string

	// Client
	ClientName  string
	ClientEmail string
	ClientPhone string
	SiteAddress string

	// Line items
	LineItems []QuoteExportLineItem

	// Totals
	Subtotal      float64
	GST           float64
	Total         float64
	AmountInWords string

	Notes string
}

// QuoteExportLineItem holds a single priced row for export.
type QuoteExportLineItem struct {
	SINo        int
	ServiceItem string
	Description string
	Quantity    float64
	Unit        string
	UnitRate    float64
	LineTotal   float64
}

// CompanyProfile is the issuing company block printed on quotes.
// Adjust via collections seed or settings before go-live.
var CompanyProfile = struct {
	Name    string
	Address string
	Email   string
	Phone   string
	ABN     string
}{
	Name:    "Apex Roofing Co.",
	Address: "14 Ridgeway Court, Dandenong South VIC 3175",
	Email:   "quotes@apexroofing.com.au",
	Phone:   "(03) 9555 0142",
	ABN:     "64 829 551 003",
}

// BuildQuoteExportData assembles everything needed for quote PDF generation
// from PocketBase records.
func BuildQuoteExportData(app core.App, quoteID string) (*QuoteExportData, error) {
	quote, err := app.FindRecordById("quotes", quoteID)
	if err != nil {
		return nil, fmt.Errorf("quote not found: %w", err)
	}

	items, err := LoadQuoteLineItems(app, quoteID)
	if err != nil {
		return nil, err
	}

	data := &QuoteExportData{
		CompanyName:    CompanyProfile.Name,
		CompanyAddress: CompanyProfile.Address,
		CompanyEmail:   CompanyProfile.Email,
		CompanyPhone:   CompanyProfile.Phone,
		CompanyABN:     CompanyProfile.ABN,

		QuoteNumber: quote.GetString("quote_number"),
		QuoteDate:   quote.GetDateTime("created").Time().Format("02 Jan 2006"),
		Status:      quote.GetString("status"),
		Tier:        quote.GetString("tier"),
		Region:      quote.GetString("region"),

		ClientName:  quote.GetString("client_name"),
		ClientEmail: quote.GetString("client_email"),
		ClientPhone: quote.GetString("client_phone"),
		SiteAddress: quote.GetString("site_address"),

		Subtotal: quote.GetFloat("subtotal"),
		GST:      quote.GetFloat("gst"),
		Total:    quote.GetFloat("total"),

		Notes: quote.GetString("notes"),
	}

	if validUntil := quote.GetDateTime("valid_until").Time(); !validUntil.IsZero() {
		data.ValidUntil = validUntil.Format("02 Jan 2006")
	}
	data.AmountInWords = AmountToWords(data.Total)

	for i, item := range items {
		data.LineItems = append(data.LineItems, QuoteExportLineItem{
			SINo:        i + 1,
			ServiceItem: item.ServiceItem,
			Description: item.Description,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
			UnitRate:    item.UnitRate,
			LineTotal:   item.LineTotal,
		})
	}

	return data, nil
}

// DefaultValidUntil returns the default quote validity window (30 days).
func DefaultValidUntil(now time.Time) time.Time {
	return now.AddDate(0, 0, 30)
}
