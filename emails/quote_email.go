// Package emails renders HTML email bodies for outgoing mail.
package emails

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"roofops/services"
)

// QuoteEmailSubject returns the subject line for a quote email.
func QuoteEmailSubject(data *services.QuoteExportData) string {
	return fmt.Sprintf("Your roofing quote %s from %s", data.QuoteNumber, data.CompanyName)
}

// QuoteEmailBody returns the HTML body for a quote email as a templ
// component. The generated PDF travels as an attachment; the body carries a
// short summary with the totals.
func QuoteEmailBody(data *services.QuoteExportData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder

		b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; color: #212529;">`)

		b.WriteString(`<h2 style="color: #212529; border-bottom: 2px solid #212529; padding-bottom: 8px;">`)
		b.WriteString(templ.EscapeString(data.CompanyName))
		b.WriteString(`</h2>`)

		b.WriteString(`<p>Hi `)
		b.WriteString(templ.EscapeString(firstName(data.ClientName)))
		b.WriteString(`,</p>`)

		b.WriteString(`<p>Thanks for the opportunity to quote on your roofing work`)
		if data.SiteAddress != "" {
			b.WriteString(` at `)
			b.WriteString(templ.EscapeString(data.SiteAddress))
		}
		b.WriteString(`. Your quote is attached as a PDF.</p>`)

		b.WriteString(`<table style="width: 100%; border-collapse: collapse; margin: 16px 0;">`)
		writeRow(&b, "Quote number", data.QuoteNumber)
		writeRow(&b, "Subtotal", services.FormatAUD(data.Subtotal))
		writeRow(&b, "GST (10%)", services.FormatAUD(data.GST))
		writeRowBold(&b, "Total", services.FormatAUD(data.Total))
		if data.ValidUntil != "" {
			writeRow(&b, "Valid until", data.ValidUntil)
		}
		b.WriteString(`</table>`)

		b.WriteString(`<p>If you have any questions or would like to go ahead, just reply to this email or call us on `)
		b.WriteString(templ.EscapeString(data.CompanyPhone))
		b.WriteString(`.</p>`)

		b.WriteString(`<p>Kind regards,<br>`)
		b.WriteString(templ.EscapeString(data.CompanyName))
		b.WriteString(`<br><span style="color: #6c757d; font-size: 12px;">`)
		b.WriteString(templ.EscapeString(data.CompanyAddress))
		b.WriteString(` | ABN `)
		b.WriteString(templ.EscapeString(data.CompanyABN))
		b.WriteString(`</span></p>`)

		b.WriteString(`</div>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

// RenderQuoteEmail renders the quote email body to an HTML string.
func RenderQuoteEmail(ctx context.Context, data *services.QuoteExportData) (string, error) {
	var sb strings.Builder
	if err := QuoteEmailBody(data).Render(ctx, &sb); err != nil {
		return "", fmt.Errorf("render quote email: %w", err)
	}
	return sb.String(), nil
}

func writeRow(b *strings.Builder, label, value string) {
	b.WriteString(`<tr><td style="padding: 6px 8px; border: 1px solid #dee2e6; color: #6c757d;">`)
	b.WriteString(templ.EscapeString(label))
	b.WriteString(`</td><td style="padding: 6px 8px; border: 1px solid #dee2e6; text-align: right;">`)
	b.WriteString(templ.EscapeString(value))
	b.WriteString(`</td></tr>`)
}

func writeRowBold(b *strings.Builder, label, value string) {
	b.WriteString(`<tr><td style="padding: 6px 8px; border: 1px solid #dee2e6; font-weight: bold;">`)
	b.WriteString(templ.EscapeString(label))
	b.WriteString(`</td><td style="padding: 6px 8px; border: 1px solid #dee2e6; text-align: right; font-weight: bold; background: #f5f5f5;">`)
	b.WriteString(templ.EscapeString(value))
	b.WriteString(`</td></tr>`)
}

func firstName(full string) string {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "there"
	}
	return parts[0]
}
