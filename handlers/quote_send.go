package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/mail"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/mailer"

	"roofops/emails"
	"roofops/services"
)

// HandleQuoteSend emails the quote to the client with the PDF attached and
// marks it as sent.
func HandleQuoteSend(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quote, err := app.FindRecordById("quotes", e.Request.PathValue("id"))
		if err != nil {
			return jsonError(e, http.StatusNotFound, "quote not found")
		}
		if quote.GetString("status") != "draft" {
			return jsonError(e, http.StatusConflict, "quote has already been sent")
		}

		toAddress := quote.GetString("client_email")
		if toAddress == "" {
			return jsonFieldErrors(e, []map[string]string{
				{"field": "client_email", "message": "client email is required to send a quote"},
			})
		}

		data, err := services.BuildQuoteExportData(app, quote.Id)
		if err != nil {
			log.Printf("quote_send: export data: %v", err)
			return jsonError(e, http.StatusInternalServerError, "failed to prepare quote")
		}

		pdfBytes, err := services.GenerateQuotePDF(data)
		if err != nil {
			log.Printf("quote_send: pdf: %v", err)
			return jsonError(e, http.StatusInternalServerError, "failed to generate quote PDF")
		}

		body, err := emails.RenderQuoteEmail(e.Request.Context(), data)
		if err != nil {
			log.Printf("quote_send: render: %v", err)
			return jsonError(e, http.StatusInternalServerError, "failed to render quote email")
		}

		attachment := fmt.Sprintf("Quote_%s.pdf", sanitizeFilename(data.QuoteNumber))
		msg := &mailer.Message{
			From: mail.Address{
				Name:    app.Settings().Meta.SenderName,
				Address: app.Settings().Meta.SenderAddress,
			},
			To:      []mail.Address{{Name: data.ClientName, Address: toAddress}},
			Subject: emails.QuoteEmailSubject(data),
			HTML:    body,
			Attachments: map[string]io.Reader{
				attachment: bytes.NewReader(pdfBytes),
			},
		}
		if err := app.NewMailClient().Send(msg); err != nil {
			log.Printf("quote_send: send: %v", err)
			return jsonError(e, http.StatusInternalServerError, "failed to send quote email")
		}

		quote.Set("status", "sent")
		quote.Set("sent_at", time.Now())
		if err := app.Save(quote); err != nil {
			log.Printf("quote_send: save: %v", err)
			return jsonError(e, http.StatusInternalServerError, "failed to update quote status")
		}

		if leadID := quote.GetString("lead"); leadID != "" {
			if lead, err := app.FindRecordById("leads", leadID); err == nil {
				lead.Set("status", "quoted")
				if err := app.Save(lead); err != nil {
					log.Printf("quote_send: lead update: %v", err)
				}
			}
		}

		return e.JSON(http.StatusOK, map[string]any{"sent": true})
	}
}
