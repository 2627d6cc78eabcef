package nexus

import "strings"

// Intent labels stored on chat messages for reporting.
const (
	IntentLeadLookup      = "lead_lookup"
	IntentQuoteLookup     = "quote_lookup"
	IntentCatalogQuestion = "catalog_question"
	IntentContentDraft    = "content_draft"
	IntentGeneral         = "general"
)

var intentKeywords = []struct {
	intent   string
	keywords []string
}{
	{IntentQuoteLookup, []string{"quote", "quotation", "arc-qt"}},
	{IntentLeadLookup, []string{"lead", "customer", "client", "enquiry", "contact"}},
	{IntentCatalogQuestion, []string{"service", "catalog", "rate", "price", "cost", "charge"}},
	{IntentContentDraft, []string{"draft", "write", "email", "post", "reply", "respond"}},
}

// ClassifyIntent tags a user message with a coarse intent label. This is a
// keyword pass used for reporting only; the model still sees the raw text.
func ClassifyIntent(text string) string {
	lower := strings.ToLower(text)
	for _, entry := range intentKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.intent
			}
		}
	}
	return IntentGeneral
}
