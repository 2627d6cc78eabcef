package services

// UnitOptions returns the list of unit-of-measure options for line items.
var UnitOptions = []string{
	"m²",
	"lm",
	"each",
	"hour",
	"job",
	"sheet",
	"point",
}

// LeadStatusOptions returns the lead pipeline statuses in order.
var LeadStatusOptions = []string{
	"new",
	"contacted",
	"quoted",
	"won",
	"lost",
}

// LeadSourceOptions returns the recognized lead sources.
var LeadSourceOptions = []string{
	"website",
	"phone",
	"referral",
	"google",
	"facebook",
	"doorknock",
}

// QuoteStatusOptions returns the quote lifecycle statuses in order.
var QuoteStatusOptions = []string{
	"draft",
	"sent",
	"accepted",
	"rejected",
}
