package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"

	"roofops/services"
)

// MigrateMissingQuoteNumbers finds all quote records without a quote_number
// and backfills one in creation order, using the fiscal year of each quote's
// created date so old quotes keep their original year prefix.
// Safe to call on every startup -- returns early if nothing to migrate.
func MigrateMissingQuoteNumbers(app *pocketbase.PocketBase) error {
	quotesCol, err := app.FindCollectionByNameOrId("quotes")
	if err != nil {
		return fmt.Errorf("migrate: could not find quotes collection: %w", err)
	}

	unnumbered, err := app.FindRecordsByFilter(
		quotesCol,
		"quote_number = ''",
		"created",
		0,
		0,
		nil,
	)
	if err != nil {
		return fmt.Errorf("migrate: could not query unnumbered quotes: %w", err)
	}

	if len(unnumbered) == 0 {
		return nil
	}

	log.Printf("migrate: found %d quote(s) without a quote number -- backfilling...\n", len(unnumbered))

	for _, quote := range unnumbered {
		created := quote.GetDateTime("created").Time()

		number, err := services.GenerateQuoteNumber(app, created)
		if err != nil {
			log.Printf("migrate: failed to generate number for quote %s: %v\n", quote.Id, err)
			continue
		}

		quote.Set("quote_number", number)
		if err := app.Save(quote); err != nil {
			log.Printf("migrate: failed to save quote %s: %v\n", quote.Id, err)
			continue
		}

		log.Printf("migrate: quote %s -> %s\n", quote.Id, number)
	}

	log.Println("migrate: quote number backfill complete.")
	return nil
}
