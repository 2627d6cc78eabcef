package services

import (
	"fmt"
	"strings"

	"github.com/pocketbase/pocketbase/core"
)

// contact fields copied from a duplicate when the primary's value is blank.
var leadMergeFields = []string{"email", "phone", "suburb", "address", "source"}

// MergeLeads folds duplicate lead records into a primary one: blank contact
// fields on the primary are filled from the duplicates (first non-blank
// wins), notes are concatenated, and quotes and inspections pointing at a
// duplicate are reassigned before the duplicate is deleted. The whole merge
// runs in one transaction.
func MergeLeads(app core.App, primaryID string, duplicateIDs []string) error {
	if len(duplicateIDs) == 0 {
		return fmt.Errorf("no duplicate leads given")
	}

	return app.RunInTransaction(func(txApp core.App) error {
		primary, err := txApp.FindRecordById("leads", primaryID)
		if err != nil {
			return fmt.Errorf("primary lead %s not found: %w", primaryID, err)
		}

		for _, dupID := range duplicateIDs {
			if dupID == primaryID {
				return fmt.Errorf("lead %s cannot be merged into itself", primaryID)
			}

			dup, err := txApp.FindRecordById("leads", dupID)
			if err != nil {
				return fmt.Errorf("duplicate lead %s not found: %w", dupID, err)
			}

			for _, field := range leadMergeFields {
				if strings.TrimSpace(primary.GetString(field)) == "" {
					primary.Set(field, dup.GetString(field))
				}
			}
			if dupNotes := strings.TrimSpace(dup.GetString("notes")); dupNotes != "" {
				notes := strings.TrimSpace(primary.GetString("notes"))
				if notes == "" {
					primary.Set("notes", dupNotes)
				} else {
					primary.Set("notes", notes+"\n"+dupNotes)
				}
			}

			if err := reassignLeadRelations(txApp, "quotes", dupID, primaryID); err != nil {
				return err
			}
			if err := reassignLeadRelations(txApp, "inspections", dupID, primaryID); err != nil {
				return err
			}

			if err := txApp.Delete(dup); err != nil {
				return fmt.Errorf("delete duplicate lead %s: %w", dupID, err)
			}
		}

		if err := txApp.Save(primary); err != nil {
			return fmt.Errorf("save merged lead %s: %w", primaryID, err)
		}
		return nil
	})
}

func reassignLeadRelations(app core.App, collection, fromLeadID, toLeadID string) error {
	records, err := app.FindRecordsByFilter(
		collection,
		"lead = {:leadId}",
		"",
		0,
		0,
		map[string]any{"leadId": fromLeadID},
	)
	if err != nil {
		return fmt.Errorf("load %s for lead %s: %w", collection, fromLeadID, err)
	}
	for _, rec := range records {
		rec.Set("lead", toLeadID)
		if err := app.Save(rec); err != nil {
			return fmt.Errorf("reassign %s %s: %w", collection, rec.Id, err)
		}
	}
	return nil
}
