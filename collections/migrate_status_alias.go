package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
)

// MigrateLegacyApprovedStatus rewrites quotes still stored with the legacy
// "approved" status to the canonical "accepted". Safe to call on every
// startup -- returns early if nothing to migrate.
func MigrateLegacyApprovedStatus(app *pocketbase.PocketBase) error {
	quotesCol, err := app.FindCollectionByNameOrId("quotes")
	if err != nil {
		return fmt.Errorf("migrate: could not find quotes collection: %w", err)
	}

	legacy, err := app.FindRecordsByFilter(
		quotesCol,
		"status = 'approved'",
		"",
		0,
		0,
		nil,
	)
	if err != nil {
		return fmt.Errorf("migrate: could not query legacy approved quotes: %w", err)
	}

	if len(legacy) == 0 {
		return nil
	}

	log.Printf("migrate: found %d quote(s) with legacy 'approved' status -- rewriting...\n", len(legacy))

	for _, quote := range legacy {
		quote.Set("status", "accepted")
		if err := app.Save(quote); err != nil {
			log.Printf("migrate: failed to rewrite status on quote %s: %v\n", quote.Id, err)
			continue
		}
	}

	log.Println("migrate: legacy approved status migration complete.")
	return nil
}
