package collections

import (
	"fmt"
	"log"

	"quoteworks/services"

	"github.com/pocketbase/pocketbase"
)

// MigrateStaleQuoteTotals recomputes the stored total of every quote from
// its line items and repairs any that diverge. A stored total that does not
// match its items is a bug left behind by an interrupted write, never a
// valid state. Safe to call on every startup.
func MigrateStaleQuoteTotals(app *pocketbase.PocketBase) error {
	quotesCol, err := app.FindCollectionByNameOrId("quotes")
	if err != nil {
		return fmt.Errorf("migrate: could not find quotes collection: %w", err)
	}

	quotes, err := app.FindAllRecords(quotesCol)
	if err != nil {
		return fmt.Errorf("migrate: could not query quotes: %w", err)
	}

	repaired := 0
	for _, quote := range quotes {
		totals, err := services.QuoteTotalsFromStore(app, quote.Id)
		if err != nil {
			log.Printf("migrate: failed to compute totals for quote %s: %v\n", quote.Id, err)
			continue
		}
		if quote.GetFloat("total") == totals.GrandTotal {
			continue
		}
		quote.Set("total", totals.GrandTotal)
		if err := app.Save(quote); err != nil {
			log.Printf("migrate: failed to repair total on quote %s: %v\n", quote.Id, err)
			continue
		}
		repaired++
	}

	if repaired > 0 {
		log.Printf("migrate: repaired stored totals on %d quote(s).\n", repaired)
	}
	return nil
}
