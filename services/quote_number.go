package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
)

// formatQuoteNumber constructs the human-facing quote reference string.
// Uses "-" as separator so references stay URL-safe.
func formatQuoteNumber(contractorRef string, year int, sequence int) string {
	return fmt.Sprintf("QW-%s-%d-%03d", contractorRef, year, sequence)
}

// GenerateQuoteNumber creates the next quote reference for a contractor.
// Format: QW-{contractor_ref}-{year}-{sequence}
// - contractor_ref: contractor's reference code (falls back to record ID)
// - year: calendar year the quote was created in
// - sequence: 3-digit zero-padded, per contractor per year; continues from
//   the highest existing suffix so deleting a draft never frees a number
func GenerateQuoteNumber(app *pocketbase.PocketBase, contractorID string, now time.Time) (string, error) {
	contractor, err := app.FindRecordById("contractors", contractorID)
	if err != nil {
		return "", fmt.Errorf("contractor not found: %w", err)
	}

	contractorRef := contractor.GetString("reference_code")
	if contractorRef == "" {
		contractorRef = contractorID
	}

	year := now.Year()
	prefix := fmt.Sprintf("QW-%s-%d-", contractorRef, year)

	existing, err := app.FindRecordsByFilter(
		"quotes",
		"contractor = {:contractorId} && number ~ {:prefix}",
		"",
		0,
		0,
		map[string]any{
			"contractorId": contractorID,
			"prefix":       prefix + "%",
		},
	)
	if err != nil {
		// No quotes collection yet or no records, start at 1.
		existing = nil
	}

	maxSeq := 0
	for _, rec := range existing {
		suffix := strings.TrimPrefix(rec.GetString("number"), prefix)
		if seq, err := strconv.Atoi(suffix); err == nil && seq > maxSeq {
			maxSeq = seq
		}
	}

	return formatQuoteNumber(contractorRef, year, maxSeq+1), nil
}
