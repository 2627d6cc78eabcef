package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// GetFiscalYear returns the Australian fiscal year string for a given date.
// Australian fiscal year runs July to June.
// May 2026 → "25-26", Aug 2026 → "26-27"
func GetFiscalYear(t time.Time) string {
	year := t.Year()

	var startYear int
	if t.Month() >= time.July {
		startYear = year
	} else {
		startYear = year - 1
	}
	endYear := startYear + 1

	return fmt.Sprintf("%02d-%02d", startYear%100, endYear%100)
}

// formatQuoteNumber constructs the quote number string from components.
func formatQuoteNumber(fiscalYear string, sequence int) string {
	return fmt.Sprintf("ARC-QT-%s-%03d", fiscalYear, sequence)
}

// GenerateQuoteNumber creates the next quote number.
// Format: ARC-QT-{fiscal_year}-{sequence}
// - fiscal_year: Australian fiscal year (Jul-Jun), e.g. "25-26"
// - sequence: 3-digit zero-padded, per fiscal year
func GenerateQuoteNumber(app core.App, now time.Time) (string, error) {
	fiscalYear := GetFiscalYear(now)
	prefix := fmt.Sprintf("ARC-QT-%s-", fiscalYear)

	existing, err := app.FindRecordsByFilter(
		"quotes",
		"quote_number ~ {:prefix}",
		"",
		0,
		0,
		map[string]any{"prefix": prefix + "%"},
	)
	if err != nil {
		return "", fmt.Errorf("query existing quote numbers: %w", err)
	}

	// Sequence continues from the highest issued number, not the record
	// count, so a deleted mid-sequence quote never gets its number reused.
	maxSeq := 0
	for _, rec := range existing {
		suffix := strings.TrimPrefix(rec.GetString("quote_number"), prefix)
		seq, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}

	return formatQuoteNumber(fiscalYear, maxSeq+1), nil
}
