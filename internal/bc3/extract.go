package bc3

// extract.go scans decoded BC3 lines for concept records (~C) and folds
// them into a table keyed by concept code.
//
// The extractor is deliberately lenient: a structurally broken line is
// skipped and counted, never fatal. Whole-file failures are the caller's
// call to make (see importer.Service).

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	conceptMarker = "~C|"
	delimiter     = "|"

	// A concept record needs code, uom, description and price.
	minConceptFields = 4
)

// Concept is one budget line extracted from a ~C record.
type Concept struct {
	Code        string  // unique key within one import
	Uom         string  // unit-of-measure name as written in the file
	Description string  // display text, doubles as catalog matching key
	Price       float64 // finite, non-negative
	Quantity    float64 // always 1.0, the flat record carries no quantity

	// VersionID ties the concept to the import that produced it.
	VersionID uuid.UUID
}

// ConceptTable maps concept code to Concept. Iteration order is not
// significant; the last file occurrence of a code wins.
type ConceptTable map[string]Concept

// ExtractStats aggregates per-line diagnostics for one extraction pass.
// Skipped lines never abort the import, but the counts are surfaced in
// the import result so operators can tell a clean file from a mangled one.
type ExtractStats struct {
	ConceptLines int `json:"concept_lines"` // lines accepted into the table
	Malformed    int `json:"malformed"`     // tagged lines with too few fields
	PriceErrors  int `json:"price_errors"`  // lines dropped for unusable prices
	EmptyCode    int `json:"empty_code"`    // tagged lines with no code field
}

// ExtractConcepts scans lines for well-formed concept records.
//
// Lines are trimmed first; only lines starting with the exact ~C| marker
// qualify. Every other record type, blank lines included, is skipped with
// no diagnostic. Duplicate codes overwrite silently.
func ExtractConcepts(lines []string, versionID uuid.UUID) (ConceptTable, ExtractStats) {
	concepts := make(ConceptTable)
	var stats ExtractStats

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if !strings.HasPrefix(line, conceptMarker) {
			continue
		}

		parts := strings.Split(line[len(conceptMarker):], delimiter)
		if len(parts) < minConceptFields {
			stats.Malformed++
			slog.Warn("concept line ignored due to incorrect format", "line", line)
			continue
		}

		code := parts[0]
		if code == "" {
			stats.EmptyCode++
			continue
		}

		price, err := parsePrice(parts[3])
		if err != nil {
			stats.PriceErrors++
			slog.Error("error processing concept line", "line", line, "error", err)
			continue
		}

		concepts[code] = Concept{
			Code:        code,
			Uom:         parts[1],
			Description: parts[2],
			Price:       price,
			Quantity:    1.0,
			VersionID:   versionID,
		}
		stats.ConceptLines++
	}

	return concepts, stats
}

// parsePrice parses a BC3 price field. The format allows either comma or
// dot as the fractional separator; empty means zero. Values that parse
// but are not finite non-negative numbers are rejected so a bad line
// fails loudly instead of coercing.
func parsePrice(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", s, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid price %q: not a finite number", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("invalid price %q: negative", s)
	}
	return v, nil
}
