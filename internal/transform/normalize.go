//-------------------------------------------------------------------------
//
// Storefront Warehouse ETL
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package transform reshapes normalized extracts into the star schema:
// column canonicalization, category translation, dimension building, and
// fact assembly.
package transform

import (
	"strings"
	"time"

	"github.com/shopwright/storefront-etl/internal/extract"
)

// CanonicalColumn converts a raw column name to canonical form:
// lower-cased, trimmed, spaces replaced with underscores. Idempotent.
func CanonicalColumn(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(strings.ToLower(name)), " ", "_")
}

// Normalize canonicalizes column names on every extract, in place, and
// returns the same mapping. Timestamp coercion for the designated orders
// and reviews columns happens when the extracts decode into typed records;
// see ParseTimestamp.
func Normalize(extracts map[string]*extract.Extract) map[string]*extract.Extract {
	for _, ex := range extracts {
		for i, col := range ex.Columns {
			ex.Columns[i] = CanonicalColumn(col)
		}
	}
	return extracts
}

// timestampLayouts are the formats the upstream source emits.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp coerces an extract cell to a timestamp. Unparseable or
// empty values are an explicit missing marker (nil), never an error.
func ParseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
