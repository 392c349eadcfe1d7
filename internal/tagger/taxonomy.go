package tagger

import (
	"strings"

	"github.com/jfmyers9/gnlookup/pkg/gracenote"
)

// MostSpecific returns the text of the innermost taxonomy level, or ""
func MostSpecific(entries []gracenote.TaxonomyEntry) string {
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Text != "" {
			return entries[i].Text
		}
	}
	return ""
}

// JoinTaxonomy renders levels outer to inner, e.g. "Europe > United Kingdom > England".
// Blank levels are skipped.
func JoinTaxonomy(entries []gracenote.TaxonomyEntry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Text != "" {
			parts = append(parts, e.Text)
		}
	}
	return strings.Join(parts, " > ")
}
