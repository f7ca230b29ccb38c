package format

import (
	"fmt"
	"strings"

	"pkt.systems/ncmctl/schema"
)

// ListingNote closes every non-empty listing.
const ListingNote = "Note: only the rows currently rendered by the client are listed, so the list may be incomplete. " +
	"Play a row with play_in_search_result using its index; play_all_in_search_result plays every song of a song search."

// Listing renders a search listing as plain text lines joined by newlines.
func Listing(listing schema.SearchListing) string {
	return strings.Join(ListingLines(listing), "\n")
}

// ListingLines renders a search listing as plain text lines.
func ListingLines(listing schema.SearchListing) []string {
	if listing.Empty() {
		return []string{fmt.Sprintf("No result for keyword %q.", listing.Keyword)}
	}
	header := fmt.Sprintf("Search results for %q (%s", listing.Keyword, listing.Kind.Label())
	if listing.Count > 0 {
		header += fmt.Sprintf(", %d found", listing.Count)
	}
	header += "):"
	lines := make([]string, 0, len(listing.Hits)+2)
	lines = append(lines, header)
	for _, hit := range listing.Hits {
		lines = append(lines, formatHit(hit))
	}
	lines = append(lines, ListingNote)
	return lines
}

func formatHit(hit schema.SearchHit) string {
	name := strings.TrimSpace(hit.Name)
	if name == "" {
		name = "(untitled)"
	}
	parts := []string{fmt.Sprintf("%s. %s", hit.Index, name)}
	for _, field := range hit.Fields {
		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", field.Label, value))
	}
	return strings.Join(parts, " | ")
}
