package format

import (
	"strings"
	"testing"

	"pkt.systems/ncmctl/schema"
)

func TestListingEmpty(t *testing.T) {
	got := Listing(schema.SearchListing{Keyword: "zzz", Kind: schema.ResultTrack})
	if got != `No result for keyword "zzz".` {
		t.Fatalf("unexpected empty listing: %q", got)
	}
}

func TestListingLinesTracks(t *testing.T) {
	listing := schema.SearchListing{
		Keyword: "jay",
		Kind:    schema.ResultTrack,
		Count:   300,
		Hits: []schema.SearchHit{
			{Index: "01", Name: "Sunny Day", Fields: []schema.Field{{Label: "Artists", Value: "Jay"}, {Label: "Album", Value: "Ye Hui Mei"}}},
			{Index: "02", Name: "Rice Field", Fields: []schema.Field{{Label: "Artists", Value: "Jay"}, {Label: "Album", Value: ""}}},
		},
	}
	lines := ListingLines(listing)
	if len(lines) != 4 {
		t.Fatalf("expected header, 2 rows and note, got %d (%v)", len(lines), lines)
	}
	if lines[0] != `Search results for "jay" (songs, 300 found):` {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if lines[1] != "01. Sunny Day | Artists: Jay | Album: Ye Hui Mei" {
		t.Fatalf("unexpected first row %q", lines[1])
	}
	if lines[2] != "02. Rice Field | Artists: Jay" {
		t.Fatalf("expected empty field to be dropped, got %q", lines[2])
	}
	if lines[3] != ListingNote {
		t.Fatalf("expected listing note last, got %q", lines[3])
	}
}

func TestListingPlaylistHeaderWithoutCount(t *testing.T) {
	listing := schema.SearchListing{
		Keyword: "chill",
		Kind:    schema.ResultPlaylist,
		Hits:    []schema.SearchHit{{Index: "1", Name: "Chill Mix"}},
	}
	got := Listing(listing)
	if !strings.HasPrefix(got, `Search results for "chill" (playlists):`) {
		t.Fatalf("unexpected header: %q", got)
	}
	if !strings.Contains(got, "\n1. Chill Mix\n") {
		t.Fatalf("expected untitled-free row, got %q", got)
	}
}
