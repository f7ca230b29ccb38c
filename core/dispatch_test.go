package core

import (
	"context"
	"errors"
	"testing"

	"pkt.systems/ncmctl/schema"
)

func TestPlayInSearchResultBeforeSearch(t *testing.T) {
	f := newSearchFixture(t)
	_, err := f.ctrl.PlayInSearchResult(context.Background(), "01")
	if !errors.Is(err, schema.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	_, err = f.ctrl.PlayAllInSearchResult(context.Background())
	if !errors.Is(err, schema.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState for play all, got %v", err)
	}
}

func TestPlayInSearchResultDoubleClicksSong(t *testing.T) {
	f := newSearchFixture(t)
	f.addResult("naruto", schema.ResultTrack, twoSongs())
	ctx := context.Background()
	if _, err := f.ctrl.SearchMusic(ctx, "naruto"); err != nil {
		t.Fatalf("SearchMusic: %v", err)
	}
	out, err := f.ctrl.PlayInSearchResult(ctx, " 02 ")
	if err != nil {
		t.Fatalf("PlayInSearchResult: %v", err)
	}
	if out != schema.StatusOK {
		t.Fatalf("unexpected output %q", out)
	}
	if f.driver.count("dblclick:track:02") != 1 {
		t.Fatalf("expected row 02 to be double-clicked, events %v", f.driver.events)
	}
}

func TestPlayInSearchResultIndexMatching(t *testing.T) {
	f := newSearchFixture(t)
	f.addResult("naruto", schema.ResultTrack, twoSongs())
	ctx := context.Background()
	if _, err := f.ctrl.SearchMusic(ctx, "naruto"); err != nil {
		t.Fatalf("SearchMusic: %v", err)
	}
	for _, index := range []string{"2", "03", "abc"} {
		if _, err := f.ctrl.PlayInSearchResult(ctx, index); !errors.Is(err, schema.ErrOutOfRange) {
			t.Fatalf("index %q: expected ErrOutOfRange, got %v", index, err)
		}
	}
	if _, err := f.ctrl.PlayInSearchResult(ctx, ""); !errors.Is(err, schema.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for empty index, got %v", err)
	}
	if n := f.driver.count("dblclick:"); n != 0 {
		t.Fatalf("unexpected play for a rejected index")
	}
}

func TestPlayInSearchResultUsesCollectionPlayButton(t *testing.T) {
	for _, kind := range []schema.ResultKind{schema.ResultPlaylist, schema.ResultAlbum} {
		t.Run(string(kind), func(t *testing.T) {
			f := newSearchFixture(t)
			f.addResult("ost", kind, fakeResult{
				prompt: "Found 3",
				rows: []fakeRow{
					{index: "01", name: "Anime OST", fields: []string{"120", "5000"}},
					{index: "02", name: "Battle OST", fields: []string{"40", "90"}},
				},
			})
			ctx := context.Background()
			if _, err := f.ctrl.Search(ctx, kind, "ost"); err != nil {
				t.Fatalf("Search: %v", err)
			}
			if _, err := f.ctrl.PlayInSearchResult(ctx, "02"); err != nil {
				t.Fatalf("PlayInSearchResult: %v", err)
			}
			if f.driver.count("hover:"+string(kind)+":02") != 1 {
				t.Fatalf("expected the row to be hovered, events %v", f.driver.events)
			}
			if f.driver.count("click:row-play:02") != 1 {
				t.Fatalf("expected the row play button to be clicked, events %v", f.driver.events)
			}
			if f.driver.count("dblclick:") != 0 {
				t.Fatalf("collections must not be double-clicked")
			}
		})
	}
}

func TestPlayAllInSearchResult(t *testing.T) {
	f := newSearchFixture(t)
	f.addResult("naruto", schema.ResultTrack, twoSongs())
	ctx := context.Background()
	if _, err := f.ctrl.SearchMusic(ctx, "naruto"); err != nil {
		t.Fatalf("SearchMusic: %v", err)
	}
	out, err := f.ctrl.PlayAllInSearchResult(ctx)
	if err != nil {
		t.Fatalf("PlayAllInSearchResult: %v", err)
	}
	if out != schema.StatusOK || f.driver.count("click:play-all:naruto") != 1 {
		t.Fatalf("unexpected play all result %q, events %v", out, f.driver.events)
	}
}

func TestPlayAllNotSupportedForCollections(t *testing.T) {
	f := newSearchFixture(t)
	f.addResult("ost", schema.ResultPlaylist, fakeResult{
		prompt: "Found 1",
		rows:   []fakeRow{{index: "01", name: "Anime OST"}},
	})
	ctx := context.Background()
	if _, err := f.ctrl.SearchMusicList(ctx, "ost"); err != nil {
		t.Fatalf("SearchMusicList: %v", err)
	}
	before := f.driver.interactions()
	out, err := f.ctrl.PlayAllInSearchResult(ctx)
	if err != nil {
		t.Fatalf("PlayAllInSearchResult: %v", err)
	}
	if out != NotSupportedPlayAll {
		t.Fatalf("unexpected output %q", out)
	}
	if f.driver.interactions() != before {
		t.Fatalf("play all on playlists must not touch the UI")
	}
}
