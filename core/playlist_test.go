package core

import (
	"context"
	"testing"

	"pkt.systems/ncmctl/schema"
)

func (f *playerFixture) showNowPlaying(title, artists string) {
	titleNode := newNode("title")
	titleNode.text = title
	artistsNode := newNode("artists")
	artistsNode.text = artists
	f.driver.root.set(f.sel.NowPlayingTitle, titleNode)
	f.driver.root.set(f.sel.NowPlayingArtists, artistsNode)
}

func TestGetCurrentPlayingMusic(t *testing.T) {
	f := newPlayerFixture(t, true)
	f.showNowPlaying(" Blue Bird ", "Ikimono-gakari")
	out, err := f.ctrl.GetCurrentPlayingMusic(context.Background())
	if err != nil {
		t.Fatalf("GetCurrentPlayingMusic: %v", err)
	}
	if out != "Blue Bird - Ikimono-gakari" {
		t.Fatalf("unexpected now playing %q", out)
	}
}

func TestGetCurrentPlayingMusicWithoutPlaylist(t *testing.T) {
	f := newPlayerFixture(t, false)
	f.showNowPlaying("Blue Bird", "Ikimono-gakari")
	out, err := f.ctrl.GetCurrentPlayingMusic(context.Background())
	if err != nil {
		t.Fatalf("GetCurrentPlayingMusic: %v", err)
	}
	if out != NoMusicInPlaylist {
		t.Fatalf("unexpected output %q", out)
	}
}

// installDrawer adds the playlist drawer. Clearing removes the action bar and closes
// the drawer, as the client does.
func (f *playerFixture) installDrawer(confirm bool) {
	root := f.driver.root
	toggle := newNode("playlist-toggle")
	clearButton := newNode("playlist-clear")
	clearButton.hidden = true
	toggle.onClick = func() { clearButton.hidden = !clearButton.hidden }
	emptyPlaylist := func() {
		root.set(f.sel.PlayButton)
		clearButton.hidden = true
	}
	if confirm {
		dialog := newNode("confirm")
		dialog.hidden = true
		dialog.onClick = func() {
			dialog.hidden = true
			emptyPlaylist()
		}
		clearButton.onClick = func() { dialog.hidden = false }
		root.add(f.sel.ConfirmButton, dialog)
	} else {
		clearButton.onClick = emptyPlaylist
	}
	root.add(f.sel.PlaylistToggle, toggle)
	root.add(f.sel.PlaylistClear, clearButton)
}

func TestClearPlaylistWithConfirmation(t *testing.T) {
	f := newPlayerFixture(t, true)
	f.installDrawer(true)
	ctx := context.Background()
	if _, err := f.ctrl.ClearPlaylist(ctx); err != nil {
		t.Fatalf("ClearPlaylist: %v", err)
	}
	if f.driver.count("click:confirm") != 1 {
		t.Fatalf("expected confirmation, events %v", f.driver.events)
	}
	if f.driver.count("click:playlist-toggle") != 1 {
		t.Fatalf("drawer closed by the client must not be toggled again, events %v", f.driver.events)
	}
	active, err := f.ctrl.HasActivePlaylist(ctx)
	if err != nil || active {
		t.Fatalf("HasActivePlaylist = %v, %v; want false", active, err)
	}
}

func TestClearPlaylistWithoutConfirmation(t *testing.T) {
	f := newPlayerFixture(t, true)
	f.installDrawer(false)
	if _, err := f.ctrl.ClearPlaylist(context.Background()); err != nil {
		t.Fatalf("ClearPlaylist: %v", err)
	}
	if f.driver.count("click:playlist-clear") != 1 {
		t.Fatalf("expected clear click, events %v", f.driver.events)
	}
}

func TestClearPlaylistWithoutPlaylistIsNoop(t *testing.T) {
	f := newPlayerFixture(t, false)
	f.installDrawer(true)
	out, err := f.ctrl.ClearPlaylist(context.Background())
	if err != nil || out != schema.StatusOK {
		t.Fatalf("ClearPlaylist = %q, %v", out, err)
	}
	if f.driver.interactions() != 0 {
		t.Fatalf("unexpected interactions %v", f.driver.events)
	}
}

func TestPlayDailyMusicList(t *testing.T) {
	f := newPlayerFixture(t, false)
	root := f.driver.root
	entry := newNode("daily-entry")
	playAll := newNode("daily-play-all")
	playAll.hidden = true
	entry.onClick = func() { playAll.hidden = false }
	playAll.onClick = func() { root.add(f.sel.PlayButton, f.play) }
	root.add(f.sel.DailyEntry, entry)
	root.add(f.sel.DailyPlayAll, playAll)

	ctx := context.Background()
	if _, err := f.ctrl.PlayDailyMusicList(ctx); err != nil {
		t.Fatalf("PlayDailyMusicList: %v", err)
	}
	active, err := f.ctrl.HasActivePlaylist(ctx)
	if err != nil || !active {
		t.Fatalf("HasActivePlaylist = %v, %v; want true", active, err)
	}
}
