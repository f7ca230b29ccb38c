package core

import (
	"context"
	"errors"
	"testing"

	"pkt.systems/ncmctl/schema"
)

func TestActionsWithoutPlaylistAreNoops(t *testing.T) {
	f := newPlayerFixture(t, false)
	ctx := context.Background()

	active, err := f.ctrl.HasActivePlaylist(ctx)
	if err != nil || active {
		t.Fatalf("HasActivePlaylist = %v, %v; want false", active, err)
	}
	playing, err := f.ctrl.IsPlaying(ctx)
	if err != nil || playing {
		t.Fatalf("IsPlaying = %v, %v; want false", playing, err)
	}
	liked, err := f.ctrl.IsLiked(ctx)
	if err != nil || liked {
		t.Fatalf("IsLiked = %v, %v; want false", liked, err)
	}
	actions := map[string]func(context.Context) (string, error){
		"resume":   f.ctrl.Resume,
		"pause":    f.ctrl.Pause,
		"previous": f.ctrl.Previous,
		"next":     f.ctrl.Next,
		"like":     f.ctrl.Like,
		"unlike":   f.ctrl.Unlike,
	}
	for name, action := range actions {
		out, err := action(ctx)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if out != schema.StatusOK {
			t.Fatalf("%s: unexpected output %q", name, out)
		}
	}
	if n := f.driver.interactions(); n != 0 {
		t.Fatalf("expected no interactions, got %v", f.driver.events)
	}
}

func TestActionBarRequiresAllSlots(t *testing.T) {
	f := newPlayerFixture(t, true)
	f.bar.set(f.sel.ActionButtons, f.prev, f.play, f.next)
	active, err := f.ctrl.HasActivePlaylist(context.Background())
	if err != nil {
		t.Fatalf("HasActivePlaylist: %v", err)
	}
	if active {
		t.Fatalf("expected an incomplete action bar to count as no playlist")
	}
}

func TestActionBarQueryErrorPropagates(t *testing.T) {
	f := newPlayerFixture(t, true)
	f.driver.queryErr = errors.New("session closed")
	if _, err := f.ctrl.HasActivePlaylist(context.Background()); err == nil {
		t.Fatalf("expected driver error")
	}
}

func TestResumePauseAreIdempotent(t *testing.T) {
	f := newPlayerFixture(t, true)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := f.ctrl.Resume(ctx); err != nil {
			t.Fatalf("resume %d: %v", i, err)
		}
	}
	if n := f.driver.count("click:play"); n != 1 {
		t.Fatalf("expected one play click after two resumes, got %d", n)
	}
	playing, err := f.ctrl.IsPlaying(ctx)
	if err != nil || !playing {
		t.Fatalf("IsPlaying = %v, %v; want true", playing, err)
	}

	for i := 0; i < 2; i++ {
		if _, err := f.ctrl.Pause(ctx); err != nil {
			t.Fatalf("pause %d: %v", i, err)
		}
	}
	if n := f.driver.count("click:play"); n != 2 {
		t.Fatalf("expected two play clicks in total, got %d", n)
	}
	playing, err = f.ctrl.IsPlaying(ctx)
	if err != nil || playing {
		t.Fatalf("IsPlaying = %v, %v; want false", playing, err)
	}
}

func TestPreviousNextClickTheirSlots(t *testing.T) {
	f := newPlayerFixture(t, true)
	ctx := context.Background()
	if _, err := f.ctrl.Previous(ctx); err != nil {
		t.Fatalf("previous: %v", err)
	}
	if _, err := f.ctrl.Next(ctx); err != nil {
		t.Fatalf("next: %v", err)
	}
	if len(f.driver.events) != 2 || f.driver.events[0] != "click:prev" || f.driver.events[1] != "click:next" {
		t.Fatalf("unexpected events %v", f.driver.events)
	}
}

func TestLikeUnlikeFollowLikedState(t *testing.T) {
	f := newPlayerFixture(t, true)
	ctx := context.Background()

	if _, err := f.ctrl.Unlike(ctx); err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if n := f.driver.count("click:like"); n != 0 {
		t.Fatalf("unlike of an unliked track clicked %d times", n)
	}
	if _, err := f.ctrl.Like(ctx); err != nil {
		t.Fatalf("like: %v", err)
	}
	liked, err := f.ctrl.IsLiked(ctx)
	if err != nil || !liked {
		t.Fatalf("IsLiked = %v, %v; want true", liked, err)
	}
	if _, err := f.ctrl.Like(ctx); err != nil {
		t.Fatalf("like again: %v", err)
	}
	if n := f.driver.count("click:like"); n != 1 {
		t.Fatalf("expected one like click, got %d", n)
	}
	if _, err := f.ctrl.Unlike(ctx); err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if f.liked() {
		t.Fatalf("expected track to be unliked")
	}
}

func TestSlotString(t *testing.T) {
	cases := map[Slot]string{SlotLike: "like", SlotPrev: "prev", SlotPlay: "play", SlotNext: "next", Slot(7): "slot(7)"}
	for slot, want := range cases {
		if got := slot.String(); got != want {
			t.Fatalf("Slot(%d).String() = %q, want %q", int(slot), got, want)
		}
	}
}
