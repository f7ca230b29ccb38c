package core

import (
	"context"
	"fmt"
	"strings"

	"pkt.systems/ncmctl/internal/logx"
	"pkt.systems/ncmctl/schema"
)

// Slot is a fixed positional role within the action bar.
type Slot int

const (
	// SlotLike is the like/unlike toggle.
	SlotLike Slot = iota
	// SlotPrev skips to the previous track.
	SlotPrev
	// SlotPlay toggles play/pause.
	SlotPlay
	// SlotNext skips to the next track.
	SlotNext

	actionBarSlots = 4
)

func (s Slot) String() string {
	switch s {
	case SlotLike:
		return "like"
	case SlotPrev:
		return "prev"
	case SlotPlay:
		return "play"
	case SlotNext:
		return "next"
	default:
		return fmt.Sprintf("slot(%d)", int(s))
	}
}

// actionBar discovers the transport buttons: every button inside the parent of the
// first displayed play button. ok is false unless exactly actionBarSlots resolve.
func (c *Controller) actionBar(ctx context.Context) ([]Node, bool, error) {
	play, found, err := c.first(ctx, nil, c.sel.PlayButton)
	if err != nil || !found {
		return nil, false, err
	}
	container, err := c.driver.Parent(ctx, play)
	if err != nil {
		return nil, false, err
	}
	buttons, err := c.driver.QueryAll(ctx, container, c.sel.ActionButtons)
	if err != nil {
		return nil, false, err
	}
	if len(buttons) != actionBarSlots {
		return nil, false, nil
	}
	return buttons, true, nil
}

// slot resolves one action bar slot. This is the only place slot ordinals are
// mapped onto the discovered buttons.
func (c *Controller) slot(ctx context.Context, s Slot) (Node, bool, error) {
	buttons, ok, err := c.actionBar(ctx)
	if err != nil || !ok {
		return nil, false, err
	}
	if s < 0 || int(s) >= len(buttons) {
		return nil, false, nil
	}
	return buttons[s], true, nil
}

// HasActivePlaylist reports whether a playlist is loaded, i.e. the action bar resolves.
func (c *Controller) HasActivePlaylist(ctx context.Context) (bool, error) {
	if err := c.ready(); err != nil {
		return false, err
	}
	_, ok, err := c.actionBar(ctx)
	return ok, err
}

// IsPlaying reports whether music is playing. It is false without a playlist.
func (c *Controller) IsPlaying(ctx context.Context) (bool, error) {
	if err := c.ready(); err != nil {
		return false, err
	}
	play, ok, err := c.slot(ctx, SlotPlay)
	if err != nil || !ok {
		return false, err
	}
	class, err := c.driver.Attribute(ctx, play, "class")
	if err != nil {
		return false, err
	}
	return strings.Contains(class, c.sel.PlayingMarker), nil
}

// Resume starts playback unless there is no playlist or music already plays.
func (c *Controller) Resume(ctx context.Context) (string, error) {
	return c.togglePlay(ctx, "resume", true)
}

// Pause stops playback unless there is no playlist or music is already paused.
func (c *Controller) Pause(ctx context.Context) (string, error) {
	return c.togglePlay(ctx, "pause", false)
}

func (c *Controller) togglePlay(ctx context.Context, action string, wantPlaying bool) (string, error) {
	if err := c.ready(); err != nil {
		return "", err
	}
	log := logx.WithAction(ctx, action)
	play, ok, err := c.slot(ctx, SlotPlay)
	if err != nil {
		return "", err
	}
	if !ok {
		log.Debug("no active playlist; skipping")
		return schema.StatusOK, nil
	}
	class, err := c.driver.Attribute(ctx, play, "class")
	if err != nil {
		return "", err
	}
	if strings.Contains(class, c.sel.PlayingMarker) == wantPlaying {
		log.Debug("already in target state", "playing", wantPlaying)
		return schema.StatusOK, nil
	}
	if err := c.driver.Click(ctx, play); err != nil {
		return "", fmt.Errorf("%s: click play: %w", action, err)
	}
	log.Debug("play toggled", "playing", wantPlaying)
	return schema.StatusOK, nil
}

// Previous skips to the previous track when a playlist is loaded.
func (c *Controller) Previous(ctx context.Context) (string, error) {
	return c.press(ctx, "previous", SlotPrev)
}

// Next skips to the next track when a playlist is loaded.
func (c *Controller) Next(ctx context.Context) (string, error) {
	return c.press(ctx, "next", SlotNext)
}

func (c *Controller) press(ctx context.Context, action string, s Slot) (string, error) {
	if err := c.ready(); err != nil {
		return "", err
	}
	button, ok, err := c.slot(ctx, s)
	if err != nil {
		return "", err
	}
	if !ok {
		logx.WithAction(ctx, action).Debug("no active playlist; skipping")
		return schema.StatusOK, nil
	}
	if err := c.driver.Click(ctx, button); err != nil {
		return "", fmt.Errorf("%s: click %s: %w", action, s, err)
	}
	return schema.StatusOK, nil
}

// IsLiked reports whether the current track is liked. It is false without a playlist.
func (c *Controller) IsLiked(ctx context.Context) (bool, error) {
	if err := c.ready(); err != nil {
		return false, err
	}
	like, ok, err := c.slot(ctx, SlotLike)
	if err != nil || !ok {
		return false, err
	}
	return c.liked(ctx, like)
}

func (c *Controller) liked(ctx context.Context, like Node) (bool, error) {
	value, err := c.driver.Attribute(ctx, like, c.sel.LikedAttribute)
	if err != nil {
		return false, err
	}
	return strings.Contains(value, c.sel.LikedMarker), nil
}

// Like likes the current track unless there is no playlist or it is already liked.
func (c *Controller) Like(ctx context.Context) (string, error) {
	return c.setLiked(ctx, "like", true)
}

// Unlike removes the like unless there is no playlist or the track is not liked.
func (c *Controller) Unlike(ctx context.Context) (string, error) {
	return c.setLiked(ctx, "unlike", false)
}

func (c *Controller) setLiked(ctx context.Context, action string, want bool) (string, error) {
	if err := c.ready(); err != nil {
		return "", err
	}
	log := logx.WithAction(ctx, action)
	like, ok, err := c.slot(ctx, SlotLike)
	if err != nil {
		return "", err
	}
	if !ok {
		log.Debug("no active playlist; skipping")
		return schema.StatusOK, nil
	}
	liked, err := c.liked(ctx, like)
	if err != nil {
		return "", err
	}
	if liked == want {
		log.Debug("already in target state", "liked", want)
		return schema.StatusOK, nil
	}
	if err := c.driver.Click(ctx, like); err != nil {
		return "", fmt.Errorf("%s: click like: %w", action, err)
	}
	return schema.StatusOK, nil
}
