package core

import (
	"context"
	"fmt"
	"strings"

	"pkt.systems/ncmctl/internal/logx"
	"pkt.systems/ncmctl/schema"
)

// PlayInSearchResult plays the row of the current result set whose display index
// equals index. Songs are double-clicked, which adds them to the current playlist;
// playlists and albums are played through the row's own play button.
func (c *Controller) PlayInSearchResult(ctx context.Context, index string) (string, error) {
	if err := c.ready(); err != nil {
		return "", err
	}
	index = strings.TrimSpace(index)
	if index == "" {
		return "", fmt.Errorf("%w: empty search result index", schema.ErrInvalidArgument)
	}
	if c.results == nil || len(c.results.rows) == 0 {
		return "", fmt.Errorf("%w: no search result; search first", schema.ErrInvalidState)
	}
	row, ok := c.results.lookup(index)
	if !ok {
		return "", fmt.Errorf("%w: %q", schema.ErrOutOfRange, index)
	}
	kind := c.results.listing.Kind
	log := logx.WithIndex(logx.WithAction(ctx, "play_in_search_result"), index).With("kind", kind)

	if kind == schema.ResultTrack {
		if err := c.driver.DoubleClick(ctx, row); err != nil {
			return "", fmt.Errorf("play song %s: %w", index, err)
		}
		log.Debug("song queued")
		return schema.StatusOK, nil
	}
	sel, ok := c.sel.For(kind)
	if !ok {
		return "", fmt.Errorf("%w: unknown result kind %q", schema.ErrInvalidState, kind)
	}
	if err := c.driver.Hover(ctx, row); err != nil {
		return "", fmt.Errorf("hover %s %s: %w", kind, index, err)
	}
	play, err := c.waitElement(ctx, row, sel.Play, string(kind)+" play button")
	if err != nil {
		return "", err
	}
	if err := c.driver.Click(ctx, play); err != nil {
		return "", fmt.Errorf("play %s %s: %w", kind, index, err)
	}
	log.Debug("collection played")
	return schema.StatusOK, nil
}

// NotSupportedPlayAll is reported when play-all is requested for a non-song result set.
const NotSupportedPlayAll = "Not supported: play all is only available for song search results."

// PlayAllInSearchResult plays every song of the current song result set.
func (c *Controller) PlayAllInSearchResult(ctx context.Context) (string, error) {
	if err := c.ready(); err != nil {
		return "", err
	}
	if c.results == nil {
		return "", fmt.Errorf("%w: no search result; search first", schema.ErrInvalidState)
	}
	if c.results.listing.Kind != schema.ResultTrack {
		return NotSupportedPlayAll, nil
	}
	if len(c.results.rows) == 0 {
		return "", fmt.Errorf("%w: the last search returned no songs", schema.ErrInvalidState)
	}
	button, err := c.waitElement(ctx, c.results.anchor, c.sel.SearchPlayAll, "play all button")
	if err != nil {
		return "", err
	}
	if err := c.driver.Click(ctx, button); err != nil {
		return "", fmt.Errorf("play all: %w", err)
	}
	return schema.StatusOK, nil
}
