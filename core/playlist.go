package core

import (
	"context"
	"errors"
	"fmt"

	"pkt.systems/ncmctl/internal/logx"
	"pkt.systems/ncmctl/schema"
)

// NoMusicInPlaylist is reported by GetCurrentPlayingMusic without an active playlist.
const NoMusicInPlaylist = "No music in playlist."

// CurrentPlaying reads the title and artists shown in the mini player.
func (c *Controller) CurrentPlaying(ctx context.Context) (schema.NowPlaying, bool, error) {
	if err := c.ready(); err != nil {
		return schema.NowPlaying{}, false, err
	}
	_, ok, err := c.actionBar(ctx)
	if err != nil || !ok {
		return schema.NowPlaying{}, false, err
	}
	title, err := c.textOf(ctx, nil, c.sel.NowPlayingTitle)
	if err != nil {
		return schema.NowPlaying{}, false, fmt.Errorf("read title: %w", err)
	}
	artists, err := c.textOf(ctx, nil, c.sel.NowPlayingArtists)
	if err != nil {
		return schema.NowPlaying{}, false, fmt.Errorf("read artists: %w", err)
	}
	if title == "" {
		return schema.NowPlaying{}, false, nil
	}
	return schema.NowPlaying{Title: title, Artists: artists}, true, nil
}

// GetCurrentPlayingMusic describes the current track as "title - artists".
func (c *Controller) GetCurrentPlayingMusic(ctx context.Context) (string, error) {
	now, ok, err := c.CurrentPlaying(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return NoMusicInPlaylist, nil
	}
	if now.Artists == "" {
		return now.Title, nil
	}
	return now.Title + " - " + now.Artists, nil
}

// ClearPlaylist empties the current playlist through the playlist drawer. It is a
// no-op without an active playlist.
func (c *Controller) ClearPlaylist(ctx context.Context) (string, error) {
	if err := c.ready(); err != nil {
		return "", err
	}
	log := logx.WithAction(ctx, "clear_playlist")
	_, ok, err := c.actionBar(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		log.Debug("no active playlist; skipping")
		return schema.StatusOK, nil
	}
	toggle, err := c.waitElement(ctx, nil, c.sel.PlaylistToggle, "playlist button")
	if err != nil {
		return "", err
	}
	if err := c.driver.Click(ctx, toggle); err != nil {
		return "", fmt.Errorf("open playlist: %w", err)
	}
	cleared := false
	defer func() {
		if cleared {
			// The drawer closes itself once the playlist is gone.
			if _, open, _ := c.first(ctx, nil, c.sel.PlaylistClear); !open {
				return
			}
		}
		if err := c.driver.Click(ctx, toggle); err != nil {
			log.Warn("close playlist failed", "err", err)
		}
	}()
	clearButton, err := c.waitElement(ctx, nil, c.sel.PlaylistClear, "clear playlist button")
	if err != nil {
		return "", err
	}
	if err := c.driver.Click(ctx, clearButton); err != nil {
		return "", fmt.Errorf("clear playlist: %w", err)
	}
	confirm, err := c.waitElement(ctx, nil, c.sel.ConfirmButton, "confirm dialog")
	switch {
	case err == nil:
		if err := c.driver.Click(ctx, confirm); err != nil {
			return "", fmt.Errorf("confirm clear playlist: %w", err)
		}
	case errors.Is(err, schema.ErrNotFound):
		log.Debug("no confirmation dialog")
	default:
		return "", err
	}
	cleared = true
	return schema.StatusOK, nil
}

// PlayDailyMusicList opens the daily recommendation page and plays all of it.
func (c *Controller) PlayDailyMusicList(ctx context.Context) (string, error) {
	if err := c.ready(); err != nil {
		return "", err
	}
	entry, err := c.waitElement(ctx, nil, c.sel.DailyEntry, "daily recommendation entry")
	if err != nil {
		return "", err
	}
	if err := c.driver.Click(ctx, entry); err != nil {
		return "", fmt.Errorf("open daily recommendation: %w", err)
	}
	playAll, err := c.waitElement(ctx, nil, c.sel.DailyPlayAll, "daily play all button")
	if err != nil {
		return "", err
	}
	if err := c.driver.Click(ctx, playAll); err != nil {
		return "", fmt.Errorf("play daily recommendation: %w", err)
	}
	logx.WithAction(ctx, "play_daily_music_list").Debug("daily recommendation playing")
	return schema.StatusOK, nil
}
