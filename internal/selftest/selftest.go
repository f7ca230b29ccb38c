// Package selftest is a scripted walk through every player action against the
// embedded fixture page.
package selftest

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"pkt.systems/ncmctl/core"
	"pkt.systems/ncmctl/schema"
	"pkt.systems/pslog"
)

// Caller runs a named action with raw arguments.
type Caller interface {
	Call(ctx context.Context, name string, args []string) (string, error)
}

// Step is one action and its expected outcome.
type Step struct {
	Action string
	Args   []string
	Check  func(out string, err error) error
}

func (s Step) String() string {
	if len(s.Args) == 0 {
		return s.Action
	}
	return s.Action + " " + strings.Join(s.Args, " ")
}

// Result records one executed step.
type Result struct {
	Step     Step
	Output   string
	Err      error
	Duration time.Duration
}

func equals(want string) func(string, error) error {
	return func(out string, err error) error {
		if err != nil {
			return err
		}
		if out != want {
			return fmt.Errorf("got %q, want %q", out, want)
		}
		return nil
	}
}

func contains(want string) func(string, error) error {
	return func(out string, err error) error {
		if err != nil {
			return err
		}
		if !strings.Contains(out, want) {
			return fmt.Errorf("got %q, want it to contain %q", out, want)
		}
		return nil
	}
}

func succeeds(_ string, err error) error { return err }

func near(want, slack int) func(string, error) error {
	return func(out string, err error) error {
		if err != nil {
			return err
		}
		got, convErr := strconv.Atoi(out)
		if convErr != nil {
			return fmt.Errorf("got %q, want a number", out)
		}
		if got < want-slack || got > want+slack {
			return fmt.Errorf("got %d, want %d±%d", got, want, slack)
		}
		return nil
	}
}

func fails(target error) func(string, error) error {
	return func(out string, err error) error {
		if !errors.Is(err, target) {
			return fmt.Errorf("got %q / %v, want %v", out, err, target)
		}
		return nil
	}
}

// Steps is the fixture walk. It expects a fresh fixture page with an empty playlist.
func Steps() []Step {
	return []Step{
		{Action: "has_active_playlist", Check: equals("false")},
		{Action: "resume", Check: succeeds},
		{Action: "get_current_playing_music", Check: equals(core.NoMusicInPlaylist)},
		{Action: "play_daily_music_list", Check: succeeds},
		{Action: "has_active_playlist", Check: equals("true")},
		{Action: "is_playing", Check: equals("true")},
		{Action: "pause", Check: succeeds},
		{Action: "is_playing", Check: equals("false")},
		{Action: "resume", Check: succeeds},
		{Action: "is_playing", Check: equals("true")},
		{Action: "next", Check: succeeds},
		{Action: "get_current_playing_music", Check: equals("Blue Moon - Billie Holiday")},
		{Action: "previous", Check: succeeds},
		{Action: "get_current_playing_music", Check: equals("Blue Bird - Ikimono-gakari")},
		{Action: "like", Check: succeeds},
		{Action: "is_liked", Check: equals("true")},
		{Action: "unlike", Check: succeeds},
		{Action: "is_liked", Check: equals("false")},
		{Action: "set_volume", Args: []string{"30"}, Check: succeeds},
		{Action: "get_volume", Check: near(30, 1)},
		{Action: "set_volume", Args: []string{"0"}, Check: succeeds},
		{Action: "get_volume", Check: equals("0")},
		{Action: "set_volume", Args: []string{"101"}, Check: fails(schema.ErrInvalidArgument)},
		{Action: "play_in_search_result", Args: []string{"01"}, Check: fails(schema.ErrInvalidState)},
		{Action: "search_music", Args: []string{"blue"}, Check: contains("Blue Moon")},
		{Action: "play_in_search_result", Args: []string{"02"}, Check: succeeds},
		{Action: "get_current_playing_music", Check: equals("Blue Moon - Billie Holiday")},
		{Action: "play_in_search_result", Args: []string{"09"}, Check: fails(schema.ErrOutOfRange)},
		{Action: "play_all_in_search_result", Check: succeeds},
		{Action: "get_current_playing_music", Check: equals("Blue Bird - Ikimono-gakari")},
		{Action: "search_music_list", Args: []string{"blue"}, Check: contains("Blue Jazz Night")},
		{Action: "play_all_in_search_result", Check: equals(core.NotSupportedPlayAll)},
		{Action: "play_in_search_result", Args: []string{"02"}, Check: succeeds},
		{Action: "get_current_playing_music", Check: equals("Blue Moon - Billie Holiday")},
		{Action: "search_album", Args: []string{"blue"}, Check: contains("Ikimono-gakari")},
		{Action: "play_in_search_result", Args: []string{"01"}, Check: succeeds},
		{Action: "get_current_playing_music", Check: equals("Blue Bird - Ikimono-gakari")},
		{Action: "search_music", Args: []string{"zzz"}, Check: contains("No result")},
		{Action: "play_in_search_result", Args: []string{"01"}, Check: fails(schema.ErrInvalidState)},
		{Action: "clear_playlist", Check: succeeds},
		{Action: "has_active_playlist", Check: equals("false")},
		{Action: "clear_playlist", Check: succeeds},
	}
}

// Run executes steps in order and stops at the first failed check.
func Run(ctx context.Context, caller Caller, steps []Step) ([]Result, error) {
	logger := pslog.Ctx(ctx)
	results := make([]Result, 0, len(steps))
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		started := time.Now()
		out, err := caller.Call(ctx, step.Action, step.Args)
		res := Result{Step: step, Output: out, Err: err, Duration: time.Since(started)}
		results = append(results, res)
		check := step.Check
		if check == nil {
			check = succeeds
		}
		if checkErr := check(out, err); checkErr != nil {
			logger.Warn("selftest step failed", "step", i+1, "action", step.String(), "err", checkErr)
			return results, fmt.Errorf("step %d (%s): %w", i+1, step, checkErr)
		}
		logger.Debug("selftest step ok", "step", i+1, "action", step.String(), "duration", res.Duration)
	}
	return results, nil
}
