package actions

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"pkt.systems/ncmctl/schema"
)

// Controller is the player surface the action table drives.
type Controller interface {
	HasActivePlaylist(ctx context.Context) (bool, error)
	IsPlaying(ctx context.Context) (bool, error)
	Resume(ctx context.Context) (string, error)
	Pause(ctx context.Context) (string, error)
	Previous(ctx context.Context) (string, error)
	Next(ctx context.Context) (string, error)
	IsLiked(ctx context.Context) (bool, error)
	Like(ctx context.Context) (string, error)
	Unlike(ctx context.Context) (string, error)
	GetVolume(ctx context.Context) (int, error)
	SetVolume(ctx context.Context, volume int) (string, error)
	GetCurrentPlayingMusic(ctx context.Context) (string, error)
	ClearPlaylist(ctx context.Context) (string, error)
	PlayDailyMusicList(ctx context.Context) (string, error)
	SearchMusic(ctx context.Context, keyword string) (string, error)
	SearchMusicList(ctx context.Context, keyword string) (string, error)
	SearchAlbum(ctx context.Context, keyword string) (string, error)
	PlayInSearchResult(ctx context.Context, index string) (string, error)
	PlayAllInSearchResult(ctx context.Context) (string, error)
}

// ParamKind describes how a raw argument is parsed.
type ParamKind int

const (
	// ParamNone marks an action without arguments.
	ParamNone ParamKind = iota
	// ParamInt is a base-10 integer argument.
	ParamInt
	// ParamString is a free-form string argument.
	ParamString
)

// Param describes the single argument an action accepts.
type Param struct {
	Name        string
	Description string
	Kind        ParamKind
}

// Action is one named controller operation.
type Action struct {
	Name        string
	Description string
	Param       Param
	run         func(ctx context.Context, c Controller, arg Arg) (string, error)
}

// Arg is a parsed action argument.
type Arg struct {
	Int    int
	String string
}

// TakesArg reports whether the action requires an argument.
func (a Action) TakesArg() bool {
	return a.Param.Kind != ParamNone
}

// Usage renders a one-line synopsis such as "set_volume <volume>".
func (a Action) Usage() string {
	if !a.TakesArg() {
		return a.Name
	}
	return a.Name + " <" + a.Param.Name + ">"
}

// ParseArg converts raw command-line style arguments to an Arg.
func (a Action) ParseArg(args []string) (Arg, error) {
	if !a.TakesArg() {
		if len(args) > 0 {
			return Arg{}, fmt.Errorf("%s takes no arguments: %w", a.Name, schema.ErrInvalidArgument)
		}
		return Arg{}, nil
	}
	if len(args) == 0 {
		return Arg{}, fmt.Errorf("%s requires %s: %w", a.Name, a.Param.Name, schema.ErrInvalidArgument)
	}
	switch a.Param.Kind {
	case ParamInt:
		if len(args) != 1 {
			return Arg{}, fmt.Errorf("%s takes one %s: %w", a.Name, a.Param.Name, schema.ErrInvalidArgument)
		}
		n, err := strconv.Atoi(strings.TrimSpace(args[0]))
		if err != nil {
			return Arg{}, fmt.Errorf("%s %q is not a number: %w", a.Param.Name, args[0], schema.ErrInvalidArgument)
		}
		return Arg{Int: n}, nil
	default:
		value := strings.TrimSpace(strings.Join(args, " "))
		if value == "" {
			return Arg{}, fmt.Errorf("%s requires %s: %w", a.Name, a.Param.Name, schema.ErrInvalidArgument)
		}
		return Arg{String: value}, nil
	}
}

func boolText(v bool) string {
	return strconv.FormatBool(v)
}

func noArg(fn func(Controller, context.Context) (string, error)) func(context.Context, Controller, Arg) (string, error) {
	return func(ctx context.Context, c Controller, _ Arg) (string, error) {
		return fn(c, ctx)
	}
}

func query(fn func(Controller, context.Context) (bool, error)) func(context.Context, Controller, Arg) (string, error) {
	return func(ctx context.Context, c Controller, _ Arg) (string, error) {
		v, err := fn(c, ctx)
		if err != nil {
			return "", err
		}
		return boolText(v), nil
	}
}

func keyword(fn func(Controller, context.Context, string) (string, error)) func(context.Context, Controller, Arg) (string, error) {
	return func(ctx context.Context, c Controller, arg Arg) (string, error) {
		return fn(c, ctx, arg.String)
	}
}

var keywordParam = Param{Name: "keyword", Description: "Search keyword", Kind: ParamString}

var table = []Action{
	{Name: "has_active_playlist", Description: "Report whether a playlist is loaded in the player", run: query(Controller.HasActivePlaylist)},
	{Name: "is_playing", Description: "Report whether playback is running", run: query(Controller.IsPlaying)},
	{Name: "resume", Description: "Resume playback", run: noArg(Controller.Resume)},
	{Name: "pause", Description: "Pause playback", run: noArg(Controller.Pause)},
	{Name: "previous", Description: "Skip to the previous track", run: noArg(Controller.Previous)},
	{Name: "next", Description: "Skip to the next track", run: noArg(Controller.Next)},
	{Name: "is_liked", Description: "Report whether the current track is liked", run: query(Controller.IsLiked)},
	{Name: "like", Description: "Like the current track", run: noArg(Controller.Like)},
	{Name: "unlike", Description: "Remove the like from the current track", run: noArg(Controller.Unlike)},
	{
		Name:        "get_volume",
		Description: "Read the player volume as a percentage",
		run: func(ctx context.Context, c Controller, _ Arg) (string, error) {
			v, err := c.GetVolume(ctx)
			if err != nil {
				return "", err
			}
			return strconv.Itoa(v), nil
		},
	},
	{
		Name:        "set_volume",
		Description: "Set the player volume to a percentage between 0 and 100",
		Param:       Param{Name: "volume", Description: "Volume percentage, 0 to 100", Kind: ParamInt},
		run: func(ctx context.Context, c Controller, arg Arg) (string, error) {
			return c.SetVolume(ctx, arg.Int)
		},
	},
	{Name: "get_current_playing_music", Description: "Describe the track that is playing now", run: noArg(Controller.GetCurrentPlayingMusic)},
	{Name: "clear_playlist", Description: "Remove every track from the current playlist", run: noArg(Controller.ClearPlaylist)},
	{Name: "play_daily_music_list", Description: "Play the daily recommended songs", run: noArg(Controller.PlayDailyMusicList)},
	{Name: "search_music", Description: "Search songs and list the results", Param: keywordParam, run: keyword(Controller.SearchMusic)},
	{Name: "search_music_list", Description: "Search playlists and list the results", Param: keywordParam, run: keyword(Controller.SearchMusicList)},
	{Name: "search_album", Description: "Search albums and list the results", Param: keywordParam, run: keyword(Controller.SearchAlbum)},
	{
		Name:        "play_in_search_result",
		Description: "Play one entry of the last search by its display index",
		Param:       Param{Name: "index", Description: "Display index shown in the search listing, for example 01", Kind: ParamString},
		run: func(ctx context.Context, c Controller, arg Arg) (string, error) {
			return c.PlayInSearchResult(ctx, arg.String)
		},
	},
	{Name: "play_all_in_search_result", Description: "Play every song of the last song search", run: noArg(Controller.PlayAllInSearchResult)},
}

var byName = func() map[string]Action {
	out := make(map[string]Action, len(table))
	for _, a := range table {
		out[a.Name] = a
	}
	return out
}()

// All returns the action table in declaration order.
func All() []Action {
	out := make([]Action, len(table))
	copy(out, table)
	return out
}

// Lookup finds an action by name, case-insensitively.
func Lookup(name string) (Action, bool) {
	a, ok := byName[strings.ToLower(strings.TrimSpace(name))]
	return a, ok
}

// Names returns every action name sorted.
func Names() []string {
	out := make([]string, 0, len(table))
	for _, a := range table {
		out = append(out, a.Name)
	}
	sort.Strings(out)
	return out
}
