package schema

import "time"

// Selectors collects every CSS selector and marker used to drive the music client UI.
// All of them describe the current desktop client layout; a layout change is
// absorbed by overriding entries here instead of editing call sites.
type Selectors struct {
	// PlayButton matches the mini-bar play/pause button. Its parent holds the action bar.
	PlayButton string `mapstructure:"play_button" yaml:"play_button"`
	// ActionButtons matches the buttons inside the action bar container.
	ActionButtons string `mapstructure:"action_buttons" yaml:"action_buttons"`
	// PlayingMarker is the class fragment carried by the play slot while music plays.
	PlayingMarker string `mapstructure:"playing_marker" yaml:"playing_marker"`
	// LikedAttribute holds the like state of the like slot.
	LikedAttribute string `mapstructure:"liked_attribute" yaml:"liked_attribute"`
	// LikedMarker is the substring of LikedAttribute present when the track is liked.
	LikedMarker string `mapstructure:"liked_marker" yaml:"liked_marker"`

	VolumeTrigger string `mapstructure:"volume_trigger" yaml:"volume_trigger"`
	VolumeSlider  string `mapstructure:"volume_slider" yaml:"volume_slider"`
	// VolumeInput is scoped to VolumeSlider and carries the 0..1 value.
	VolumeInput string `mapstructure:"volume_input" yaml:"volume_input"`

	NowPlayingTitle   string `mapstructure:"now_playing_title" yaml:"now_playing_title"`
	NowPlayingArtists string `mapstructure:"now_playing_artists" yaml:"now_playing_artists"`
	PlaylistToggle    string `mapstructure:"playlist_toggle" yaml:"playlist_toggle"`
	PlaylistClear     string `mapstructure:"playlist_clear" yaml:"playlist_clear"`
	ConfirmButton     string `mapstructure:"confirm_button" yaml:"confirm_button"`
	DailyEntry        string `mapstructure:"daily_entry" yaml:"daily_entry"`
	DailyPlayAll      string `mapstructure:"daily_play_all" yaml:"daily_play_all"`

	SearchTrigger string `mapstructure:"search_trigger" yaml:"search_trigger"`
	SearchInput   string `mapstructure:"search_input" yaml:"search_input"`
	SearchPanel   string `mapstructure:"search_panel" yaml:"search_panel"`
	// SearchKeyword, SearchPrompt and SearchPlayAll are scoped to SearchPanel.
	SearchKeyword string `mapstructure:"search_keyword" yaml:"search_keyword"`
	SearchPrompt  string `mapstructure:"search_prompt" yaml:"search_prompt"`
	SearchPlayAll string `mapstructure:"search_play_all" yaml:"search_play_all"`

	Tracks    ResultSelectors `mapstructure:"tracks" yaml:"tracks"`
	Playlists ResultSelectors `mapstructure:"playlists" yaml:"playlists"`
	Albums    ResultSelectors `mapstructure:"albums" yaml:"albums"`
}

// ResultSelectors describes one result tab of the search panel. Row is scoped to
// the panel; Index, Name, Fields and Play are scoped to a row.
type ResultSelectors struct {
	Tab    string          `mapstructure:"tab" yaml:"tab"`
	Row    string          `mapstructure:"row" yaml:"row"`
	Index  string          `mapstructure:"index" yaml:"index"`
	Name   string          `mapstructure:"name" yaml:"name"`
	Fields []FieldSelector `mapstructure:"fields" yaml:"fields"`
	Play   string          `mapstructure:"play" yaml:"play"`
}

// FieldSelector extracts one labelled column of a result row.
type FieldSelector struct {
	Label    string `mapstructure:"label" yaml:"label"`
	Selector string `mapstructure:"selector" yaml:"selector"`
}

// For returns the result selectors of a kind.
func (s Selectors) For(kind ResultKind) (ResultSelectors, bool) {
	switch kind {
	case ResultTrack:
		return s.Tracks, true
	case ResultPlaylist:
		return s.Playlists, true
	case ResultAlbum:
		return s.Albums, true
	default:
		return ResultSelectors{}, false
	}
}

// DefaultSelectors returns the selectors matching the current desktop client.
func DefaultSelectors() Selectors {
	return Selectors{
		PlayButton:     "#btn_pc_minibar_play",
		ActionButtons:  "button",
		PlayingMarker:  "play-pause-btn",
		LikedAttribute: "data-log",
		LikedMarker:    `"0"`,

		VolumeTrigger: `button[data-log*="btn_pc_minibar_volume"]`,
		VolumeSlider:  `[class*="VolumnSlider_"]`,
		VolumeInput:   "input",

		NowPlayingTitle:   `[class*="MiniBar_"] [class*="songName"]`,
		NowPlayingArtists: `[class*="MiniBar_"] [class*="artists"]`,
		PlaylistToggle:    `button[data-log*="btn_pc_minibar_playlist"]`,
		PlaylistClear:     `[class*="PlayListDrawer_"] [data-log*="btn_clear_playlist"]`,
		ConfirmButton:     `[class*="Modal_"] button[class*="confirm"]`,
		DailyEntry:        `[data-log*="cell_pc_daily_recommend"]`,
		DailyPlayAll:      `[class*="DailyRecommend_"] button[data-log*="btn_play_all"]`,

		SearchTrigger: `[class*="SearchBar_"]`,
		SearchInput:   `[class*="SearchBar_"] input`,
		SearchPanel:   `[class*="SearchResult_"]`,
		SearchKeyword: `[class*="keyword"]`,
		SearchPrompt:  `[class*="resultCount"]`,
		SearchPlayAll: `button[data-log*="btn_play_all"]`,

		Tracks: ResultSelectors{
			Tab:   `[data-log*="tab_song"]`,
			Row:   `[class*="SongRow_"]`,
			Index: `[class*="index"]`,
			Name:  `[class*="title"]`,
			Fields: []FieldSelector{
				{Label: "Artists", Selector: `[class*="artists"]`},
				{Label: "Album", Selector: `[class*="album"]`},
			},
		},
		Playlists: ResultSelectors{
			Tab:   `[data-log*="tab_playlist"]`,
			Row:   `[class*="PlaylistRow_"]`,
			Index: `[class*="index"]`,
			Name:  `[class*="title"]`,
			Fields: []FieldSelector{
				{Label: "Tracks", Selector: `[class*="trackCount"]`},
				{Label: "Plays", Selector: `[class*="playCount"]`},
			},
			Play: `button[data-log*="btn_play"]`,
		},
		Albums: ResultSelectors{
			Tab:   `[data-log*="tab_album"]`,
			Row:   `[class*="AlbumRow_"]`,
			Index: `[class*="index"]`,
			Name:  `[class*="title"]`,
			Fields: []FieldSelector{
				{Label: "Artists", Selector: `[class*="artists"]`},
				{Label: "Published", Selector: `[class*="publishTime"]`},
			},
			Play: `button[data-log*="btn_play"]`,
		},
	}
}

// Timing bounds every wait the controller performs.
type Timing struct {
	// ElementTimeout bounds waits for flyouts, controls and result rows.
	ElementTimeout time.Duration
	// PollInterval is the delay between probe evaluations.
	PollInterval time.Duration
	// SearchTimeout bounds the wait for the results panel of a submitted keyword.
	SearchTimeout time.Duration
	// TabSettle is the pause after switching result tabs.
	TabSettle time.Duration
}

// DefaultTiming returns the timing used when none is configured.
func DefaultTiming() Timing {
	return Timing{
		ElementTimeout: time.Second,
		PollInterval:   100 * time.Millisecond,
		SearchTimeout:  5 * time.Second,
		TabSettle:      300 * time.Millisecond,
	}
}

// NormalizeTiming fills zero or negative durations with defaults.
func NormalizeTiming(t Timing) Timing {
	def := DefaultTiming()
	if t.ElementTimeout <= 0 {
		t.ElementTimeout = def.ElementTimeout
	}
	if t.PollInterval <= 0 {
		t.PollInterval = def.PollInterval
	}
	if t.SearchTimeout <= 0 {
		t.SearchTimeout = def.SearchTimeout
	}
	if t.TabSettle < 0 {
		t.TabSettle = 0
	}
	return t
}
