package schema

// ResultKind classifies the rows of a search result set.
type ResultKind string

const (
	// ResultTrack marks single-song results.
	ResultTrack ResultKind = "track"
	// ResultPlaylist marks playlist results.
	ResultPlaylist ResultKind = "playlist"
	// ResultAlbum marks album results.
	ResultAlbum ResultKind = "album"
)

// Label returns the plural display name used in listings.
func (k ResultKind) Label() string {
	switch k {
	case ResultTrack:
		return "songs"
	case ResultPlaylist:
		return "playlists"
	case ResultAlbum:
		return "albums"
	default:
		return string(k)
	}
}

// Field is one labelled, kind-specific column of a search row.
type Field struct {
	Label string
	Value string
}

// SearchHit is the display data of one rendered search row.
type SearchHit struct {
	Index  string
	Name   string
	Fields []Field
}

// SearchListing is the outcome of a kind-specific search.
type SearchListing struct {
	Keyword string
	Kind    ResultKind
	// Count is the total reported by the results prompt; zero when none was shown.
	Count int
	Hits  []SearchHit
}

// Empty reports whether the search produced no rows.
func (l SearchListing) Empty() bool {
	return len(l.Hits) == 0
}

// NowPlaying describes the track shown in the mini player bar.
type NowPlaying struct {
	Title   string
	Artists string
}

// StatusOK is the status token returned by state-changing actions.
const StatusOK = "OK"
