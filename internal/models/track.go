// file: internal/models/track.go
// version: 1.1.0
// guid: 3f4a5b6c-7d8e-9f0a-1b2c-3d4e5f6a7b8c

package models

import "strconv"

// Sentinel values used when a source has no answer for a field.
const (
	UnknownTitle    = "Unknown Title"
	UnknownArtist   = "Unknown Artist"
	UnknownComposer = "Unknown Composer"
	UnknownAlbum    = "Unknown Album"
	UnknownGenre    = "Unknown Genre"
	UnknownYear     = "Unknown"
)

// TrackRecord is the reconciled metadata for a single free-text query.
// Year fields are strings because upstream services return truncated date
// text; empty means unknown.
type TrackRecord struct {
	Query           string `json:"query" db:"query"`
	Title           string `json:"title" db:"title"`
	Artist          string `json:"artist" db:"artist"`
	Composer        string `json:"composer" db:"composer"`
	Album           string `json:"album" db:"album"`
	Genre           string `json:"genre" db:"genre"`
	RecordingYear   string `json:"recording_year" db:"recording_year"`
	CompositionYear string `json:"composition_year" db:"composition_year"`
	CatalogURL      string `json:"catalog_url" db:"catalog_url"`
	StreamingURL    string `json:"streaming_url" db:"streaming_url"`
}

// HasComposer reports whether a real composer was resolved.
func (t *TrackRecord) HasComposer() bool {
	return t.Composer != "" && t.Composer != UnknownComposer
}

// CardLink returns the URL a flashcard QR code should encode for the given
// platform ("apple" or "spotify"). Falls back to the catalog link when the
// streaming link is missing.
func (t *TrackRecord) CardLink(platform string) string {
	if platform == "spotify" && t.StreamingURL != "" {
		return t.StreamingURL
	}
	return t.CatalogURL
}

// NormalizeYears enforces that the composition year never postdates the
// recording year. Classical repertoire regularly has a composition date
// centuries before the recording; the inverse means the two sources
// disagreed about which date they were reporting, so the values are swapped.
func (t *TrackRecord) NormalizeYears() {
	comp, err1 := strconv.Atoi(t.CompositionYear)
	rec, err2 := strconv.Atoi(t.RecordingYear)
	if err1 != nil || err2 != nil {
		return
	}
	if comp > rec {
		t.CompositionYear, t.RecordingYear = t.RecordingYear, t.CompositionYear
	}
}

// FillSentinels replaces empty display fields with their Unknown sentinels.
// Link and year fields are left empty so callers can tell "missing" apart
// from real values.
func (t *TrackRecord) FillSentinels() {
	if t.Title == "" {
		t.Title = UnknownTitle
	}
	if t.Artist == "" {
		t.Artist = UnknownArtist
	}
	if t.Composer == "" {
		t.Composer = UnknownComposer
	}
	if t.Album == "" {
		t.Album = UnknownAlbum
	}
	if t.Genre == "" {
		t.Genre = UnknownGenre
	}
}

// DisplayYear returns the recording year or the Unknown sentinel.
func (t *TrackRecord) DisplayYear() string {
	if t.RecordingYear == "" {
		return UnknownYear
	}
	return t.RecordingYear
}
