// file: internal/models/track_test.go
// version: 1.0.0
// guid: 4a5b6c7d-8e9f-0a1b-2c3d-4e5f6a7b8c9d

package models

import "testing"

func TestNormalizeYears_Swap(t *testing.T) {
	tr := TrackRecord{CompositionYear: "2011", RecordingYear: "1724"}
	tr.NormalizeYears()
	if tr.CompositionYear != "1724" || tr.RecordingYear != "2011" {
		t.Errorf("expected swap, got composition=%q recording=%q", tr.CompositionYear, tr.RecordingYear)
	}
}

func TestNormalizeYears_NoSwapWhenOrdered(t *testing.T) {
	tr := TrackRecord{CompositionYear: "1824", RecordingYear: "1963"}
	tr.NormalizeYears()
	if tr.CompositionYear != "1824" || tr.RecordingYear != "1963" {
		t.Errorf("years should be untouched, got composition=%q recording=%q", tr.CompositionYear, tr.RecordingYear)
	}
}

func TestNormalizeYears_NonNumeric(t *testing.T) {
	tr := TrackRecord{CompositionYear: "", RecordingYear: "1971"}
	tr.NormalizeYears()
	if tr.CompositionYear != "" || tr.RecordingYear != "1971" {
		t.Errorf("unknown composition year must not swap, got %+v", tr)
	}
}

func TestFillSentinels(t *testing.T) {
	tr := TrackRecord{Title: "Bohemian Rhapsody"}
	tr.FillSentinels()
	if tr.Composer != UnknownComposer {
		t.Errorf("expected %q, got %q", UnknownComposer, tr.Composer)
	}
	if tr.Artist != UnknownArtist {
		t.Errorf("expected %q, got %q", UnknownArtist, tr.Artist)
	}
	if tr.Title != "Bohemian Rhapsody" {
		t.Errorf("title must be preserved, got %q", tr.Title)
	}
	if tr.CatalogURL != "" {
		t.Errorf("links must stay empty, got %q", tr.CatalogURL)
	}
}

func TestCardLink(t *testing.T) {
	tr := TrackRecord{CatalogURL: "https://music.apple.com/x", StreamingURL: "https://open.spotify.com/track/y"}
	if got := tr.CardLink("spotify"); got != tr.StreamingURL {
		t.Errorf("expected streaming link, got %q", got)
	}
	if got := tr.CardLink("apple"); got != tr.CatalogURL {
		t.Errorf("expected catalog link, got %q", got)
	}
	tr.StreamingURL = ""
	if got := tr.CardLink("spotify"); got != tr.CatalogURL {
		t.Errorf("expected catalog fallback, got %q", got)
	}
}
