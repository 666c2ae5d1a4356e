// file: internal/metadata/itunes_test.go
// version: 1.0.0
// guid: b8c9d0e1-f2a3-4b5c-6d7e-8f9a0b1c2d3e

package metadata

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestITunesClient_Name(t *testing.T) {
	c := NewITunesClient(NewPacer(0))
	if c.Name() != "iTunes Search" {
		t.Errorf("expected 'iTunes Search', got %q", c.Name())
	}
}

func TestITunesClient_SearchTrack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if got := r.URL.Query().Get("media"); got != "music" {
			t.Errorf("expected media=music, got %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "1" {
			t.Errorf("expected limit=1, got %q", got)
		}
		_, _ = w.Write([]byte(`{
			"resultCount": 1,
			"results": [{
				"trackName": "Bohemian Rhapsody",
				"artistName": "Queen",
				"collectionName": "A Night at the Opera",
				"primaryGenreName": "Rock",
				"releaseDate": "1975-11-21T08:00:00Z",
				"trackViewUrl": "https://music.apple.com/us/album/x?i=1",
				"composer": "Freddie Mercury"
			}]
		}`))
	}))
	defer server.Close()

	client := NewITunesClientWithBaseURL(server.URL)
	result, err := client.SearchTrack("Bohemian Rhapsody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Title != "Bohemian Rhapsody" {
		t.Errorf("expected title, got %q", result.Title)
	}
	if result.Artist != "Queen" {
		t.Errorf("expected artist Queen, got %q", result.Artist)
	}
	if result.ReleaseYear != "1975" {
		t.Errorf("expected release year 1975, got %q", result.ReleaseYear)
	}
	if result.Composer != "Freddie Mercury" {
		t.Errorf("expected composer, got %q", result.Composer)
	}
	if result.Link != "https://music.apple.com/us/album/x?i=1" {
		t.Errorf("expected track link, got %q", result.Link)
	}
}

func TestITunesClient_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"resultCount": 0, "results": []}`))
	}))
	defer server.Close()

	client := NewITunesClientWithBaseURL(server.URL)
	_, err := client.SearchTrack("definitely not a song")
	if !errors.Is(err, ErrNoResults) {
		t.Errorf("expected ErrNoResults, got %v", err)
	}
}

func TestITunesClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewITunesClientWithBaseURL(server.URL)
	_, err := client.SearchTrack("test")
	if err == nil || errors.Is(err, ErrNoResults) {
		t.Errorf("expected transport error on 503, got %v", err)
	}
}

// Verify interface compliance
var _ CatalogSource = (*ITunesClient)(nil)
