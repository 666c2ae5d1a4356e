// file: internal/metadata/wikidata_test.go
// version: 1.0.0
// guid: d0e1f2a3-b4c5-6d7e-8f9a-0b1c2d3e4f5a

package metadata

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeWikiServers returns paired Wikipedia and Wikidata fakes. The Wikipedia
// search intentionally lists the non-musical article first so the test
// exercises the candidate re-ranking.
func fakeWikiServers(t *testing.T, inceptionJSON, publicationJSON string) (*httptest.Server, *httptest.Server) {
	t.Helper()
	wikipedia := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("action") {
		case "query":
			if r.URL.Query().Get("list") == "search" {
				_, _ = w.Write([]byte(`{"query": {"search": [
					{"title": "Julius Caesar", "pageid": 1},
					{"title": "Giulio Cesare (opera)", "pageid": 2}
				]}}`))
				return
			}
			title := r.URL.Query().Get("titles")
			if title != "Giulio Cesare (opera)" {
				t.Errorf("expected the opera article to be resolved, got %q", title)
			}
			_, _ = w.Write([]byte(`{"query": {"pages": {"2": {"pageprops": {"wikibase_item": "Q1317558"}}}}}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))

	wikidata := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") != "wbgetclaims" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		switch r.URL.Query().Get("property") {
		case propInception:
			_, _ = w.Write([]byte(inceptionJSON))
		case propPublicationDate:
			_, _ = w.Write([]byte(publicationJSON))
		default:
			_, _ = w.Write([]byte(`{"claims": {}}`))
		}
	}))
	return wikipedia, wikidata
}

func claimJSON(property, timestamp string) string {
	return `{"claims": {"` + property + `": [{"mainsnak": {"datavalue": {"value": {"time": "` + timestamp + `"}}}}]}}`
}

func TestWikidataClient_CompositionYear_Inception(t *testing.T) {
	wikipedia, wikidata := fakeWikiServers(t,
		claimJSON(propInception, "+1724-02-20T00:00:00Z"),
		`{"claims": {}}`)
	defer wikipedia.Close()
	defer wikidata.Close()

	client := NewWikidataClientWithBaseURLs(wikipedia.URL, wikidata.URL)
	year, err := client.CompositionYear("Giulio Cesare opera", "George Frideric Handel")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if year != "1724" {
		t.Errorf("expected 1724, got %q", year)
	}
}

func TestWikidataClient_CompositionYear_PublicationFallback(t *testing.T) {
	wikipedia, wikidata := fakeWikiServers(t,
		`{"claims": {}}`,
		claimJSON(propPublicationDate, "+1725-01-01T00:00:00Z"))
	defer wikipedia.Close()
	defer wikidata.Close()

	client := NewWikidataClientWithBaseURLs(wikipedia.URL, wikidata.URL)
	year, err := client.CompositionYear("Giulio Cesare opera", "George Frideric Handel")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if year != "1725" {
		t.Errorf("expected publication fallback 1725, got %q", year)
	}
}

func TestWikidataClient_CompositionYear_NoClaims(t *testing.T) {
	wikipedia, wikidata := fakeWikiServers(t, `{"claims": {}}`, `{"claims": {}}`)
	defer wikipedia.Close()
	defer wikidata.Close()

	client := NewWikidataClientWithBaseURLs(wikipedia.URL, wikidata.URL)
	_, err := client.CompositionYear("Giulio Cesare opera", "George Frideric Handel")
	if !errors.Is(err, ErrNoResults) {
		t.Errorf("expected ErrNoResults, got %v", err)
	}
}

func TestWikidataClient_NoSearchHits(t *testing.T) {
	wikipedia := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"query": {"search": []}}`))
	}))
	defer wikipedia.Close()

	client := NewWikidataClientWithBaseURLs(wikipedia.URL, wikipedia.URL)
	_, err := client.CompositionYear("xyzzy", "")
	if !errors.Is(err, ErrNoResults) {
		t.Errorf("expected ErrNoResults, got %v", err)
	}
}

func TestTruncateToYear(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+1724-02-20T00:00:00Z", "1724"},
		{"-0044-03-15T00:00:00Z", "0044"},
		{"+2011-00-00T00:00:00Z", "2011"},
		{"bad", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := truncateToYear(tt.in); got != tt.want {
			t.Errorf("truncateToYear(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// Verify interface compliance
var _ InceptionSource = (*WikidataClient)(nil)
