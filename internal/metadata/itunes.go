// file: internal/metadata/itunes.go
// version: 1.2.0
// guid: c3d4e5f6-a7b8-9c0d-1e2f-3a4b5c6d7e8f

package metadata

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// ITunesClient fetches track metadata from the iTunes Search API.
// No API key is required; Apple documents a soft limit of ~20 req/min.
type ITunesClient struct {
	httpClient *http.Client
	baseURL    string
	pacer      *Pacer
}

// NewITunesClient creates a new iTunes Search API client.
func NewITunesClient(pacer *Pacer) *ITunesClient {
	baseURL := os.Getenv("ITUNES_BASE_URL")
	if baseURL == "" {
		baseURL = "https://itunes.apple.com"
	}
	return &ITunesClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		pacer:      pacer,
	}
}

// NewITunesClientWithBaseURL creates a client with a custom base URL (for testing).
func NewITunesClientWithBaseURL(baseURL string) *ITunesClient {
	return &ITunesClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		pacer:      NewPacer(0),
	}
}

// Name returns the display name for this metadata source.
func (c *ITunesClient) Name() string {
	return "iTunes Search"
}

type itunesResponse struct {
	ResultCount int           `json:"resultCount"`
	Results     []itunesTrack `json:"results"`
}

type itunesTrack struct {
	TrackName        string `json:"trackName"`
	ArtistName       string `json:"artistName"`
	CollectionName   string `json:"collectionName"`
	PrimaryGenreName string `json:"primaryGenreName"`
	ReleaseDate      string `json:"releaseDate"`
	TrackViewURL     string `json:"trackViewUrl"`
	Composer         string `json:"composer"`
}

// SearchTrack returns the top music hit for a free-text query, or
// ErrNoResults when the catalog has nothing.
func (c *ITunesClient) SearchTrack(query string) (*CatalogResult, error) {
	c.pacer.wait()

	params := url.Values{}
	params.Set("term", query)
	params.Set("media", "music")
	params.Set("limit", "1")
	searchURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())

	resp, err := c.httpClient.Get(searchURL)
	if err != nil {
		return nil, fmt.Errorf("failed to search iTunes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("iTunes API returned status %d", resp.StatusCode)
	}

	var itResp itunesResponse
	if err := json.NewDecoder(resp.Body).Decode(&itResp); err != nil {
		return nil, fmt.Errorf("failed to decode iTunes response: %w", err)
	}

	if itResp.ResultCount == 0 || len(itResp.Results) == 0 {
		return nil, ErrNoResults
	}

	track := itResp.Results[0]
	result := &CatalogResult{
		Title:    track.TrackName,
		Artist:   track.ArtistName,
		Composer: track.Composer,
		Album:    track.CollectionName,
		Genre:    track.PrimaryGenreName,
		Link:     track.TrackViewURL,
	}
	// releaseDate looks like "2011-01-24T08:00:00Z"
	if len(track.ReleaseDate) >= 4 {
		result.ReleaseYear = track.ReleaseDate[:4]
	}
	return result, nil
}
