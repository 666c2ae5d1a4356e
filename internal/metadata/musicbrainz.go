// file: internal/metadata/musicbrainz.go
// version: 1.3.1
// guid: d4e5f6a7-b8c9-0d1e-2f3a-4b5c6d7e8f9a

package metadata

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// MusicBrainzClient walks the MusicBrainz recording→work→composer graph.
// MusicBrainz requires a contact User-Agent and throttles anonymous clients
// to about one request per second, so every call goes through the pacer.
type MusicBrainzClient struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	pacer      *Pacer
}

// NewMusicBrainzClient creates a new MusicBrainz web-service client.
func NewMusicBrainzClient(contact string, pacer *Pacer) *MusicBrainzClient {
	baseURL := os.Getenv("MUSICBRAINZ_BASE_URL")
	if baseURL == "" {
		baseURL = "https://musicbrainz.org/ws/2"
	}
	return &MusicBrainzClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  fmt.Sprintf("Flexster/0.1.0 ( %s )", contact),
		pacer:      pacer,
	}
}

// NewMusicBrainzClientWithBaseURL creates a client with a custom base URL (for testing).
func NewMusicBrainzClientWithBaseURL(baseURL string) *MusicBrainzClient {
	return &MusicBrainzClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  "Flexster/0.1.0 ( test@example.com )",
		pacer:      NewPacer(0),
	}
}

// Name returns the display name for this metadata source.
func (c *MusicBrainzClient) Name() string {
	return "MusicBrainz"
}

type mbRecordingSearch struct {
	Recordings []mbEntity `json:"recordings"`
}

type mbWorkSearch struct {
	Works []mbEntity `json:"works"`
}

type mbEntity struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type mbArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type mbRelation struct {
	Type       string    `json:"type"`
	TargetType string    `json:"target-type"`
	Begin      string    `json:"begin"`
	Artist     *mbArtist `json:"artist"`
	Work       *mbEntity `json:"work"`
}

type mbEntityDetails struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Relations []mbRelation `json:"relations"`
	LifeSpan  *mbLifeSpan  `json:"life-span"`
}

type mbLifeSpan struct {
	Begin string `json:"begin"`
}

func (c *MusicBrainzClient) get(rawURL string, out interface{}) error {
	c.pacer.wait()

	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build MusicBrainz request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("MusicBrainz request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("MusicBrainz returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode MusicBrainz response: %w", err)
	}
	return nil
}

// SearchRecording searches for a recording by title and artist names using
// the Lucene query grammar: recording:"Title" AND artist:("A" OR "B").
// Returns the top recording ID or ErrNoResults.
func (c *MusicBrainzClient) SearchRecording(title string, artists []string) (string, error) {
	if len(artists) == 0 {
		return "", ErrNoResults
	}
	quoted := make([]string, 0, len(artists))
	for _, a := range artists {
		quoted = append(quoted, strconv.Quote(a))
	}
	query := fmt.Sprintf(`recording:%q AND artist:(%s)`, title, strings.Join(quoted, " OR "))

	params := url.Values{}
	params.Set("query", query)
	params.Set("fmt", "json")
	params.Set("limit", "1")

	var search mbRecordingSearch
	if err := c.get(fmt.Sprintf("%s/recording?%s", c.baseURL, params.Encode()), &search); err != nil {
		return "", err
	}
	if len(search.Recordings) == 0 {
		return "", ErrNoResults
	}
	return search.Recordings[0].ID, nil
}

// RecordingWork returns the ID of the work linked to a recording, or
// ErrNoResults when the recording has no work relation.
func (c *MusicBrainzClient) RecordingWork(recordingID string) (string, error) {
	params := url.Values{}
	params.Set("inc", "work-rels")
	params.Set("fmt", "json")

	var details mbEntityDetails
	u := fmt.Sprintf("%s/recording/%s?%s", c.baseURL, url.PathEscape(recordingID), params.Encode())
	if err := c.get(u, &details); err != nil {
		return "", err
	}
	for _, rel := range details.Relations {
		if rel.TargetType == "work" && rel.Work != nil {
			return rel.Work.ID, nil
		}
	}
	return "", ErrNoResults
}

// LookupWork fetches a work with its artist relations and extracts the
// composer name and, when available, a composition year: the work's
// life-span begin date, else the date of a premiere/performance relation.
func (c *MusicBrainzClient) LookupWork(workID string) (*WorkInfo, error) {
	params := url.Values{}
	params.Set("inc", "artist-rels")
	params.Set("fmt", "json")

	var details mbEntityDetails
	u := fmt.Sprintf("%s/work/%s?%s", c.baseURL, url.PathEscape(workID), params.Encode())
	if err := c.get(u, &details); err != nil {
		return nil, err
	}

	info := &WorkInfo{ID: details.ID, Title: details.Title}
	for _, rel := range details.Relations {
		if rel.Type == "composer" && rel.Artist != nil {
			info.Composer = rel.Artist.Name
			break
		}
	}

	if details.LifeSpan != nil && len(details.LifeSpan.Begin) >= 4 {
		info.CompositionYear = details.LifeSpan.Begin[:4]
	} else {
		for _, rel := range details.Relations {
			if (rel.Type == "premiere" || rel.Type == "performance") && len(rel.Begin) >= 4 {
				info.CompositionYear = rel.Begin[:4]
				break
			}
		}
	}
	return info, nil
}

// SearchWorks runs a free-text work search and returns up to limit work IDs.
func (c *MusicBrainzClient) SearchWorks(query string, limit int) ([]string, error) {
	if limit < 1 {
		limit = 3
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("fmt", "json")
	params.Set("limit", strconv.Itoa(limit))

	var search mbWorkSearch
	if err := c.get(fmt.Sprintf("%s/work?%s", c.baseURL, params.Encode()), &search); err != nil {
		return nil, err
	}
	if len(search.Works) == 0 {
		return nil, ErrNoResults
	}
	ids := make([]string, 0, len(search.Works))
	for _, w := range search.Works {
		ids = append(ids, w.ID)
	}
	return ids, nil
}
