// file: internal/metadata/spotify.go
// version: 1.1.0
// guid: f6a7b8c9-d0e1-2f3a-4b5c-6d7e8f9a0b1c

package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"
)

// ErrNoCredentials is returned when the Spotify client ID/secret are not
// configured. The resolver treats it as "no answer", same as any other miss.
var ErrNoCredentials = errors.New("spotify credentials not configured")

// SpotifyClient resolves tracks to Spotify links via the Web API using the
// client-credentials flow. The app token is cached until shortly before it
// expires.
type SpotifyClient struct {
	httpClient   *http.Client
	authURL      string
	apiURL       string
	clientID     string
	clientSecret string
	pacer        *Pacer

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewSpotifyClient creates a new Spotify Web API client.
func NewSpotifyClient(clientID, clientSecret string, pacer *Pacer) *SpotifyClient {
	authURL := os.Getenv("SPOTIFY_AUTH_BASE_URL")
	if authURL == "" {
		authURL = "https://accounts.spotify.com"
	}
	apiURL := os.Getenv("SPOTIFY_API_BASE_URL")
	if apiURL == "" {
		apiURL = "https://api.spotify.com"
	}
	return &SpotifyClient{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		authURL:      strings.TrimRight(authURL, "/"),
		apiURL:       strings.TrimRight(apiURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		pacer:        pacer,
	}
}

// NewSpotifyClientWithBaseURLs creates a client with custom endpoints (for testing).
func NewSpotifyClientWithBaseURLs(authURL, apiURL, clientID, clientSecret string) *SpotifyClient {
	return &SpotifyClient{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		authURL:      strings.TrimRight(authURL, "/"),
		apiURL:       strings.TrimRight(apiURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		pacer:        NewPacer(0),
	}
}

// Name returns the display name for this metadata source.
func (c *SpotifyClient) Name() string {
	return "Spotify"
}

type spotifyTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type spotifySearchResponse struct {
	Tracks struct {
		Items []struct {
			ExternalURLs struct {
				Spotify string `json:"spotify"`
			} `json:"external_urls"`
		} `json:"items"`
	} `json:"tracks"`
}

func (c *SpotifyClient) accessToken() (string, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return "", ErrNoCredentials
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	c.pacer.wait()
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	req, err := http.NewRequest(http.MethodPost, c.authURL+"/api/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build Spotify token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("Spotify token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Spotify token endpoint returned status %d", resp.StatusCode)
	}

	var tok spotifyTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("failed to decode Spotify token: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("Spotify token endpoint returned empty token")
	}

	c.token = tok.AccessToken
	// Renew a minute early to avoid using a token mid-expiry.
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - time.Minute)
	return c.token, nil
}

// TrackLink searches Spotify for "title artist" and returns the top hit's
// external URL, or ErrNoResults.
func (c *SpotifyClient) TrackLink(title, artist string) (string, error) {
	token, err := c.accessToken()
	if err != nil {
		return "", err
	}

	c.pacer.wait()
	params := url.Values{}
	params.Set("q", strings.TrimSpace(title+" "+artist))
	params.Set("type", "track")
	params.Set("limit", "1")

	req, err := http.NewRequest(http.MethodGet, c.apiURL+"/v1/search?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build Spotify search request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("Spotify search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Spotify search returned status %d", resp.StatusCode)
	}

	var search spotifySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&search); err != nil {
		return "", fmt.Errorf("failed to decode Spotify search response: %w", err)
	}
	if len(search.Tracks.Items) == 0 || search.Tracks.Items[0].ExternalURLs.Spotify == "" {
		return "", ErrNoResults
	}
	return search.Tracks.Items[0].ExternalURLs.Spotify, nil
}
