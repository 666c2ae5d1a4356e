// file: internal/metadata/wikidata.go
// version: 1.1.0
// guid: e5f6a7b8-c9d0-1e2f-3a4b-5c6d7e8f9a0b

package metadata

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/jdfalk/flexster/internal/matcher"
)

// Wikidata property IDs.
const (
	propInception       = "P571"
	propPublicationDate = "P577"
)

// WikidataClient infers a work's composition year when MusicBrainz has none:
// it searches Wikipedia for the work, resolves the best-scored article to its
// Wikidata entity, and reads the inception or publication date claim.
type WikidataClient struct {
	httpClient   *http.Client
	wikipediaURL string
	wikidataURL  string
	pacer        *Pacer
}

// NewWikidataClient creates a new Wikipedia/Wikidata client.
func NewWikidataClient(pacer *Pacer) *WikidataClient {
	wikipediaURL := os.Getenv("WIKIPEDIA_BASE_URL")
	if wikipediaURL == "" {
		wikipediaURL = "https://en.wikipedia.org/w/api.php"
	}
	wikidataURL := os.Getenv("WIKIDATA_BASE_URL")
	if wikidataURL == "" {
		wikidataURL = "https://www.wikidata.org/w/api.php"
	}
	return &WikidataClient{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		wikipediaURL: wikipediaURL,
		wikidataURL:  wikidataURL,
		pacer:        pacer,
	}
}

// NewWikidataClientWithBaseURLs creates a client with custom endpoints (for testing).
func NewWikidataClientWithBaseURLs(wikipediaURL, wikidataURL string) *WikidataClient {
	return &WikidataClient{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		wikipediaURL: wikipediaURL,
		wikidataURL:  wikidataURL,
		pacer:        NewPacer(0),
	}
}

// Name returns the display name for this metadata source.
func (c *WikidataClient) Name() string {
	return "Wikidata"
}

type wikiSearchResponse struct {
	Query struct {
		Search []wikiSearchHit `json:"search"`
	} `json:"query"`
}

type wikiSearchHit struct {
	Title  string `json:"title"`
	PageID int    `json:"pageid"`
}

type wikiPagePropsResponse struct {
	Query struct {
		Pages map[string]struct {
			PageProps struct {
				WikibaseItem string `json:"wikibase_item"`
			} `json:"pageprops"`
		} `json:"pages"`
	} `json:"query"`
}

type wikidataClaimsResponse struct {
	Claims map[string][]struct {
		Mainsnak struct {
			Datavalue struct {
				Value struct {
					Time string `json:"time"`
				} `json:"value"`
			} `json:"datavalue"`
		} `json:"mainsnak"`
	} `json:"claims"`
}

func (c *WikidataClient) get(rawURL string, out interface{}) error {
	c.pacer.wait()

	resp, err := c.httpClient.Get(rawURL)
	if err != nil {
		return fmt.Errorf("wiki request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wiki endpoint returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode wiki response: %w", err)
	}
	return nil
}

// CompositionYear resolves the work to a Wikidata entity and returns the
// 4-digit year of its inception claim, falling back to the publication date
// claim. Returns ErrNoResults when nothing usable is found.
func (c *WikidataClient) CompositionYear(work, composer string) (string, error) {
	title, err := c.bestArticle(work, composer)
	if err != nil {
		return "", err
	}

	entity, err := c.entityForArticle(title)
	if err != nil {
		return "", err
	}

	for _, prop := range []string{propInception, propPublicationDate} {
		year, err := c.claimYear(entity, prop)
		if err == nil {
			return year, nil
		}
		if err != ErrNoResults {
			return "", err
		}
	}
	return "", ErrNoResults
}

// bestArticle searches Wikipedia and picks the candidate scored highest by
// the matcher (genre keywords and composer name parts break ties that raw
// search relevance gets wrong, e.g. the Roman consul vs. Handel's opera).
func (c *WikidataClient) bestArticle(work, composer string) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", work)
	params.Set("srlimit", "5")
	params.Set("format", "json")

	var search wikiSearchResponse
	if err := c.get(c.wikipediaURL+"?"+params.Encode(), &search); err != nil {
		return "", err
	}
	if len(search.Query.Search) == 0 {
		return "", ErrNoResults
	}

	titles := make([]string, 0, len(search.Query.Search))
	for _, hit := range search.Query.Search {
		titles = append(titles, hit.Title)
	}
	ranked := matcher.RankCandidates(work, composer, titles)
	if len(ranked) == 0 {
		log.Printf("[DEBUG] wikidata: no candidate scored for %q, keeping search order", work)
		return titles[0], nil
	}
	return titles[ranked[0].Index], nil
}

// entityForArticle maps a Wikipedia article title to its Wikidata item ID.
func (c *WikidataClient) entityForArticle(title string) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "pageprops")
	params.Set("ppprop", "wikibase_item")
	params.Set("titles", title)
	params.Set("format", "json")

	var props wikiPagePropsResponse
	if err := c.get(c.wikipediaURL+"?"+params.Encode(), &props); err != nil {
		return "", err
	}
	for _, page := range props.Query.Pages {
		if page.PageProps.WikibaseItem != "" {
			return page.PageProps.WikibaseItem, nil
		}
	}
	return "", ErrNoResults
}

// claimYear reads a date-valued claim and truncates it to a 4-digit year.
func (c *WikidataClient) claimYear(entity, property string) (string, error) {
	params := url.Values{}
	params.Set("action", "wbgetclaims")
	params.Set("entity", entity)
	params.Set("property", property)
	params.Set("format", "json")

	var claims wikidataClaimsResponse
	if err := c.get(c.wikidataURL+"?"+params.Encode(), &claims); err != nil {
		return "", err
	}
	for _, claim := range claims.Claims[property] {
		if year := truncateToYear(claim.Mainsnak.Datavalue.Value.Time); year != "" {
			return year, nil
		}
	}
	return "", ErrNoResults
}

// truncateToYear extracts a 4-digit year from a Wikidata timestamp such as
// "+1724-02-20T00:00:00Z". BCE timestamps keep their positive digits.
func truncateToYear(ts string) string {
	ts = strings.TrimLeft(ts, "+-")
	if len(ts) < 4 {
		return ""
	}
	year := ts[:4]
	for _, r := range year {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return year
}
