// file: internal/metadata/resolve.go
// version: 1.4.0
// guid: a7b8c9d0-e1f2-3a4b-5c6d-7e8f9a0b1c2d

package metadata

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/jdfalk/flexster/internal/cache"
	"github.com/jdfalk/flexster/internal/config"
	"github.com/jdfalk/flexster/internal/matcher"
	"github.com/jdfalk/flexster/internal/metrics"
	"github.com/jdfalk/flexster/internal/models"
	"github.com/schollz/progressbar/v3"
)

// workSearchLimit caps how many work candidates the free-text fallback
// inspects. Each candidate costs a paced lookup.
const workSearchLimit = 3

// Resolver reconciles answers from the catalog, encyclopedia, knowledge
// graph, and streaming sources into one TrackRecord per query. Sources are
// tried in a fixed order and the first usable answer wins per field; a
// failing source is logged and skipped, never fatal.
type Resolver struct {
	catalog      CatalogSource
	encyclopedia EncyclopediaSource
	inception    InceptionSource
	streaming    StreamingSource

	works *cache.Cache[*WorkInfo]
	years *cache.Cache[string]
}

// NewResolver wires a resolver from explicit sources. Streaming and
// inception sources may be nil; the corresponding fields stay empty.
func NewResolver(catalog CatalogSource, encyclopedia EncyclopediaSource, inception InceptionSource, streaming StreamingSource) *Resolver {
	return &Resolver{
		catalog:      catalog,
		encyclopedia: encyclopedia,
		inception:    inception,
		streaming:    streaming,
		works:        cache.New[*WorkInfo](time.Hour),
		years:        cache.New[string](time.Hour),
	}
}

// NewDefaultResolver builds a resolver against the real services, with one
// pacer per remote host.
func NewDefaultResolver(cfg config.Config) *Resolver {
	return NewResolver(
		NewITunesClient(NewPacer(cfg.RequestInterval)),
		NewMusicBrainzClient(cfg.Contact, NewPacer(cfg.RequestInterval)),
		NewWikidataClient(NewPacer(cfg.RequestInterval)),
		NewSpotifyClient(cfg.APIKeys.SpotifyClientID, cfg.APIKeys.SpotifyClientSecret, NewPacer(cfg.RequestInterval)),
	)
}

// Resolve turns one free-text query into a TrackRecord. It fails only when
// the catalog search itself comes back empty; every later source is
// best-effort enrichment.
func (r *Resolver) Resolve(query string) (*models.TrackRecord, error) {
	start := time.Now()
	defer func() { metrics.ObserveResolveDuration(time.Since(start)) }()

	hit, err := r.catalog.SearchTrack(query)
	if err != nil {
		if errors.Is(err, ErrNoResults) {
			log.Printf("[WARN] resolve: no catalog results for %q", query)
			metrics.IncSourceMiss(r.catalog.Name())
		} else {
			log.Printf("[ERROR] resolve: catalog lookup failed for %q: %v", query, err)
			metrics.IncSourceError(r.catalog.Name())
		}
		metrics.IncRecordFailed()
		return nil, err
	}
	metrics.IncSourceHit(r.catalog.Name())

	record := &models.TrackRecord{
		Query:         query,
		Title:         hit.Title,
		Artist:        hit.Artist,
		Composer:      hit.Composer,
		Album:         hit.Album,
		Genre:         hit.Genre,
		RecordingYear: hit.ReleaseYear,
		CatalogURL:    hit.Link,
	}

	var work *WorkInfo
	if record.Composer == "" {
		log.Printf("[INFO] resolve: composer missing in catalog for %q by %q, trying encyclopedia", record.Title, record.Artist)
		work = r.composerFromRecording(record.Title, record.Artist)
		if work == nil {
			work = r.composerFromWorkSearch(query, record.Artist)
		}
		if work != nil && work.Composer != "" {
			record.Composer = work.Composer
			metrics.IncSourceHit(r.encyclopedia.Name())
		} else {
			metrics.IncSourceMiss(r.encyclopedia.Name())
		}
	}

	record.CompositionYear = r.compositionYear(record, work)
	record.StreamingURL = r.streamingLink(record.Title, record.Artist)

	record.NormalizeYears()
	record.FillSentinels()
	metrics.IncRecordResolved()
	return record, nil
}

// composerFromRecording walks recording→work→composer for each title
// variant, returning on the first work that names a composer.
func (r *Resolver) composerFromRecording(title, artist string) *WorkInfo {
	artists := matcher.SplitArtists(artist)
	if len(artists) == 0 {
		return nil
	}

	for _, variant := range matcher.TitleVariants(title) {
		recordingID, err := r.encyclopedia.SearchRecording(variant, artists)
		if err != nil {
			r.logLookupMiss("recording search", variant, err)
			continue
		}
		workID, err := r.encyclopedia.RecordingWork(recordingID)
		if err != nil {
			r.logLookupMiss("work relation", variant, err)
			continue
		}
		work, err := r.lookupWorkCached(workID)
		if err != nil {
			r.logLookupMiss("work lookup", workID, err)
			continue
		}
		if work.Composer != "" {
			return work
		}
	}
	return nil
}

// composerFromWorkSearch free-text searches works with the original query
// and accepts a candidate only when its composer plausibly belongs to the
// query (name overlap with the artist, or a distinctive name part in the
// query text).
func (r *Resolver) composerFromWorkSearch(query, artist string) *WorkInfo {
	workIDs, err := r.encyclopedia.SearchWorks(query, workSearchLimit)
	if err != nil {
		r.logLookupMiss("work search", query, err)
		return nil
	}
	for _, workID := range workIDs {
		work, err := r.lookupWorkCached(workID)
		if err != nil {
			r.logLookupMiss("work lookup", workID, err)
			continue
		}
		if work.Composer == "" {
			continue
		}
		if matcher.AcceptComposer(work.Composer, artist, query) {
			return work
		}
		log.Printf("[DEBUG] resolve: rejected composer %q for query %q", work.Composer, query)
	}
	return nil
}

// compositionYear prefers the encyclopedia's work dates, then falls back to
// the knowledge graph. Lookup failures leave the year empty.
func (r *Resolver) compositionYear(record *models.TrackRecord, work *WorkInfo) string {
	if work != nil && work.CompositionYear != "" {
		return work.CompositionYear
	}
	if r.inception == nil {
		return ""
	}

	// Strip the catalog's parenthetical noise before searching an
	// encyclopedia, e.g. "A Love Supreme (Acknowledgment)".
	variants := matcher.TitleVariants(record.Title)
	title := variants[len(variants)-1]

	composer := record.Composer
	if composer == models.UnknownComposer {
		composer = ""
	}

	year, err := r.years.GetOrFill(title+"|"+composer, func() (string, error) {
		return r.inception.CompositionYear(title, composer)
	})
	if err != nil {
		if errors.Is(err, ErrNoResults) {
			metrics.IncSourceMiss(r.inception.Name())
		} else {
			log.Printf("[WARN] resolve: composition year lookup failed for %q: %v", title, err)
			metrics.IncSourceError(r.inception.Name())
		}
		return ""
	}
	metrics.IncSourceHit(r.inception.Name())
	return year
}

func (r *Resolver) streamingLink(title, artist string) string {
	if r.streaming == nil {
		return ""
	}
	link, err := r.streaming.TrackLink(title, artist)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoCredentials):
			log.Printf("[DEBUG] resolve: skipping streaming link: %v", err)
		case errors.Is(err, ErrNoResults):
			metrics.IncSourceMiss(r.streaming.Name())
		default:
			log.Printf("[WARN] resolve: streaming link lookup failed for %q: %v", title, err)
			metrics.IncSourceError(r.streaming.Name())
		}
		return ""
	}
	metrics.IncSourceHit(r.streaming.Name())
	return link
}

func (r *Resolver) lookupWorkCached(workID string) (*WorkInfo, error) {
	return r.works.GetOrFill(workID, func() (*WorkInfo, error) {
		return r.encyclopedia.LookupWork(workID)
	})
}

func (r *Resolver) logLookupMiss(stage, subject string, err error) {
	if errors.Is(err, ErrNoResults) {
		log.Printf("[DEBUG] resolve: %s: nothing for %q", stage, subject)
		return
	}
	log.Printf("[WARN] resolve: %s failed for %q: %v", stage, subject, err)
	metrics.IncSourceError(r.encyclopedia.Name())
}

// FetchAll resolves queries sequentially (the pacers make parallelism
// pointless) and returns the records that resolved. Failed queries are
// logged and dropped.
func (r *Resolver) FetchAll(ctx context.Context, queries []string) ([]models.TrackRecord, error) {
	log.Printf("[INFO] resolve: starting metadata fetch for %d queries", len(queries))
	bar := progressbar.Default(int64(len(queries)))

	records := make([]models.TrackRecord, 0, len(queries))
	for _, query := range queries {
		select {
		case <-ctx.Done():
			return records, ctx.Err()
		default:
		}

		log.Printf("[INFO] resolve: processing %q", query)
		record, err := r.Resolve(query)
		if err != nil {
			log.Printf("[WARN] resolve: could not resolve %q", query)
		} else {
			records = append(records, *record)
		}
		bar.Add(1)
	}
	return records, nil
}
