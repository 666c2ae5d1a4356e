// file: internal/metadata/source.go
// version: 2.0.0
// guid: a1b2c3d4-e5f6-7a8b-9c0d-e1f2a3b4c5d6

package metadata

import "errors"

// ErrNoResults is returned when a source answers successfully but has
// nothing matching the query.
var ErrNoResults = errors.New("no results")

// CatalogResult is the top hit from the commercial catalog search.
type CatalogResult struct {
	Title       string
	Artist      string
	Composer    string
	Album       string
	Genre       string
	ReleaseYear string
	Link        string
}

// WorkInfo is what the music encyclopedia knows about a composed work.
type WorkInfo struct {
	ID              string
	Title           string
	Composer        string
	CompositionYear string
}

// CatalogSource resolves a free-text query to a single best track hit.
type CatalogSource interface {
	Name() string
	SearchTrack(query string) (*CatalogResult, error)
}

// EncyclopediaSource exposes the recording→work→composer graph walk.
type EncyclopediaSource interface {
	Name() string
	SearchRecording(title string, artists []string) (string, error)
	RecordingWork(recordingID string) (string, error)
	LookupWork(workID string) (*WorkInfo, error)
	SearchWorks(query string, limit int) ([]string, error)
}

// InceptionSource infers a work's composition year from a knowledge graph.
type InceptionSource interface {
	Name() string
	CompositionYear(work, composer string) (string, error)
}

// StreamingSource resolves a track to a streaming-platform link.
type StreamingSource interface {
	Name() string
	TrackLink(title, artist string) (string, error)
}
