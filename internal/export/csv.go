// file: internal/export/csv.go
// version: 1.0.0
// guid: 0d1e2f3a-4b5c-6d7e-8f9a-0b1c2d3e4f5a

package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jdfalk/flexster/internal/models"
)

var csvHeader = []string{
	"query", "title", "artist", "composer", "album", "genre",
	"recording_year", "composition_year", "catalog_url", "streaming_url",
}

// WriteCSV writes the resolved records to a flat CSV file, header first.
func WriteCSV(path string, records []models.TrackRecord) error {
	if len(records) == 0 {
		log.Printf("[WARN] export: no records to write to %s", path)
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i := range records {
		r := &records[i]
		row := []string{
			r.Query, r.Title, r.Artist, r.Composer, r.Album, r.Genre,
			r.RecordingYear, r.CompositionYear, r.CatalogURL, r.StreamingURL,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row for %q: %w", r.Query, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	log.Printf("[INFO] export: wrote %d records to %s", len(records), path)
	return nil
}

// ReadQueries loads one query per line from a titles file, skipping blank
// lines and lines starting with '#'.
func ReadQueries(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	var queries []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		queries = append(queries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return queries, nil
}
