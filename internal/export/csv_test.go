// file: internal/export/csv_test.go
// version: 1.0.0
// guid: 1e2f3a4b-5c6d-7e8f-9a0b-1c2d3e4f5a6b

package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/jdfalk/flexster/internal/models"
)

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.csv")
	records := []models.TrackRecord{
		{
			Query:           "Handel Giulio Cesare",
			Title:           "Giulio Cesare: Overture",
			Artist:          "Il Pomo d'Oro",
			Composer:        "George Frideric Handel",
			Album:           "Handel Arias",
			Genre:           "Classical",
			RecordingYear:   "2018",
			CompositionYear: "1724",
			CatalogURL:      "https://music.apple.com/x",
		},
		{
			Query:    "Bohemian Rhapsody",
			Title:    "Bohemian Rhapsody",
			Artist:   "Queen",
			Composer: "Freddie Mercury",
		},
	}

	if err := WriteCSV(path, records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "query" || rows[0][3] != "composer" {
		t.Errorf("unexpected header %v", rows[0])
	}
	if rows[1][3] != "George Frideric Handel" {
		t.Errorf("expected composer in row, got %v", rows[1])
	}
	if rows[1][7] != "1724" {
		t.Errorf("expected composition year, got %v", rows[1])
	}
}

func TestWriteCSV_EmptyIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.csv")
	if err := WriteCSV(path, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be created for an empty record set")
	}
}

func TestReadQueries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "titles.txt")
	content := "Handel Giulio Cesare\n\n# a comment\n  Kind of Blue So What  \r\nBeethoven Symphony 9\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}

	queries, err := ReadQueries(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Handel Giulio Cesare", "Kind of Blue So What", "Beethoven Symphony 9"}
	if len(queries) != len(want) {
		t.Fatalf("expected %d queries, got %v", len(want), queries)
	}
	for i := range want {
		if queries[i] != want[i] {
			t.Errorf("query %d = %q, want %q", i, queries[i], want[i])
		}
	}
}

func TestReadQueries_MissingFile(t *testing.T) {
	if _, err := ReadQueries(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
