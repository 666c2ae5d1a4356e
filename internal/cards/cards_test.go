// file: internal/cards/cards_test.go
// version: 1.0.0
// guid: 4b5c6d7e-8f9a-0b1c-2d3e-4f5a6b7c8d9e

package cards

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/jdfalk/flexster/internal/models"
)

func sampleRecords(n int) []models.TrackRecord {
	records := make([]models.TrackRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, models.TrackRecord{
			Query:         "query " + string(rune('a'+i)),
			Title:         "Track " + string(rune('A'+i)),
			Artist:        "Artist",
			Composer:      "Composer",
			Album:         "Album",
			Genre:         "Classical",
			RecordingYear: "1975",
			CatalogURL:    "https://music.apple.com/track",
		})
	}
	return records
}

func TestEncodeQR(t *testing.T) {
	png, err := EncodeQR("https://music.apple.com/de/album/x?i=1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("expected PNG magic bytes")
	}
}

func TestWriteQRFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qr.png")
	if err := WriteQRFile("https://open.spotify.com/track/abc", path, 256); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read QR file: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("expected PNG magic bytes")
	}
}

func TestGenerator_Build(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.pdf")
	g := NewGenerator(2, 2, true, "apple")

	// 5 records across a 2x2 grid forces a second front/back page pair.
	if err := g.Build(sampleRecords(5), path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read PDF: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("expected PDF magic bytes")
	}
	if len(data) < 1024 {
		t.Errorf("suspiciously small PDF (%d bytes)", len(data))
	}
}

func TestGenerator_BuildEmpty(t *testing.T) {
	g := NewGenerator(4, 3, true, "apple")
	if err := g.Build(nil, filepath.Join(t.TempDir(), "cards.pdf")); err == nil {
		t.Error("expected error for empty record set")
	}
}

func TestGenerator_MissingLinkTolerated(t *testing.T) {
	records := sampleRecords(2)
	records[1].CatalogURL = ""

	path := filepath.Join(t.TempDir(), "cards.pdf")
	g := NewGenerator(1, 2, false, "apple")
	if err := g.Build(records, path); err != nil {
		t.Fatalf("a record without a link must not fail the build: %v", err)
	}
}

func TestNewGenerator_Bounds(t *testing.T) {
	g := NewGenerator(0, -1, true, "spotify")
	if g.Rows != 4 || g.Cols != 3 {
		t.Errorf("expected default grid 4x3, got %dx%d", g.Rows, g.Cols)
	}
}
