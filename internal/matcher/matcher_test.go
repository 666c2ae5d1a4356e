// file: internal/matcher/matcher_test.go
// version: 2.0.0
// guid: 3b4c5d6e-7f8a-9b0c-1d2e-3f4a5b6c7d8e

package matcher

import (
	"reflect"
	"testing"
)

func TestSplitArtists(t *testing.T) {
	tests := []struct {
		name   string
		artist string
		want   []string
	}{
		{
			name:   "comma and ampersand",
			artist: "Raphaël Pichon, Pygmalion & Sabine Devieilhe",
			want:   []string{"Raphaël Pichon", "Pygmalion", "Sabine Devieilhe"},
		},
		{
			name:   "single artist",
			artist: "Queen",
			want:   []string{"Queen"},
		},
		{
			name:   "quotes stripped",
			artist: `John "Trane" Coltrane`,
			want:   []string{"John Trane Coltrane"},
		},
		{
			name:   "empty",
			artist: "",
			want:   []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitArtists(tt.artist)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitArtists(%q) = %v, want %v", tt.artist, got, tt.want)
			}
		})
	}
}

func TestTitleVariants(t *testing.T) {
	got := TitleVariants("Handel: Giulio Cesare (Highlights)")
	want := []string{
		"Handel: Giulio Cesare (Highlights)",
		"Giulio Cesare (Highlights)",
		"Handel: Giulio Cesare",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TitleVariants = %v, want %v", got, want)
	}
}

func TestTitleVariants_NoDuplicates(t *testing.T) {
	got := TitleVariants("Bohemian Rhapsody")
	if len(got) != 1 {
		t.Errorf("expected single variant, got %v", got)
	}
}

func TestNameOverlap(t *testing.T) {
	if !NameOverlap("John Coltrane", "John Coltrane Quartet") {
		t.Error("expected overlap for identical performer/composer")
	}
	if !NameOverlap("Raphael Pichon", "Raphaël Pichon, Pygmalion") {
		t.Error("expected diacritic-insensitive overlap")
	}
	if NameOverlap("George Frideric Handel", "Miles Davis") {
		t.Error("unexpected overlap")
	}
}

func TestNamePartInQuery(t *testing.T) {
	if !NamePartInQuery("George Frideric Handel", "Handel Giulio Cesare") {
		t.Error("expected 'Handel' to match the query")
	}
	// "de" style particles are too short to be distinctive.
	if NamePartInQuery("Jan de Vries", "de profundis") {
		t.Error("short name parts must not match")
	}
	if NamePartInQuery("Wolfgang Amadeus Mozart", "Beethoven Symphony 9") {
		t.Error("unexpected match")
	}
}

func TestAcceptComposer(t *testing.T) {
	if !AcceptComposer("John Coltrane", "John Coltrane", "A Love Supreme") {
		t.Error("expected acceptance via artist overlap")
	}
	if !AcceptComposer("George Frideric Handel", "Il Pomo d'Oro", "Handel Giulio Cesare") {
		t.Error("expected acceptance via query part")
	}
	if AcceptComposer("Antonio Vivaldi", "Berliner Philharmoniker", "Beethoven Symphony 9") {
		t.Error("unexpected acceptance")
	}
}

func TestFold(t *testing.T) {
	if Fold("Raphaël") != "raphael" {
		t.Errorf("Fold(Raphaël) = %q", Fold("Raphaël"))
	}
	if Fold("Dvořák") != "dvorak" {
		t.Errorf("Fold(Dvořák) = %q", Fold("Dvořák"))
	}
}

func TestRankCandidates_GenreBonus(t *testing.T) {
	candidates := []string{
		"Julius Caesar",
		"Giulio Cesare (opera)",
		"Giulio Cesare Procaccini",
	}
	ranked := RankCandidates("Giulio Cesare opera", "George Frideric Handel", candidates)
	if len(ranked) == 0 {
		t.Fatal("expected ranked candidates")
	}
	if ranked[0].Index != 1 {
		t.Errorf("expected opera article first, got index %d (scores %v)", ranked[0].Index, ranked)
	}
}

func TestRankCandidates_NoMatches(t *testing.T) {
	ranked := RankCandidates("zzzzqqq", "", []string{"Symphony No. 9"})
	if len(ranked) != 0 {
		t.Errorf("expected no candidates, got %v", ranked)
	}
}
