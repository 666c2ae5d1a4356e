// file: internal/matcher/scoring.go
// version: 1.0.0
// guid: 2a3b4c5d-6e7f-8a9b-0c1d-2e3f4a5b6c7d

package matcher

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// genreKeywords earn a bonus when they appear in both the query and a
// candidate page title. A Wikipedia search for "Giulio Cesare" returns the
// historical figure first; the keyword pushes the opera article up.
var genreKeywords = []string{
	"opera", "symphony", "concerto", "sonata", "quartet", "oratorio",
	"cantata", "suite", "ballet", "requiem", "mass", "nocturne", "prelude",
	"overture", "album", "song",
}

// ScoredCandidate pairs a candidate index with its relevance score.
type ScoredCandidate struct {
	Index int
	Score int
}

// RankCandidates scores candidate page titles against the work query plus an
// optional composer name, highest first. Candidates that share no fuzzy
// similarity with the query score zero and are omitted.
func RankCandidates(query, composer string, candidates []string) []ScoredCandidate {
	foldedQuery := Fold(query)

	var ranked []ScoredCandidate
	for i, cand := range candidates {
		score := baseScore(foldedQuery, Fold(cand))
		if score == 0 {
			continue
		}
		for _, kw := range genreKeywords {
			if strings.Contains(foldedQuery, kw) && strings.Contains(Fold(cand), kw) {
				score += 25
				break
			}
		}
		if composer != "" && NamePartInQuery(composer, cand) {
			score += 20
		}
		ranked = append(ranked, ScoredCandidate{Index: i, Score: score})
	}

	// Insertion sort, candidate lists are tiny (<=5).
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && ranked[j].Score > ranked[j-1].Score; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}
	return ranked
}

func baseScore(foldedQuery, foldedCand string) int {
	if foldedQuery == foldedCand {
		return 100
	}
	if strings.Contains(foldedCand, foldedQuery) || strings.Contains(foldedQuery, foldedCand) {
		return 80
	}

	// Count query words that fuzzy-match into the candidate.
	words := strings.Fields(foldedQuery)
	if len(words) == 0 {
		return 0
	}
	matched := 0
	for _, w := range words {
		if fuzzy.Match(w, foldedCand) {
			matched++
		}
	}
	if matched == 0 {
		return 0
	}
	return 40 * matched / len(words)
}
