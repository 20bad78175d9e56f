package ranker

import (
	"cmp"
	"slices"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type ScoredCandidate struct {
	Candidate  models.ProductCandidate `json:"candidate"`
	Similarity float64                 `json:"similarity"`
}

// Similarity scores a product title against the keyword as one minus the
// normalized edit distance of the lower-cased strings. Lengths are taken
// from the original strings, so the score is not guaranteed to stay in
// [0, 1] when lower-casing changes the number of code points.
func Similarity(title, keyword string) float64 {
	longest := max(utf8.RuneCountInString(title), utf8.RuneCountInString(keyword))
	if longest == 0 {
		return 1.0
	}

	lower := cases.Lower(language.Und)
	distance := levenshtein.ComputeDistance(lower.String(title), lower.String(keyword))

	return 1 - float64(distance)/float64(longest)
}

// Score computes the similarity of every candidate and sorts them by
// descending similarity. Equal scores keep their input order.
func Score(candidates []models.ProductCandidate, keyword string) []ScoredCandidate {
	scored := make([]ScoredCandidate, len(candidates))
	for i, c := range candidates {
		scored[i] = ScoredCandidate{
			Candidate:  c,
			Similarity: Similarity(c.Title, keyword),
		}
	}

	slices.SortStableFunc(scored, func(a, b ScoredCandidate) int {
		return cmp.Compare(b.Similarity, a.Similarity)
	})

	return scored
}

// Rank returns at most maxResults candidates ordered by similarity.
//
// Candidates at or above the threshold are preferred only when there are at
// least maxResults of them. Otherwise the threshold is ignored and the top
// maxResults of all candidates are returned, whatever their score.
func Rank(candidates []models.ProductCandidate, keyword string, maxResults int, threshold float64) []models.ProductCandidate {
	if maxResults <= 0 || len(candidates) == 0 {
		return []models.ProductCandidate{}
	}

	scored := Score(candidates, keyword)

	relevant := make([]ScoredCandidate, 0, len(scored))
	for _, s := range scored {
		if s.Similarity >= threshold {
			relevant = append(relevant, s)
		}
	}

	if len(relevant) < maxResults {
		relevant = scored
	}

	limit := min(maxResults, len(relevant))
	ranked := make([]models.ProductCandidate, limit)
	for i := range limit {
		ranked[i] = relevant[i].Candidate
	}

	return ranked
}
