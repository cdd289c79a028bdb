package guardrail

import (
	"strings"
	"unicode"

	"golang.org/x/exp/slices"
)

const synonymWeight = 0.8

// Synonym groups, every word of a group matches the others.
var defaultSynonyms = [][]string{
	{"aluminum", "aluminium"},
	{"pricing", "price", "cost", "rate"},
	{"supplier", "vendor"},
	{"procurement", "purchasing", "sourcing"},
	{"contract", "agreement"},
	{"tender", "rfp", "rfq", "bid"},
	{"invoice", "bill"},
	{"risk", "exposure"},
	{"logistics", "shipping", "freight"},
	{"steel", "metal"},
}

type Thread struct {
	ID    string
	Title string
}

type ScoredThread struct {
	Thread
	Score float64
}

type SimilarityScorer struct {
	// synonymGroup maps every synonym to the index of its group.
	synonymGroup map[string]int
}

func NewSimilarityScorer() *SimilarityScorer {
	synonymGroup := map[string]int{}
	for i, group := range defaultSynonyms {
		for _, word := range group {
			synonymGroup[word] = i
		}
	}

	return &SimilarityScorer{synonymGroup: synonymGroup}
}

type queryWord struct {
	word   string
	weight float64
}

func queryWords(query string) []queryWord {
	words := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	result := []queryWord{}
	for _, w := range words {
		n := len([]rune(w))
		if n <= 2 {
			continue
		}

		weight := 1.0
		if n > 5 {
			weight = 2
		}

		result = append(result, queryWord{word: w, weight: weight})
	}

	return result
}

// Score returns the weighted share of query words found in the title. A word
// matches with its full weight when it and a title word contain one another,
// and with a reduced weight when a title word is one of its synonyms.
func (s *SimilarityScorer) Score(query, title string) float64 {
	words := queryWords(query)
	if len(words) == 0 {
		return 0
	}

	title = strings.ToLower(title)
	titleWords := strings.FieldsFunc(title, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	total, matched := 0.0, 0.0
	for _, w := range words {
		total += w.weight

		switch {
		case containsEither(w.word, title, titleWords):
			matched += w.weight
		case s.matchSynonym(w.word, titleWords):
			matched += w.weight * synonymWeight
		}
	}

	return matched / total
}

func containsEither(word, title string, titleWords []string) bool {
	if strings.Contains(title, word) {
		return true
	}

	for _, tw := range titleWords {
		if len([]rune(tw)) > 2 && strings.Contains(word, tw) {
			return true
		}
	}

	return false
}

// matchSynonym reports whether a title word is a synonym of word. Unlike the
// direct match, synonyms are compared as whole words, so "separate" is not
// taken for "rate".
func (s *SimilarityScorer) matchSynonym(word string, titleWords []string) bool {
	group, ok := s.lookupSynonymGroup(word)
	if !ok {
		return false
	}

	for _, tw := range titleWords {
		if tw == word {
			continue
		}

		if g, ok := s.lookupSynonymGroup(tw); ok && g == group {
			return true
		}
	}

	return false
}

// lookupSynonymGroup also tries the singular of a plural word.
func (s *SimilarityScorer) lookupSynonymGroup(word string) (int, bool) {
	if group, ok := s.synonymGroup[word]; ok {
		return group, true
	}

	if singular := strings.TrimSuffix(word, "s"); singular != word {
		group, ok := s.synonymGroup[singular]
		return group, ok
	}

	return 0, false
}

// FindSimilar scores every candidate, keeps those reaching minScore and
// returns at most limit threads, the most similar first.
func (s *SimilarityScorer) FindSimilar(
	query string, candidates []Thread, minScore float64, limit int,
) []ScoredThread {
	result := []ScoredThread{}
	for _, c := range candidates {
		score := s.Score(query, c.Title)
		if score < minScore {
			continue
		}

		result = append(result, ScoredThread{Thread: c, Score: score})
	}

	slices.SortStableFunc(result, func(a, b ScoredThread) bool {
		return a.Score > b.Score
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result
}
