package guardrail

import (
	"strings"
	"unicode"

	"github.com/abi-lab/backend/pkg/enum"
	"golang.org/x/exp/slices"
)

type Severity string

var (
	SeverityNone   = enum.New(Severity("none"))
	SeverityLow    = enum.New(Severity("low"))
	SeverityMedium = enum.New(Severity("medium"))
	SeverityHigh   = enum.New(Severity("high"))
)

var severityRanks = map[Severity]int{
	SeverityNone:   0,
	SeverityLow:    1,
	SeverityMedium: 2,
	SeverityHigh:   3,
}

type ProfanityResult struct {
	Flagged      bool
	Reason       string
	Severity     Severity
	FlaggedTerms []string
}

var leetReplacer = strings.NewReplacer(
	"0", "o",
	"1", "i",
	"3", "e",
	"4", "a",
	"5", "s",
	"7", "t",
	"@", "a",
	"$", "s",
	"!", "i",
)

// The terms are stored normalized. A term may have more than one word.
var defaultTerms = map[string]Severity{
	"damn":         SeverityLow,
	"crap":         SeverityLow,
	"hell":         SeverityLow,
	"idiot":        SeverityMedium,
	"stupid":       SeverityMedium,
	"moron":        SeverityMedium,
	"dumbass":      SeverityMedium,
	"shut up":      SeverityMedium,
	"bastard":      SeverityHigh,
	"bitch":        SeverityHigh,
	"shit":         SeverityHigh,
	"bullshit":     SeverityHigh,
	"asshole":      SeverityHigh,
	"fuck":         SeverityHigh,
	"fucking":      SeverityHigh,
	"motherfucker": SeverityHigh,
	"cunt":         SeverityHigh,
	"kill you":     SeverityHigh,
}

type ProfanityFilter struct {
	terms map[string]Severity
}

func NewProfanityFilter() *ProfanityFilter {
	return &ProfanityFilter{terms: defaultTerms}
}

// NewProfanityFilterWithTerms is used when the term list is managed outside.
// Terms are normalized the same way as the checked text.
func NewProfanityFilterWithTerms(terms map[string]Severity) *ProfanityFilter {
	normalized := make(map[string]Severity, len(terms))
	for term, severity := range terms {
		normalized[strings.Join(normalizeWords(term), " ")] = severity
	}

	return &ProfanityFilter{terms: normalized}
}

// Check screens the title and the body. Any hit flags the content, the
// severity is the highest of all hits.
func (f *ProfanityFilter) Check(texts ...string) ProfanityResult {
	result := ProfanityResult{Severity: SeverityNone, FlaggedTerms: []string{}}

	for _, text := range texts {
		// Pad with spaces, so a term only matches whole words.
		padded := " " + strings.Join(normalizeWords(text), " ") + " "
		for term, severity := range f.terms {
			if !strings.Contains(padded, " "+term+" ") {
				continue
			}

			if !slices.Contains(result.FlaggedTerms, term) {
				result.FlaggedTerms = append(result.FlaggedTerms, term)
			}

			if severityRanks[severity] > severityRanks[result.Severity] {
				result.Severity = severity
			}
		}
	}

	if len(result.FlaggedTerms) > 0 {
		slices.Sort(result.FlaggedTerms)
		result.Flagged = true
		result.Reason = "Content contains inappropriate language: " + strings.Join(result.FlaggedTerms, ", ")
	}

	return result
}

// normalizeWords lowercases the text, undoes common leetspeak substitutions
// and splits it into words.
func normalizeWords(text string) []string {
	text = leetReplacer.Replace(strings.ToLower(text))
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}
