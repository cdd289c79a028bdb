package guardrail

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_ProfanityFilter_Check(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
		want  ProfanityResult
	}{
		{
			name:  "clean",
			texts: []string{"Aluminium price forecast", "What is the outlook for Q3 in Europe?"},
			want:  ProfanityResult{Severity: SeverityNone, FlaggedTerms: []string{}},
		},
		{
			name:  "whole words only",
			texts: []string{"Hello from the shell company", "Assessment of scrap steel"},
			want:  ProfanityResult{Severity: SeverityNone, FlaggedTerms: []string{}},
		},
		{
			name:  "low",
			texts: []string{"Damn, prices went up again"},
			want: ProfanityResult{
				Flagged:      true,
				Reason:       "Content contains inappropriate language: damn",
				Severity:     SeverityLow,
				FlaggedTerms: []string{"damn"},
			},
		},
		{
			name:  "highest severity wins",
			texts: []string{"This supplier is stupid", "and their quote is sh1t"},
			want: ProfanityResult{
				Flagged:      true,
				Reason:       "Content contains inappropriate language: shit, stupid",
				Severity:     SeverityHigh,
				FlaggedTerms: []string{"shit", "stupid"},
			},
		},
		{
			name:  "leetspeak and punctuation",
			texts: []string{"What an 1d!0t..."},
			want: ProfanityResult{
				Flagged:      true,
				Reason:       "Content contains inappropriate language: idiot",
				Severity:     SeverityMedium,
				FlaggedTerms: []string{"idiot"},
			},
		},
		{
			name:  "multiple words",
			texts: []string{"Please SHUT   up about tenders"},
			want: ProfanityResult{
				Flagged:      true,
				Reason:       "Content contains inappropriate language: shut up",
				Severity:     SeverityMedium,
				FlaggedTerms: []string{"shut up"},
			},
		},
	}

	filter := NewProfanityFilter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, filter.Check(tt.texts...))
		})
	}
}

func Test_NewProfanityFilterWithTerms(t *testing.T) {
	filter := NewProfanityFilterWithTerms(map[string]Severity{"Kickback": SeverityMedium})

	result := filter.Check("Is a k1ckback normal here?")
	require.True(t, result.Flagged)
	require.Equal(t, SeverityMedium, result.Severity)

	require.False(t, filter.Check("damn").Flagged)
}
