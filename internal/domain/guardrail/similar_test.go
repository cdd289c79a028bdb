package guardrail

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_SimilarityScorer_Score(t *testing.T) {
	tests := []struct {
		name  string
		query string
		title string
		want  float64
	}{
		{
			name:  "same words",
			query: "steel price",
			title: "Steel price in Vietnam",
			want:  1,
		},
		{
			name:  "short words are ignored",
			query: "is it ok to buy steel",
			title: "Where to buy steel",
			want:  1,
		},
		{
			name:  "synonyms",
			query: "aluminium prices",
			title: "Aluminum pricing in 2024",
			want:  0.8,
		},
		{
			name:  "long words weigh more",
			query: "supplier audit",
			title: "How to choose a vendor",
			// supplier (2) matches by synonym, audit (1) doesn't match.
			want: 1.6 / 3,
		},
		{
			name:  "title word inside query word",
			query: "contracts",
			title: "Contract templates",
			want:  1,
		},
		{
			name:  "plural synonym",
			query: "bills",
			title: "Late invoice handling",
			want:  0.8,
		},
		{
			name:  "synonym inside a longer query word",
			query: "separate",
			title: "Supplier cost review",
			want:  0,
		},
		{
			name:  "synonym inside a longer title word",
			query: "price",
			title: "Moderate demand",
			want:  0,
		},
		{
			name:  "bid inside forbidden",
			query: "forbidden",
			title: "Open tender process",
			want:  0,
		},
		{
			name:  "bill inside billion",
			query: "billion",
			title: "Late invoice handling",
			want:  0,
		},
		{
			name:  "nothing",
			query: "freight",
			title: "Copper smelting",
			want:  0,
		},
		{
			name:  "only short words",
			query: "a b c",
			title: "a b c",
			want:  0,
		},
	}

	scorer := NewSimilarityScorer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.want, scorer.Score(tt.query, tt.title), 1e-9)
		})
	}
}

func Test_SimilarityScorer_FindSimilar(t *testing.T) {
	candidates := []Thread{
		{ID: "1", Title: "Copper smelting costs"},
		{ID: "2", Title: "Aluminum pricing outlook"},
		{ID: "3", Title: "Aluminium price outlook for Q3"},
		{ID: "4", Title: "Best freight forwarders"},
		{ID: "5", Title: "Aluminium supplier list"},
	}

	scorer := NewSimilarityScorer()
	result := scorer.FindSimilar("aluminium price outlook", candidates, 0.3, 2)
	require.Len(t, result, 2)
	require.Equal(t, "3", result[0].ID)
	require.InDelta(t, 1, result[0].Score, 1e-9)
	require.Equal(t, "2", result[1].ID)

	result = scorer.FindSimilar("aluminium price outlook", candidates, 0.3, 5)
	ids := []string{}
	for _, r := range result {
		ids = append(ids, r.ID)
		require.GreaterOrEqual(t, r.Score, 0.3)
	}
	require.Equal(t, []string{"3", "2", "5"}, ids)
}

func Test_DismissalValid(t *testing.T) {
	require.False(t, DismissalValid("", "Aluminium prices", 3))
	require.True(t, DismissalValid("Aluminium prices", "Aluminium prices", 3))
	require.True(t, DismissalValid("Aluminium prices", "Aluminium prices Q3", 3))
	require.False(t, DismissalValid("Aluminium prices", "Aluminium prices 2024", 3))
	require.True(t, DismissalValid("Aluminium prices", "Aluminium pri", 3))
	require.False(t, DismissalValid("Aluminium prices", "Aluminium", 3))
}

func Test_Ready(t *testing.T) {
	filter := NewProfanityFilter()

	require.True(t, Ready("Why", filter.Check("Why"), 3))
	require.False(t, Ready(" Wh ", filter.Check("Wh"), 3))
	require.False(t, Ready("Damn prices", filter.Check("Damn prices"), 3))
}
