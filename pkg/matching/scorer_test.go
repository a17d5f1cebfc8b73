package matching

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	scorer := NewScorer()

	tests := []struct {
		name     string
		a        string
		b        string
		expected float64
	}{
		{
			name:     "identical strings",
			a:        "atlanta fertility",
			b:        "atlanta fertility",
			expected: 1.0,
		},
		{
			name:     "both empty",
			a:        "",
			b:        "",
			expected: 1.0,
		},
		{
			name:     "empty vs non-empty",
			a:        "",
			b:        "atlanta",
			expected: 0.0,
		},
		{
			name:     "completely different same length",
			a:        "aaaa",
			b:        "zzzz",
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, scorer.Similarity(tt.a, tt.b))
		})
	}
}

func TestSimilarityRatio(t *testing.T) {
	scorer := NewScorer()

	// kitten -> sitting is the classic 3-edit case
	assert.InDelta(t, 1.0-3.0/7.0, scorer.Similarity("kitten", "sitting"), 0.0001)
	assert.Equal(t, 2, scorer.LevenshteinDistance("atlanta center", "atlanta centre"))
	assert.InDelta(t, 1.0-2.0/14.0, scorer.Similarity("atlanta center", "atlanta centre"), 0.0001)
}

func TestSimilaritySymmetric(t *testing.T) {
	scorer := NewScorer()

	pairs := [][2]string{
		{"atlanta center", "atlanta centre"},
		{"kitten", "sitting"},
		{"", "denver"},
		{"acme", "acme medical group"},
	}

	for _, pair := range pairs {
		assert.Equal(t, scorer.Similarity(pair[0], pair[1]), scorer.Similarity(pair[1], pair[0]),
			"similarity should be symmetric for %q / %q", pair[0], pair[1])
	}
}

func TestSimilarityClampsNearPerfect(t *testing.T) {
	scorer := NewScorer()

	// one edit across 1000 characters computes to 0.999, which would read as
	// a perfect match after rounding; unequal strings must stay below 1.0
	a := strings.Repeat("a", 1000)
	b := strings.Repeat("a", 999) + "b"

	assert.Equal(t, 0.99, scorer.Similarity(a, b))
	assert.Equal(t, 1.0, scorer.Similarity(a, a))
}
