package categorization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuzzyScore(t *testing.T) {
	tests := []struct {
		name string
		s1   string
		s2   string
		min  int
		max  int
	}{
		{"identical", "SWIGGY", "SWIGGY", 100, 100},
		{"one letter missing", "SWIGY", "SWIGGY", 80, 90},
		{"containment", "FLIPKARTIN", "FLIPKART", 75, 99},
		{"unrelated", "RAMESH", "NETFLIX", 0, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := fuzzyScore(tt.s1, tt.s2)
			assert.GreaterOrEqual(t, score, tt.min)
			assert.LessOrEqual(t, score, tt.max)
		})
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		s1, s2 string
		want   int
	}{
		{"", "", 0},
		{"", "ABC", 3},
		{"ABC", "", 3},
		{"ZOMATO", "ZOMATO", 0},
		{"ZOMATO", "ZOMATTO", 1},
		{"KITTEN", "SITTING", 3},
	}

	for _, tt := range tests {
		t.Run(tt.s1+"_"+tt.s2, func(t *testing.T) {
			assert.Equal(t, tt.want, levenshteinDistance(tt.s1, tt.s2))
		})
	}
}

func TestFuzzyMatcher_Match(t *testing.T) {
	fm := NewFuzzyMatcher(DefaultKeywords)

	t.Run("typo", func(t *testing.T) {
		m, ok := fm.Match("Zomatto Order 4411", DefaultThreshold)
		require.True(t, ok)
		assert.Equal(t, "Food", m.Category)
		assert.Equal(t, "ZOMATO", m.Pattern)
		assert.Equal(t, 1, m.Distance)
	})

	t.Run("below threshold", func(t *testing.T) {
		_, ok := fm.Match("Rahul Sharma", DefaultThreshold)
		assert.False(t, ok)
	})

	t.Run("short keywords are not fuzzy matched", func(t *testing.T) {
		_, ok := fm.Match("Olaf", DefaultThreshold)
		assert.False(t, ok)
	})
}
