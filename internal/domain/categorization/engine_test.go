package categorization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Match(t *testing.T) {
	engine := NewEngine(DefaultKeywords)

	tests := []struct {
		name        string
		description string
		want        string
		found       bool
	}{
		{"food delivery", "Swiggy Bangalore", "Food", true},
		{"case insensitive", "ZOMATO LTD", "Food", true},
		{"transport", "Uber India Systems", "Transport", true},
		{"short keyword as word", "Ola Cabs", "Transport", true},
		{"short keyword inside word", "Coca Cola", "", false},
		{"rent inside word", "Current account fee", "", false},
		{"rent as word", "House rent March", "Rent", true},
		{"multi word keyword", "Indian Oil Petrol Pump", "Fuel", true},
		{"no match", "Amit Traders", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := engine.Match(tt.description)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, m.Category)
		})
	}
}

func TestEngine_Priority(t *testing.T) {
	engine := NewEngine([]Keyword{
		{Pattern: "metro", Category: "Transport"},
		{Pattern: "metro cash", Category: "Groceries", Priority: 5},
	})

	m, ok := engine.Match("METRO CASH AND CARRY")
	require.True(t, ok)
	assert.Equal(t, "Groceries", m.Category)
}

func TestEngine_LongestPatternBreaksTies(t *testing.T) {
	engine := NewEngine([]Keyword{
		{Pattern: "amazon", Category: "Shopping"},
		{Pattern: "amazon prime", Category: "Entertainment"},
	})

	m, ok := engine.Match("Amazon Prime renewal")
	require.True(t, ok)
	assert.Equal(t, "Entertainment", m.Category)
}

func TestEngine_Empty(t *testing.T) {
	engine := NewEngine(nil)
	assert.Zero(t, engine.PatternCount())

	_, ok := engine.Match("Swiggy")
	assert.False(t, ok)
}

func TestEngine_DuplicatePatterns(t *testing.T) {
	engine := NewEngine([]Keyword{
		{Pattern: "Swiggy", Category: "Food"},
		{Pattern: "SWIGGY", Category: "Groceries", Priority: 1},
	})
	assert.Equal(t, 1, engine.PatternCount())

	m, ok := engine.Match("swiggy instamart")
	require.True(t, ok)
	assert.Equal(t, "Groceries", m.Category)
}

func TestCategorizer_Categorize(t *testing.T) {
	c := NewCategorizer(nil)

	t.Run("exact keyword", func(t *testing.T) {
		got, ok := c.Categorize("Netflix subscription")
		require.True(t, ok)
		assert.Equal(t, "Entertainment", got)
	})

	t.Run("typo falls back to fuzzy", func(t *testing.T) {
		got, ok := c.Categorize("Swigy order")
		require.True(t, ok)
		assert.Equal(t, "Food", got)
	})

	t.Run("unknown payee", func(t *testing.T) {
		_, ok := c.Categorize("Ramesh Kumar")
		assert.False(t, ok)
	})
}
