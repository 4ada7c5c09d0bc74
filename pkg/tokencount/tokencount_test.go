package tokencount

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeuristicCountTokens(t *testing.T) {
	testCases := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"whitespace only", "   \n\t", 0},
		{"shorter than one token", "ab", 1},
		{"exact multiple", "12345678", 2},
		{"rounds down", strings.Repeat("x", 11), 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Heuristic{}.CountTokens(tc.text))
		})
	}
}

func TestHeuristicName(t *testing.T) {
	assert.Equal(t, "heuristic", Heuristic{}.Name())
}

func TestForModelFallsBackToHeuristic(t *testing.T) {
	// An unknown model fails the encoding lookup before any download, so
	// the fallback path stays offline-safe.
	c := ForModel("not-a-real-model", nil)
	assert.Equal(t, "heuristic", c.Name())
	assert.Equal(t, 1, c.CountTokens("abcd"))
}
