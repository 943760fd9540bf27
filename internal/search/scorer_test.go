package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFullProcess(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Half-Life", "half life"},
		{"  Half   Life 2: Episode One ", "half life 2 episode one"},
		{"Counter-Strike: Global Offensive", "counter strike global offensive"},
		{"!!!", ""},
		{"", ""},
		{"Ōkami HD", "ōkami hd"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, fullProcess(tt.in))
		})
	}
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 100, ratio([]rune("portal"), []rune("portal")))
	assert.Equal(t, 0, ratio([]rune("abc"), []rune("xyz")))
	assert.Equal(t, 0, ratio([]rune(""), []rune("xyz")))
	assert.Equal(t, 100, ratio(nil, nil))
	// LCS("half lfe", "half life") = 8, 2*8/17
	assert.Equal(t, 94, ratio([]rune("half lfe"), []rune("half life")))
}

func TestLCS(t *testing.T) {
	assert.Equal(t, 4, lcs([]rune("abcbdab"), []rune("bdcaba")))
	assert.Equal(t, 0, lcs([]rune("abc"), nil))
	assert.Equal(t, 3, lcs([]rune("abc"), []rune("abc")))
}

func TestPartialRatio(t *testing.T) {
	assert.Equal(t, 100, partialRatio([]rune("portal"), []rune("portal 2")))
	assert.Equal(t, 100, partialRatio([]rune("portal 2"), []rune("portal")), "argument order does not matter")
	assert.Equal(t, 0, partialRatio(nil, []rune("portal")))
	// "portl" best window in "portal 2" is "porta" -> LCS 4, 2*4/10
	assert.Equal(t, 80, partialRatio([]rune("portl"), []rune("portal 2")))
}

func TestTokenRatios(t *testing.T) {
	assert.Equal(t, 100, tokenSortRatio("life half", "half life", false))
	assert.Equal(t, 100, tokenSetRatio("half life half", "life half", false))
	assert.Equal(t, 100, tokenSetRatio("half life", "half life episode one", true),
		"shared tokens make the partial set ratio perfect")
}

func TestWeightedRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"identical", "Portal", "Portal", 100},
		{"case and punctuation", "half life", "Half-Life", 100},
		{"typo", "half lfe", "half-life", 94},
		{"unrelated", "half lfe", "portal", 29},
		{"empty query", "", "portal", 0},
		{"punctuation only", "---", "portal", 0},
		{"reordered", "life half", "Half-Life", 95},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeightedRatio{}.Score(tt.a, tt.b))
		})
	}
}

func TestWeightedRatio_PartialForLongNames(t *testing.T) {
	score := WeightedRatio{}.Score("portal", "Portal 2 Soundtrack")
	// partial ratio 100 scaled by 0.9
	assert.Equal(t, 90, score)
}

func TestWeightedRatio_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"half lfe", "Half-Life"},
		{"portal", "Portal 2 Soundtrack"},
		{"counter strike", "Counter-Strike: Source"},
	}
	for _, p := range pairs {
		assert.Equal(t, WeightedRatio{}.Score(p[0], p[1]), WeightedRatio{}.Score(p[1], p[0]), "%q vs %q", p[0], p[1])
	}
}

func TestScorerFunc(t *testing.T) {
	var s Scorer = ScorerFunc(func(a, b string) int { return len(a) + len(b) })
	assert.Equal(t, 5, s.Score("ab", "cde"))
}
