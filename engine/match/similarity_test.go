package match

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCharSimilarity(t *testing.T) {
	tests := []struct {
		option   string
		fragment string
		want     float64
	}{
		{"abc", "abc", 1.0},
		{"abc", "abcd", 0.75},
		{"lx", "xl", 1.0}, // anagrams collapse under the bag metric
		{"abc", "xyz", 0.0},
		{"", "", 0.0},
		{"aa", "a", 0.5},
		{"e 300", "e300", 0.8}, // the space counts as a character
		{"E-300", "e 300", 1.0},
	}
	for _, tt := range tests {
		got := CharSimilarity(tt.option, tt.fragment)
		if !almostEqual(got, tt.want) {
			t.Errorf("CharSimilarity(%q, %q) = %v, want %v", tt.option, tt.fragment, got, tt.want)
		}
	}
}

func TestCharSimilaritySymmetric(t *testing.T) {
	pairs := [][2]string{{"black badge", "blk bdg"}, {"m50", "x3"}, {"sport", "spt"}}
	for _, p := range pairs {
		if a, b := CharSimilarity(p[0], p[1]), CharSimilarity(p[1], p[0]); !almostEqual(a, b) {
			t.Errorf("CharSimilarity not symmetric for %q/%q: %v vs %v", p[0], p[1], a, b)
		}
	}
}

func TestLCSSimilarity(t *testing.T) {
	tests := []struct {
		option   string
		fragment string
		want     float64
	}{
		{"abc", "abc", 1.0},
		{"lx", "lx", 1.0},
		{"xl", "lx", 0.5}, // order matters here, unlike CharSimilarity
		{"abc", "xyz", 0.0},
		{"", "", 0.0},
		{"abcd", "abc", 0.75},
		{"black badge", "blk bdg", 7.0 / 11.0},
	}
	for _, tt := range tests {
		got := LCSSimilarity(tt.option, tt.fragment)
		if !almostEqual(got, tt.want) {
			t.Errorf("LCSSimilarity(%q, %q) = %v, want %v", tt.option, tt.fragment, got, tt.want)
		}
	}
}
