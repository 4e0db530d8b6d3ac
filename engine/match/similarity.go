package match

import "strings"

// CharSimilarity returns the bag-of-characters Jaccard index of option and
// fragment in [0,1]: the multiset intersection of their character counts
// divided by the multiset union. The option is punctuation-cleaned the same
// way fragments are; both sides are compared lower-cased. The metric is
// order-insensitive, so anagrams score 1.0. That is an accepted
// approximation: it tolerates spacing and hyphenation noise at the cost of
// occasional false positives between trims sharing a character set.
func CharSimilarity(option, fragment string) float64 {
	return charSimilarity(strings.ToLower(cleanText(option)), strings.ToLower(fragment))
}

// charSimilarity assumes both inputs are already cleaned and lower-cased.
func charSimilarity(option, fragment string) float64 {
	oc := runeCounts(option)
	fc := runeCounts(fragment)

	var inter, union int
	for r, n := range oc {
		m := fc[r]
		if m < n {
			inter += m
			union += n
		} else {
			inter += n
			union += m
		}
	}
	for r, m := range fc {
		if _, ok := oc[r]; !ok {
			union += m
		}
	}
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func runeCounts(s string) map[rune]int {
	counts := make(map[rune]int, len(s))
	for _, r := range s {
		counts[r]++
	}
	return counts
}

// LCSSimilarity returns the longest-common-subsequence length of option and
// fragment, normalized by the longer of the two cleaned lengths. It is used
// only to break CharSimilarity ties: the O(m·n) dynamic program is too
// expensive to run over the full candidate/option cross product.
func LCSSimilarity(option, fragment string) float64 {
	return lcsSimilarity(strings.ToLower(cleanText(option)), strings.ToLower(fragment))
}

func lcsSimilarity(option, fragment string) float64 {
	a := []rune(option)
	b := []rune(fragment)
	longer := max(len(a), len(b))
	if longer == 0 {
		return 0
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return float64(prev[len(b)]) / float64(longer)
}
