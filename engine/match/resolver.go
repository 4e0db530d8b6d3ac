package match

import "strings"

// DefaultThreshold is the minimum CharSimilarity score a fragment/option
// pair must reach (inclusive) to count as a match.
const DefaultThreshold = 0.75

// Match is a resolved option with the fragment and score that selected it.
type Match struct {
	Option   string
	Fragment string
	Score    float64
}

// ClosestMatch scores every fragment of text against every option and
// returns the best pair at or above threshold. Ties on CharSimilarity are
// broken by LCSSimilarity, then by preferring the longer option; remaining
// ties keep the earliest pair in enumeration order, so results are
// deterministic for a given text and option order. The second return is
// false when nothing reaches the threshold.
func ClosestMatch(text string, options []string, threshold float64) (Match, bool) {
	type prepped struct {
		raw     string
		cleaned string
	}
	opts := make([]prepped, len(options))
	for i, o := range options {
		opts[i] = prepped{raw: o, cleaned: strings.ToLower(cleanText(o))}
	}

	var (
		best  Match
		found bool
		// fragments tied with best on CharSimilarity, pending the LCS pass
		tied []Match
	)
	for frag := range Fragments(text) {
		for _, opt := range opts {
			score := charSimilarity(opt.cleaned, frag)
			if score < threshold {
				continue
			}
			m := Match{Option: opt.raw, Fragment: frag, Score: score}
			switch {
			case !found || score > best.Score:
				best = m
				tied = tied[:0]
				found = true
			case score == best.Score:
				tied = append(tied, m)
			}
		}
	}
	if !found {
		return Match{}, false
	}
	if len(tied) == 0 {
		return best, true
	}

	bestLCS := lcsSimilarity(strings.ToLower(cleanText(best.Option)), best.Fragment)
	for _, m := range tied {
		lcs := lcsSimilarity(strings.ToLower(cleanText(m.Option)), m.Fragment)
		if lcs > bestLCS || (lcs == bestLCS && len(m.Option) > len(best.Option)) {
			best = m
			bestLCS = lcs
		}
	}
	return best, true
}
