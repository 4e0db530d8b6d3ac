// Package tagger finds case-insensitive phrase occurrences in free text.
// It is the exact-match first pass of extraction: the fuzzy resolver only
// runs when no catalog phrase is literally present.
package tagger

import (
	"sort"
	"strings"
)

// Span is a phrase occurrence over a token range of the tagged text.
// Start and End are token indices; End is exclusive. Text is the phrase as
// it appears in the phrase list, not as it appears in the input.
type Span struct {
	Start int
	End   int
	Text  string
}

const edgePunct = ".,;:!?\"'()"

// Tag returns the non-overlapping occurrences of phrases in text, longest
// match first when occurrences compete for the same tokens, in text order.
// Matching is case-insensitive over whitespace-split tokens with edge
// punctuation stripped, so "Cullinan," still tags as "cullinan".
func Tag(text string, phrases []string) []Span {
	tokens := strings.Fields(text)
	for i, tok := range tokens {
		tokens[i] = strings.Trim(strings.ToLower(tok), edgePunct)
	}

	// phrase key by token count, joined on a single space
	byLen := make(map[int]map[string]string)
	for _, p := range phrases {
		ptoks := strings.Fields(strings.ToLower(p))
		for i, tok := range ptoks {
			ptoks[i] = strings.Trim(tok, edgePunct)
		}
		if len(ptoks) == 0 {
			continue
		}
		key := strings.Join(ptoks, " ")
		if byLen[len(ptoks)] == nil {
			byLen[len(ptoks)] = make(map[string]string)
		}
		if _, ok := byLen[len(ptoks)][key]; !ok {
			byLen[len(ptoks)][key] = p
		}
	}

	var candidates []Span
	for n, index := range byLen {
		for start := 0; start+n <= len(tokens); start++ {
			key := strings.Join(tokens[start:start+n], " ")
			if phrase, ok := index[key]; ok {
				candidates = append(candidates, Span{Start: start, End: start + n, Text: phrase})
			}
		}
	}

	// longest first, earliest first among equals, then greedy non-overlap
	sort.SliceStable(candidates, func(i, j int) bool {
		li, lj := candidates[i].End-candidates[i].Start, candidates[j].End-candidates[j].Start
		if li != lj {
			return li > lj
		}
		return candidates[i].Start < candidates[j].Start
	})

	taken := make([]bool, len(tokens))
	var spans []Span
	for _, c := range candidates {
		free := true
		for i := c.Start; i < c.End; i++ {
			if taken[i] {
				free = false
				break
			}
		}
		if !free {
			continue
		}
		for i := c.Start; i < c.End; i++ {
			taken[i] = true
		}
		spans = append(spans, c)
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	return spans
}

// First returns the earliest span of Tag, if any.
func First(text string, phrases []string) (Span, bool) {
	spans := Tag(text, phrases)
	if len(spans) == 0 {
		return Span{}, false
	}
	return spans[0], true
}
