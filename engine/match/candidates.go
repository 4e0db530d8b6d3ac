// Package match implements fuzzy resolution of free text against catalog
// options: candidate fragment generation, a character-multiset similarity
// with an LCS tie-break, and the closest-match resolver built on both.
package match

import (
	"iter"
	"strings"
	"unicode"
)

// maxSubseq caps the length of token subsequences considered as fragments.
const maxSubseq = 6

// cleanText keeps letters, digits, whitespace, and the symbols # + . !,
// mapping everything else (including '-' and '/') to a space. Catalog
// options and listing text go through the same cleanup before scoring.
func cleanText(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case unicode.IsSpace(r):
			return r
		case r == '#' || r == '+' || r == '.' || r == '!':
			return r
		default:
			return ' '
		}
	}, s)
}

// Fragments yields the deduplicated candidate fragments of text, lower-cased.
// Three tokenizations are used: the raw whitespace split, the
// punctuation-cleaned split, and a letter/digit-transition split. For each,
// it emits the space-joined and no-space-joined form of every
// order-preserving token subsequence of up to maxSubseq tokens. Catalog
// trims are inconsistently spaced and hyphenated in real listings ("e300"
// vs "e 300" vs "E-300"), and subsequences rather than substrings tolerate
// intervening words like "4dr". Fragments are produced lazily so a
// pathological input never materializes the full combination set at once.
func Fragments(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		seen := make(map[string]struct{})
		emit := func(s string) bool {
			s = strings.ToLower(s)
			if _, ok := seen[s]; ok {
				return true
			}
			seen[s] = struct{}{}
			return yield(s)
		}

		cleaned := cleanText(text)
		for _, tokens := range [][]string{
			strings.Fields(text),
			strings.Fields(cleaned),
			splitTransitions(cleaned),
		} {
			if !subsequences(tokens, emit) {
				return
			}
		}
	}
}

// subsequences enumerates order-preserving token subsequences of length
// 1..maxSubseq and feeds both joined forms to emit. Returns false when emit
// stops the walk.
func subsequences(tokens []string, emit func(string) bool) bool {
	limit := min(maxSubseq, len(tokens))
	pick := make([]string, 0, limit)

	var walk func(start, k int) bool
	walk = func(start, k int) bool {
		if len(pick) == k {
			if !emit(strings.Join(pick, " ")) {
				return false
			}
			return emit(strings.Join(pick, ""))
		}
		for i := start; i <= len(tokens)-(k-len(pick)); i++ {
			pick = append(pick, tokens[i])
			ok := walk(i+1, k)
			pick = pick[:len(pick)-1]
			if !ok {
				return false
			}
		}
		return true
	}

	for k := 1; k <= limit; k++ {
		if !walk(0, k) {
			return false
		}
	}
	return true
}

// splitTransitions splits s on whitespace and on boundaries between letters
// and digits, so "e300" contributes "e" and "300".
func splitTransitions(s string) []string {
	var out []string
	var b strings.Builder
	var prev rune

	flush := func() {
		if b.Len() > 0 {
			out = append(out, b.String())
			b.Reset()
		}
	}
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			flush()
		case b.Len() > 0 && ((isASCIILetter(prev) && isASCIIDigit(r)) || (isASCIIDigit(prev) && isASCIILetter(r))):
			flush()
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
		if !unicode.IsSpace(r) {
			prev = r
		}
	}
	flush()
	return out
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
