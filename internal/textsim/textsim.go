// Package textsim provides the token-set similarity measures used to keep a
// lesson's sentences lexically diverse: Jaccard over token sets and overlap
// of contiguous 3-token windows.
package textsim

import "strings"

const (
	// JaccardThreshold marks two sentences as near-duplicates when their
	// token-set Jaccard similarity reaches it. Tunable policy, not physics.
	JaccardThreshold = 0.8

	// NgramThreshold marks two sentences as near-duplicates when their
	// 3-gram overlap reaches it.
	NgramThreshold = 0.6

	ngramSize = 3
)

// Normalize lowercases s, strips contractions' apostrophes ("don't" becomes
// "dont"), replaces every other non-letter with a space, and collapses runs
// of whitespace.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r == '\'':
			// Drop entirely so contraction forms survive as single tokens.
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokenize returns the normalized word sequence of s.
func Tokenize(s string) []string {
	norm := Normalize(s)
	if norm == "" {
		return nil
	}
	return strings.Split(norm, " ")
}

// Jaccard returns |A ∩ B| / |A ∪ B| over the token sets, or 0 when both
// are empty.
func Jaccard(a, b []string) float64 {
	sa := toSet(a)
	sb := toSet(b)

	inter := 0
	for tok := range sa {
		if _, ok := sb[tok]; ok {
			inter++
		}
	}
	union := len(sa) + len(sb) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// NgramOverlap returns the share of contiguous 3-token windows the shorter
// sequence has in common with the longer one. The denominator is floored at
// 1 so sequences shorter than 3 tokens score 0 rather than dividing by zero.
func NgramOverlap(a, b []string) float64 {
	sa := ngrams(a)
	sb := ngrams(b)

	inter := 0
	for g := range sa {
		if _, ok := sb[g]; ok {
			inter++
		}
	}
	minSize := len(sa)
	if len(sb) < minSize {
		minSize = len(sb)
	}
	if minSize < 1 {
		minSize = 1
	}
	return float64(inter) / float64(minSize)
}

// TooSimilar reports whether two token sequences exceed either near-duplicate
// threshold.
func TooSimilar(a, b []string) bool {
	return Jaccard(a, b) >= JaccardThreshold || NgramOverlap(a, b) >= NgramThreshold
}

func toSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

func ngrams(tokens []string) map[string]struct{} {
	set := make(map[string]struct{})
	for i := 0; i+ngramSize <= len(tokens); i++ {
		set[strings.Join(tokens[i:i+ngramSize], " ")] = struct{}{}
	}
	return set
}
