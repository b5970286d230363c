package typeset

import (
	"cmp"
	"slices"
	"strings"
)

// suggestSimilar returns candidates within maxDistance edits of input, closest
// first. Exact matches are not suggestions.
func suggestSimilar(input string, candidates []string, maxDistance int) []string {
	type match struct {
		name string
		dist int
	}

	in := strings.ToLower(input)
	var matches []match
	for _, c := range candidates {
		d := levenshtein(in, strings.ToLower(c))
		if d > 0 && d <= maxDistance {
			matches = append(matches, match{c, d})
		}
	}
	slices.SortStableFunc(matches, func(a, b match) int {
		return cmp.Compare(a.dist, b.dist)
	})

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.name
	}
	return out
}

// levenshtein computes the edit distance between two strings by rune.
func levenshtein(s1, s2 string) int {
	a, b := []rune(s1), []rune(s2)
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
