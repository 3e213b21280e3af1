// Package suggest turns a meal history into autocomplete suggestions by clustering
// entries with similar names and averaging their macros.
package suggest

import "strings"

// Similarity scores two meal names in [0,1] using normalized Levenshtein distance.
// Comparison is case-insensitive; no other normalization is applied, so
// whitespace, punctuation and word order all count as edits.
func Similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)

	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}

	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))

	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

// levenshtein fills the full (len(a)+1) x (len(b)+1) edit table with unit costs.
func levenshtein(a, b []rune) int {
	table := make([][]int, len(a)+1)
	for i := range table {
		table[i] = make([]int, len(b)+1)
		table[i][0] = i
	}
	for j := 0; j <= len(b); j++ {
		table[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			table[i][j] = min(
				table[i-1][j]+1,
				table[i][j-1]+1,
				table[i-1][j-1]+cost,
			)
		}
	}

	return table[len(a)][len(b)]
}
