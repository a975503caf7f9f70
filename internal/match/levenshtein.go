package match

import "strings"

// Levenshtein returns the edit distance between a and b: the fewest single
// byte insertions, deletions or substitutions turning one into the other.
// Class and method names are compared bytewise, which is exact for the
// ASCII identifiers that dominate class files.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	// Keep the row as short as possible.
	if len(a) > len(b) {
		a, b = b, a
	}

	if a == "" {
		return len(b)
	}

	row := make([]int, len(a)+1)
	for i := range row {
		row[i] = i
	}

	for j := range len(b) {
		diag := row[0]
		row[0] = j + 1

		for i := range len(a) {
			up := row[i+1]

			sub := diag
			if a[i] != b[j] {
				sub++
			}

			row[i+1] = min(up+1, row[i]+1, sub)
			diag = up
		}
	}

	return row[len(a)]
}

// LevenshteinNormalized maps the edit distance to a similarity in [0, 1],
// 1 meaning equal: 1 - distance/max(len(a), len(b)).
func LevenshteinNormalized(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}

	return 1 - float64(Levenshtein(a, b))/float64(longest)
}

// FoldedSimilarity is LevenshteinNormalized over the lower-cased inputs.
// Class and method names that differ only in case score 1.
func FoldedSimilarity(a, b string) float64 {
	return LevenshteinNormalized(strings.ToLower(a), strings.ToLower(b))
}
