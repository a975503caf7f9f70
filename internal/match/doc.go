// Package match provides Levenshtein distance calculation and candidate
// ranking used to suggest near-miss class and method names.
//
// Key functions:
//   - Levenshtein: computes edit distance between strings
//   - FoldedSimilarity: case-insensitive normalized similarity
//   - Rank, Suggest: rank candidate names against a target
package match
