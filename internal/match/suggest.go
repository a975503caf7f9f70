package match

import "sort"

// DefaultMinScore is the minimum similarity for a name to be suggested.
const DefaultMinScore = 0.6

// Scored is a candidate name with its similarity to the target.
type Scored struct {
	Name  string
	Score float64
}

// Rank scores every candidate against target and returns those reaching
// minScore, best first. Ties are broken by name so results are stable.
func Rank(target string, candidates []string, minScore float64) []Scored {
	var ranked []Scored

	for _, c := range candidates {
		if c == target {
			continue
		}

		score := FoldedSimilarity(target, c)
		if score < minScore {
			continue
		}

		ranked = append(ranked, Scored{Name: c, Score: score})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}

		return ranked[i].Name < ranked[j].Name
	})

	return ranked
}

// Suggest returns at most limit candidate names close to target.
func Suggest(target string, candidates []string, limit int) []string {
	ranked := Rank(target, candidates, DefaultMinScore)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	names := make([]string, len(ranked))
	for i, r := range ranked {
		names[i] = r.Name
	}

	return names
}
