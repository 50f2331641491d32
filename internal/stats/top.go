package stats

import "sort"

// TopModesByRounds returns the n most played modes.
func TopModesByRounds(aggs []ModeAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	sorted := append([]ModeAggregate(nil), aggs...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Rounds == sorted[j].Rounds {
			return sorted[i].Mode < sorted[j].Mode
		}
		return sorted[i].Rounds > sorted[j].Rounds
	})
	n = min(n, len(sorted))
	out := make([]string, 0, n)
	for _, a := range sorted[:n] {
		out = append(out, a.Mode)
	}
	return out
}
