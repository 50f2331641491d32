package stats

import "sort"

// WeakModes returns up to top modes with the lowest completion. Modes
// without any pairs dealt are skipped.
func WeakModes(aggs []ModeAggregate, top int) []string {
	candidates := make([]ModeAggregate, 0, len(aggs))
	for _, a := range aggs {
		if a.PairCount > 0 {
			candidates = append(candidates, a)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		ci, cj := candidates[i].Completion(), candidates[j].Completion()
		if ci == cj {
			return candidates[i].Mode < candidates[j].Mode
		}
		return ci < cj
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	out := make([]string, 0, top)
	for _, a := range candidates[:top] {
		out = append(out, a.Mode)
	}
	return out
}
