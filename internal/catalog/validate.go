package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmpty is returned for a catalog without sets or modes.
var ErrEmpty = errors.New("catalog is empty")

// Validate checks that every set can be played: each term and definition must
// have exactly one counterpart.
func (c Catalog) Validate() error {
	if len(c.Sets) == 0 || len(c.Modes) == 0 {
		return ErrEmpty
	}
	for i, set := range c.Sets {
		if len(set) == 0 {
			return fmt.Errorf("set %d has no pairs", i+1)
		}
		terms := make(map[string]struct{}, len(set))
		defs := make(map[string]struct{}, len(set))
		for j, pair := range set {
			term := normalizeText(pair.Term)
			def := normalizeText(pair.Definition)
			if term == "" || def == "" {
				return fmt.Errorf("set %d pair %d: term and definition must not be blank", i+1, j+1)
			}
			if _, ok := terms[term]; ok {
				return fmt.Errorf("set %d: duplicate term %q", i+1, pair.Term)
			}
			if _, ok := defs[def]; ok {
				return fmt.Errorf("set %d: duplicate definition %q", i+1, pair.Definition)
			}
			terms[term] = struct{}{}
			defs[def] = struct{}{}
		}
	}
	for i, mode := range c.Modes {
		if strings.TrimSpace(mode.Name) == "" {
			return fmt.Errorf("mode %d has no name", i+1)
		}
		if mode.TimeLimitSeconds <= 0 {
			return fmt.Errorf("mode %q: time limit must be > 0", mode.Name)
		}
		if mode.XPMultiplier <= 0 {
			return fmt.Errorf("mode %q: xp multiplier must be > 0", mode.Name)
		}
		if mode.Rules.ShuffleIntervalSeconds < 0 || mode.Rules.MemoryPhaseSeconds < 0 {
			return fmt.Errorf("mode %q: rule durations must be >= 0", mode.Name)
		}
	}
	return nil
}

func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
