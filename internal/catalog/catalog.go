// Package catalog provides the word-pair sets, game modes and tips.
package catalog

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/cryptomatch/internal/model"
)

// Catalog is the read-only content a session plays through.
type Catalog struct {
	Sets  [][]model.WordPair
	Modes []model.GameMode
	Tips  []string
}

type fileCatalog struct {
	Sets  []fileSet        `toml:"sets"`
	Modes []model.GameMode `toml:"modes"`
	Tips  []string         `toml:"tips"`
}

type fileSet struct {
	Name  string           `toml:"name"`
	Pairs []model.WordPair `toml:"pairs"`
}

// Default returns the built-in Web3 catalog.
func Default() Catalog {
	sets := make([][]model.WordPair, len(defaultSets))
	for i, set := range defaultSets {
		sets[i] = append([]model.WordPair(nil), set...)
	}
	return Catalog{
		Sets:  sets,
		Modes: append([]model.GameMode(nil), defaultModes...),
		Tips:  append([]string(nil), defaultTips...),
	}
}

// LoadFile reads a TOML catalog. Sections missing from the file fall back to defaults.
func LoadFile(path string) (Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); err != nil {
		return Catalog{}, fmt.Errorf("failed to stat catalog: %w", err)
	}
	var fc fileCatalog
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return Catalog{}, fmt.Errorf("failed to decode catalog: %w", err)
	}
	cat := Default()
	if len(fc.Sets) > 0 {
		cat.Sets = make([][]model.WordPair, 0, len(fc.Sets))
		for _, set := range fc.Sets {
			cat.Sets = append(cat.Sets, set.Pairs)
		}
	}
	if len(fc.Modes) > 0 {
		cat.Modes = fc.Modes
	}
	if len(fc.Tips) > 0 {
		cat.Tips = fc.Tips
	}
	if err := cat.Validate(); err != nil {
		return Catalog{}, err
	}
	return cat, nil
}

// ModeIndex maps a set index to its mode: every two consecutive sets share a mode.
func ModeIndex(setIndex, modeCount int) int {
	if modeCount <= 0 || setIndex < 0 {
		return 0
	}
	return (setIndex / 2) % modeCount
}

// ModeFor returns the mode that applies to the given set.
func (c Catalog) ModeFor(setIndex int) model.GameMode {
	if len(c.Modes) == 0 {
		return model.GameMode{}
	}
	return c.Modes[ModeIndex(setIndex, len(c.Modes))]
}

// Tip picks a random tip, or "" when none are configured.
func (c Catalog) Tip(rnd *rand.Rand) string {
	if len(c.Tips) == 0 {
		return ""
	}
	if rnd == nil {
		return c.Tips[0]
	}
	return c.Tips[rnd.Intn(len(c.Tips))]
}

// PairCount returns the total number of pairs across all sets.
func (c Catalog) PairCount() int {
	total := 0
	for _, set := range c.Sets {
		total += len(set)
	}
	return total
}
