// Package generator deals and shuffles card decks.
package generator

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/cryptomatch/internal/model"
)

// Layout controls how a fresh deck is ordered.
type Layout string

const (
	// LayoutColumns keeps term order and shuffles definitions.
	LayoutColumns Layout = "columns"
	// LayoutShuffled shuffles every card.
	LayoutShuffled Layout = "shuffled"
)

// ParseLayout maps a config value to a Layout. Empty means LayoutColumns.
func ParseLayout(s string) (Layout, bool) {
	switch Layout(s) {
	case "", LayoutColumns:
		return LayoutColumns, true
	case LayoutShuffled:
		return LayoutShuffled, true
	default:
		return "", false
	}
}

// Generator produces randomized decks.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Rand exposes the underlying source for callers that need extra randomness.
func (g *Generator) Rand() *rand.Rand {
	return g.rnd
}

// Deal builds one term card and one definition card per pair.
// Term ids are 0..n-1 and definition ids n..2n-1.
func (g *Generator) Deal(pairs []model.WordPair, layout Layout) []model.Card {
	n := len(pairs)
	terms := make([]model.Card, 0, n)
	defs := make([]model.Card, 0, n)
	for i, pair := range pairs {
		terms = append(terms, model.Card{ID: i, Text: pair.Term, Kind: model.KindTerm})
		defs = append(defs, model.Card{ID: i + n, Text: pair.Definition, Kind: model.KindDefinition})
	}
	if layout == LayoutShuffled {
		cards := append(terms, defs...)
		g.Shuffle(cards)
		return cards
	}
	g.Shuffle(defs)
	return append(terms, defs...)
}

// Shuffle permutes card order in place. Card flags are untouched.
func (g *Generator) Shuffle(cards []model.Card) {
	g.rnd.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}
