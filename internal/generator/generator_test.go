package generator

import (
	"testing"

	"github.com/verte-zerg/cryptomatch/internal/model"
)

var testPairs = []model.WordPair{
	{Term: "Gas", Definition: "Computational fee"},
	{Term: "Wei", Definition: "Smallest denomination"},
	{Term: "EVM", Definition: "Virtual machine"},
	{Term: "Mainnet", Definition: "Primary network"},
	{Term: "gwei", Definition: "Gas price unit"},
}

func TestDealColumnsKeepsTermOrder(t *testing.T) {
	g := NewSeeded(7)
	cards := g.Deal(testPairs, LayoutColumns)
	if len(cards) != 2*len(testPairs) {
		t.Fatalf("expected %d cards, got %d", 2*len(testPairs), len(cards))
	}
	for i, pair := range testPairs {
		if cards[i].Kind != model.KindTerm || cards[i].Text != pair.Term || cards[i].ID != i {
			t.Fatalf("unexpected term card at %d: %+v", i, cards[i])
		}
	}
	for _, c := range cards[len(testPairs):] {
		if c.Kind != model.KindDefinition {
			t.Fatalf("expected definitions after terms, got %+v", c)
		}
	}
}

func TestDealHasOneCounterpartPerPair(t *testing.T) {
	g := NewSeeded(42)
	cards := g.Deal(testPairs, LayoutShuffled)
	seen := map[int]bool{}
	texts := map[string]model.CardKind{}
	for _, c := range cards {
		if seen[c.ID] {
			t.Fatalf("duplicate id %d", c.ID)
		}
		seen[c.ID] = true
		texts[c.Text] = c.Kind
		if c.Matched || c.Selected || c.Incorrect {
			t.Fatalf("expected fresh card, got %+v", c)
		}
	}
	for _, pair := range testPairs {
		if texts[pair.Term] != model.KindTerm {
			t.Fatalf("missing term card for %q", pair.Term)
		}
		if texts[pair.Definition] != model.KindDefinition {
			t.Fatalf("missing definition card for %q", pair.Definition)
		}
	}
}

func TestShuffleKeepsFlags(t *testing.T) {
	g := NewSeeded(1)
	cards := g.Deal(testPairs, LayoutColumns)
	cards[0].Matched = true
	cards[3].Selected = true
	g.Shuffle(cards)
	matched, selected := 0, 0
	for _, c := range cards {
		if c.Matched {
			matched++
			if c.ID != 0 {
				t.Fatalf("matched flag moved to card %d", c.ID)
			}
		}
		if c.Selected {
			selected++
			if c.ID != 3 {
				t.Fatalf("selected flag moved to card %d", c.ID)
			}
		}
	}
	if matched != 1 || selected != 1 {
		t.Fatalf("expected flags to survive shuffle, matched=%d selected=%d", matched, selected)
	}
}

func TestParseLayout(t *testing.T) {
	if l, ok := ParseLayout(""); !ok || l != LayoutColumns {
		t.Fatalf("expected empty layout to default to columns")
	}
	if _, ok := ParseLayout("grid"); ok {
		t.Fatalf("expected unknown layout to be rejected")
	}
}
