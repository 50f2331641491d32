package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/cryptomatch/internal/engine"
	"github.com/verte-zerg/cryptomatch/internal/model"
)

func TestGridIsColumnMajor(t *testing.T) {
	if got := boardRows(10); got != 5 {
		t.Fatalf("expected 5 rows, got %d", got)
	}
	if got := gridIndex(0, 1, 10); got != 5 {
		t.Fatalf("expected first right-column card at 5, got %d", got)
	}
	if got := gridIndex(3, 1, 7); got != -1 {
		t.Fatalf("expected empty slot in ragged grid, got %d", got)
	}
}

func TestMoveCursorStopsAtEdges(t *testing.T) {
	cases := []struct {
		pos, dRow, dCol, want int
	}{
		{0, -1, 0, 0},
		{0, 1, 0, 1},
		{4, 1, 0, 4},
		{1, 0, 1, 6},
		{6, 0, 1, 6},
		{6, 0, -1, 1},
	}
	for _, tc := range cases {
		if got := moveCursor(tc.pos, 10, tc.dRow, tc.dCol); got != tc.want {
			t.Fatalf("moveCursor(%d, %d, %d) = %d, want %d", tc.pos, tc.dRow, tc.dCol, got, tc.want)
		}
	}
}

func TestShortcutKeys(t *testing.T) {
	if idx, ok := shortcutIndex("1"); !ok || idx != 0 {
		t.Fatalf("expected 1 to pick position 0")
	}
	if idx, ok := shortcutIndex("0"); !ok || idx != 9 {
		t.Fatalf("expected 0 to pick position 9")
	}
	if _, ok := shortcutIndex("x"); ok {
		t.Fatalf("expected letters to be ignored")
	}
	if shortcutLabel(9) != "0" || shortcutLabel(10) != "" {
		t.Fatalf("unexpected labels")
	}
}

func TestRenderHeaderFormats(t *testing.T) {
	st := engine.SessionState{
		SetIndex:      1,
		SetCount:      5,
		Score:         7,
		BestScore:     12,
		SessionXP:     3.5,
		TotalXP:       20,
		ComboCount:    3,
		MatchedPairs:  2,
		PairCount:     5,
		TimeRemaining: 37,
		Mode:          model.GameMode{Name: "Chain Combo Mode", Rules: model.SpecialRules{ChainCombo: true}},
		Player:        "0x52908400098527886E0F7030069857D2E4169EE7",
		StatsEnabled:  true,
		LastMatchAt:   time.Now(),
	}
	out := renderHeader(st, "")
	want := []string{"Set 2/5", "Chain Combo Mode", "Score 7", "Best 12", "XP 3.5", "Total XP 20.0", "Combo x3", "Pairs 2/5", "37s", "0x5290...9EE7"}
	if !containsAll(out, want) {
		t.Fatalf("header missing expected segments: %s", out)
	}

	st.StatsEnabled = false
	st.Player = ""
	out = renderHeader(st, "")
	if strings.Contains(out, "Best") || !strings.Contains(out, "guest") {
		t.Fatalf("guest header should hide stats: %s", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
