package statsui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/cryptomatch/internal/model"
	"github.com/verte-zerg/cryptomatch/internal/stats"
	"github.com/verte-zerg/cryptomatch/internal/store"
)

const wallet = "0x52908400098527886E0F7030069857D2E4169EE7"

type recordingHistory struct {
	filters []model.HistoryFilter
	rounds  []model.RoundRecord
}

func (h *recordingHistory) ListRounds(_ context.Context, filter model.HistoryFilter) ([]model.RoundRecord, error) {
	h.filters = append(h.filters, filter)
	return h.rounds, nil
}

func sized(t *testing.T, m *Model) *Model {
	t.Helper()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(*Model)
}

func TestCurveWindowSteps(t *testing.T) {
	cases := []struct {
		in, next, prev int
	}{
		{1, 5, 1},
		{5, 10, 1},
		{7, 10, 5},
		{10, 15, 5},
	}
	for _, tc := range cases {
		if got := nextCurveWindow(tc.in); got != tc.next {
			t.Fatalf("nextCurveWindow(%d) = %d, want %d", tc.in, got, tc.next)
		}
		if got := prevCurveWindow(tc.in); got != tc.prev {
			t.Fatalf("prevCurveWindow(%d) = %d, want %d", tc.in, got, tc.prev)
		}
	}
}

func TestApplyFilterValidates(t *testing.T) {
	history := &recordingHistory{}
	m := NewModel(Options{Service: stats.Disabled{}, History: history})

	m.filterInputs[0].SetValue("0x123")
	if _, err := m.applyFilter(); err == nil {
		t.Fatalf("expected invalid wallet error")
	}

	m.filterInputs[0].SetValue(strings.ToLower(wallet))
	m.filterInputs[1].SetValue("2026/01/01")
	if _, err := m.applyFilter(); err == nil {
		t.Fatalf("expected invalid date error")
	}

	m.filterInputs[1].SetValue("2026-01-01")
	m.filterInputs[2].SetValue("-3")
	if _, err := m.applyFilter(); err == nil {
		t.Fatalf("expected invalid last error")
	}

	m.filterInputs[2].SetValue("20")
	m.filterInputs[3].SetValue("0")
	if _, err := m.applyFilter(); err == nil {
		t.Fatalf("expected invalid window error")
	}

	m.filterInputs[3].SetValue("7")
	changed, err := m.applyFilter()
	if err != nil {
		t.Fatalf("apply filter: %v", err)
	}
	if !changed {
		t.Fatalf("expected wallet change to be reported")
	}
	if m.filter.Wallet != wallet {
		t.Fatalf("expected checksummed wallet, got %q", m.filter.Wallet)
	}
	if m.filter.Since == nil || m.filter.Since.Format(sinceLayout) != "2026-01-01" {
		t.Fatalf("unexpected since: %v", m.filter.Since)
	}
	if m.filter.Last != 20 || m.filter.CurveWindow != 7 {
		t.Fatalf("unexpected filter: %+v", m.filter)
	}
}

func TestFilterFormReloadsHistory(t *testing.T) {
	history := &recordingHistory{}
	m := sized(t, NewModel(Options{Service: stats.Disabled{}, History: history}))
	before := len(history.filters)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	m = updated.(*Model)
	if !m.filterMode {
		t.Fatalf("expected filter mode")
	}
	m.filterInputs[2].SetValue("5")
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)
	if m.filterMode {
		t.Fatalf("expected filter mode to close")
	}
	if len(history.filters) != before+1 {
		t.Fatalf("expected history reload, got %d calls", len(history.filters)-before)
	}
	if got := history.filters[len(history.filters)-1].Last; got != 5 {
		t.Fatalf("expected last=5 passed to history, got %d", got)
	}
	if !strings.Contains(m.View(), "last=5") {
		t.Fatalf("expected settings summary to show last=5")
	}
}

func TestLeaderboardTab(t *testing.T) {
	m := sized(t, NewModel(Options{Service: stats.Disabled{}}))

	updated, _ := m.Update(leaderboardMsg{entries: []model.LeaderboardEntry{
		{Rank: 1, WalletAddress: wallet, DisplayIdentity: "vitalik.eth", Score: 180, XP: 42.5},
		{Rank: 2, WalletAddress: wallet, Score: 90, XP: 12},
	}})
	m = updated.(*Model)
	view := m.View()
	for _, want := range []string{"Leaderboard", "vitalik.eth", "180", "42.5", "0x5290...9EE7"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in leaderboard view", want)
		}
	}

	updated, _ = m.Update(leaderboardMsg{err: stats.ErrDisabled})
	m = updated.(*Model)
	if !strings.Contains(m.View(), "not configured") {
		t.Fatalf("expected disabled message")
	}
}

func TestAirdropTab(t *testing.T) {
	m := sized(t, NewModel(Options{
		Service: stats.Disabled{},
		Filter:  model.HistoryFilter{Wallet: wallet},
	}))
	m.moveTab(-1)
	if m.activeTab != tabAirdrop {
		t.Fatalf("expected tabs to wrap to airdrop, got %d", m.activeTab)
	}

	updated, _ := m.Update(airdropMsg{status: stats.AirdropProgress(21)})
	m = updated.(*Model)
	updated, _ = m.Update(playerMsg{player: model.PlayerStats{WalletAddress: wallet, Score: 150, XP: 30}})
	m = updated.(*Model)

	view := m.View()
	for _, want := range []string{"21/420", "Ready to claim", "150"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in airdrop view", want)
		}
	}

	updated, _ = m.Update(playerMsg{err: stats.ErrNotFound})
	m = updated.(*Model)
	if !strings.Contains(m.View(), "No stats recorded") {
		t.Fatalf("expected not found message")
	}
}

func TestHistoryTabFromStore(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "cryptomatch.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	ctx := context.Background()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		outcome := model.OutcomeCompleted
		matched := 5
		if i%2 == 1 {
			outcome = model.OutcomeTimeout
			matched = 2
		}
		_, err := st.InsertRound(ctx, model.RoundRecord{
			SessionID:     "s1",
			WalletAddress: wallet,
			SetIndex:      i,
			Mode:          "Classic",
			Outcome:       outcome,
			Score:         (i + 1) * 20,
			MatchedPairs:  matched,
			PairCount:     5,
			XPEarned:      float64(matched) * 2,
			StartedAt:     start.Add(time.Duration(i) * time.Minute),
			EndedAt:       start.Add(time.Duration(i)*time.Minute + 40*time.Second),
			DurationMs:    40000,
		})
		if err != nil {
			t.Fatalf("insert round: %v", err)
		}
	}

	local := stats.NewLocal(st, zerolog.Nop())
	m := sized(t, NewModel(Options{Service: local, History: st}))
	m.moveTab(1)
	view := m.View()
	for _, want := range []string{"Rounds", "Cleared", "Best Score"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in history view", want)
		}
	}
	if m.report.Rounds == nil || len(m.report.Rounds) != 4 {
		t.Fatalf("expected 4 rounds in report, got %d", len(m.report.Rounds))
	}
}
