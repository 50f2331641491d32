package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/cryptomatch/internal/model"
	"github.com/verte-zerg/cryptomatch/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "cryptomatch.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	modes := []string{"Classic Mode", "Classic Mode", "Chain Combo Mode"}
	for i, mode := range modes {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		end := start.Add(30 * time.Second)
		outcome := model.OutcomeCompleted
		matched := 5
		if i == 2 {
			outcome = model.OutcomeTimeout
			matched = 2
		}
		_, err := st.InsertRound(ctx, model.RoundRecord{
			SessionID:     "s1",
			WalletAddress: "0xabc",
			SetIndex:      i,
			Mode:          mode,
			Outcome:       outcome,
			Score:         5*i + matched,
			MatchedPairs:  matched,
			PairCount:     5,
			XPEarned:      float64(matched),
			StartedAt:     start,
			EndedAt:       end,
			DurationMs:    end.Sub(start).Milliseconds(),
		})
		if err != nil {
			t.Fatalf("insert round: %v", err)
		}
	}

	report, err := BuildReport(ctx, st, model.HistoryFilter{Wallet: "0xabc", Last: 2, CurveWindow: 1})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Rounds) != 2 {
		t.Fatalf("expected 2 rounds, got %d", len(report.Rounds))
	}
	if report.Rounds[0].SetIndex != 1 || report.Rounds[1].SetIndex != 2 {
		t.Fatalf("unexpected rounds: %+v", report.Rounds)
	}
	if len(report.WindowRounds) != 1 || report.WindowRounds[0].Mode != "Chain Combo Mode" {
		t.Fatalf("unexpected window: %+v", report.WindowRounds)
	}
	if len(report.ModesAll) != 2 {
		t.Fatalf("expected 2 mode aggregates, got %d", len(report.ModesAll))
	}
	if report.ModesAll[1].Cleared != 0 || report.ModesAll[0].Cleared != 1 {
		t.Fatalf("unexpected cleared counts: %+v", report.ModesAll)
	}
}

func TestRoundMetrics(t *testing.T) {
	pace, xpRate, completion := RoundMetrics(model.RoundRecord{
		MatchedPairs: 4,
		PairCount:    5,
		XPEarned:     6,
		DurationMs:   30000,
	})
	if pace != 8 || xpRate != 12 || completion != 0.8 {
		t.Fatalf("unexpected metrics: pace=%v xp=%v completion=%v", pace, xpRate, completion)
	}
	pace, _, completion = RoundMetrics(model.RoundRecord{MatchedPairs: 1, PairCount: 5})
	if pace != 0 || completion != 0.2 {
		t.Fatalf("expected zero pace without duration, got %v %v", pace, completion)
	}
}

func TestModeRanking(t *testing.T) {
	aggs := []ModeAggregate{
		{Mode: "Chaos Mode", Rounds: 1, MatchedPairs: 1, PairCount: 5},
		{Mode: "Classic Mode", Rounds: 4, MatchedPairs: 20, PairCount: 20},
		{Mode: "Speed Round", Rounds: 2, MatchedPairs: 6, PairCount: 10},
		{Mode: "Unplayed"},
	}
	top := TopModesByRounds(aggs, 2)
	if len(top) != 2 || top[0] != "Classic Mode" || top[1] != "Speed Round" {
		t.Fatalf("unexpected top modes: %v", top)
	}
	weak := WeakModes(aggs, 2)
	if len(weak) != 2 || weak[0] != "Chaos Mode" || weak[1] != "Speed Round" {
		t.Fatalf("unexpected weak modes: %v", weak)
	}
}

func TestRenderSummaryAndLeaderboard(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil); err != nil {
		t.Fatalf("render empty summary: %v", err)
	}
	if !strings.Contains(buf.String(), "No rounds found.") {
		t.Fatalf("expected empty notice, got %q", buf.String())
	}

	buf.Reset()
	err := RenderLeaderboard(&buf, []model.LeaderboardEntry{
		{Rank: 1, WalletAddress: "0x52908400098527886E0F7030069857D2E4169EE7", Score: 42, XP: 99.5},
		{Rank: 2, WalletAddress: "0x8617E340B3D01FA5F11F306F4090FD50E238070D", DisplayIdentity: "vitalik.eth", Score: 7, XP: 3},
	})
	if err != nil {
		t.Fatalf("render leaderboard: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "0x5290...9EE7") || !strings.Contains(out, "vitalik.eth") {
		t.Fatalf("unexpected leaderboard output:\n%s", out)
	}

	buf.Reset()
	if err := RenderAirdrop(&buf, AirdropProgress(210), 10); err != nil {
		t.Fatalf("render airdrop: %v", err)
	}
	if !strings.Contains(buf.String(), "[#####.....] 210/420 qualified (50.0%)") {
		t.Fatalf("unexpected airdrop output:\n%s", buf.String())
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	if s := Sparkline([]float64{1, 1, 1}); s != "+++" {
		t.Fatalf("unexpected flat sparkline %q", s)
	}
}
