package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/cryptomatch/internal/catalog"
	"github.com/verte-zerg/cryptomatch/internal/generator"
	"github.com/verte-zerg/cryptomatch/internal/model"
)

const testWallet = "0x52908400098527886E0F7030069857D2E4169EE7"

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type harness struct {
	t      *testing.T
	e      *Engine
	clock  *fakeClock
	timers []Timer
}

// ethereumFirst puts the Ethereum concepts set at index 0.
func ethereumFirst() catalog.Catalog {
	cat := catalog.Default()
	cat.Sets[0], cat.Sets[1] = cat.Sets[1], cat.Sets[0]
	return cat
}

func newHarness(t *testing.T, cat catalog.Catalog, player string) *harness {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	e := New(Config{
		Catalog:   cat,
		Policy:    DefaultPolicy(),
		Generator: generator.NewSeeded(11),
		Player:    player,
		Clock:     clock.Now,
	})
	return &harness{t: t, e: e, clock: clock}
}

func (h *harness) start() {
	h.t.Helper()
	require.NoError(h.t, h.e.StartSession())
	h.drain()
}

func (h *harness) drain() {
	h.timers = append(h.timers, h.e.TakeTimers()...)
}

// fire delivers the newest pending timer of kind.
func (h *harness) fire(kind TimerKind) {
	h.t.Helper()
	h.drain()
	for i := len(h.timers) - 1; i >= 0; i-- {
		if h.timers[i].Kind != kind {
			continue
		}
		tm := h.timers[i]
		h.timers = append(h.timers[:i], h.timers[i+1:]...)
		h.e.Fire(tm)
		h.drain()
		return
	}
	h.t.Fatalf("no pending %s timer", kind)
}

func (h *harness) card(text string) model.Card {
	h.t.Helper()
	for _, c := range h.e.State().Cards {
		if c.Text == text {
			return c
		}
	}
	h.t.Fatalf("no card with text %q", text)
	return model.Card{}
}

func (h *harness) match(pair model.WordPair) {
	h.t.Helper()
	h.e.SelectCard(h.card(pair.Term).ID)
	h.e.SelectCard(h.card(pair.Definition).ID)
}

func eventKinds(events []Event) []EventKind {
	kinds := make([]EventKind, 0, len(events))
	for _, ev := range events {
		kinds = append(kinds, ev.Kind)
	}
	return kinds
}

func TestStartSessionRejectsEmptyCatalog(t *testing.T) {
	e := New(Config{})
	require.ErrorIs(t, e.StartSession(), ErrEmptyCatalog)
	require.Equal(t, PhaseIdle, e.State().Phase)
}

func TestStartSessionEntersModeIntro(t *testing.T) {
	cat := ethereumFirst()
	h := newHarness(t, cat, "")
	h.start()

	state := h.e.State()
	require.Equal(t, PhaseModeIntro, state.Phase)
	require.Equal(t, 0, state.SetIndex)
	require.Equal(t, 0, state.Score)
	require.Equal(t, cat.Modes[0], state.Mode)
	require.Len(t, state.Cards, 10)
	require.Equal(t, 60, state.TimeRemaining)
	require.NotEmpty(t, state.SessionID)
	require.Equal(t, []EventKind{EventModeChanged}, eventKinds(h.e.Events()))
	require.Empty(t, h.timers)

	h.e.SelectCard(h.card("Gas").ID)
	require.Empty(t, h.e.State().Selected)
}

func TestCompletingSetAdvancesWithSameMode(t *testing.T) {
	cat := ethereumFirst()
	h := newHarness(t, cat, "")
	h.start()
	h.e.Events()
	h.e.ConfirmModeIntro()
	h.drain()
	require.Equal(t, PhasePlaying, h.e.State().Phase)

	for i, pair := range cat.Sets[0] {
		h.match(pair)
		if i < len(cat.Sets[0])-1 {
			require.Equal(t, i+1, h.e.State().MatchedPairs)
		}
	}

	state := h.e.State()
	require.Equal(t, 5, state.Score)
	require.Equal(t, 1, state.SetIndex)
	require.Equal(t, 0, state.MatchedPairs)
	require.Equal(t, PhaseModeIntro, state.Phase)
	require.Equal(t, cat.Modes[0], state.Mode)
	require.InDelta(t, 5.0, state.SessionXP, 1e-9)
	for _, c := range state.Cards {
		require.False(t, c.Matched)
	}

	events := h.e.Events()
	require.Equal(t, []EventKind{EventSetComplete}, eventKinds(events))
	require.Equal(t, 5, events[0].Score)
	require.Equal(t, 3*time.Second, events[0].Duration)
	require.NotNil(t, events[0].Round)
	require.Equal(t, model.OutcomeCompleted, events[0].Round.Outcome)
	require.Equal(t, 5, events[0].Round.MatchedPairs)
}

func TestMatchWorksFromDefinitionSide(t *testing.T) {
	cat := ethereumFirst()
	h := newHarness(t, cat, "")
	h.start()
	h.e.ConfirmModeIntro()

	pair := cat.Sets[0][2]
	h.e.SelectCard(h.card(pair.Definition).ID)
	h.e.SelectCard(h.card(pair.Term).ID)

	state := h.e.State()
	require.Equal(t, 1, state.Score)
	require.True(t, h.card(pair.Term).Matched)
	require.True(t, h.card(pair.Definition).Matched)
	require.Empty(t, state.Selected)
}

func TestIncorrectMatchRevealsCounterpart(t *testing.T) {
	cat := ethereumFirst()
	h := newHarness(t, cat, "")
	h.start()
	h.e.ConfirmModeIntro()
	h.drain()
	h.e.Events()

	h.e.SelectCard(h.card("Gas").ID)
	h.e.SelectCard(h.card("Smallest denomination of Ether (1 ETH = 10^18 Wei)").ID)

	state := h.e.State()
	require.Equal(t, PhaseResolving, state.Phase)
	require.Equal(t, 0, state.Score)
	require.Equal(t, 0, state.ComboCount)
	require.Equal(t, "Computational fee required to execute transactions on Ethereum", state.CorrectAnswer)
	require.True(t, h.card("Gas").Incorrect)

	events := h.e.Events()
	require.Equal(t, []EventKind{EventIncorrectMatch}, eventKinds(events))
	require.Equal(t, state.CorrectAnswer, events[0].CorrectAnswer)
	require.Equal(t, 500*time.Millisecond, events[0].Duration)

	// Input is ignored until the window closes.
	h.e.SelectCard(h.card("Wei").ID)
	require.False(t, h.card("Wei").Selected)

	h.fire(TimerIncorrect)
	state = h.e.State()
	require.Equal(t, PhasePlaying, state.Phase)
	require.Empty(t, state.Selected)
	require.Empty(t, state.CorrectAnswer)
	for _, c := range state.Cards {
		require.False(t, c.Selected)
		require.False(t, c.Incorrect)
	}
}

func TestSameKindPickReplacesSelection(t *testing.T) {
	cat := ethereumFirst()
	h := newHarness(t, cat, "")
	h.start()
	h.e.ConfirmModeIntro()

	gas, wei := h.card("Gas"), h.card("Wei")
	h.e.SelectCard(gas.ID)
	h.e.SelectCard(wei.ID)

	state := h.e.State()
	require.Equal(t, []int{wei.ID}, state.Selected)
	require.False(t, h.card("Gas").Selected)
	require.True(t, h.card("Wei").Selected)
	require.Equal(t, PhasePlaying, state.Phase)
}

func TestSelectingMatchedOrSelectedCardIsIgnored(t *testing.T) {
	cat := ethereumFirst()
	h := newHarness(t, cat, "")
	h.start()
	h.e.ConfirmModeIntro()

	pair := cat.Sets[0][0]
	h.match(pair)
	h.e.SelectCard(h.card(pair.Term).ID)
	require.Empty(t, h.e.State().Selected)

	wei := h.card("Wei")
	h.e.SelectCard(wei.ID)
	h.e.SelectCard(wei.ID)
	require.Equal(t, []int{wei.ID}, h.e.State().Selected)

	h.e.SelectCard(999)
	require.Equal(t, []int{wei.ID}, h.e.State().Selected)
	require.Equal(t, 1, h.e.State().Score)
}

func TestTimeoutEndsSessionWithCumulativeScore(t *testing.T) {
	cat := ethereumFirst()
	h := newHarness(t, cat, "")
	h.start()
	h.e.ConfirmModeIntro()
	h.e.Events()

	for _, pair := range cat.Sets[0][:3] {
		h.match(pair)
	}
	for i := 0; i < 59; i++ {
		h.e.Tick()
	}
	require.Equal(t, 1, h.e.State().TimeRemaining)
	require.Equal(t, PhasePlaying, h.e.State().Phase)

	h.e.Tick()
	state := h.e.State()
	require.Equal(t, PhaseGameOver, state.Phase)
	require.Equal(t, OutcomeTimeout, state.Outcome)
	require.Equal(t, 3, state.Score)
	require.Equal(t, 0, state.TimeRemaining)

	events := h.e.Events()
	require.Equal(t, []EventKind{EventRoundTimeout, EventGameOver}, eventKinds(events))
	require.Equal(t, model.OutcomeTimeout, events[0].Round.Outcome)
	require.Equal(t, 3, events[0].Round.MatchedPairs)

	h.e.Tick()
	h.e.SelectCard(h.card(cat.Sets[0][3].Term).ID)
	require.Equal(t, 0, h.e.State().TimeRemaining)
	require.Empty(t, h.e.State().Selected)
	require.Empty(t, h.e.TakeTimers())
}

func TestTimeoutDuringIncorrectWindow(t *testing.T) {
	cat := ethereumFirst()
	cat.Modes[0].TimeLimitSeconds = 1
	h := newHarness(t, cat, "")
	h.start()
	h.e.ConfirmModeIntro()
	h.drain()

	h.e.SelectCard(h.card("Gas").ID)
	h.e.SelectCard(h.card("Wei").ID)
	h.e.SelectCard(h.card("Primary network where actual transactions occur").ID)
	h.drain()
	require.Equal(t, PhaseResolving, h.e.State().Phase)

	h.fire(TimerCountdown)
	require.Equal(t, PhaseGameOver, h.e.State().Phase)

	// The incorrect window timer was armed before the timeout and is now stale.
	h.fire(TimerIncorrect)
	require.Equal(t, PhaseGameOver, h.e.State().Phase)
	for _, c := range h.e.State().Cards {
		require.False(t, c.Incorrect)
	}
}

func TestCountdownTimerRearmsAndStaleTimersAreIgnored(t *testing.T) {
	cat := ethereumFirst()
	h := newHarness(t, cat, "")
	h.start()
	h.e.ConfirmModeIntro()
	first := h.e.TakeTimers()
	require.Len(t, first, 1)
	require.Equal(t, TimerCountdown, first[0].Kind)
	require.Equal(t, time.Second, first[0].After)

	h.e.Fire(first[0])
	require.Equal(t, 59, h.e.State().TimeRemaining)
	next := h.e.TakeTimers()
	require.Len(t, next, 1)

	// Re-delivering an already fired timer has no effect.
	h.e.Fire(first[0])
	require.Equal(t, 59, h.e.State().TimeRemaining)

	h.e.RestartSet()
	require.Equal(t, 60, h.e.State().TimeRemaining)
	h.e.Fire(next[0])
	require.Equal(t, 60, h.e.State().TimeRemaining)
}

func TestMemoryPreviewBlocksInputAndClock(t *testing.T) {
	cat := ethereumFirst()
	cat.Modes = []model.GameMode{cat.Modes[2]}
	h := newHarness(t, cat, "")
	h.start()
	h.e.ConfirmModeIntro()
	h.drain()

	state := h.e.State()
	require.Equal(t, PhaseMemoryPreview, state.Phase)
	require.Len(t, h.timers, 1)
	require.Equal(t, TimerMemoryPreview, h.timers[0].Kind)
	require.Equal(t, 5*time.Second, h.timers[0].After)
	for _, c := range state.Cards {
		require.True(t, h.e.FaceUp(c))
	}

	h.e.SelectCard(h.card("Gas").ID)
	h.e.Tick()
	require.Empty(t, h.e.State().Selected)
	require.Equal(t, 40, h.e.State().TimeRemaining)

	h.fire(TimerMemoryPreview)
	require.Equal(t, PhasePlaying, h.e.State().Phase)
	require.False(t, h.e.FaceUp(h.card("Gas")))

	h.e.SelectCard(h.card("Gas").ID)
	require.True(t, h.e.FaceUp(h.card("Gas")))
	require.False(t, h.e.FaceUp(h.card("Wei")))
}

func TestChainComboXP(t *testing.T) {
	cat := ethereumFirst()
	cat.Modes = []model.GameMode{cat.Modes[1]}
	h := newHarness(t, cat, "")
	h.start()
	h.e.ConfirmModeIntro()
	set := cat.Sets[0]

	h.match(set[0])
	require.Equal(t, 1, h.e.State().ComboCount)
	require.InDelta(t, 1.5, h.e.State().SessionXP, 1e-9)

	h.clock.Advance(time.Second)
	h.match(set[1])
	require.Equal(t, 2, h.e.State().ComboCount)
	require.InDelta(t, 1.5+1.5*2, h.e.State().SessionXP, 1e-9)

	h.clock.Advance(3 * time.Second)
	h.match(set[2])
	require.Equal(t, 3, h.e.State().ComboCount)
	require.InDelta(t, 1.5+3+1.5*2.5, h.e.State().SessionXP, 1e-9)

	h.e.SelectCard(h.card(set[3].Term).ID)
	h.e.SelectCard(h.card(set[0].Definition).ID)
	require.Equal(t, PhasePlaying, h.e.State().Phase)
	h.e.SelectCard(h.card(set[4].Definition).ID)
	require.Equal(t, PhaseResolving, h.e.State().Phase)
	require.Equal(t, 0, h.e.State().ComboCount)
	h.fire(TimerIncorrect)

	h.clock.Advance(3*time.Second + time.Millisecond)
	h.match(set[3])
	require.Equal(t, 1, h.e.State().ComboCount)
	require.InDelta(t, 1.5+3+3.75+1.5, h.e.State().SessionXP, 1e-9)
}

func TestComboStaysAtOneWithoutChainRule(t *testing.T) {
	cat := ethereumFirst()
	h := newHarness(t, cat, "")
	h.start()
	h.e.ConfirmModeIntro()

	h.match(cat.Sets[0][0])
	h.match(cat.Sets[0][1])
	require.Equal(t, 1, h.e.State().ComboCount)
	require.InDelta(t, 2.0, h.e.State().SessionXP, 1e-9)
}

func TestPolicyComboBonusIsCapped(t *testing.T) {
	p := DefaultPolicy()
	mode := model.GameMode{XPMultiplier: 3, Rules: model.SpecialRules{ChainCombo: true}}
	require.InDelta(t, 3.0, p.MatchXP(mode, 1, false), 1e-9)
	require.InDelta(t, 6.0, p.MatchXP(mode, 2, true), 1e-9)
	require.InDelta(t, 9.0, p.MatchXP(mode, 10, true), 1e-9)

	now := time.Now()
	require.False(t, p.Chains(mode, time.Time{}, now))
	require.True(t, p.Chains(mode, now.Add(-3*time.Second), now))
	require.False(t, p.Chains(model.GameMode{}, now.Add(-time.Second), now))
}

func TestPolicyWithConfig(t *testing.T) {
	p := DefaultPolicy().WithConfig(model.PolicyConfig{ChainWindowMs: 1500, ComboCap: 4})
	require.Equal(t, 1500*time.Millisecond, p.ChainWindow)
	require.InDelta(t, 4.0, p.ComboCap, 1e-9)
	require.InDelta(t, 0.5, p.ComboStep, 1e-9)
	require.Equal(t, 500*time.Millisecond, p.IncorrectWindow)
}

func TestModeRotatesEveryTwoSets(t *testing.T) {
	cat := ethereumFirst()
	h := newHarness(t, cat, "")
	h.start()
	h.e.Events()

	for set := 0; set < 2; set++ {
		h.e.ConfirmModeIntro()
		for _, pair := range cat.Sets[set] {
			h.match(pair)
		}
	}

	state := h.e.State()
	require.Equal(t, 2, state.SetIndex)
	require.Equal(t, cat.Modes[1], state.Mode)
	require.Equal(t, 45, state.TimeRemaining)
	events := h.e.Events()
	require.Equal(t, []EventKind{EventSetComplete, EventSetComplete, EventModeChanged}, eventKinds(events))
	require.Equal(t, cat.Modes[1].Name, events[2].Mode.Name)
}

func TestShuffleTimerPermutesWithoutTouchingFlags(t *testing.T) {
	cat := ethereumFirst()
	cat.Modes = []model.GameMode{cat.Modes[4]}
	h := newHarness(t, cat, "")
	h.start()
	h.e.ConfirmModeIntro()
	h.drain()
	require.Len(t, h.timers, 2)

	h.match(cat.Sets[0][0])
	h.e.SelectCard(h.card("Wei").ID)
	before := h.e.State().Cards

	h.fire(TimerShuffle)
	after := h.e.State().Cards
	require.ElementsMatch(t, before, after)
	require.True(t, h.card("Wei").Selected)
	require.True(t, h.card(cat.Sets[0][0].Term).Matched)

	pending := h.e.TakeTimers()
	h.timers = append(h.timers, pending...)
	found := false
	for _, tm := range h.timers {
		if tm.Kind == TimerShuffle && tm.After == 5*time.Second {
			found = true
		}
	}
	require.True(t, found)
}

func TestRestartSetRestoresSetStartScore(t *testing.T) {
	cat := ethereumFirst()
	h := newHarness(t, cat, "")
	h.start()
	h.e.ConfirmModeIntro()
	for _, pair := range cat.Sets[0] {
		h.match(pair)
	}
	h.e.ConfirmModeIntro()
	h.match(cat.Sets[1][0])
	h.match(cat.Sets[1][1])
	require.Equal(t, 7, h.e.State().Score)

	h.e.RestartSet()
	state := h.e.State()
	require.Equal(t, PhasePlaying, state.Phase)
	require.Equal(t, 5, state.Score)
	require.Equal(t, 0, state.MatchedPairs)
	require.Equal(t, 1, state.SetIndex)
	require.Equal(t, 60, state.TimeRemaining)
	for _, c := range state.Cards {
		require.False(t, c.Matched)
	}
}

func TestRestartSetAfterTimeout(t *testing.T) {
	cat := ethereumFirst()
	h := newHarness(t, cat, "")
	h.start()
	h.e.ConfirmModeIntro()
	h.match(cat.Sets[0][0])
	for i := 0; i < 60; i++ {
		h.e.Tick()
	}
	require.Equal(t, OutcomeTimeout, h.e.State().Outcome)

	h.e.RestartSet()
	state := h.e.State()
	require.Equal(t, PhasePlaying, state.Phase)
	require.Equal(t, OutcomeNone, state.Outcome)
	require.Equal(t, 0, state.Score)
	h.drain()
	require.NotEmpty(t, h.timers)
}

func TestAllSetsCompleteAndRestartGame(t *testing.T) {
	cat := ethereumFirst()
	cat.Sets = cat.Sets[:2]
	h := newHarness(t, cat, "")
	h.start()
	for set := range cat.Sets {
		h.e.ConfirmModeIntro()
		for _, pair := range cat.Sets[set] {
			h.match(pair)
		}
	}

	state := h.e.State()
	require.Equal(t, PhaseGameOver, state.Phase)
	require.Equal(t, OutcomeAllSetsComplete, state.Outcome)
	require.Equal(t, 10, state.Score)
	require.Equal(t, 10, state.BestScore)
	kinds := eventKinds(h.e.Events())
	require.Equal(t, EventGameOver, kinds[len(kinds)-1])

	h.e.RestartSet()
	require.Equal(t, PhaseGameOver, h.e.State().Phase)

	h.e.RestartGame()
	state = h.e.State()
	require.Equal(t, PhaseModeIntro, state.Phase)
	require.Equal(t, 0, state.SetIndex)
	require.Equal(t, 0, state.Score)
	require.Equal(t, 10, state.BestScore)
	require.Equal(t, cat.Modes[0], state.Mode)
}

func TestStatsDisabledWithoutWallet(t *testing.T) {
	cat := ethereumFirst()
	h := newHarness(t, cat, "")
	h.start()
	h.e.ConfirmModeIntro()
	for _, pair := range cat.Sets[0] {
		h.match(pair)
	}
	require.Empty(t, h.e.TakeStatsRequests())
	require.False(t, h.e.State().StatsEnabled)
	require.Equal(t, 5, h.e.State().Score)
}

func TestStatsRequestsAreQueuedAndCoalesced(t *testing.T) {
	cat := ethereumFirst()
	h := newHarness(t, cat, testWallet)
	h.start()

	reqs := h.e.TakeStatsRequests()
	require.Equal(t, []StatsRequest{{Kind: StatsLoad, Player: testWallet}}, reqs)

	h.e.ConfirmModeIntro()
	h.match(cat.Sets[0][0])
	reqs = h.e.TakeStatsRequests()
	require.Equal(t, []StatsRequest{{Kind: StatsUpdate, Player: testWallet, Score: 1, XPDelta: 1}}, reqs)

	for _, pair := range cat.Sets[0][1:] {
		h.match(pair)
	}
	reqs = h.e.TakeStatsRequests()
	require.Len(t, reqs, 1)
	require.Equal(t, 5, reqs[0].Score)
	require.InDelta(t, 4.0, reqs[0].XPDelta, 1e-9)
}

func TestApplyRemoteMaxMerges(t *testing.T) {
	h := newHarness(t, ethereumFirst(), testWallet)
	h.start()

	h.e.ApplyRemote(model.PlayerStats{WalletAddress: testWallet, Score: 12, XP: 40})
	h.e.ApplyRemote(model.PlayerStats{WalletAddress: testWallet, Score: 4, XP: 10})
	state := h.e.State()
	require.Equal(t, 12, state.BestScore)
	require.InDelta(t, 40.0, state.TotalXP, 1e-9)

	h.e.ApplyRemote(model.PlayerStats{WalletAddress: "0x0000000000000000000000000000000000000001", Score: 99, XP: 99})
	require.Equal(t, 12, h.e.State().BestScore)
}

func TestStatsFailedEmitsNotice(t *testing.T) {
	h := newHarness(t, ethereumFirst(), testWallet)
	h.start()
	h.e.Events()

	h.e.StatsFailed(errors.New("connection refused"))
	events := h.e.Events()
	require.Equal(t, []EventKind{EventStatsUnavailable}, eventKinds(events))
	require.Equal(t, PhaseModeIntro, h.e.State().Phase)
	require.NotEmpty(t, events[0].Message())
}

func TestLogoutCancelsEverything(t *testing.T) {
	cat := ethereumFirst()
	h := newHarness(t, cat, testWallet)
	h.start()
	h.e.ConfirmModeIntro()
	h.drain()

	h.e.Logout()
	state := h.e.State()
	require.Equal(t, PhaseIdle, state.Phase)
	require.False(t, state.StatsEnabled)
	require.Empty(t, state.Cards)
	require.Empty(t, h.e.TakeStatsRequests())

	h.fire(TimerCountdown)
	require.Equal(t, PhaseIdle, h.e.State().Phase)
	require.Empty(t, h.e.TakeTimers())
}
