// Package engine implements the matching game session state machine.
//
// The engine never blocks and owns no goroutines. Timers, stats calls and
// notifications are queued as requests that a driver drains after every
// operation (TakeTimers, TakeStatsRequests, Events).
package engine

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/cryptomatch/internal/catalog"
	"github.com/verte-zerg/cryptomatch/internal/generator"
	"github.com/verte-zerg/cryptomatch/internal/model"
)

// ErrEmptyCatalog is returned when a session is started without sets or modes.
var ErrEmptyCatalog = errors.New("catalog has no sets or modes")

// Phase is the coarse session state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseModeIntro
	PhaseMemoryPreview
	PhasePlaying
	PhaseResolving
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseModeIntro:
		return "mode-intro"
	case PhaseMemoryPreview:
		return "memory-preview"
	case PhasePlaying:
		return "playing"
	case PhaseResolving:
		return "resolving"
	case PhaseGameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

// Outcome describes why a session reached PhaseGameOver.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeTimeout
	OutcomeAllSetsComplete
)

func (o Outcome) String() string {
	switch o {
	case OutcomeTimeout:
		return "timeout"
	case OutcomeAllSetsComplete:
		return "all-sets-complete"
	default:
		return "none"
	}
}

// Config wires an Engine.
type Config struct {
	Catalog   catalog.Catalog
	Policy    Policy
	Generator *generator.Generator
	// Player is the wallet used for stats; empty disables stats.
	Player string
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// SessionState is a read-only snapshot for rendering.
type SessionState struct {
	Phase         Phase
	Outcome       Outcome
	SessionID     string
	Cards         []model.Card
	Selected      []int
	MatchedPairs  int
	PairCount     int
	SetIndex      int
	SetCount      int
	Score         int
	BestScore     int
	SessionXP     float64
	TotalXP       float64
	ComboCount    int
	LastMatchAt   time.Time
	TimeRemaining int
	Mode          model.GameMode
	CorrectAnswer string
	Player        string
	StatsEnabled  bool
}

// Engine runs one player's session.
type Engine struct {
	cat    catalog.Catalog
	policy Policy
	gen    *generator.Generator
	now    func() time.Time
	player string

	phase     Phase
	outcome   Outcome
	sessionID string

	cards         []model.Card
	selected      []int
	matchedPairs  int
	setIndex      int
	score         int
	setStartScore int
	comboCount    int
	lastMatchAt   time.Time
	timeRemaining int
	mode          model.GameMode
	hasMode       bool
	correctAnswer string
	setXP         float64
	sessionXP     float64
	bestScore     int
	totalXP       float64
	setStartedAt  time.Time

	timers   timerSet
	events   []Event
	requests []StatsRequest
}

// New builds an idle engine.
func New(cfg Config) *Engine {
	e := &Engine{
		cat:    cfg.Catalog,
		policy: cfg.Policy,
		gen:    cfg.Generator,
		now:    cfg.Clock,
		player: cfg.Player,
	}
	if e.gen == nil {
		e.gen = generator.New()
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.policy == (Policy{}) {
		e.policy = DefaultPolicy()
	}
	if e.policy.Layout == "" {
		e.policy.Layout = generator.LayoutColumns
	}
	return e
}

// SetPlayer changes the wallet used for stats. Empty disables stats.
func (e *Engine) SetPlayer(wallet string) {
	e.player = wallet
}

// Policy returns the active policy.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Catalog returns the catalog the engine plays through.
func (e *Engine) Catalog() catalog.Catalog {
	return e.cat
}

// StartSession begins a new game at Set 0.
func (e *Engine) StartSession() error {
	if len(e.cat.Sets) == 0 || len(e.cat.Modes) == 0 {
		return ErrEmptyCatalog
	}
	e.resetSession()
	e.hasMode = false
	e.bestScore = 0
	e.totalXP = 0
	if e.statsEnabled() {
		e.requests = append(e.requests, StatsRequest{Kind: StatsLoad, Player: e.player})
	}
	e.enterSet(0)
	return nil
}

// RestartGame resets to Set 0 and Mode 0 keeping the known best score and XP.
func (e *Engine) RestartGame() {
	if e.phase == PhaseIdle {
		return
	}
	e.resetSession()
	e.enterSet(0)
}

// Logout tears the session down to Idle.
func (e *Engine) Logout() {
	e.timers.cancelAll()
	e.timers.pending = nil
	e.phase = PhaseIdle
	e.outcome = OutcomeNone
	e.player = ""
	e.cards = nil
	e.selected = nil
	e.matchedPairs = 0
	e.setIndex = 0
	e.score = 0
	e.setStartScore = 0
	e.comboCount = 0
	e.lastMatchAt = time.Time{}
	e.timeRemaining = 0
	e.correctAnswer = ""
	e.hasMode = false
	e.mode = model.GameMode{}
	e.setXP = 0
	e.sessionXP = 0
	e.bestScore = 0
	e.totalXP = 0
	e.requests = nil
}

// ConfirmModeIntro leaves the mode intro and starts the round.
func (e *Engine) ConfirmModeIntro() {
	if e.phase != PhaseModeIntro {
		return
	}
	e.resetRound()
	if e.mode.Rules.MemoryPhaseSeconds > 0 {
		e.phase = PhaseMemoryPreview
		e.timers.arm(TimerMemoryPreview, time.Duration(e.mode.Rules.MemoryPhaseSeconds)*time.Second)
		return
	}
	e.beginPlay()
}

// SelectCard handles a pick. Invalid picks are ignored.
func (e *Engine) SelectCard(id int) {
	if e.phase != PhasePlaying {
		return
	}
	idx := e.indexOf(id)
	if idx < 0 {
		return
	}
	card := &e.cards[idx]
	if card.Matched || card.Selected {
		return
	}
	if len(e.selected) == 0 {
		card.Selected = true
		e.selected = []int{id}
		return
	}
	firstIdx := e.indexOf(e.selected[0])
	first := &e.cards[firstIdx]
	if first.Kind == card.Kind {
		first.Selected = false
		card.Selected = true
		e.selected = []int{id}
		return
	}
	card.Selected = true
	e.selected = append(e.selected, id)
	if e.isMatch(*first, *card) {
		e.resolveCorrect(firstIdx, idx)
		return
	}
	e.resolveIncorrect(firstIdx, idx)
}

// Tick advances the countdown by one second.
func (e *Engine) Tick() {
	if e.phase != PhasePlaying && e.phase != PhaseResolving {
		return
	}
	if e.timeRemaining > 0 {
		e.timeRemaining--
	}
	if e.timeRemaining <= 0 {
		e.timeRemaining = 0
		e.timeout()
	}
}

// RestartSet replays the current set from scratch. The score goes back to
// what it was when the set started.
func (e *Engine) RestartSet() {
	switch e.phase {
	case PhaseMemoryPreview, PhasePlaying, PhaseResolving:
	case PhaseGameOver:
		if e.outcome != OutcomeTimeout {
			return
		}
	default:
		return
	}
	e.timers.cancelAll()
	e.score = e.setStartScore
	e.outcome = OutcomeNone
	e.cards = e.gen.Deal(e.currentSet(), e.policy.Layout)
	e.resetRound()
	e.beginPlay()
}

// Fire delivers an expired timer. Stale timers are ignored.
func (e *Engine) Fire(t Timer) {
	if !e.timers.current(t) {
		return
	}
	switch t.Kind {
	case TimerCountdown:
		e.Tick()
		if e.running() {
			e.timers.arm(TimerCountdown, time.Second)
		}
	case TimerShuffle:
		if !e.running() {
			return
		}
		e.gen.Shuffle(e.cards)
		e.timers.arm(TimerShuffle, e.shuffleInterval())
	case TimerMemoryPreview:
		if e.phase == PhaseMemoryPreview {
			e.beginPlay()
		}
	case TimerIncorrect:
		e.finishIncorrect()
	}
}

// TakeTimers drains timer requests armed since the last call.
func (e *Engine) TakeTimers() []Timer {
	return e.timers.take()
}

// Events drains queued notifications.
func (e *Engine) Events() []Event {
	out := e.events
	e.events = nil
	return out
}

// TakeStatsRequests drains queued stats calls.
func (e *Engine) TakeStatsRequests() []StatsRequest {
	out := e.requests
	e.requests = nil
	return out
}

// ApplyRemote merges stats returned by the service. Best score and total XP
// only grow, so responses may arrive in any order.
func (e *Engine) ApplyRemote(stats model.PlayerStats) {
	if e.player == "" || (stats.WalletAddress != "" && !strings.EqualFold(stats.WalletAddress, e.player)) {
		return
	}
	if stats.Score > e.bestScore {
		e.bestScore = stats.Score
	}
	if stats.XP > e.totalXP {
		e.totalXP = stats.XP
	}
}

// StatsFailed records a failed stats call as a non-blocking notice.
func (e *Engine) StatsFailed(err error) {
	e.emit(Event{Kind: EventStatsUnavailable, Err: err, Duration: e.policy.ToastDuration})
}

// State returns a snapshot of the session.
func (e *Engine) State() SessionState {
	cards := make([]model.Card, len(e.cards))
	copy(cards, e.cards)
	return SessionState{
		Phase:         e.phase,
		Outcome:       e.outcome,
		SessionID:     e.sessionID,
		Cards:         cards,
		Selected:      append([]int(nil), e.selected...),
		MatchedPairs:  e.matchedPairs,
		PairCount:     len(e.currentSet()),
		SetIndex:      e.setIndex,
		SetCount:      len(e.cat.Sets),
		Score:         e.score,
		BestScore:     e.bestScore,
		SessionXP:     e.sessionXP,
		TotalXP:       e.totalXP,
		ComboCount:    e.comboCount,
		LastMatchAt:   e.lastMatchAt,
		TimeRemaining: e.timeRemaining,
		Mode:          e.mode,
		CorrectAnswer: e.correctAnswer,
		Player:        e.player,
		StatsEnabled:  e.statsEnabled(),
	}
}

// FaceUp reports whether a card's text should be shown.
func (e *Engine) FaceUp(card model.Card) bool {
	if card.Matched || card.Selected || card.Incorrect {
		return true
	}
	if e.phase == PhaseMemoryPreview {
		return true
	}
	return !e.mode.Rules.InvisibleCards
}

func (e *Engine) resetSession() {
	e.timers.cancelAll()
	e.sessionID = uuid.NewString()
	e.outcome = OutcomeNone
	e.score = 0
	e.comboCount = 0
	e.sessionXP = 0
}

func (e *Engine) enterSet(idx int) {
	e.timers.cancelAll()
	e.setIndex = idx
	e.cards = e.gen.Deal(e.currentSet(), e.policy.Layout)
	e.selected = nil
	e.matchedPairs = 0
	e.correctAnswer = ""
	e.setStartScore = e.score
	e.setXP = 0
	prev, had := e.mode, e.hasMode
	e.mode = e.cat.ModeFor(idx)
	e.hasMode = true
	e.timeRemaining = e.mode.TimeLimitSeconds
	e.phase = PhaseModeIntro
	if !had || prev != e.mode {
		e.emit(Event{Kind: EventModeChanged, SetIndex: idx, Mode: e.mode, Duration: e.policy.ToastDuration})
	}
}

func (e *Engine) resetRound() {
	for i := range e.cards {
		e.cards[i].Selected = false
		e.cards[i].Incorrect = false
	}
	e.selected = nil
	e.matchedPairs = 0
	e.comboCount = 0
	e.lastMatchAt = time.Time{}
	e.correctAnswer = ""
	e.setXP = 0
	e.timeRemaining = e.mode.TimeLimitSeconds
	e.setStartedAt = e.now()
}

func (e *Engine) beginPlay() {
	e.phase = PhasePlaying
	e.timers.arm(TimerCountdown, time.Second)
	if e.mode.Rules.ShuffleIntervalSeconds > 0 {
		e.timers.arm(TimerShuffle, e.shuffleInterval())
	}
}

func (e *Engine) resolveCorrect(aIdx, bIdx int) {
	now := e.now()
	for _, i := range []int{aIdx, bIdx} {
		e.cards[i].Matched = true
		e.cards[i].Selected = false
		e.cards[i].Incorrect = false
	}
	e.selected = nil
	e.correctAnswer = ""
	e.matchedPairs++
	e.score++

	chained := e.policy.Chains(e.mode, e.lastMatchAt, now)
	if chained {
		e.comboCount++
	} else {
		e.comboCount = 1
	}
	xp := e.policy.MatchXP(e.mode, e.comboCount, chained)
	e.lastMatchAt = now
	e.setXP += xp
	e.sessionXP += xp
	e.totalXP += xp
	if e.score > e.bestScore {
		e.bestScore = e.score
	}
	e.queueUpdate(xp)

	if e.matchedPairs >= len(e.currentSet()) {
		e.completeSet()
	}
}

func (e *Engine) resolveIncorrect(aIdx, bIdx int) {
	e.cards[aIdx].Incorrect = true
	e.cards[bIdx].Incorrect = true
	e.comboCount = 0
	e.correctAnswer = e.counterpart(e.cards[aIdx])
	e.phase = PhaseResolving
	e.timers.arm(TimerIncorrect, e.policy.IncorrectWindow)
	e.emit(Event{
		Kind:          EventIncorrectMatch,
		SetIndex:      e.setIndex,
		Score:         e.score,
		CorrectAnswer: e.correctAnswer,
		Duration:      e.policy.IncorrectWindow,
	})
}

func (e *Engine) finishIncorrect() {
	if e.phase != PhaseResolving {
		return
	}
	e.clearSelection()
	e.correctAnswer = ""
	e.phase = PhasePlaying
}

func (e *Engine) completeSet() {
	e.timers.cancelAll()
	round := e.roundRecord(model.OutcomeCompleted)
	e.queueUpdate(0)
	e.emit(Event{
		Kind:     EventSetComplete,
		SetIndex: e.setIndex,
		Score:    e.score,
		Mode:     e.mode,
		Round:    &round,
		Duration: e.policy.ToastDuration,
	})
	next := e.setIndex + 1
	if next < len(e.cat.Sets) {
		e.enterSet(next)
		return
	}
	e.phase = PhaseGameOver
	e.outcome = OutcomeAllSetsComplete
	e.emit(Event{
		Kind:     EventGameOver,
		SetIndex: e.setIndex,
		Score:    e.score,
		Mode:     e.mode,
		Outcome:  e.outcome,
		Duration: e.policy.ToastDuration,
	})
}

func (e *Engine) timeout() {
	e.timers.cancelAll()
	e.clearSelection()
	e.correctAnswer = ""
	round := e.roundRecord(model.OutcomeTimeout)
	e.emit(Event{
		Kind:     EventRoundTimeout,
		SetIndex: e.setIndex,
		Score:    e.score,
		Mode:     e.mode,
		Round:    &round,
		Duration: e.policy.ToastDuration,
	})
	e.queueUpdate(0)
	e.phase = PhaseGameOver
	e.outcome = OutcomeTimeout
	e.emit(Event{
		Kind:     EventGameOver,
		SetIndex: e.setIndex,
		Score:    e.score,
		Mode:     e.mode,
		Outcome:  e.outcome,
		Duration: e.policy.ToastDuration,
	})
}

// queueUpdate folds into a not-yet-drained update so a burst of writes
// reaches the service once.
func (e *Engine) queueUpdate(xp float64) {
	if !e.statsEnabled() {
		return
	}
	if n := len(e.requests); n > 0 && e.requests[n-1].Kind == StatsUpdate {
		last := &e.requests[n-1]
		if e.score > last.Score {
			last.Score = e.score
		}
		last.XPDelta += xp
		return
	}
	e.requests = append(e.requests, StatsRequest{
		Kind:    StatsUpdate,
		Player:  e.player,
		Score:   e.score,
		XPDelta: xp,
	})
}

func (e *Engine) roundRecord(outcome string) model.RoundRecord {
	ended := e.now()
	started := e.setStartedAt
	if started.IsZero() {
		started = ended
	}
	return model.RoundRecord{
		SessionID:     e.sessionID,
		WalletAddress: e.player,
		SetIndex:      e.setIndex,
		Mode:          e.mode.Name,
		Outcome:       outcome,
		Score:         e.score,
		MatchedPairs:  e.matchedPairs,
		PairCount:     len(e.currentSet()),
		XPEarned:      e.setXP,
		StartedAt:     started,
		EndedAt:       ended,
		DurationMs:    ended.Sub(started).Milliseconds(),
	}
}

func (e *Engine) clearSelection() {
	for _, id := range e.selected {
		if i := e.indexOf(id); i >= 0 {
			e.cards[i].Selected = false
			e.cards[i].Incorrect = false
		}
	}
	e.selected = nil
}

func (e *Engine) isMatch(a, b model.Card) bool {
	for _, pair := range e.currentSet() {
		if a.Text == pair.Term && b.Text == pair.Definition {
			return true
		}
		if a.Text == pair.Definition && b.Text == pair.Term {
			return true
		}
	}
	return false
}

func (e *Engine) counterpart(card model.Card) string {
	for _, pair := range e.currentSet() {
		if card.Kind == model.KindTerm && card.Text == pair.Term {
			return pair.Definition
		}
		if card.Kind == model.KindDefinition && card.Text == pair.Definition {
			return pair.Term
		}
	}
	return ""
}

func (e *Engine) indexOf(id int) int {
	for i := range e.cards {
		if e.cards[i].ID == id {
			return i
		}
	}
	return -1
}

func (e *Engine) currentSet() []model.WordPair {
	if e.setIndex < 0 || e.setIndex >= len(e.cat.Sets) {
		return nil
	}
	return e.cat.Sets[e.setIndex]
}

func (e *Engine) running() bool {
	return e.phase == PhasePlaying || e.phase == PhaseResolving
}

func (e *Engine) shuffleInterval() time.Duration {
	return time.Duration(e.mode.Rules.ShuffleIntervalSeconds) * time.Second
}

func (e *Engine) statsEnabled() bool {
	return e.player != ""
}

func (e *Engine) emit(ev Event) {
	e.events = append(e.events, ev)
}
