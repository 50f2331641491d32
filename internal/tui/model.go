// Package tui provides the Bubble Tea matching game interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/cryptomatch/internal/engine"
	"github.com/verte-zerg/cryptomatch/internal/model"
	"github.com/verte-zerg/cryptomatch/internal/stats"
	"github.com/verte-zerg/cryptomatch/internal/store"
)

const (
	statsTimeout = 10 * time.Second
	maxToasts    = 3
)

type toastKind int

const (
	toastInfo toastKind = iota
	toastSuccess
	toastError
)

type toast struct {
	id   int
	text string
	kind toastKind
}

type (
	timerMsg        struct{ timer engine.Timer }
	toastExpiredMsg struct{ id int }
	roundSavedMsg   struct{ err error }
	identityMsg     struct{ err error }
	nftMsg          struct{ err error }
	statsMsg        struct {
		kind  engine.StatsRequestKind
		stats model.PlayerStats
		err   error
	}
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#C89A3A")).Padding(1, 3)
	toastStyles = map[toastKind]lipgloss.Style{
		toastInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#8AB4F8")),
		toastSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")),
		toastError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")),
	}
)

// Options wires a Model.
type Options struct {
	Engine *engine.Engine
	// Stats is used once a wallet is connected. Nil disables stats.
	Stats stats.Service
	// History receives finished rounds. Nil skips local history.
	History *store.Store
	// Wallet skips the login screen when set.
	Wallet   string
	Identity string
	Logger   zerolog.Logger
	Rand     *rand.Rand
}

// Model implements the Bubble Tea game UI.
type Model struct {
	eng      *engine.Engine
	svc      stats.Service
	history  *store.Store
	log      zerolog.Logger
	rnd      *rand.Rand
	identity string
	wallet   string

	input    textinput.Model
	loginErr string

	width  int
	height int

	cursor    int
	tip       string
	introKey  string
	toasts    []toast
	nextToast int
	remote    model.PlayerStats
	claiming  bool
	err       error
}

// NewModel constructs the game UI.
func NewModel(opts Options) *Model {
	input := textinput.New()
	input.Placeholder = "0x... (leave blank to play as guest)"
	input.CharLimit = 64
	input.Width = 46
	input.Focus()

	m := &Model{
		eng:      opts.Engine,
		svc:      opts.Stats,
		history:  opts.History,
		log:      opts.Logger,
		rnd:      opts.Rand,
		identity: strings.TrimSpace(opts.Identity),
		wallet:   strings.TrimSpace(opts.Wallet),
		input:    input,
	}
	if m.svc == nil {
		m.svc = stats.Disabled{}
	}
	if m.rnd == nil {
		m.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return m
}

// Err returns the error that stopped the UI, if any.
func (m *Model) Err() error {
	return m.err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.wallet != "" {
		return m.login(m.wallet)
	}
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.eng.State().Phase == engine.PhaseIdle {
			return m.updateLogin(msg)
		}
		return m, m.handleKey(msg)
	case timerMsg:
		m.eng.Fire(msg.timer)
		return m, m.flush()
	case statsMsg:
		return m, m.applyStats(msg)
	case toastExpiredMsg:
		m.dropToast(msg.id)
		return m, nil
	case roundSavedMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("failed to save round")
		}
		return m, nil
	case identityMsg:
		if msg.err != nil && !errors.Is(msg.err, stats.ErrDisabled) {
			m.log.Warn().Err(msg.err).Msg("failed to save display identity")
		}
		return m, nil
	case nftMsg:
		return m, m.finishClaim(msg.err)
	}
	if m.eng.State().Phase == engine.PhaseIdle {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		return m, m.login(m.input.Value())
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// login starts a session. A blank wallet plays as guest with stats disabled.
func (m *Model) login(raw string) tea.Cmd {
	wallet := ""
	if strings.TrimSpace(raw) != "" {
		normalized, err := stats.NormalizeWallet(raw)
		if err != nil {
			m.loginErr = "Not a wallet address. Enter 0x followed by 40 hex digits, or leave blank."
			return nil
		}
		wallet = normalized
	}
	m.loginErr = ""
	m.eng.SetPlayer(wallet)
	if err := m.eng.StartSession(); err != nil {
		m.err = err
		return tea.Quit
	}
	m.log.Info().Str("wallet", wallet).Bool("stats", wallet != "").Msg("session started")
	m.cursor = 0
	m.remote = model.PlayerStats{}
	cmds := []tea.Cmd{m.flush()}
	if wallet != "" && m.identity != "" {
		cmds = append(cmds, m.identityCmd(wallet))
	}
	return tea.Batch(cmds...)
}

func (m *Model) logout() tea.Cmd {
	m.log.Info().Msg("logged out")
	m.eng.Logout()
	m.toasts = nil
	m.cursor = 0
	m.introKey = ""
	m.remote = model.PlayerStats{}
	m.input.SetValue("")
	return m.input.Focus()
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	st := m.eng.State()
	switch key {
	case "q":
		return tea.Quit
	case "esc":
		return m.logout()
	}

	switch st.Phase {
	case engine.PhaseModeIntro:
		if key == "enter" || key == " " {
			m.eng.ConfirmModeIntro()
		}
	case engine.PhasePlaying, engine.PhaseResolving:
		n := len(st.Cards)
		switch key {
		case "up", "k":
			m.cursor = moveCursor(m.cursor, n, -1, 0)
		case "down", "j":
			m.cursor = moveCursor(m.cursor, n, 1, 0)
		case "left", "h":
			m.cursor = moveCursor(m.cursor, n, 0, -1)
		case "right", "l":
			m.cursor = moveCursor(m.cursor, n, 0, 1)
		case "enter", " ":
			m.pick(st, m.cursor)
		case "ctrl+r":
			m.eng.RestartSet()
		default:
			if idx, ok := shortcutIndex(key); ok && idx < n {
				m.cursor = idx
				m.pick(st, idx)
			}
		}
	case engine.PhaseGameOver:
		switch key {
		case "r":
			m.cursor = 0
			m.eng.RestartGame()
		case "t":
			m.cursor = 0
			m.eng.RestartSet()
		case "c":
			return m.claimNFT()
		}
	}
	return m.flush()
}

func (m *Model) pick(st engine.SessionState, pos int) {
	if pos < 0 || pos >= len(st.Cards) {
		return
	}
	m.eng.SelectCard(st.Cards[pos].ID)
}

// flush hands engine timers, stats requests and events to the runtime.
func (m *Model) flush() tea.Cmd {
	var cmds []tea.Cmd
	for _, t := range m.eng.TakeTimers() {
		cmds = append(cmds, scheduleTimer(t))
	}
	for _, req := range m.eng.TakeStatsRequests() {
		cmds = append(cmds, m.statsCmd(req))
	}
	for _, ev := range m.eng.Events() {
		cmds = append(cmds, m.handleEvent(ev))
	}
	st := m.eng.State()
	if st.Phase == engine.PhaseModeIntro {
		key := fmt.Sprintf("%s/%d", st.SessionID, st.SetIndex)
		if key != m.introKey {
			m.introKey = key
			m.tip = m.eng.Catalog().Tip(m.rnd)
			m.cursor = 0
		}
	}
	return tea.Batch(cmds...)
}

func scheduleTimer(t engine.Timer) tea.Cmd {
	return tea.Tick(t.After, func(time.Time) tea.Msg {
		return timerMsg{timer: t}
	})
}

func (m *Model) handleEvent(ev engine.Event) tea.Cmd {
	m.log.Debug().
		Str("event", ev.Kind.String()).
		Int("set", ev.SetIndex).
		Int("score", ev.Score).
		Msg("engine event")
	var cmds []tea.Cmd
	if ev.Round != nil {
		cmds = append(cmds, m.saveRound(*ev.Round))
	}
	kind := toastInfo
	switch ev.Kind {
	case engine.EventSetComplete:
		kind = toastSuccess
	case engine.EventIncorrectMatch, engine.EventRoundTimeout:
		kind = toastError
	case engine.EventStatsUnavailable:
		kind = toastError
		m.log.Warn().Err(ev.Err).Msg("stats unavailable")
	case engine.EventGameOver:
		if ev.Outcome == engine.OutcomeAllSetsComplete {
			kind = toastSuccess
		}
	}
	cmds = append(cmds, m.pushToast(ev.Message(), kind, ev.Duration))
	return tea.Batch(cmds...)
}

func (m *Model) pushToast(text string, kind toastKind, d time.Duration) tea.Cmd {
	if text == "" {
		return nil
	}
	if d <= 0 {
		d = m.eng.Policy().ToastDuration
	}
	m.nextToast++
	id := m.nextToast
	m.toasts = append(m.toasts, toast{id: id, text: text, kind: kind})
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[len(m.toasts)-maxToasts:]
	}
	return tea.Tick(d, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (m *Model) dropToast(id int) {
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if t.id != id {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}

func (m *Model) statsCmd(req engine.StatsRequest) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), statsTimeout)
		defer cancel()
		var (
			res model.PlayerStats
			err error
		)
		switch req.Kind {
		case engine.StatsLoad:
			res, err = svc.GetStats(ctx, req.Player)
		default:
			res, err = svc.UpdateStats(ctx, req.Player, req.Score, req.XPDelta)
		}
		return statsMsg{kind: req.Kind, stats: res, err: err}
	}
}

func (m *Model) applyStats(msg statsMsg) tea.Cmd {
	if msg.err != nil {
		if errors.Is(msg.err, stats.ErrDisabled) {
			return nil
		}
		if msg.kind == engine.StatsLoad && errors.Is(msg.err, stats.ErrNotFound) {
			return nil
		}
		m.log.Warn().Err(msg.err).Bool("load", msg.kind == engine.StatsLoad).Msg("stats call failed")
		m.eng.StatsFailed(msg.err)
		return m.flush()
	}
	if st := m.eng.State(); strings.EqualFold(msg.stats.WalletAddress, st.Player) {
		m.remote = msg.stats
	}
	m.eng.ApplyRemote(msg.stats)
	return nil
}

func (m *Model) saveRound(r model.RoundRecord) tea.Cmd {
	if m.history == nil {
		return nil
	}
	history := m.history
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), statsTimeout)
		defer cancel()
		_, err := history.InsertRound(ctx, r)
		return roundSavedMsg{err: err}
	}
}

func (m *Model) identityCmd(wallet string) tea.Cmd {
	svc, display := m.svc, m.identity
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), statsTimeout)
		defer cancel()
		return identityMsg{err: svc.SetIdentity(ctx, wallet, display)}
	}
}

func (m *Model) canClaim(st engine.SessionState) bool {
	if !st.StatsEnabled {
		return false
	}
	best := max(st.BestScore, m.remote.Score)
	return stats.Eligible(model.PlayerStats{Score: best, NFTMinted: m.remote.NFTMinted})
}

func (m *Model) claimNFT() tea.Cmd {
	st := m.eng.State()
	if !st.StatsEnabled || m.claiming {
		return nil
	}
	if !m.canClaim(st) {
		if m.remote.NFTMinted {
			return m.pushToast("Achievement NFT already claimed", toastInfo, 0)
		}
		return m.pushToast(fmt.Sprintf("Reach a best score of %d to claim the achievement NFT", stats.QualifyScore), toastInfo, 0)
	}
	m.claiming = true
	svc, player := m.svc, st.Player
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), statsTimeout)
		defer cancel()
		return nftMsg{err: svc.MarkNFTMinted(ctx, player)}
	}
}

func (m *Model) finishClaim(err error) tea.Cmd {
	m.claiming = false
	switch {
	case err == nil:
		m.remote.NFTMinted = true
		m.log.Info().Str("wallet", m.eng.State().Player).Msg("achievement nft claimed")
		return m.pushToast("Achievement NFT claimed!", toastSuccess, 0)
	case errors.Is(err, stats.ErrNotEligible):
		return m.pushToast(fmt.Sprintf("Reach a best score of %d to claim the achievement NFT", stats.QualifyScore), toastInfo, 0)
	default:
		m.log.Warn().Err(err).Msg("nft claim failed")
		return m.pushToast("Couldn't claim the NFT - try again later", toastError, 0)
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.err != nil {
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	}
	st := m.eng.State()
	var body string
	switch st.Phase {
	case engine.PhaseIdle:
		body = m.viewLogin()
	case engine.PhaseModeIntro:
		body = m.viewModeIntro(st)
	case engine.PhaseGameOver:
		body = m.viewGameOver(st)
	default:
		body = m.viewBoard(st)
	}
	if m.width == 0 || m.height == 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func (m *Model) viewLogin() string {
	lines := []string{
		titleStyle.Render("CRYPTO MATCH"),
		"Match Web3 terms with their definitions.",
		"",
		"Wallet address",
		m.input.View(),
	}
	if m.loginErr != "" {
		lines = append(lines, errorStyle.Render(m.loginErr))
	}
	lines = append(lines, "", footerStyle.Render("enter start · esc quit"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) viewModeIntro(st engine.SessionState) string {
	lines := []string{
		titleStyle.Render(st.Mode.Name),
		st.Mode.Description,
		"",
	}
	for _, rule := range m.ruleLines(st.Mode) {
		lines = append(lines, "• "+rule)
	}
	if m.tip != "" {
		width := max(cardWidthFor(m.width)*2, 40)
		lines = append(lines, "")
		for _, line := range wrapText("Tip: "+m.tip, width, 0) {
			lines = append(lines, footerStyle.Render(line))
		}
	}
	lines = append(lines, "", fmt.Sprintf("Set %d of %d", st.SetIndex+1, st.SetCount), footerStyle.Render("enter start · esc log out · q quit"))
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) ruleLines(mode model.GameMode) []string {
	rules := []string{
		fmt.Sprintf("Time limit: %ds", mode.TimeLimitSeconds),
		fmt.Sprintf("XP multiplier: x%.1f", mode.XPMultiplier),
	}
	r := mode.Rules
	if r.ChainCombo {
		rules = append(rules, fmt.Sprintf("Match again within %.0fs to grow your combo", m.eng.Policy().ChainWindow.Seconds()))
	}
	if r.MemoryPhaseSeconds > 0 {
		rules = append(rules, fmt.Sprintf("Cards are shown for %ds before play starts", r.MemoryPhaseSeconds))
	}
	if r.InvisibleCards {
		rules = append(rules, "Cards stay face down until you pick them")
	}
	if r.ShuffleIntervalSeconds > 0 {
		rules = append(rules, fmt.Sprintf("Cards shuffle every %ds", r.ShuffleIntervalSeconds))
	}
	if r.SpeedRound {
		rules = append(rules, "Speed round: the clock is shorter")
	}
	return rules
}

func (m *Model) viewBoard(st engine.SessionState) string {
	parts := []string{renderHeader(st, m.identity)}
	if st.Phase == engine.PhaseMemoryPreview {
		parts = append(parts, titleStyle.Render("Memorize the cards!"))
	}
	parts = append(parts, m.viewToasts(), renderBoard(m.eng, st, m.cursor, m.width))
	parts = append(parts, footerStyle.Render("arrows/hjkl move · enter pick · 1-0 quick pick · ctrl+r restart set · esc log out · q quit"))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) viewToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}
	lines := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		lines = append(lines, toastStyles[t.kind].Render(t.text))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewGameOver(st engine.SessionState) string {
	title := "Game Over"
	if st.Outcome == engine.OutcomeAllSetsComplete {
		title = "All Sets Complete!"
	}
	lines := []string{
		titleStyle.Render(title),
		"",
		fmt.Sprintf("Final score: %d", st.Score),
		fmt.Sprintf("XP earned: %.1f", st.SessionXP),
	}
	if st.StatsEnabled {
		lines = append(lines,
			fmt.Sprintf("Best score: %d", max(st.BestScore, m.remote.Score)),
			fmt.Sprintf("Total XP: %.1f", st.TotalXP),
		)
	}
	if toasts := m.viewToasts(); toasts != "" {
		lines = append(lines, "", toasts)
	}
	keys := []string{"r restart game"}
	if st.Outcome == engine.OutcomeTimeout {
		keys = append(keys, "t retry set")
	}
	if m.canClaim(st) {
		keys = append(keys, "c claim NFT")
	}
	keys = append(keys, "esc log out", "q quit")
	lines = append(lines, "", footerStyle.Render(strings.Join(keys, " · ")))
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
