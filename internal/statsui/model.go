// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/cryptomatch/internal/model"
	"github.com/verte-zerg/cryptomatch/internal/stats"
)

const (
	tabLeaderboard = iota
	tabHistory
	tabAirdrop
)

const (
	plotHeight    = 10
	curveModes    = 3
	loadTimeout   = 10 * time.Second
	sinceLayout   = "2006-01-02"
	defaultWindow = 10
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

type (
	leaderboardMsg struct {
		entries []model.LeaderboardEntry
		err     error
	}
	airdropMsg struct {
		status stats.AirdropStatus
		err    error
	}
	playerMsg struct {
		player model.PlayerStats
		err    error
	}
)

// Options wires a Model.
type Options struct {
	Service stats.Service
	History stats.HistorySource
	Filter  model.HistoryFilter
	// Limit caps leaderboard rows; zero uses the service default.
	Limit int
}

// Model implements the Bubble Tea stats UI.
type Model struct {
	svc     stats.Service
	history stats.HistorySource
	filter  model.HistoryFilter
	limit   int

	report  stats.Report
	errMsg  string
	entries []model.LeaderboardEntry
	lbErr   error
	airdrop *stats.AirdropStatus
	adErr   error
	player  *model.PlayerStats
	plErr   error

	tabs      []string
	activeTab int
	viewports []viewport.Model
	board     table.Model
	boardSize tableLayout

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

type tableLayout struct {
	width    int
	height   int
	rowCount int
}

// NewModel constructs a stats UI model.
func NewModel(opts Options) *Model {
	m := &Model{
		svc:     opts.Service,
		history: opts.History,
		filter:  opts.Filter,
		limit:   stats.ClampLimit(opts.Limit),
		tabs:    []string{"Leaderboard", "History", "Airdrop"},
	}
	if m.svc == nil {
		m.svc = stats.Disabled{}
	}
	if m.filter.CurveWindow <= 0 {
		m.filter.CurveWindow = defaultWindow
	}
	m.initInputs()
	m.board = buildBoardTable(nil, 0, 1)
	m.initViewports()
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.loadRemote()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case leaderboardMsg:
		m.entries, m.lbErr = msg.entries, msg.err
		m.applyBoard(true)
		return m, nil
	case airdropMsg:
		m.adErr = msg.err
		if msg.err == nil {
			status := msg.status
			m.airdrop = &status
		}
		m.renderTabContents()
		return m, nil
	case playerMsg:
		m.plErr = msg.err
		m.player = nil
		if msg.err == nil {
			player := msg.player
			m.player = &player
		}
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		if msg.String() == "q" {
			return m, tea.Quit
		}
		if m.activeTab == tabLeaderboard {
			m.board.Focus()
		} else {
			m.board.Blur()
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.filter.CurveWindow = nextCurveWindow(m.filter.CurveWindow)
			m.refreshReport()
			return m, nil
		case "-":
			m.filter.CurveWindow = prevCurveWindow(m.filter.CurveWindow)
			m.refreshReport()
			return m, nil
		case "r":
			m.refreshReport()
			return m, m.loadRemote()
		case "/":
			return m.startFilter()
		case "g", "home":
			if m.activeTab == tabLeaderboard {
				m.board.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabLeaderboard {
				m.board.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabLeaderboard {
				var cmd tea.Cmd
				m.board, cmd = m.board.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// loadRemote fetches leaderboard, airdrop progress and, with a wallet
// filter, that player's record.
func (m *Model) loadRemote() tea.Cmd {
	svc, limit, wallet := m.svc, m.limit, m.filter.Wallet
	cmds := []tea.Cmd{
		func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
			defer cancel()
			entries, err := svc.GetLeaderboard(ctx, limit)
			return leaderboardMsg{entries: entries, err: err}
		},
		func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
			defer cancel()
			count, err := svc.CountQualified(ctx, stats.QualifyScore)
			return airdropMsg{status: stats.AirdropProgress(count), err: err}
		},
	}
	if wallet != "" {
		cmds = append(cmds, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
			defer cancel()
			player, err := svc.GetStats(ctx, wallet)
			return playerMsg{player: player, err: err}
		})
	}
	return tea.Batch(cmds...)
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Wallet: "),
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Last: "),
		newFilterInput("Curve window: "),
	}
	m.setInputsFromFilter()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromFilter() {
	m.filterInputs[0].SetValue(m.filter.Wallet)
	if m.filter.Since != nil {
		m.filterInputs[1].SetValue(m.filter.Since.Format(sinceLayout))
	} else {
		m.filterInputs[1].SetValue("")
	}
	if m.filter.Last > 0 {
		m.filterInputs[2].SetValue(strconv.Itoa(m.filter.Last))
	} else {
		m.filterInputs[2].SetValue("")
	}
	m.filterInputs[3].SetValue(strconv.Itoa(m.filter.CurveWindow))
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(lipgloss.Height(activeNavStyle.Render("X")), 1)
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(m.height-headerHeight-footerHeight, 1)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.setBoardSize(m.width, vpHeight)
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = max(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabLeaderboard {
		m.board.Focus()
	} else {
		m.board.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	filters := padLines(m.renderFilterSummary(), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderFilterSummary() string {
	wallet := "any"
	if m.filter.Wallet != "" {
		wallet = stats.ShortAddress(m.filter.Wallet)
	}
	since := "any"
	if m.filter.Since != nil {
		since = m.filter.Since.Format(sinceLayout)
	}
	last := "all"
	if m.filter.Last > 0 {
		last = strconv.Itoa(m.filter.Last)
	}
	summary := fmt.Sprintf("Settings: wallet=%s  since=%s  last=%s  window=%d", wallet, since, last, m.filter.CurveWindow)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Settings: /  Reload: r  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Settings (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if m.activeTab == tabLeaderboard {
		switch {
		case m.lbErr != nil:
			return fitLines(serviceError("leaderboard", m.lbErr), m.width, height)
		case len(m.entries) == 0:
			return fitLines("No players yet.", m.width, height)
		default:
			return fitLines(tableMutedStyle.Render(m.board.View()), m.width, height)
		}
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func serviceError(what string, err error) string {
	if errors.Is(err, stats.ErrDisabled) {
		return "Stats service is not configured."
	}
	return fmt.Sprintf("Failed to load %s: %v", what, err)
}

func (m *Model) refreshReport() {
	if m.history == nil {
		m.report = stats.Report{}
		m.renderTabContents()
		return
	}
	report, err := stats.BuildReport(context.Background(), m.history, m.filter)
	if err != nil {
		m.errMsg = err.Error()
		m.renderTabContents()
		return
	}
	m.errMsg = ""
	m.report = report
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	if m.errMsg != "" {
		m.viewports[tabHistory].SetContent("Failed to load history.")
	} else {
		m.viewports[tabHistory].SetContent(renderHistory(m.report, m.filter.CurveWindow, width))
	}
	m.viewports[tabAirdrop].SetContent(m.renderAirdrop(width))
}

func renderHistory(report stats.Report, window, width int) string {
	if len(report.Rounds) == 0 {
		return "No rounds found."
	}
	parts := []string{renderSummaryCards(report.Rounds, width)}
	var buf bytes.Buffer
	if err := stats.RenderCurvesWithSize(&buf, report.Rounds, window, width, plotHeight, true); err != nil {
		parts = append(parts, fmt.Sprintf("Failed to render curves: %v", err))
	}
	if err := stats.RenderModeTable(&buf, report.ModesWindow); err != nil {
		parts = append(parts, fmt.Sprintf("Failed to render modes: %v", err))
	}
	if weak := stats.WeakModes(report.ModesWindow, 1); len(weak) > 0 && len(report.ModesWindow) > 1 {
		fmt.Fprintf(&buf, "Practice next: %s\n\n", weak[0])
	}
	modes := stats.TopModesByRounds(report.ModesAll, curveModes)
	if err := stats.RenderModeCurvesWithSize(&buf, report.Rounds, modes, window, width, plotHeight, true); err != nil {
		parts = append(parts, fmt.Sprintf("Failed to render mode curves: %v", err))
	}
	parts = append(parts, strings.TrimRight(buf.String(), "\n"))
	return strings.Join(parts, "\n\n")
}

func renderSummaryCards(rounds []model.RoundRecord, width int) string {
	var totalXP, totalCompletion float64
	best, cleared := 0, 0
	for _, r := range rounds {
		_, _, completion := stats.RoundMetrics(r)
		totalCompletion += completion
		totalXP += r.XPEarned
		best = max(best, r.Score)
		if r.Outcome == model.OutcomeCompleted {
			cleared++
		}
	}
	cards := []string{
		metricCard("Rounds", strconv.Itoa(len(rounds))),
		metricCard("Cleared", strconv.Itoa(cleared)),
		metricCard("Best Score", strconv.Itoa(best)),
		metricCard("XP Earned", fmt.Sprintf("%.1f", totalXP)),
		metricCard("Avg Completion", fmt.Sprintf("%.1f%%", totalCompletion/float64(len(rounds))*100)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func (m *Model) renderAirdrop(width int) string {
	var buf bytes.Buffer
	switch {
	case m.adErr != nil:
		buf.WriteString(serviceError("airdrop progress", m.adErr) + "\n")
	case m.airdrop == nil:
		buf.WriteString("Loading airdrop progress...\n")
	default:
		barWidth := max(10, min(width-40, 50))
		if err := stats.RenderAirdrop(&buf, *m.airdrop, barWidth); err != nil {
			return fmt.Sprintf("Failed to render airdrop: %v", err)
		}
	}
	if m.filter.Wallet == "" {
		return strings.TrimRight(buf.String(), "\n")
	}
	buf.WriteString("\n")
	switch {
	case errors.Is(m.plErr, stats.ErrNotFound):
		buf.WriteString("No stats recorded for this wallet yet.")
	case m.plErr != nil:
		buf.WriteString(serviceError("player stats", m.plErr))
	case m.player != nil:
		buf.WriteString(renderPlayerCard(*m.player))
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderPlayerCard(p model.PlayerStats) string {
	nft := fmt.Sprintf("Need %d more points", stats.QualifyScore-p.Score)
	switch {
	case p.NFTMinted:
		nft = "Claimed"
	case stats.Eligible(p):
		nft = "Ready to claim"
	}
	cards := []string{
		metricCard("Player", stats.EntryName(p.DisplayIdentity, p.WalletAddress)),
		metricCard("Best Score", strconv.Itoa(p.Score)),
		metricCard("Total XP", fmt.Sprintf("%.1f", p.XP)),
		metricCard("Achievement NFT", nft),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func buildBoardTable(entries []model.LeaderboardEntry, width, height int) table.Model {
	cols, rows := buildBoardData(entries)
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(max(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(boardStyles())
	return t
}

func buildBoardData(entries []model.LeaderboardEntry) ([]table.Column, []table.Row) {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Player", Width: 24},
		{Title: "Score", Width: 7},
		{Title: "XP", Width: 9},
	}
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, table.Row{
			strconv.Itoa(e.Rank),
			truncateLine(stats.EntryName(e.DisplayIdentity, e.WalletAddress), 24),
			strconv.Itoa(e.Score),
			fmt.Sprintf("%.1f", e.XP),
		})
	}
	return columns, rows
}

func (m *Model) applyBoard(force bool) {
	cols, rows := buildBoardData(m.entries)
	if !force && m.boardSize.rowCount == len(rows) {
		return
	}
	m.board.SetColumns(cols)
	m.board.SetRows(rows)
	m.boardSize.rowCount = len(rows)
	_, bodyHeight, _ := m.layoutHeights()
	m.boardSize.width = 0
	m.setBoardSize(m.width, bodyHeight)
}

func (m *Model) setBoardSize(width, height int) {
	viewportHeight := max(1, height-1)
	if m.boardSize.width == width && m.boardSize.height == viewportHeight {
		return
	}
	m.boardSize.width = width
	m.boardSize.height = viewportHeight
	m.board.SetWidth(width)
	m.board.SetHeight(viewportHeight)
}

func boardStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromFilter()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		walletChanged, err := m.applyFilter()
		if err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		m.updateLayout()
		if walletChanged {
			m.player, m.plErr = nil, nil
			return m, m.loadRemote()
		}
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if count == 0 {
		return nil
	}
	m.filterIndex = (idx + count) % count
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

// applyFilter validates the form and reports whether the wallet changed.
func (m *Model) applyFilter() (bool, error) {
	wallet := strings.TrimSpace(m.filterInputs[0].Value())
	if wallet != "" {
		normalized, err := stats.NormalizeWallet(wallet)
		if err != nil {
			return false, errors.New("invalid wallet (expected 0x followed by 40 hex digits)")
		}
		wallet = normalized
	}

	var since *time.Time
	if raw := strings.TrimSpace(m.filterInputs[1].Value()); raw != "" {
		parsed, err := time.ParseInLocation(sinceLayout, raw, time.Local)
		if err != nil {
			return false, errors.New("invalid since date (expected YYYY-MM-DD)")
		}
		since = &parsed
	}

	last := 0
	if raw := strings.TrimSpace(m.filterInputs[2].Value()); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return false, errors.New("invalid last value (use 0 or positive integer)")
		}
		last = parsed
	}

	window := defaultWindow
	if raw := strings.TrimSpace(m.filterInputs[3].Value()); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return false, errors.New("invalid curve window (use integer >= 1)")
		}
		window = parsed
	}

	changed := wallet != m.filter.Wallet
	m.filter = model.HistoryFilter{
		Wallet:      wallet,
		Since:       since,
		Last:        last,
		CurveWindow: window,
	}
	return changed, nil
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	if w := lipgloss.Width(line); w < width {
		return line + strings.Repeat(" ", width-w)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
