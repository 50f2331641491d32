package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/cryptomatch/internal/engine"
	"github.com/verte-zerg/cryptomatch/internal/model"
	"github.com/verte-zerg/cryptomatch/internal/stats"
)

const (
	boardColumns  = 2
	cardTextLines = 3
	minCardWidth  = 16
	maxCardWidth  = 48
	hiddenFace    = "?"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5C5C5C")).
			Foreground(lipgloss.Color("#F0F0F0")).
			Padding(0, 1)
	termStyle      = cardStyle.Copy().Foreground(lipgloss.Color("#8AB4F8")).Bold(true)
	selectedStyle  = cardStyle.Copy().BorderForeground(lipgloss.Color("#C89A3A"))
	matchedStyle   = cardStyle.Copy().BorderForeground(lipgloss.Color("#2E7D32")).Foreground(lipgloss.Color("#6E6E6E"))
	incorrectStyle = cardStyle.Copy().BorderForeground(lipgloss.Color("#FF4D4F")).Foreground(lipgloss.Color("#FF4D4F"))
	hiddenStyle    = cardStyle.Copy().Foreground(lipgloss.Color("#6E6E6E"))
	cursorBorder   = lipgloss.Color("#F0F0F0")
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
)

// boardRows is the number of rows in the column-major grid.
func boardRows(cards int) int {
	return (cards + boardColumns - 1) / boardColumns
}

// gridIndex maps a row and column to a card position, or -1.
func gridIndex(row, col, cards int) int {
	rows := boardRows(cards)
	if row < 0 || col < 0 || row >= rows || col >= boardColumns {
		return -1
	}
	idx := col*rows + row
	if idx >= cards {
		return -1
	}
	return idx
}

// moveCursor steps the cursor in a column-major grid and stays put at edges.
func moveCursor(pos, cards, dRow, dCol int) int {
	rows := boardRows(cards)
	if rows == 0 {
		return 0
	}
	row, col := pos%rows, pos/rows
	if next := gridIndex(row+dRow, col+dCol, cards); next >= 0 {
		return next
	}
	return pos
}

// shortcutLabel is the number key that picks position i, or "" past ten.
func shortcutLabel(i int) string {
	switch {
	case i < 9:
		return strconv.Itoa(i + 1)
	case i == 9:
		return "0"
	default:
		return ""
	}
}

// shortcutIndex maps a number key to a card position.
func shortcutIndex(key string) (int, bool) {
	if len(key) != 1 || key[0] < '0' || key[0] > '9' {
		return 0, false
	}
	if key[0] == '0' {
		return 9, true
	}
	return int(key[0] - '1'), true
}

func cardWidthFor(total int) int {
	if total <= 0 {
		return minCardWidth
	}
	w := (total - boardColumns*4) / boardColumns
	return max(minCardWidth, min(w, maxCardWidth))
}

func renderCard(card model.Card, faceUp, cursor bool, label string, width int) string {
	style := cardStyle
	switch {
	case card.Matched:
		style = matchedStyle
	case card.Incorrect:
		style = incorrectStyle
	case card.Selected:
		style = selectedStyle
	case !faceUp:
		style = hiddenStyle
	case card.Kind == model.KindTerm:
		style = termStyle
	}
	if cursor {
		style = style.Copy().BorderForeground(cursorBorder).BorderStyle(lipgloss.ThickBorder())
	}
	textWidth := max(1, width-2)
	text := hiddenFace
	if faceUp {
		text = card.Text
	}
	lines := padLines(wrapText(text, textWidth, cardTextLines), cardTextLines)
	body := lipgloss.JoinVertical(lipgloss.Center, lines...)
	rendered := style.Width(width).Align(lipgloss.Center).Render(body)
	if label == "" {
		return rendered
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, labelStyle.Render(fmt.Sprintf("%2s ", label)), rendered)
}

// renderBoard lays cards out column-major so a column layout keeps terms
// on the left and definitions on the right.
func renderBoard(eng *engine.Engine, st engine.SessionState, cursor, totalWidth int) string {
	if len(st.Cards) == 0 {
		return ""
	}
	width := cardWidthFor(totalWidth)
	rows := boardRows(len(st.Cards))
	lines := make([]string, 0, rows)
	for r := 0; r < rows; r++ {
		cells := make([]string, 0, boardColumns)
		for c := 0; c < boardColumns; c++ {
			idx := gridIndex(r, c, len(st.Cards))
			if idx < 0 {
				continue
			}
			card := st.Cards[idx]
			cells = append(cells, renderCard(card, eng.FaceUp(card), idx == cursor, shortcutLabel(idx), width))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, joinWithGap(cells, "  ")...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func joinWithGap(cells []string, gap string) []string {
	if len(cells) < 2 {
		return cells
	}
	out := make([]string, 0, len(cells)*2-1)
	for i, cell := range cells {
		if i > 0 {
			out = append(out, gap)
		}
		out = append(out, cell)
	}
	return out
}

// renderHeader formats the session status line.
func renderHeader(st engine.SessionState, identity string) string {
	segments := []string{
		fmt.Sprintf("Set %d/%d", st.SetIndex+1, max(st.SetCount, 1)),
		st.Mode.Name,
		fmt.Sprintf("Score %d", st.Score),
	}
	if st.StatsEnabled {
		segments = append(segments, fmt.Sprintf("Best %d", st.BestScore))
	}
	segments = append(segments, fmt.Sprintf("XP %.1f", st.SessionXP))
	if st.StatsEnabled {
		segments = append(segments, fmt.Sprintf("Total XP %.1f", st.TotalXP))
	}
	if st.Mode.Rules.ChainCombo && st.ComboCount > 1 {
		segments = append(segments, fmt.Sprintf("Combo x%d", st.ComboCount))
	}
	segments = append(segments,
		fmt.Sprintf("Pairs %d/%d", st.MatchedPairs, st.PairCount),
		fmt.Sprintf("%ds", st.TimeRemaining),
	)
	player := "guest"
	if st.Player != "" {
		player = stats.DisplayIdentity(identity, "", st.Player)
	}
	segments = append(segments, player)
	return headerStyle.Render(strings.Join(segments, " · "))
}
