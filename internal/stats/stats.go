// Package stats contains the player stats service, rewards rules and
// round history reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/cryptomatch/internal/model"
)

const sparkChars = " .:-=+*#%@"

// RoundMetrics computes pairs per minute, XP per minute and completion for a round.
func RoundMetrics(r model.RoundRecord) (pairsPerMin, xpPerMin, completion float64) {
	if r.PairCount > 0 {
		completion = float64(r.MatchedPairs) / float64(r.PairCount)
	}
	if r.DurationMs <= 0 {
		return 0, 0, completion
	}
	minutes := float64(r.DurationMs) / 60000.0
	return float64(r.MatchedPairs) / minutes, r.XPEarned / minutes, completion
}

// ModeAggregate sums rounds played under one game mode.
type ModeAggregate struct {
	Mode         string
	Rounds       int
	Cleared      int
	MatchedPairs int
	PairCount    int
	XP           float64
	DurationMs   int64
}

// Completion is the share of pairs matched across the mode's rounds.
func (a ModeAggregate) Completion() float64 {
	if a.PairCount == 0 {
		return 0
	}
	return float64(a.MatchedPairs) / float64(a.PairCount)
}

// PairsPerMinute is the matching pace across the mode's rounds.
func (a ModeAggregate) PairsPerMinute() float64 {
	if a.DurationMs <= 0 {
		return 0
	}
	return float64(a.MatchedPairs) / (float64(a.DurationMs) / 60000.0)
}

// AggregateModes groups rounds by mode in order of first appearance.
func AggregateModes(rounds []model.RoundRecord) []ModeAggregate {
	index := map[string]int{}
	var out []ModeAggregate
	for _, r := range rounds {
		i, ok := index[r.Mode]
		if !ok {
			i = len(out)
			index[r.Mode] = i
			out = append(out, ModeAggregate{Mode: r.Mode})
		}
		agg := &out[i]
		agg.Rounds++
		if r.Outcome == model.OutcomeCompleted {
			agg.Cleared++
		}
		agg.MatchedPairs += r.MatchedPairs
		agg.PairCount += r.PairCount
		agg.XP += r.XPEarned
		agg.DurationMs += r.DurationMs
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		den := float64(i + 1)
		if i >= window {
			sum -= values[i-window]
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := seriesMinMax(values)
	if math.Abs(hi-lo) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	last := len(sparkChars) - 1
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(last)))
		idx = max(0, min(idx, last))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints headline numbers for the rounds.
func RenderSummary(w io.Writer, rounds []model.RoundRecord) error {
	if len(rounds) == 0 {
		_, err := fmt.Fprintln(w, "No rounds found.")
		return err
	}
	var totalPace, totalCompletion, totalXP float64
	cleared, best := 0, 0
	sessions := map[string]struct{}{}
	for _, r := range rounds {
		pace, _, completion := RoundMetrics(r)
		totalPace += pace
		totalCompletion += completion
		totalXP += r.XPEarned
		if r.Outcome == model.OutcomeCompleted {
			cleared++
		}
		if r.Score > best {
			best = r.Score
		}
		sessions[r.SessionID] = struct{}{}
	}
	count := float64(len(rounds))
	lines := []string{
		"Summary",
		fmt.Sprintf("Games: %d", len(sessions)),
		fmt.Sprintf("Rounds: %d (%d cleared)", len(rounds), cleared),
		fmt.Sprintf("Best Score: %d", best),
		fmt.Sprintf("XP Earned: %.1f", totalXP),
		fmt.Sprintf("Avg Pairs/min: %.2f", totalPace/count),
		fmt.Sprintf("Avg Completion: %.2f%%", totalCompletion/count*100),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints pace and completion curves.
func RenderCurves(w io.Writer, rounds []model.RoundRecord, window int) error {
	return RenderCurvesWithSize(w, rounds, window, 0, 10, false)
}

// RenderCurvesWithSize prints pace and completion curves sized to a given total width.
func RenderCurvesWithSize(w io.Writer, rounds []model.RoundRecord, window, totalWidth, height int, useColor bool) error {
	if len(rounds) == 0 {
		return nil
	}
	pace, completion := roundSeries(rounds)
	return renderPlot(w, "Progress Curves", []Series{
		{Name: "Pairs/min", Values: MovingAverage(pace, window)},
		{Name: "Completion", Values: MovingAverage(completion, window)},
	}, totalWidth, height, useColor)
}

// RenderModeTable prints per-mode aggregates, weakest completion first.
func RenderModeTable(w io.Writer, aggs []ModeAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No mode stats found.")
		return err
	}
	sorted := append([]ModeAggregate(nil), aggs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Completion() == sorted[j].Completion() {
			return sorted[i].Mode < sorted[j].Mode
		}
		return sorted[i].Completion() < sorted[j].Completion()
	})

	if _, err := fmt.Fprintln(w, "Per-Mode (Windowed)"); err != nil {
		return err
	}
	headers := []string{"Mode", "Rounds", "Cleared", "Completion", "Pairs/min", "XP"}
	rows := make([][]string, 0, len(sorted))
	for _, a := range sorted {
		rows = append(rows, []string{
			a.Mode,
			fmt.Sprintf("%d", a.Rounds),
			fmt.Sprintf("%d", a.Cleared),
			fmt.Sprintf("%.2f%%", a.Completion()*100),
			fmt.Sprintf("%.2f", a.PairsPerMinute()),
			fmt.Sprintf("%.1f", a.XP),
		})
	}
	return writeTable(w, headers, rows, map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true})
}

// RenderModeCurves prints completion and pace curves for the selected modes.
func RenderModeCurves(w io.Writer, rounds []model.RoundRecord, modes []string, window int) error {
	return RenderModeCurvesWithSize(w, rounds, modes, window, 0, 10, false)
}

// RenderModeCurvesWithSize prints per-mode curves sized to a given total width.
func RenderModeCurvesWithSize(w io.Writer, rounds []model.RoundRecord, modes []string, window, totalWidth, height int, useColor bool) error {
	if len(modes) == 0 || len(rounds) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Per-Mode Curves"); err != nil {
		return err
	}
	for _, mode := range modes {
		var picked []model.RoundRecord
		for _, r := range rounds {
			if r.Mode == mode {
				picked = append(picked, r)
			}
		}
		if len(picked) == 0 {
			continue
		}
		pace, completion := roundSeries(picked)
		if err := renderPlot(w, mode, []Series{
			{Name: "Completion", Values: MovingAverage(completion, window)},
			{Name: "Pairs/min", Values: MovingAverage(pace, window)},
		}, totalWidth, height, useColor); err != nil {
			return err
		}
	}
	return nil
}

// RenderLeaderboard prints ranked players.
func RenderLeaderboard(w io.Writer, entries []model.LeaderboardEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No players yet.")
		return err
	}
	headers := []string{"#", "Player", "Score", "XP"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			fmt.Sprintf("%d", e.Rank),
			EntryName(e.DisplayIdentity, e.WalletAddress),
			fmt.Sprintf("%d", e.Score),
			fmt.Sprintf("%.1f", e.XP),
		})
	}
	return writeTable(w, headers, rows, map[int]bool{0: true, 2: true, 3: true})
}

// RenderAirdrop prints community progress toward the airdrop.
func RenderAirdrop(w io.Writer, status AirdropStatus, barWidth int) error {
	if barWidth <= 0 {
		barWidth = 30
	}
	filled := int(math.Round(status.Progress * float64(barWidth)))
	filled = max(0, min(filled, barWidth))
	bar := strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled)
	lines := []string{
		"Airdrop",
		fmt.Sprintf("[%s] %d/%d qualified (%.1f%%)", bar, status.Qualified, status.Target, status.Progress*100),
		fmt.Sprintf("Players with a best score of %d or more qualify.", QualifyScore),
	}
	if status.Unlocked() {
		lines = append(lines, "Target reached: the airdrop is unlocked.")
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func roundSeries(rounds []model.RoundRecord) (pace, completion []float64) {
	pace = make([]float64, len(rounds))
	completion = make([]float64, len(rounds))
	for i, r := range rounds {
		p, _, c := RoundMetrics(r)
		pace[i] = p
		completion[i] = c * 100
	}
	return pace, completion
}

func renderPlot(w io.Writer, title string, series []Series, totalWidth, height int, useColor bool) error {
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, title, series, width, height, useColor)
}

func writeTable(w io.Writer, headers []string, rows [][]string, rightAlign map[int]bool) error {
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
