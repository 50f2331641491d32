package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// maxCellWidth caps a column; longer cells are cut with an ellipsis.
const maxCellWidth = 42

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	cols := len(headers)
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return nil
	}

	all := make([][]string, 0, len(rows)+1)
	if len(headers) > 0 {
		all = append(all, headers)
	}
	all = append(all, rows...)

	widths := make([]int, cols)
	for _, row := range all {
		for i := range widths {
			widths[i] = max(widths[i], displayWidth(fitCell(cellAt(row, i))))
		}
	}

	lines := make([]string, 0, len(all))
	for _, row := range all {
		cells := make([]string, cols)
		for i := range cells {
			cells[i] = padCell(fitCell(cellAt(row, i)), widths[i], rightAlignCols[i])
		}
		lines = append(lines, strings.Join(cells, " "))
	}
	return lines
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func fitCell(value string) string {
	if displayWidth(value) <= maxCellWidth {
		return value
	}
	return runewidth.Truncate(value, maxCellWidth, "...")
}

func padCell(value string, width int, rightAlign bool) string {
	if rightAlign {
		return runewidth.FillLeft(value, width)
	}
	return runewidth.FillRight(value, width)
}

func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
