package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

type wordSpan struct {
	text  string
	width int
}

func splitWords(text string) []wordSpan {
	fields := strings.Fields(text)
	out := make([]wordSpan, 0, len(fields))
	for _, f := range fields {
		out = append(out, wordSpan{text: f, width: runewidth.StringWidth(f)})
	}
	return out
}

// wrapText breaks text into lines no wider than width cells, at most
// maxLines of them. Words wider than a line are cut; overflow ends the
// last line with an ellipsis.
func wrapText(text string, width, maxLines int) []string {
	if width <= 0 {
		return []string{text}
	}
	var lines []string
	var line strings.Builder
	lineWidth := 0
	flush := func() {
		lines = append(lines, line.String())
		line.Reset()
		lineWidth = 0
	}

	for _, w := range splitWords(text) {
		for w.width > width {
			if lineWidth > 0 {
				flush()
			}
			head := runewidth.Truncate(w.text, width, "")
			lines = append(lines, head)
			w.text = strings.TrimPrefix(w.text, head)
			w.width = runewidth.StringWidth(w.text)
		}
		if w.width == 0 {
			continue
		}
		gap := 0
		if lineWidth > 0 {
			gap = 1
		}
		if lineWidth+gap+w.width > width {
			flush()
			gap = 0
		}
		if gap > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(w.text)
		lineWidth += gap + w.width
	}
	if lineWidth > 0 || len(lines) == 0 {
		flush()
	}

	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
		last := lines[maxLines-1]
		if runewidth.StringWidth(last)+runewidth.StringWidth(ellipsis) > width {
			last = runewidth.Truncate(last, width, ellipsis)
		} else {
			last += ellipsis
		}
		lines[maxLines-1] = last
	}
	return lines
}

// padLines pads lines to exactly height entries, centered vertically.
func padLines(lines []string, height int) []string {
	if len(lines) >= height {
		return lines
	}
	top := (height - len(lines)) / 2
	out := make([]string, 0, height)
	for i := 0; i < top; i++ {
		out = append(out, "")
	}
	out = append(out, lines...)
	for len(out) < height {
		out = append(out, "")
	}
	return out
}
