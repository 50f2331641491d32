package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisLabelTop        = "max"
	axisLabelMid        = "mid"
	axisLabelBottom     = "min"
	axisSeparator       = " │ "
	scaleNote           = "Scaled per series; see min/max below."
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
	brailleBase         = 0x2800
)

// dash patterns keep overlapping series apart without color.
var dashes = []struct {
	name   string
	period int
	on     int
}{
	{"solid", 1, 1},
	{"dashed", 6, 3},
	{"dotted", 4, 1},
	{"dashdot", 8, 3},
}

var palette = []string{
	"\x1b[36m", // cyan
	"\x1b[35m", // magenta
	"\x1b[33m", // yellow
	"\x1b[32m", // green
	"\x1b[34m", // blue
}

// braille dot bits indexed by [y][x] inside a 2x4 cell.
var dotBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// PlotSeries renders a multi-line braille plot for the provided series.
func PlotSeries(w io.Writer, title string, series []Series, width, height int) error {
	return plotSeries(w, title, series, width, height, false)
}

// PlotSeriesWithColor renders a braille plot, forcing ANSI color when asked.
func PlotSeriesWithColor(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	return plotSeries(w, title, series, width, height, forceColor)
}

// canvas is one braille layer per series.
type canvas struct {
	width, height int
	layers        [][][]uint8
}

func newCanvas(layers, width, height int) *canvas {
	c := &canvas{width: width, height: height, layers: make([][][]uint8, layers)}
	for i := range c.layers {
		rows := make([][]uint8, height)
		for y := range rows {
			rows[y] = make([]uint8, width)
		}
		c.layers[i] = rows
	}
	return c
}

func (c *canvas) dot(layer, x, y int) {
	cx, cy := x/2, y/4
	if x < 0 || y < 0 || cx >= c.width || cy >= c.height {
		return
	}
	c.layers[layer][cy][cx] |= dotBits[y%4][x%2]
}

// cell merges all layers; the first layer with ink picks the color.
func (c *canvas) cell(x, y int) (uint8, int) {
	var mask uint8
	owner := -1
	for i, layer := range c.layers {
		if bits := layer[y][x]; bits != 0 {
			if owner < 0 {
				owner = i
			}
			mask |= bits
		}
	}
	return mask, owner
}

func plotSeries(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	var kept []Series
	for _, s := range series {
		if len(s.Values) > 0 {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	width = max(width, minPlotWidth)

	c := newCanvas(len(kept), width, height)
	ranges := make([][2]float64, len(kept))
	dotRows := height * 4
	for si, s := range kept {
		values := resampleSeries(s.Values, width)
		lo, hi := seriesMinMax(values)
		if math.Abs(hi-lo) < 1e-9 {
			lo--
			hi++
		}
		ranges[si] = [2]float64{lo, hi}
		dash := dashes[si%len(dashes)]
		visible := func(x int) bool {
			return dash.period <= 1 || x%dash.period < dash.on
		}
		prevX, prevY := -1, -1
		for i, v := range values {
			x, y := i*2, valueToRow(v, lo, hi, dotRows)
			if prevX < 0 {
				if visible(x) {
					c.dot(si, x, y)
				}
			} else {
				bresenham(prevX, prevY, x, y, func(px, py int) {
					if visible(px) {
						c.dot(si, px, py)
					}
				})
			}
			prevX, prevY = x, y
		}
	}

	color := shouldUseColor(w, forceColor)
	var out []string
	if title != "" {
		out = append(out, title)
	}
	out = append(out, scaleNote)
	for i, s := range kept {
		out = append(out, fmt.Sprintf("%s: min=%.2f max=%.2f", s.Name, ranges[i][0], ranges[i][1]))
	}
	labels := axisLabels(height)
	labelWidth := utf8.RuneCountInString(axisLabelTop)
	for y := 0; y < height; y++ {
		var row strings.Builder
		fmt.Fprintf(&row, "%*s%s", labelWidth, labels[y], axisSeparator)
		for x := 0; x < width; x++ {
			mask, owner := c.cell(x, y)
			ch := rune(brailleBase + int(mask))
			if color && owner >= 0 {
				row.WriteString(palette[owner%len(palette)])
				row.WriteRune(ch)
				row.WriteString(colorReset)
				continue
			}
			row.WriteRune(ch)
		}
		out = append(out, row.String())
	}
	out = append(out, legend(kept, color), "")
	for _, line := range out {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	axisWidth := utf8.RuneCountInString(axisLabelTop) + utf8.RuneCountInString(axisSeparator)
	return max(totalWidth-axisWidth, minPlotWidth)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

func axisLabels(height int) []string {
	labels := make([]string, height)
	if height == 0 {
		return labels
	}
	labels[0] = axisLabelTop
	if height > 2 {
		labels[height/2] = axisLabelMid
	}
	if height > 1 {
		labels[height-1] = axisLabelBottom
	}
	return labels
}

func legend(series []Series, color bool) string {
	marker := rune(brailleBase + 0x01)
	parts := make([]string, 0, len(series))
	for i, s := range series {
		label := fmt.Sprintf("%c %s (%s)", marker, s.Name, dashes[i%len(dashes)].name)
		if color {
			label = palette[i%len(palette)] + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

// resampleSeries averages down or linearly interpolates up to width points.
func resampleSeries(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	out := make([]float64, width)
	switch {
	case len(values) == width:
		copy(out, values)
	case len(values) > width:
		for i := range out {
			start := i * len(values) / width
			end := max((i+1)*len(values)/width, start+1)
			end = min(end, len(values))
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	case len(values) == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		last := len(values) - 1
		for i := range out {
			pos := float64(i) * float64(last) / float64(width-1)
			idx := int(math.Floor(pos))
			if idx >= last {
				out[i] = values[last]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

func seriesMinMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func valueToRow(v, lo, hi float64, rows int) int {
	if rows <= 1 {
		return 0
	}
	pos := (v - lo) / (hi - lo)
	row := int(math.Round((1 - pos) * float64(rows-1)))
	return max(0, min(row, rows-1))
}

func bresenham(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
