// Package chart renders dashboard views as SVG images.
//
// Every renderer writes a complete SVG document to w. Inputs with nothing to
// draw produce a small placeholder image instead of an error, so a chart
// endpoint always returns something an <img> tag can show.
package chart

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ContentType is the MIME type of rendered charts.
const ContentType = "image/svg+xml"

// Default canvas size.
const (
	DefaultWidth  = 800
	DefaultHeight = 480
)

// maxLabelRunes bounds bar labels so long titles do not swallow the axis.
const maxLabelRunes = 18

// Options controls the canvas.
type Options struct {
	Title  string
	Width  int
	Height int
}

func (o Options) size() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

var (
	barColor   = drawing.ColorFromHex("4c78a8")
	otherColor = drawing.ColorFromHex("bab0ac")
	dotColor   = drawing.ColorFromHex("f58518")
)

var background = chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}}

// renderPlaceholder draws a blank canvas with a centered message.
func renderPlaceholder(w io.Writer, opts Options, message string) error {
	width, height := opts.size()

	r, err := chart.SVG(width, height)
	if err != nil {
		return fmt.Errorf("create svg renderer: %w", err)
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("load default font: %w", err)
	}

	r.SetFont(font)
	r.SetFontColor(chart.ColorAlternateGray)
	r.SetFontSize(14)

	if opts.Title != "" {
		tb := r.MeasureText(opts.Title)
		r.Text(opts.Title, (width-tb.Width())/2, 30)
	}
	mb := r.MeasureText(message)
	r.Text(message, (width-mb.Width())/2, height/2)

	if err := r.Save(w); err != nil {
		return fmt.Errorf("write placeholder: %w", err)
	}
	return nil
}

// valueRange returns a non-degenerate axis range covering values, starting at
// zero when every value is non-negative.
func valueRange(values []float64) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if math.IsInf(lo, 0) {
		return &chart.ContinuousRange{Min: 0, Max: 1}
	}
	if lo >= 0 {
		lo = 0
	}
	return padRange(lo, hi)
}

// padRange widens [lo, hi] by 5% each side, or by 1 when the span is zero.
func padRange(lo, hi float64) *chart.ContinuousRange {
	span := hi - lo
	if span == 0 {
		return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	pad := span * 0.05
	if lo == 0 {
		return &chart.ContinuousRange{Min: 0, Max: hi + pad}
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

// shortLabel truncates s to maxLabelRunes, marking the cut with "...".
func shortLabel(s string) string {
	r := []rune(s)
	if len(r) <= maxLabelRunes {
		return s
	}
	return strings.TrimSpace(string(r[:maxLabelRunes-3])) + "..."
}

// formatTick renders axis values compactly: 1.2M, 35k, 4.5.
func formatTick(v float64) string {
	av := math.Abs(v)
	switch {
	case av >= 1_000_000:
		return strconv.FormatFloat(v/1_000_000, 'f', 1, 64) + "M"
	case av >= 10_000:
		return strconv.FormatFloat(v/1_000, 'f', 0, 64) + "k"
	case av >= 100 || v == math.Trunc(v):
		return strconv.FormatFloat(v, 'f', 0, 64)
	default:
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
}

func tickFormatter(v any) string {
	if f, ok := v.(float64); ok {
		return formatTick(f)
	}
	return fmt.Sprint(v)
}
