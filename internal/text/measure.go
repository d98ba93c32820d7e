package text

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Font describes the face a run of text is measured with.
type Font struct {
	Family     string
	Fallbacks  []string
	Size       float64
	Weight     int
	Italic     bool
	LineHeight float64
}

// Bold reports whether the weight maps to a bold face.
func (f Font) Bold() bool { return f.Weight >= 600 }

// Line is one measured line of a text block.
type Line struct {
	Text  string
	Width float64
}

// Metrics is the result of measuring a text block.
type Metrics struct {
	Lines []Line
	// Font-wide metrics, positive distances in pixels. UnderlineOffset and
	// StrikeoutOffset are measured downwards from the baseline, so a
	// strikeout offset is negative.
	Ascent             float64
	Descent            float64
	UnderlineOffset    float64
	UnderlineThickness float64
	StrikeoutOffset    float64
}

// Width returns the widest line.
func (m Metrics) Width() float64 {
	w := 0.0
	for _, l := range m.Lines {
		w = max(w, l.Width)
	}
	return w
}

// Measurer measures text blocks. Implementations pick faces from Font and
// fall back per glyph as they see fit.
type Measurer interface {
	Measure(s string, f Font) (Metrics, error)
}

// FontSupporter is implemented by measurers that can tell whether a rune has
// a glyph in the faces they would use for f.
type FontSupporter interface {
	FontSupports(f Font, r rune) bool
}

// Lines normalises s to NFC and splits it on newlines. A trailing carriage
// return on a line is dropped.
func Lines(s string) []string {
	s = norm.NFC.String(s)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// ApproxMeasurer measures every glyph as a fixed fraction of the font size.
// It needs no font data and is used when no real faces are configured.
type ApproxMeasurer struct {
	// CharWidth is the advance per rune as a fraction of the font size, 0.6 when zero.
	CharWidth float64
}

// Measure implements Measurer.
func (m ApproxMeasurer) Measure(s string, f Font) (Metrics, error) {
	cw := m.CharWidth
	if cw == 0 {
		cw = 0.6
	}
	metrics := approxFontMetrics(f.Size)
	for _, l := range Lines(s) {
		n := 0
		for range l {
			n++
		}
		metrics.Lines = append(metrics.Lines, Line{Text: l, Width: float64(n) * cw * f.Size})
	}
	return metrics, nil
}

// FontSupports implements FontSupporter; every rune is supported.
func (ApproxMeasurer) FontSupports(Font, rune) bool { return true }

func approxFontMetrics(size float64) Metrics {
	return Metrics{
		Ascent:             0.8 * size,
		Descent:            0.2 * size,
		UnderlineOffset:    0.1 * size,
		UnderlineThickness: 0.05 * size,
		StrikeoutOffset:    -0.3 * size,
	}
}
