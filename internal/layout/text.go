package layout

import (
	"github.com/gompdf/styledbox/internal/style"
	"github.com/gompdf/styledbox/internal/text"
)

// FontOf builds the measuring font from a resolved style.
func FontOf(st *style.Style) text.Font {
	return text.Font{
		Family:     st.FontFamily.Get(),
		Fallbacks:  st.FontFallbacks.Get(),
		Size:       st.FontSize.Get(),
		Weight:     st.FontWeight.Get(),
		Italic:     st.FontStyle.Get() == style.FontItalic,
		LineHeight: st.LineHeight.Get(),
	}
}

func lineHeight(st *style.Style) float64 {
	return st.FontSize.Get() * st.LineHeight.Get()
}

// TextLine is one line of a text node, positioned relative to the node's box origin.
type TextLine struct {
	Text     string
	X        float64
	Baseline float64
	Width    float64
}

// TextLines returns the aligned lines of a prepared text node, or nil for
// containers and unprepared nodes.
func (n *Node) TextLines() []TextLine {
	if n.kind != KindText || n.geom == nil {
		return nil
	}
	g := n.geom
	lh := lineHeight(g.style)
	m := g.metrics
	lead := (lh - (m.Ascent + m.Descent)) / 2

	var factor float64
	switch g.style.TextAlign.Get() {
	case style.TextCenter:
		factor = 0.5
	case style.TextRight:
		factor = 1
	}

	lines := make([]TextLine, len(m.Lines))
	for i, l := range m.Lines {
		lines[i] = TextLine{
			Text:     l.Text,
			X:        g.content.X + (g.content.W-l.Width)*factor,
			Baseline: g.content.Y + float64(i)*lh + lead + m.Ascent,
			Width:    l.Width,
		}
	}
	return lines
}

// FontMetrics returns the measured font metrics of a prepared text node.
func (n *Node) FontMetrics() text.Metrics {
	if n.geom == nil {
		return text.Metrics{}
	}
	return n.geom.metrics
}
