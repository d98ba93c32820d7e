package layout

import (
	"fmt"
	"log"

	"github.com/gompdf/styledbox/internal/style"
	"github.com/gompdf/styledbox/internal/text"
)

// Options configures the collaborators the engine measures with.
type Options struct {
	Measurer text.Measurer
	Images   ImageSizer
}

// Engine lays out node trees
type Engine struct {
	options Options
	Debug   bool
}

// NewEngine creates an engine that measures text with text.ApproxMeasurer
// and has no image loader.
func NewEngine() *Engine {
	return &Engine{options: Options{Measurer: text.ApproxMeasurer{}}}
}

// SetOptions sets the options for the layout engine
func (e *Engine) SetOptions(options Options) {
	if options.Measurer == nil {
		options.Measurer = text.ApproxMeasurer{}
	}
	e.options = options
}

// Prepare computes styles and geometry for every node under root. Previous
// geometry is discarded first. On error no node keeps any geometry.
func (e *Engine) Prepare(root *Node) error {
	if root.parent != nil {
		return ErrNotRoot
	}
	if root.busy {
		return ErrReentrantPrepare
	}
	root.busy = true
	defer func() { root.busy = false }()

	var order []*Node
	Walk(root, func(n *Node) bool {
		n.geom = &geometry{}
		order = append(order, n)
		return true
	})

	if err := e.prepare(root, order); err != nil {
		for _, n := range order {
			n.geom = nil
		}
		if e.Debug {
			log.Printf("layout: prepare failed: %v", err)
		}
		return err
	}

	if e.Debug {
		for _, n := range order {
			g := n.geom
			log.Printf("layout: %s box=%.2fx%.2f at (%.2f, %.2f) paint=%+v",
				n.kind, g.box.W, g.box.H, g.abs.X, g.abs.Y, g.paint)
		}
	}
	return nil
}

// prepare runs the passes over order, which lists the tree in pre-order.
func (e *Engine) prepare(root *Node, order []*Node) error {
	for _, n := range order {
		if err := resolveStyle(n); err != nil {
			return err
		}
	}
	for i := len(order) - 1; i >= 0; i-- {
		if err := e.computeBounds(order[i]); err != nil {
			return err
		}
	}
	for _, n := range order {
		place(n, root)
	}
	return nil
}

func resolveStyle(n *Node) error {
	var parent *style.Style
	if n.parent != nil {
		parent = n.parent.geom.style
	}
	st, err := style.Resolve(n.style, parent)
	if err != nil {
		return fmt.Errorf("%s node: %w", n.kind, err)
	}
	n.geom.style = st

	// The root has nothing to be positioned against.
	if pos := st.Position.Get(); pos != nil && n.parent != nil {
		a, err := pos.Anchors()
		if err != nil {
			return fmt.Errorf("%s node position: %w", n.kind, err)
		}
		n.geom.anchors = &a
		n.geom.mode = pos.Mode
	}
	return nil
}

// computeBounds sizes n. Its children must already be sized.
func (e *Engine) computeBounds(n *Node) error {
	g := n.geom
	st := g.style
	if n.kind == KindText {
		m, err := e.options.Measurer.Measure(n.text, FontOf(st))
		if err != nil {
			return fmt.Errorf("measure %q: %w", n.text, err)
		}
		g.metrics = m
	}

	w, err := e.contentExtent(n, horizontal)
	if err != nil {
		return err
	}
	h, err := e.contentExtent(n, vertical)
	if err != nil {
		return err
	}

	pad := st.Padding.Get()
	b := st.BorderWidth()
	g.content = Rect{X: pad.Left + b, Y: pad.Top + b, W: w, H: h}
	g.box = Rect{
		W: nonNegative(w + st.HorizontalSpacing()),
		H: nonNegative(h + st.VerticalSpacing()),
	}

	if n.IsContainer() {
		layoutChildren(n)
	}
	g.paint = paintBounds(n)
	return nil
}

func paintBounds(n *Node) Rect {
	g := n.geom
	st := g.style
	p := g.box
	for _, s := range st.BoxShadows.Get() {
		p = p.Union(g.box.Offset(s.OffsetX, s.OffsetY).Outset(s.BlurRadius))
	}
	if n.kind == KindText {
		ink := inkBounds(n)
		p = p.Union(ink)
		for _, s := range st.TextShadows.Get() {
			p = p.Union(ink.Offset(s.OffsetX, s.OffsetY).Outset(s.BlurRadius))
		}
		if o := st.OutlineStroke.Get(); o != nil && o.Width > 0 {
			p = p.Union(ink.Outset(o.Width / 2))
		}
	}
	for _, c := range n.children {
		cg := c.geom
		if cg.anchors != nil && cg.mode == style.PositionAbsolute {
			continue
		}
		p = p.Union(cg.paint.Offset(cg.offset.X, cg.offset.Y))
	}
	return p
}

// inkBounds returns the content rectangle grown to cover every glyph line,
// which may overflow an explicitly sized box.
func inkBounds(n *Node) Rect {
	ink := n.geom.content
	m := n.geom.metrics
	for _, l := range n.TextLines() {
		ink = ink.Union(Rect{X: l.X, Y: l.Baseline - m.Ascent, W: l.Width, H: m.Ascent + m.Descent})
	}
	return ink
}

// place sets the absolute position of n. Its parent must already be placed.
func place(n *Node, root *Node) {
	g := n.geom
	switch {
	case n.parent == nil:
		g.abs = Point{}
	case g.anchors != nil && g.mode == style.PositionAbsolute:
		rb := root.geom.box
		x, y := g.anchors.Place(rb.W, rb.H, g.box.W, g.box.H)
		g.abs = Point{x, y}
	default:
		g.abs = n.parent.geom.abs.Add(g.offset)
	}
}
