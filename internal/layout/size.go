package layout

import (
	"fmt"
	"math"

	"github.com/gompdf/styledbox/internal/style"
)

type axis int

const (
	horizontal axis = iota
	vertical
)

func (a axis) String() string {
	if a == vertical {
		return "height"
	}
	return "width"
}

func (a axis) cross() axis { return 1 - a }

func sizeOf(st *style.Style, a axis) style.SizeValue {
	if a == vertical {
		return st.Height.Get()
	}
	return st.Width.Get()
}

func extentOf(r Rect, a axis) float64 {
	if a == vertical {
		return r.H
	}
	return r.W
}

func startOf(r Rect, a axis) float64 {
	if a == vertical {
		return r.Y
	}
	return r.X
}

// contentExtent resolves the content size of n on one axis and memoizes it.
// Percent sizes chain up through percent-sized ancestors until a node with a
// non-percent size is found; the chain is walked without recursion.
func (e *Engine) contentExtent(n *Node, a axis) (float64, error) {
	var chain []*Node
	var base float64
	for cur := n; ; {
		g := cur.geom
		if g.known[a] {
			base = g.extent[a]
			break
		}
		sv := sizeOf(g.style, a)
		if sv.Mode != style.SizePercent {
			v, err := e.ownExtent(cur, a, sv)
			if err != nil {
				return 0, err
			}
			g.extent[a], g.known[a] = nonNegative(v), true
			base = g.extent[a]
			break
		}
		p := cur.parent
		if p == nil {
			return 0, fmt.Errorf("%s %s %g%% without a parent: %w", cur.kind, a, sv.Value, ErrMissingContainerSize)
		}
		if ps := sizeOf(p.geom.style, a); !ps.IsConcrete() {
			return 0, fmt.Errorf("%s %s %g%% inside a %s-sized %s: %w",
				cur.kind, a, sv.Value, ps.Mode, p.kind, ErrMissingContainerSize)
		}
		chain = append(chain, cur)
		cur = p
	}
	for i := len(chain) - 1; i >= 0; i-- {
		g := chain[i].geom
		base = nonNegative(base * sizeOf(g.style, a).Value / 100)
		g.extent[a], g.known[a] = base, true
	}
	return base, nil
}

// ownExtent resolves every mode except percent.
func (e *Engine) ownExtent(n *Node, a axis, sv style.SizeValue) (float64, error) {
	switch sv.Mode {
	case style.SizeAbsolute:
		return sv.Value, nil
	case style.SizeFitBackgroundImage:
		size, err := e.imageSize(n)
		if err != nil {
			return 0, err
		}
		return size[a], nil
	default:
		return intrinsicExtent(n, a), nil
	}
}

// intrinsicExtent is the size n would have from its content alone. For
// containers only in-flow children count, and they must already be sized.
func intrinsicExtent(n *Node, a axis) float64 {
	g := n.geom
	if n.kind == KindText {
		if a == horizontal {
			return g.metrics.Width()
		}
		return float64(len(g.metrics.Lines)) * lineHeight(g.style)
	}

	main := n.mainAxis()
	total, count := 0.0, 0
	for _, c := range n.children {
		if c.geom.anchors != nil {
			continue
		}
		ext := extentOf(c.geom.box, a)
		if a == main {
			total += ext
		} else {
			total = math.Max(total, ext)
		}
		count++
	}
	if a == main && count > 1 {
		total += g.style.Gap.Get() * float64(count-1)
	}
	return total
}

func (n *Node) mainAxis() axis {
	if n.kind == KindColumn {
		return vertical
	}
	return horizontal
}

// nonNegative clamps v to zero, mapping NaN to zero as well.
func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
