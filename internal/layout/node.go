package layout

import (
	"fmt"

	"github.com/gompdf/styledbox/internal/style"
	"github.com/gompdf/styledbox/internal/text"
)

// Kind is the variant of a Node.
type Kind int

const (
	KindText Kind = iota
	KindRow
	KindColumn
)

func (k Kind) String() string {
	switch k {
	case KindRow:
		return "row"
	case KindColumn:
		return "column"
	default:
		return "text"
	}
}

// Node is an element of the box tree. A parent owns its children and a
// node has at most one parent.
//
// Geometry is only available after Engine.Prepare has run on the root and
// is replaced wholesale by the next Prepare.
type Node struct {
	kind     Kind
	style    *style.Style
	text     string
	parent   *Node
	children []*Node

	geom *geometry
	busy bool
}

// geometry is everything Prepare computes for one node. Rectangles are in
// the node's own space, with the box's top-left at (0,0).
type geometry struct {
	style   *style.Style
	anchors *style.Anchors
	mode    style.PositionMode
	metrics text.Metrics

	extent [2]float64
	known  [2]bool
	image  *[2]float64

	content Rect
	box     Rect
	paint   Rect

	// offset is the box origin relative to the parent's box origin, set
	// when the parent lays out its children.
	offset Point
	abs    Point
}

// NewText returns a text leaf. A nil style is replaced by style.New().
func NewText(st *style.Style, s string) *Node {
	return &Node{kind: KindText, style: orDefault(st), text: s}
}

// NewRow returns a container that lays children out left to right.
func NewRow(st *style.Style, children ...*Node) (*Node, error) {
	return newContainer(KindRow, st, children)
}

// NewColumn returns a container that lays children out top to bottom.
func NewColumn(st *style.Style, children ...*Node) (*Node, error) {
	return newContainer(KindColumn, st, children)
}

func newContainer(k Kind, st *style.Style, children []*Node) (*Node, error) {
	n := &Node{kind: k, style: orDefault(st)}
	if err := n.AttachChildren(children...); err != nil {
		return nil, err
	}
	return n, nil
}

func orDefault(st *style.Style) *style.Style {
	if st == nil {
		return style.New()
	}
	return st
}

// AttachChildren appends children to n. Either every child is attached or,
// on error, none is.
func (n *Node) AttachChildren(children ...*Node) error {
	if n.kind == KindText {
		return ErrLeafNode
	}
	seen := make(map[*Node]bool, len(children))
	for i, c := range children {
		if c == nil {
			return fmt.Errorf("child %d is nil", i)
		}
		if c.parent != nil || seen[c] {
			return fmt.Errorf("child %d (%s): %w", i, c.kind, ErrAlreadyAttached)
		}
		for a := n; a != nil; a = a.parent {
			if a == c {
				return fmt.Errorf("child %d (%s): %w", i, c.kind, ErrCyclicTree)
			}
		}
		seen[c] = true
	}
	for _, c := range children {
		c.parent = n
		n.children = append(n.children, c)
	}
	return nil
}

// Detach removes n from its parent so it can be attached elsewhere.
func (n *Node) Detach() {
	p := n.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == n {
			p.children = append(p.children[:i:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = nil
}

func (n *Node) Kind() Kind        { return n.kind }
func (n *Node) Text() string      { return n.text }
func (n *Node) Parent() *Node     { return n.parent }
func (n *Node) IsPrepared() bool  { return n.geom != nil }
func (n *Node) IsContainer() bool { return n.kind != KindText }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// Style returns the raw, authored style. Changes take effect on the next Prepare.
func (n *Node) Style() *style.Style { return n.style }

// ComputedStyle returns a copy of the resolved style, or nil before Prepare.
func (n *Node) ComputedStyle() *style.Style {
	if n.geom == nil {
		return nil
	}
	return n.geom.style.Clone()
}

// ContentBounds returns the content rectangle relative to the box origin.
func (n *Node) ContentBounds() Rect { return n.rect(func(g *geometry) Rect { return g.content }) }

// BoxBounds returns the box (content, padding and border) with its origin at (0,0).
func (n *Node) BoxBounds() Rect { return n.rect(func(g *geometry) Rect { return g.box }) }

// PaintBounds returns everything the node and its flowed descendants draw,
// relative to the box origin.
func (n *Node) PaintBounds() Rect { return n.rect(func(g *geometry) Rect { return g.paint }) }

// AbsolutePosition returns the box origin in root coordinates.
func (n *Node) AbsolutePosition() Point {
	if n.geom == nil {
		return Point{}
	}
	return n.geom.abs
}

// AbsoluteBoxBounds returns BoxBounds translated to root coordinates.
func (n *Node) AbsoluteBoxBounds() Rect {
	p := n.AbsolutePosition()
	return n.BoxBounds().Offset(p.X, p.Y)
}

// AbsoluteContentBounds returns ContentBounds translated to root coordinates.
func (n *Node) AbsoluteContentBounds() Rect {
	p := n.AbsolutePosition()
	return n.ContentBounds().Offset(p.X, p.Y)
}

// InFlow reports whether n takes part in its parent's distribution. The root
// and nodes without a position override are in flow. Before Prepare the
// node's own style decides; position is never inherited.
func (n *Node) InFlow() bool {
	if n.parent == nil {
		return true
	}
	if n.geom == nil {
		return n.style.Position.Get() == nil
	}
	return n.geom.anchors == nil
}

func (n *Node) rect(get func(*geometry) Rect) Rect {
	if n.geom == nil {
		return Rect{}
	}
	return get(n.geom)
}

// Walk visits n and its descendants depth first, parents before children,
// siblings in order. Returning false from fn skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(cur) {
			continue
		}
		for i := len(cur.children) - 1; i >= 0; i-- {
			stack = append(stack, cur.children[i])
		}
	}
}

// CanvasBounds returns the union of every node's paint bounds in root
// coordinates, which is the area a painter has to cover.
func CanvasBounds(root *Node) (Rect, error) {
	if !root.IsPrepared() {
		return Rect{}, ErrNotPrepared
	}
	var r Rect
	Walk(root, func(n *Node) bool {
		p := n.AbsolutePosition()
		r = r.Union(n.PaintBounds().Offset(p.X, p.Y))
		return true
	})
	return r, nil
}
