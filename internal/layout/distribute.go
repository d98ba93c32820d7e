package layout

import "github.com/gompdf/styledbox/internal/style"

// layoutChildren sets the offset of every child of the container n except
// children positioned against the root, which are placed later.
func layoutChildren(n *Node) {
	g := n.geom
	st := g.style
	main := n.mainAxis()
	cross := main.cross()

	var flow []*Node
	total := 0.0
	for _, c := range n.children {
		cg := c.geom
		if cg.anchors != nil {
			if cg.mode == style.PositionRelative {
				x, y := cg.anchors.Place(g.box.W, g.box.H, cg.box.W, cg.box.H)
				cg.offset = Point{x, y}
			}
			continue
		}
		flow = append(flow, c)
		total += extentOf(cg.box, main)
	}

	gap := st.Gap.Get()
	gaps := 0.0
	if len(flow) > 1 {
		gaps = gap * float64(len(flow)-1)
	}
	extra := extentOf(g.content, main) - total - gaps
	start, extraGap := distributionOffsets(st.Distribution.Get(), extra, len(flow))

	cursor := startOf(g.content, main) + start
	for _, c := range flow {
		cg := c.geom
		along := extentOf(cg.box, main)
		across := startOf(g.content, cross) +
			alignOffset(st.Alignment.Get(), extentOf(g.content, cross), extentOf(cg.box, cross))
		if main == horizontal {
			cg.offset = Point{cursor, across}
		} else {
			cg.offset = Point{across, cursor}
		}
		cursor += along + gap + extraGap
	}
}

// distributionOffsets returns where the first child starts relative to the
// content start and the space added between children. extra may be negative
// when children overflow; it is not clamped.
func distributionOffsets(mode style.Distribution, extra float64, count int) (start, extraGap float64) {
	if count == 0 {
		return 0, 0
	}
	switch mode {
	case style.DistributeEnd:
		return extra, 0
	case style.DistributeCenter:
		return extra / 2, 0
	case style.DistributeSpaceBetween:
		if count > 1 {
			return 0, extra / float64(count-1)
		}
		return 0, 0
	case style.DistributeSpaceAround:
		g := extra / float64(count)
		return g / 2, g
	case style.DistributeSpaceEvenly:
		g := extra / float64(count+1)
		return g, g
	default:
		return 0, 0
	}
}

// alignOffset positions a child of size child within available on the cross axis.
func alignOffset(a style.Alignment, available, child float64) float64 {
	switch a {
	case style.AlignCenter:
		return (available - child) / 2
	case style.AlignEnd:
		return available - child
	default:
		return 0
	}
}
