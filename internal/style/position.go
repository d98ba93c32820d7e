package style

import (
	"fmt"
	"strconv"
	"strings"
)

// PositionMode selects the reference frame of a position override.
type PositionMode int

const (
	// PositionRelative places the node against its parent's box.
	PositionRelative PositionMode = iota
	// PositionAbsolute places the node against the root box.
	PositionAbsolute
)

// Position takes a node out of normal flow. X and Y accept a pixel value
// (float64, float32, int), a percentage string like "50%", or a keyword:
// left/center/right for X and top/center/bottom for Y. Values are checked when
// the tree is laid out, so a Position can be built before any tree exists.
type Position struct {
	X, Y    any
	XOffset float64
	YOffset float64
	Mode    PositionMode
}

// Anchors is the resolved form of a Position.
type Anchors struct {
	ContainerX, ContentX, OffsetX float64
	ContainerY, ContentY, OffsetY float64
}

// Place returns the top-left of a node sized (nw, nh) inside a container sized (cw, ch).
func (a Anchors) Place(cw, ch, nw, nh float64) (x, y float64) {
	x = cw*a.ContainerX - nw*a.ContentX + a.OffsetX
	y = ch*a.ContainerY - nh*a.ContentY + a.OffsetY
	return x, y
}

type axis int

const (
	axisX axis = iota
	axisY
)

var anchorKeywords = [...]map[string]float64{
	axisX: {"left": 0, "center": 0.5, "right": 1},
	axisY: {"top": 0, "center": 0.5, "bottom": 1},
}

// Anchors parses the coordinates of p.
func (p Position) Anchors() (Anchors, error) {
	cx, nx, ox, err := parseCoordinate(p.X, axisX, p.XOffset)
	if err != nil {
		return Anchors{}, err
	}
	cy, ny, oy, err := parseCoordinate(p.Y, axisY, p.YOffset)
	if err != nil {
		return Anchors{}, err
	}
	return Anchors{
		ContainerX: cx, ContentX: nx, OffsetX: ox,
		ContainerY: cy, ContentY: ny, OffsetY: oy,
	}, nil
}

func parseCoordinate(v any, ax axis, extra float64) (container, content, offset float64, err error) {
	switch x := v.(type) {
	case nil:
		return 0, 0, extra, nil
	case float64:
		return 0, 0, x + extra, nil
	case float32:
		return 0, 0, float64(x) + extra, nil
	case int:
		return 0, 0, float64(x) + extra, nil
	case string:
		s := strings.TrimSpace(x)
		if pct, ok := strings.CutSuffix(s, "%"); ok {
			f, perr := strconv.ParseFloat(strings.TrimSpace(pct), 64)
			if perr != nil {
				return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidAnchorKeyword, x)
			}
			return f / 100, 0, extra, nil
		}
		if a, ok := anchorKeywords[ax][strings.ToLower(s)]; ok {
			return a, a, extra, nil
		}
		return 0, 0, 0, fmt.Errorf("%w: %q for %s axis", ErrInvalidAnchorKeyword, x, ax)
	default:
		return 0, 0, 0, fmt.Errorf("%w: %T", ErrInvalidPositionValueType, v)
	}
}

func (a axis) String() string {
	if a == axisY {
		return "y"
	}
	return "x"
}
