package style

import "fmt"

// Color is a straight (non-premultiplied) RGBA colour.
type Color struct {
	R, G, B, A uint8
}

var (
	Black       = Color{0, 0, 0, 255}
	Transparent = Color{}
)

// IsVisible reports whether painting with c leaves a mark.
func (c Color) IsVisible() bool { return c.A > 0 }

// Shadow is a drop shadow cast by a box or by text glyphs.
type Shadow struct {
	OffsetX    float64
	OffsetY    float64
	BlurRadius float64
	Color      Color
}

// Decoration is an underline or strikethrough line. A nil Color paints with
// the text colour.
type Decoration struct {
	Thickness float64
	Color     *Color
}

// OutlineStroke draws around text glyphs.
type OutlineStroke struct {
	Width float64
	Color Color
}

// BorderStyle selects how a border line is stroked.
type BorderStyle int

const (
	BorderSolid BorderStyle = iota
	BorderDashed
	BorderDotted
)

// Border is drawn inside the box bounds, Width thick on every side.
type Border struct {
	Width float64
	Color Color
	Style BorderStyle
}

// Edges holds per-side lengths in CSS order.
type Edges struct {
	Top, Right, Bottom, Left float64
}

// EdgeAll returns Edges with the same length on every side.
func EdgeAll(v float64) Edges { return Edges{v, v, v, v} }

// Horizontal returns Left + Right.
func (e Edges) Horizontal() float64 { return e.Left + e.Right }

// Vertical returns Top + Bottom.
func (e Edges) Vertical() float64 { return e.Top + e.Bottom }

// ImageFit controls how a background image fills the box.
type ImageFit int

const (
	FitCover ImageFit = iota
	FitContain
	FitTile
)

// BackgroundImage references an image painted behind the box content.
type BackgroundImage struct {
	Path string
	Fit  ImageFit
}

// SizeMode tags how one axis of a content box is determined.
type SizeMode int

const (
	SizeAuto SizeMode = iota
	SizeAbsolute
	SizePercent
	SizeFitContent
	SizeFitBackgroundImage
)

func (m SizeMode) String() string {
	switch m {
	case SizeAbsolute:
		return "absolute"
	case SizePercent:
		return "percent"
	case SizeFitContent:
		return "fit-content"
	case SizeFitBackgroundImage:
		return "fit-background-image"
	default:
		return "auto"
	}
}

// SizeValue is the declared size for one axis.
type SizeValue struct {
	Mode  SizeMode
	Value float64
}

func Absolute(px float64) SizeValue { return SizeValue{Mode: SizeAbsolute, Value: px} }
func Percent(pct float64) SizeValue { return SizeValue{Mode: SizePercent, Value: pct} }
func FitContent() SizeValue         { return SizeValue{Mode: SizeFitContent} }
func FitBackgroundImage() SizeValue { return SizeValue{Mode: SizeFitBackgroundImage} }

// IsConcrete reports whether the size does not depend on the node's content.
func (v SizeValue) IsConcrete() bool {
	switch v.Mode {
	case SizeAbsolute, SizePercent, SizeFitBackgroundImage:
		return true
	}
	return false
}

type FontStyle int

const (
	FontNormal FontStyle = iota
	FontItalic
)

type TextAlign int

const (
	TextLeft TextAlign = iota
	TextCenter
	TextRight
)

// Distribution places children along a container's main axis.
type Distribution int

const (
	DistributeStart Distribution = iota
	DistributeEnd
	DistributeCenter
	DistributeSpaceBetween
	DistributeSpaceAround
	DistributeSpaceEvenly
)

// Alignment places children along a container's cross axis.
type Alignment int

const (
	AlignStart Alignment = iota
	AlignCenter
	AlignEnd
)

// Style is the full set of properties a node can carry. Fields are exported
// so builders can call Set on them; the zero Style is not valid, use New.
type Style struct {
	FontFamily    Property[string]
	FontFallbacks Property[[]string]
	FontSize      Property[float64]
	FontWeight    Property[int]
	FontStyle     Property[FontStyle]
	LineHeight    Property[float64]
	TextAlign     Property[TextAlign]
	Color         Property[Color]
	TextShadows   Property[[]Shadow]
	Underline     Property[*Decoration]
	Strikethrough Property[*Decoration]

	BoxShadows      Property[[]Shadow]
	OutlineStroke   Property[*OutlineStroke]
	Padding         Property[Edges]
	Border          Property[*Border]
	BackgroundColor Property[Color]
	BackgroundImage Property[*BackgroundImage]
	BorderRadius    Property[float64]
	Width           Property[SizeValue]
	Height          Property[SizeValue]
	Position        Property[*Position]
	Gap             Property[float64]
	Distribution    Property[Distribution]
	Alignment       Property[Alignment]
}

// New returns a Style holding every default, none of them explicit.
func New() *Style {
	return &Style{
		FontFamily:    inherited(""),
		FontFallbacks: inherited([]string(nil)),
		FontSize:      inherited(50.0),
		FontWeight:    inherited(400),
		FontStyle:     inherited(FontNormal),
		LineHeight:    inherited(1.0),
		TextAlign:     inherited(TextLeft),
		Color:         inherited(Black),
		TextShadows:   inherited([]Shadow(nil)),
		Underline:     inherited((*Decoration)(nil)),
		Strikethrough: inherited((*Decoration)(nil)),

		BoxShadows:      local([]Shadow(nil)),
		OutlineStroke:   local((*OutlineStroke)(nil)),
		Padding:         local(Edges{}),
		Border:          local((*Border)(nil)),
		BackgroundColor: local(Transparent),
		BackgroundImage: local((*BackgroundImage)(nil)),
		BorderRadius:    local(0.0),
		Width:           local(SizeValue{}),
		Height:          local(SizeValue{}),
		Position:        local((*Position)(nil)),
		Gap:             local(0.0),
		Distribution:    local(DistributeStart),
		Alignment:       local(AlignStart),
	}
}

// propertyTable lists every property in declaration order. Resolution walks
// this table, so a name missing here is never inherited.
var propertyTable = []struct {
	name string
	get  func(*Style) property
}{
	{"font-family", func(s *Style) property { return &s.FontFamily }},
	{"font-fallbacks", func(s *Style) property { return &s.FontFallbacks }},
	{"font-size", func(s *Style) property { return &s.FontSize }},
	{"font-weight", func(s *Style) property { return &s.FontWeight }},
	{"font-style", func(s *Style) property { return &s.FontStyle }},
	{"line-height", func(s *Style) property { return &s.LineHeight }},
	{"text-align", func(s *Style) property { return &s.TextAlign }},
	{"color", func(s *Style) property { return &s.Color }},
	{"text-shadows", func(s *Style) property { return &s.TextShadows }},
	{"underline", func(s *Style) property { return &s.Underline }},
	{"strikethrough", func(s *Style) property { return &s.Strikethrough }},
	{"box-shadows", func(s *Style) property { return &s.BoxShadows }},
	{"outline-stroke", func(s *Style) property { return &s.OutlineStroke }},
	{"padding", func(s *Style) property { return &s.Padding }},
	{"border", func(s *Style) property { return &s.Border }},
	{"background-color", func(s *Style) property { return &s.BackgroundColor }},
	{"background-image", func(s *Style) property { return &s.BackgroundImage }},
	{"border-radius", func(s *Style) property { return &s.BorderRadius }},
	{"width", func(s *Style) property { return &s.Width }},
	{"height", func(s *Style) property { return &s.Height }},
	{"position", func(s *Style) property { return &s.Position }},
	{"gap", func(s *Style) property { return &s.Gap }},
	{"distribution", func(s *Style) property { return &s.Distribution }},
	{"alignment", func(s *Style) property { return &s.Alignment }},
}

// PropertyNames returns the property names in declaration order.
func PropertyNames() []string {
	names := make([]string, len(propertyTable))
	for i, e := range propertyTable {
		names[i] = e.name
	}
	return names
}

func (s *Style) lookup(name string) (property, error) {
	for _, e := range propertyTable {
		if e.name == name {
			return e.get(s), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStyleProperty, name)
}

// IsExplicit reports whether the named property was set by the author.
func (s *Style) IsExplicit(name string) (bool, error) {
	p, err := s.lookup(name)
	if err != nil {
		return false, err
	}
	return p.IsExplicit(), nil
}

// IsInheritable reports whether the named property inherits from ancestors.
func (s *Style) IsInheritable(name string) (bool, error) {
	p, err := s.lookup(name)
	if err != nil {
		return false, err
	}
	return p.IsInheritable(), nil
}

// Clone returns a deep copy of s.
func (s *Style) Clone() *Style {
	c := *s
	for _, e := range propertyTable {
		e.get(&c).deepCopy()
	}
	return &c
}

// HorizontalSpacing returns padding plus border on the left and right sides.
func (s *Style) HorizontalSpacing() float64 {
	return s.Padding.Get().Horizontal() + 2*s.BorderWidth()
}

// VerticalSpacing returns padding plus border on the top and bottom sides.
func (s *Style) VerticalSpacing() float64 {
	return s.Padding.Get().Vertical() + 2*s.BorderWidth()
}

// BorderWidth returns the border line width, 0 when there is no border.
func (s *Style) BorderWidth() float64 {
	if b := s.Border.Get(); b != nil {
		return b.Width
	}
	return 0
}
