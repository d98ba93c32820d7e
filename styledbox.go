package styledbox

import (
	"github.com/gompdf/styledbox/internal/layout"
	"github.com/gompdf/styledbox/internal/style"
	"github.com/gompdf/styledbox/pkg/api"
)

type (
	Converter    = api.Converter
	Options      = api.Options
	Option       = api.Option
	MeasurerKind = api.MeasurerKind

	Node  = layout.Node
	Kind  = layout.Kind
	Rect  = layout.Rect
	Point = layout.Point

	Style           = style.Style
	Color           = style.Color
	Shadow          = style.Shadow
	Decoration      = style.Decoration
	OutlineStroke   = style.OutlineStroke
	Border          = style.Border
	Edges           = style.Edges
	BackgroundImage = style.BackgroundImage
	SizeValue       = style.SizeValue
	Position        = style.Position
)

func New() *Converter { return api.New() }

func NewWithOptions(options Options, opts ...Option) *Converter {
	return api.NewWithOptions(options, opts...)
}

func DefaultOptions() Options { return api.DefaultOptions() }

func LoadOptions(path string) (Options, error) { return api.LoadOptions(path) }

func NewStyle() *Style { return style.New() }

func NewText(st *Style, s string) *Node { return layout.NewText(st, s) }

func NewRow(st *Style, children ...*Node) (*Node, error) { return layout.NewRow(st, children...) }

func NewColumn(st *Style, children ...*Node) (*Node, error) {
	return layout.NewColumn(st, children...)
}

var (
	WithMeasurer       = api.WithMeasurer
	WithDebug          = api.WithDebug
	WithDebugDrawBoxes = api.WithDebugDrawBoxes
	WithResourcePath   = api.WithResourcePath
	WithFontDirectory  = api.WithFontDirectory
	WithTitle          = api.WithTitle
	WithAuthor         = api.WithAuthor
	WithSubject        = api.WithSubject
	WithKeywords       = api.WithKeywords
	WithStylesheet     = api.WithStylesheet

	Absolute           = style.Absolute
	Percent            = style.Percent
	FitContent         = style.FitContent
	FitBackgroundImage = style.FitBackgroundImage
	EdgeAll            = style.EdgeAll
)

var (
	ErrUnknownStyleProperty     = style.ErrUnknownStyleProperty
	ErrInvalidAnchorKeyword     = style.ErrInvalidAnchorKeyword
	ErrInvalidPositionValueType = style.ErrInvalidPositionValueType
	ErrInvalidValue             = style.ErrInvalidValue

	ErrMissingContainerSize   = layout.ErrMissingContainerSize
	ErrMissingBackgroundImage = layout.ErrMissingBackgroundImage
	ErrImageLoadFailed        = layout.ErrImageLoadFailed
	ErrAlreadyAttached        = layout.ErrAlreadyAttached
	ErrLeafNode               = layout.ErrLeafNode
	ErrCyclicTree             = layout.ErrCyclicTree
	ErrNotRoot                = layout.ErrNotRoot
	ErrReentrantPrepare       = layout.ErrReentrantPrepare
	ErrNotPrepared            = layout.ErrNotPrepared
)

const (
	KindText   = layout.KindText
	KindRow    = layout.KindRow
	KindColumn = layout.KindColumn

	MeasurerPDF      = api.MeasurerPDF
	MeasurerOpenType = api.MeasurerOpenType
	MeasurerApprox   = api.MeasurerApprox
)
