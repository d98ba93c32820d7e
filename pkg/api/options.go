package api

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// MeasurerKind selects how text is measured.
type MeasurerKind string

const (
	// MeasurerPDF measures with the PDF core font metrics (Helvetica, Times, Courier)
	MeasurerPDF MeasurerKind = "pdf"
	// MeasurerOpenType measures with the bundled Go fonts plus any font directories,
	// and embeds the same fonts in the output
	MeasurerOpenType MeasurerKind = "opentype"
	// MeasurerApprox uses a fixed advance per character
	MeasurerApprox MeasurerKind = "approx"
)

// Options represents configuration options for laying out and rendering styled boxes
type Options struct {
	// Text measurement
	Measurer MeasurerKind `toml:"measurer"`

	Debug bool `toml:"debug"`

	// Visual rendering toggles
	// When false, backgrounds and background images will not be painted
	RenderBackgrounds bool `toml:"render_backgrounds"`
	// When false, borders will not be painted
	RenderBorders bool `toml:"render_borders"`
	// When true, outline every box and content rectangle
	DebugDrawBoxes bool `toml:"debug_draw_boxes"`

	// Resource paths
	ResourcePaths   []string `toml:"resource_paths"`
	FontDirectories []string `toml:"font_directories"`

	// Document metadata
	Title    string `toml:"title"`
	Author   string `toml:"author"`
	Subject  string `toml:"subject"`
	Keywords string `toml:"keywords"`

	// Stylesheet applied before the document's own stylesheets
	Stylesheet string `toml:"stylesheet"`
}

// Option is a function that modifies Options
type Option func(*Options)

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		Measurer:          MeasurerPDF,
		RenderBackgrounds: true,
		RenderBorders:     true,
		ResourcePaths:     []string{},
		FontDirectories:   []string{},
	}
}

// LoadOptions reads a TOML file over DefaultOptions. Keys missing from the
// file keep their defaults.
func LoadOptions(path string) (Options, error) {
	options := DefaultOptions()

	data, err := os.ReadFile(path)
	if err != nil {
		return options, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &options); err != nil {
		return options, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := options.validate(); err != nil {
		return options, fmt.Errorf("%s: %w", path, err)
	}
	return options, nil
}

func (o Options) validate() error {
	switch o.Measurer {
	case MeasurerPDF, MeasurerOpenType, MeasurerApprox:
		return nil
	case "":
		return fmt.Errorf("measurer must not be empty")
	default:
		return fmt.Errorf("unknown measurer %q", o.Measurer)
	}
}

// WithMeasurer sets the text measurer
func WithMeasurer(kind MeasurerKind) Option {
	return func(o *Options) {
		o.Measurer = kind
	}
}

// WithDebug sets the debug mode
func WithDebug(debug bool) Option {
	return func(o *Options) {
		o.Debug = debug
	}
}

// WithDebugDrawBoxes toggles box outlines in the output
func WithDebugDrawBoxes(draw bool) Option {
	return func(o *Options) {
		o.DebugDrawBoxes = draw
	}
}

// WithResourcePath adds a path to search for resources
func WithResourcePath(path string) Option {
	return func(o *Options) {
		o.ResourcePaths = append(o.ResourcePaths, path)
	}
}

// WithFontDirectory adds a directory of .ttf/.otf files. It implies the
// OpenType measurer.
func WithFontDirectory(dir string) Option {
	return func(o *Options) {
		o.FontDirectories = append(o.FontDirectories, dir)
		o.Measurer = MeasurerOpenType
	}
}

// WithTitle sets the document title
func WithTitle(title string) Option {
	return func(o *Options) {
		o.Title = title
	}
}

// WithAuthor sets the document author
func WithAuthor(author string) Option {
	return func(o *Options) {
		o.Author = author
	}
}

// WithSubject sets the document subject
func WithSubject(subject string) Option {
	return func(o *Options) {
		o.Subject = subject
	}
}

// WithKeywords sets the document keywords
func WithKeywords(keywords string) Option {
	return func(o *Options) {
		o.Keywords = keywords
	}
}

// WithStylesheet sets the stylesheet applied before document stylesheets
func WithStylesheet(stylesheet string) Option {
	return func(o *Options) {
		o.Stylesheet = stylesheet
	}
}
