package api

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/gompdf/styledbox/internal/layout"
	"github.com/gompdf/styledbox/internal/markup"
	"github.com/gompdf/styledbox/internal/render/pdf"
	"github.com/gompdf/styledbox/internal/res"
	"github.com/gompdf/styledbox/internal/text"
)

// Converter lays out styled box trees and renders them to PDF
type Converter struct {
	options Options
	loader  *res.Loader

	once     sync.Once
	measurer text.Measurer
	fonts    *text.OpenTypeMeasurer
	setupErr error
}

// New creates a converter with default options
func New() *Converter {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates a converter with the specified options
func NewWithOptions(options Options, opts ...Option) *Converter {
	for _, opt := range opts {
		opt(&options)
	}
	return &Converter{
		options: options,
		loader:  newLoader("", options),
	}
}

func newLoader(base string, options Options) *res.Loader {
	l := res.NewLoader(base)
	for _, path := range options.ResourcePaths {
		l.AddSearchPath(path)
	}
	return l
}

// Options returns a copy of the converter's options
func (c *Converter) Options() Options {
	return c.options
}

// WithOption returns a new converter with the specified option set
func (c *Converter) WithOption(option Option) *Converter {
	newOptions := c.options
	newOptions.ResourcePaths = append([]string(nil), c.options.ResourcePaths...)
	newOptions.FontDirectories = append([]string(nil), c.options.FontDirectories...)
	option(&newOptions)
	return NewWithOptions(newOptions)
}

// setup builds the measurer once. Font directories are registered with the
// OpenType measurer so layout and painting see the same faces.
func (c *Converter) setup() error {
	c.once.Do(func() {
		if err := c.options.validate(); err != nil {
			c.setupErr = err
			return
		}
		switch c.options.Measurer {
		case MeasurerApprox:
			c.measurer = text.ApproxMeasurer{}
		case MeasurerOpenType:
			m, err := text.NewOpenTypeMeasurer()
			if err != nil {
				c.setupErr = fmt.Errorf("failed to load bundled fonts: %w", err)
				return
			}
			for _, dir := range c.options.FontDirectories {
				if err := m.RegisterDirectory(dir); err != nil {
					c.setupErr = fmt.Errorf("failed to load fonts from %s: %w", dir, err)
					return
				}
				if c.options.Debug {
					log.Printf("api: registered fonts from %s", dir)
				}
			}
			c.measurer = m
			c.fonts = m
		default:
			c.measurer = text.NewPDFMeasurer()
		}
	})
	return c.setupErr
}

// Layout prepares root, which must not have a parent. Images referenced by
// fit-background-image sizes are resolved through the converter's resource paths.
func (c *Converter) Layout(root *layout.Node) error {
	return c.layout(root, c.loader)
}

func (c *Converter) layout(root *layout.Node, loader *res.Loader) error {
	if err := c.setup(); err != nil {
		return err
	}
	engine := layout.NewEngine()
	engine.Debug = c.options.Debug
	engine.SetOptions(layout.Options{Measurer: c.measurer, Images: loader})
	return engine.Prepare(root)
}

// RenderTree lays out root and writes it as a single page PDF to w.
func (c *Converter) RenderTree(root *layout.Node, w io.Writer) error {
	return c.render(root, w, c.loader)
}

func (c *Converter) render(root *layout.Node, w io.Writer, loader *res.Loader) error {
	if err := c.layout(root, loader); err != nil {
		return err
	}

	renderer := pdf.NewRenderer(loader)
	renderer.Debug = c.options.Debug
	renderer.RenderBackgrounds = c.options.RenderBackgrounds
	renderer.RenderBorders = c.options.RenderBorders
	renderer.DebugDrawBoxes = c.options.DebugDrawBoxes
	if c.fonts != nil {
		renderer.UseFonts(c.fonts)
	}

	renderOptions := pdf.RenderOptions{
		Title:    c.options.Title,
		Author:   c.options.Author,
		Subject:  c.options.Subject,
		Keywords: c.options.Keywords,
		Creator:  "styledbox",
		Producer: "styledbox",
	}
	if err := renderer.Render(root, w, renderOptions); err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}
	return nil
}

// Build parses markup into an unprepared node tree.
func (c *Converter) Build(markupContent string) (*layout.Node, error) {
	return c.build(markupContent, c.loader)
}

func (c *Converter) build(markupContent string, loader *res.Loader) (*layout.Node, error) {
	b := markup.NewBuilder(loader)
	b.Stylesheet = c.options.Stylesheet
	b.Debug = c.options.Debug
	root, err := b.BuildString(markupContent)
	if err != nil {
		return nil, fmt.Errorf("failed to build tree: %w", err)
	}
	return root, nil
}

// Convert renders markup and writes the PDF to w
func (c *Converter) Convert(markupContent string, output io.Writer) error {
	root, err := c.Build(markupContent)
	if err != nil {
		return err
	}
	return c.RenderTree(root, output)
}

// ConvertBytes renders markup bytes to PDF bytes
func (c *Converter) ConvertBytes(markupContent []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Convert(string(markupContent), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ConvertFile renders a markup file to a PDF file. Relative stylesheet and
// image references resolve against the input file's directory.
func (c *Converter) ConvertFile(inputPath, outputPath string) error {
	content, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read markup file: %w", err)
	}
	loader := newLoader(inputPath, c.options)

	root, err := c.build(string(content), loader)
	if err != nil {
		return err
	}

	return c.writeFile(root, loader, outputPath)
}

func (c *Converter) writeFile(root *layout.Node, loader *res.Loader, outputPath string) error {
	var buf bytes.Buffer
	if err := c.render(root, &buf, loader); err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	if c.options.Debug {
		log.Printf("api: wrote %s (%d bytes)", outputPath, buf.Len())
	}
	return nil
}

// ConvertURL fetches markup from url and renders it to a PDF file. Relative
// references resolve against the URL.
func (c *Converter) ConvertURL(url, outputPath string) error {
	loader := newLoader(url, c.options)
	resource, err := loader.Load(url)
	if err != nil {
		return fmt.Errorf("failed to load markup from URL: %w", err)
	}

	root, err := c.build(string(resource.Data), loader)
	if err != nil {
		return err
	}
	return c.writeFile(root, loader, outputPath)
}
