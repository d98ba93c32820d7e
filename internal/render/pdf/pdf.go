package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"

	"codeberg.org/go-pdf/fpdf"
	"github.com/gompdf/styledbox/internal/layout"
	"github.com/gompdf/styledbox/internal/res"
	"github.com/gompdf/styledbox/internal/style"
	"github.com/gompdf/styledbox/internal/text"
)

// Renderer paints prepared node trees onto a single PDF page sized to the
// tree's canvas bounds.
type Renderer struct {
	loader *res.Loader
	fonts  *text.OpenTypeMeasurer

	// Debug enables progress logging
	Debug bool
	// RenderBackgrounds controls whether box backgrounds and background images are painted
	RenderBackgrounds bool
	// RenderBorders controls whether box borders are painted
	RenderBorders bool
	// DebugDrawBoxes outlines every box and content rectangle
	DebugDrawBoxes bool
}

// RenderOptions contains document metadata
type RenderOptions struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
	Creator  string
	Producer string
}

// NewRenderer creates a renderer that loads background images through
// loader. A nil loader skips background images.
func NewRenderer(loader *res.Loader) *Renderer {
	return &Renderer{
		loader:            loader,
		RenderBackgrounds: true,
		RenderBorders:     true,
	}
}

// UseFonts embeds the faces of m and draws text with them, so painted glyphs
// match the widths m measured. Without it text uses the PDF core fonts.
func (r *Renderer) UseFonts(m *text.OpenTypeMeasurer) {
	r.fonts = m
}

// RenderFile renders root to a PDF file, creating the directory if needed.
func (r *Renderer) RenderFile(root *layout.Node, outputPath string, options RenderOptions) error {
	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	if err := r.Render(root, f, options); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Render paints root, which must be prepared, and writes the PDF to w.
func (r *Renderer) Render(root *layout.Node, w io.Writer, options RenderOptions) error {
	canvas, err := layout.CanvasBounds(root)
	if err != nil {
		return err
	}
	pageW, pageH := math.Max(canvas.W, 1), math.Max(canvas.H, 1)

	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	doc.SetAutoPageBreak(false, 0)
	doc.SetMargins(0, 0, 0)
	doc.SetTitle(options.Title, true)
	doc.SetAuthor(options.Author, true)
	doc.SetSubject(options.Subject, true)
	doc.SetKeywords(options.Keywords, true)
	doc.SetCreator(options.Creator, true)
	doc.SetProducer(options.Producer, true)
	r.registerFonts(doc)
	doc.AddPage()

	p := &painter{
		Renderer:  r,
		pdf:       doc,
		dx:        -canvas.X,
		dy:        -canvas.Y,
		images:    make(map[string]imageInfo),
		skipped:   make(map[string]bool),
		translate: doc.UnicodeTranslatorFromDescriptor(""),
	}
	if r.Debug {
		log.Printf("pdf: page %.2fx%.2f, canvas origin (%.2f, %.2f)", pageW, pageH, canvas.X, canvas.Y)
	}
	layout.Walk(root, func(n *layout.Node) bool {
		p.paintNode(n)
		return true
	})

	if err := doc.Error(); err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}
	return doc.Output(w)
}

func (r *Renderer) registerFonts(doc *fpdf.Fpdf) {
	if r.fonts == nil {
		return
	}
	for _, f := range r.fonts.FontData() {
		doc.AddUTF8FontFromBytes(f.ID.Family, f.ID.Style(), f.Data)
		if r.Debug {
			log.Printf("pdf: embedded font %s %q", f.ID.Family, f.ID.Style())
		}
	}
}

type imageInfo struct {
	name string
	w, h float64
}

// painter holds the state of one Render call.
type painter struct {
	*Renderer
	pdf       *fpdf.Fpdf
	dx, dy    float64
	images    map[string]imageInfo
	skipped   map[string]bool
	translate func(string) string
}

func (p *painter) paintNode(n *layout.Node) {
	st := n.ComputedStyle()
	box := n.AbsoluteBoxBounds().Offset(p.dx, p.dy)
	radius := math.Min(st.BorderRadius.Get(), math.Min(box.W, box.H)/2)

	for _, s := range st.BoxShadows.Get() {
		p.fillRect(box.Offset(s.OffsetX, s.OffsetY), radius, s.Color)
	}
	if p.RenderBackgrounds {
		p.fillRect(box, radius, st.BackgroundColor.Get())
		if bg := st.BackgroundImage.Get(); bg != nil {
			p.paintImage(box, bg)
		}
	}
	if p.RenderBorders {
		if b := st.Border.Get(); b != nil && b.Width > 0 {
			p.strokeBorder(box, radius, b)
		}
	}
	if n.Kind() == layout.KindText {
		p.paintText(n, st)
	}
	if p.DebugDrawBoxes {
		p.debugBoxes(n, box)
	}
}

func (p *painter) setAlpha(c style.Color) {
	p.pdf.SetAlpha(float64(c.A)/255, "Normal")
}

func (p *painter) resetAlpha() {
	p.pdf.SetAlpha(1, "Normal")
}

func (p *painter) fillRect(r layout.Rect, radius float64, c style.Color) {
	if !c.IsVisible() || r.Empty() {
		return
	}
	p.setAlpha(c)
	defer p.resetAlpha()
	p.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	if radius > 0 {
		p.pdf.RoundedRect(r.X, r.Y, r.W, r.H, radius, "1234", "F")
		return
	}
	p.pdf.Rect(r.X, r.Y, r.W, r.H, "F")
}

// strokeBorder draws the border inside the box.
func (p *painter) strokeBorder(box layout.Rect, radius float64, b *style.Border) {
	if !b.Color.IsVisible() {
		return
	}
	r := box.Outset(-b.Width / 2)
	p.setAlpha(b.Color)
	defer p.resetAlpha()
	p.pdf.SetDrawColor(int(b.Color.R), int(b.Color.G), int(b.Color.B))
	p.pdf.SetLineWidth(b.Width)
	switch b.Style {
	case style.BorderDashed:
		p.pdf.SetDashPattern([]float64{3 * b.Width, 3 * b.Width}, 0)
	case style.BorderDotted:
		p.pdf.SetDashPattern([]float64{b.Width, b.Width}, 0)
	}
	if radius > 0 {
		p.pdf.RoundedRect(r.X, r.Y, r.W, r.H, math.Max(0, radius-b.Width/2), "1234", "D")
	} else {
		p.pdf.Rect(r.X, r.Y, r.W, r.H, "D")
	}
	p.pdf.SetDashPattern([]float64{}, 0)
}

func (p *painter) paintImage(box layout.Rect, bg *style.BackgroundImage) {
	if p.loader == nil || box.Empty() {
		return
	}
	info, ok := p.image(bg.Path)
	if !ok {
		return
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	p.pdf.ClipRect(box.X, box.Y, box.W, box.H, false)
	defer p.pdf.ClipEnd()
	switch bg.Fit {
	case style.FitTile:
		for y := box.Y; y < box.Bottom(); y += info.h {
			for x := box.X; x < box.Right(); x += info.w {
				p.pdf.ImageOptions(info.name, x, y, info.w, info.h, false, opts, 0, "")
			}
		}
	default:
		scale := math.Max(box.W/info.w, box.H/info.h)
		if bg.Fit == style.FitContain {
			scale = math.Min(box.W/info.w, box.H/info.h)
		}
		w, h := info.w*scale, info.h*scale
		x := box.X + (box.W-w)/2
		y := box.Y + (box.H-h)/2
		p.pdf.ImageOptions(info.name, x, y, w, h, false, opts, 0, "")
	}
}

// image returns the registered image for path, loading it on first use.
// A path that failed once is not retried.
func (p *painter) image(path string) (imageInfo, bool) {
	if info, ok := p.images[path]; ok {
		return info, true
	}
	if p.skipped[path] {
		return imageInfo{}, false
	}
	img, err := p.loader.Image(path)
	if err == nil {
		var info imageInfo
		if info, err = p.registerImage(path, img); err == nil {
			p.images[path] = info
			return info, true
		}
	}
	p.skipped[path] = true
	if p.Debug {
		log.Printf("pdf: skipping background image %s: %v", path, err)
	}
	return imageInfo{}, false
}

func (p *painter) registerImage(name string, img image.Image) (imageInfo, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return imageInfo{}, err
	}
	p.pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, &buf)
	if err := p.pdf.Error(); err != nil {
		return imageInfo{}, err
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return imageInfo{}, fmt.Errorf("empty image")
	}
	return imageInfo{name: name, w: float64(b.Dx()), h: float64(b.Dy())}, nil
}

func (p *painter) paintText(n *layout.Node, st *style.Style) {
	font := layout.FontOf(st)
	if font.Size <= 0 {
		return
	}
	m := n.FontMetrics()
	origin := n.AbsolutePosition()
	fill := st.Color.Get()

	for _, line := range n.TextLines() {
		if line.Text == "" {
			continue
		}
		x := origin.X + line.X + p.dx
		y := origin.Y + line.Baseline + p.dy

		for _, s := range st.TextShadows.Get() {
			p.drawString(line.Text, font, x+s.OffsetX, y+s.OffsetY, s.Color)
		}
		if o := st.OutlineStroke.Get(); o != nil && o.Width > 0 {
			// Eight offset copies approximate a stroke around the glyphs.
			d := o.Width / 2
			for _, off := range [][2]float64{{-d, -d}, {0, -d}, {d, -d}, {-d, 0}, {d, 0}, {-d, d}, {0, d}, {d, d}} {
				p.drawString(line.Text, font, x+off[0], y+off[1], o.Color)
			}
		}
		p.drawString(line.Text, font, x, y, fill)

		if u := st.Underline.Get(); u != nil {
			p.decorate(x, y+m.UnderlineOffset, line.Width, u, fill)
		}
		if s := st.Strikethrough.Get(); s != nil {
			p.decorate(x, y+m.StrikeoutOffset, line.Width, s, fill)
		}
	}
}

func (p *painter) drawString(s string, font text.Font, x, y float64, c style.Color) {
	if !c.IsVisible() {
		return
	}
	p.setAlpha(c)
	defer p.resetAlpha()
	p.pdf.SetTextColor(int(c.R), int(c.G), int(c.B))

	if p.fonts != nil {
		runs, err := p.fonts.Runs(s, font)
		if err == nil {
			for _, run := range runs {
				p.pdf.SetFont(run.Face.Family, run.Face.Style(), font.Size)
				p.pdf.Text(x, y, run.Text)
				x += run.Width
			}
			return
		}
		if p.Debug {
			log.Printf("pdf: falling back to core fonts for %q: %v", s, err)
		}
	}
	family, fontStyle := text.CoreFont(font)
	p.pdf.SetFont(family, fontStyle, font.Size)
	p.pdf.Text(x, y, p.translate(s))
}

func (p *painter) decorate(x, y, width float64, d *style.Decoration, fill style.Color) {
	c := fill
	if d.Color != nil {
		c = *d.Color
	}
	if !c.IsVisible() || d.Thickness <= 0 {
		return
	}
	p.setAlpha(c)
	defer p.resetAlpha()
	p.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	p.pdf.SetLineWidth(d.Thickness)
	p.pdf.Line(x, y, x+width, y)
}

func (p *painter) debugBoxes(n *layout.Node, box layout.Rect) {
	content := n.AbsoluteContentBounds().Offset(p.dx, p.dy)
	p.pdf.SetLineWidth(0.5)
	p.pdf.SetDrawColor(200, 200, 200)
	p.pdf.Rect(box.X, box.Y, box.W, box.H, "D")
	p.pdf.SetDrawColor(120, 160, 220)
	p.pdf.Rect(content.X, content.Y, content.W, content.H, "D")
	p.pdf.SetFont("Helvetica", "", 8)
	p.pdf.SetTextColor(150, 150, 150)
	p.pdf.Text(box.X+2, box.Y+8, fmt.Sprintf("%s %.0fx%.0f", n.Kind(), box.W, box.H))
}
