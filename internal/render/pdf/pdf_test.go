package pdf

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gompdf/styledbox/internal/layout"
	"github.com/gompdf/styledbox/internal/res"
	"github.com/gompdf/styledbox/internal/style"
	"github.com/gompdf/styledbox/internal/text"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{0, 128, 255, 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

// decoratedTree builds a column exercising every painted property.
func decoratedTree(t *testing.T, bg string) *layout.Node {
	t.Helper()
	title := style.New()
	title.FontSize.Set(24)
	title.TextShadows.Set([]style.Shadow{{OffsetX: 2, OffsetY: 2, Color: style.Color{R: 0, G: 0, B: 0, A: 128}}})
	title.OutlineStroke.Set(&style.OutlineStroke{Width: 1, Color: style.Color{R: 255, G: 255, B: 255, A: 255}})
	title.Underline.Set(&style.Decoration{Thickness: 2})
	title.Strikethrough.Set(&style.Decoration{Thickness: 1, Color: &style.Color{R: 255, G: 0, B: 0, A: 255}})

	badge := style.New()
	badge.Width.Set(style.Absolute(40))
	badge.Height.Set(style.Absolute(20))
	badge.BackgroundImage.Set(&style.BackgroundImage{Path: bg, Fit: style.FitTile})
	badge.Position.Set(&style.Position{X: "right", Y: "top"})

	col := style.New()
	col.FontSize.Set(12)
	col.Padding.Set(style.EdgeAll(10))
	col.Gap.Set(5)
	col.BackgroundColor.Set(style.Color{R: 240, G: 240, B: 240, A: 255})
	col.BorderRadius.Set(6)
	col.Border.Set(&style.Border{Width: 2, Color: style.Color{R: 30, G: 30, B: 30, A: 255}, Style: style.BorderDashed})
	col.BoxShadows.Set([]style.Shadow{{OffsetX: 4, OffsetY: 4, BlurRadius: 2, Color: style.Color{R: 0, G: 0, B: 0, A: 64}}})

	cover := style.New()
	cover.Width.Set(style.Absolute(80))
	cover.Height.Set(style.Absolute(30))
	cover.BackgroundImage.Set(&style.BackgroundImage{Path: bg, Fit: style.FitCover})

	root, err := layout.NewColumn(col,
		layout.NewText(title, "Styled box"),
		layout.NewText(nil, "second line\nthird line"),
		layout.NewText(badge, ""),
	)
	if err != nil {
		t.Fatal(err)
	}
	coverNode := layout.NewText(cover, "")
	if err := root.AttachChildren(coverNode); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "tile.png"), 8, 8)
	loader := res.NewLoader(filepath.Join(dir, "doc.html"))

	tests := map[string]struct {
		fonts bool
		debug bool
	}{
		"core fonts":      {},
		"opentype fonts":  {fonts: true},
		"debug box lines": {debug: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			root := decoratedTree(t, "tile.png")

			engine := layout.NewEngine()
			opts := layout.Options{Measurer: text.NewPDFMeasurer(), Images: loader}
			r := NewRenderer(loader)
			r.DebugDrawBoxes = tc.debug
			if tc.fonts {
				m, err := text.NewOpenTypeMeasurer()
				if err != nil {
					t.Fatal(err)
				}
				opts.Measurer = m
				r.UseFonts(m)
			}
			engine.SetOptions(opts)
			if err := engine.Prepare(root); err != nil {
				t.Fatal(err)
			}

			var buf bytes.Buffer
			err := r.Render(root, &buf, RenderOptions{Title: "test", Creator: "styledbox"})
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
				t.Fatalf("output does not start with a PDF header: %q", buf.Bytes()[:min(16, buf.Len())])
			}
		})
	}
}

func TestRenderUnprepared(t *testing.T) {
	root := layout.NewText(nil, "x")
	err := NewRenderer(nil).Render(root, &bytes.Buffer{}, RenderOptions{})
	if !errors.Is(err, layout.ErrNotPrepared) {
		t.Fatalf("got %v, want ErrNotPrepared", err)
	}
}

func TestRenderMissingImageIsSkipped(t *testing.T) {
	st := style.New()
	st.Width.Set(style.Absolute(10))
	st.Height.Set(style.Absolute(10))
	st.BackgroundImage.Set(&style.BackgroundImage{Path: "missing.png"})
	root := layout.NewText(st, "")
	if err := layout.NewEngine().Prepare(root); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := NewRenderer(res.NewLoader(t.TempDir())).Render(root, &buf, RenderOptions{}); err != nil {
		t.Fatal(err)
	}
	if buf.Len() == 0 {
		t.Fatal("empty output")
	}
}

func TestRenderMissingImageLoadedOnce(t *testing.T) {
	var kids []*layout.Node
	for i := 0; i < 3; i++ {
		st := style.New()
		st.Width.Set(style.Absolute(10))
		st.Height.Set(style.Absolute(10))
		st.BackgroundImage.Set(&style.BackgroundImage{Path: "missing.png"})
		kids = append(kids, layout.NewText(st, ""))
	}
	root, err := layout.NewColumn(nil, kids...)
	if err != nil {
		t.Fatal(err)
	}
	if err := layout.NewEngine().Prepare(root); err != nil {
		t.Fatal(err)
	}

	var logs bytes.Buffer
	log.SetOutput(&logs)
	defer log.SetOutput(os.Stderr)

	r := NewRenderer(res.NewLoader(t.TempDir()))
	r.Debug = true
	var buf bytes.Buffer
	if err := r.Render(root, &buf, RenderOptions{}); err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(logs.String(), "skipping background image missing.png"); got != 1 {
		t.Errorf("image load attempted %d times, want 1", got)
	}
}

func TestRenderFile(t *testing.T) {
	root := layout.NewText(nil, "hello")
	if err := layout.NewEngine().Prepare(root); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "nested", "out.pdf")
	if err := NewRenderer(nil).RenderFile(root, out, RenderOptions{}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatal("missing PDF header")
	}
}
