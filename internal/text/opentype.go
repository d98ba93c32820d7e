package text

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// DefaultFamily is the family of the bundled Go fonts, used when no
// requested family has a glyph for a rune.
const DefaultFamily = "Go"

var ErrNoFaces = errors.New("no font faces registered")

// FaceID names one registered face.
type FaceID struct {
	Family string
	Bold   bool
	Italic bool
}

// Style returns the fpdf style string for the face.
func (id FaceID) Style() string {
	s := ""
	if id.Bold {
		s += "B"
	}
	if id.Italic {
		s += "I"
	}
	return s
}

// FaceData is a registered face together with its font file bytes.
type FaceData struct {
	ID   FaceID
	Data []byte
}

// Run is a stretch of a line drawn with a single face.
type Run struct {
	Text  string
	Face  FaceID
	Width float64
}

type registered struct {
	id   FaceID
	font *opentype.Font
	data []byte
}

type faceKey struct {
	id   FaceID
	size float64
}

// OpenTypeMeasurer measures text against TrueType/OpenType fonts. Each rune
// is measured with the first face in [family, fallbacks..., DefaultFamily]
// that has a glyph for it. It is safe for concurrent use.
type OpenTypeMeasurer struct {
	mu    sync.Mutex
	fonts map[FaceID]*registered
	order []FaceID
	faces map[faceKey]font.Face
	buf   sfnt.Buffer
}

// NewOpenTypeMeasurer returns a measurer with the Go fonts registered under
// DefaultFamily.
func NewOpenTypeMeasurer() (*OpenTypeMeasurer, error) {
	m := &OpenTypeMeasurer{
		fonts: make(map[FaceID]*registered),
		faces: make(map[faceKey]font.Face),
	}
	for _, f := range []struct {
		bold, italic bool
		data         []byte
	}{
		{false, false, goregular.TTF},
		{true, false, gobold.TTF},
		{false, true, goitalic.TTF},
		{true, true, gobolditalic.TTF},
	} {
		if err := m.Register(DefaultFamily, f.bold, f.italic, f.data); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Register adds a face parsed from TTF or OTF bytes. Registering the same
// family and variant twice replaces the earlier face.
func (m *OpenTypeMeasurer) Register(family string, bold, italic bool, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %q: %w", family, err)
	}
	id := FaceID{Family: family, Bold: bold, Italic: italic}
	key := canonical(id)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.fonts[key]; !ok {
		m.order = append(m.order, key)
	}
	m.fonts[key] = &registered{id: id, font: f, data: data}
	for k := range m.faces {
		if k.id == key {
			delete(m.faces, k)
		}
	}
	return nil
}

// RegisterFile registers a font file, taking the family and variant from
// the font's name table.
func (m *OpenTypeMeasurer) RegisterFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", path, err)
	}
	var buf sfnt.Buffer
	family, err := f.Name(&buf, sfnt.NameIDFamily)
	if err != nil || family == "" {
		family = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	sub, _ := f.Name(&buf, sfnt.NameIDSubfamily)
	sub = strings.ToLower(sub)
	bold := strings.Contains(sub, "bold")
	italic := strings.Contains(sub, "italic") || strings.Contains(sub, "oblique")
	return m.Register(family, bold, italic, data)
}

// RegisterDirectory registers every .ttf and .otf file directly inside dir.
func (m *OpenTypeMeasurer) RegisterDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".ttf", ".otf":
			if err := m.RegisterFile(filepath.Join(dir, e.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}

// FontData returns every registered face in registration order.
func (m *OpenTypeMeasurer) FontData() []FaceData {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]FaceData, 0, len(m.order))
	for _, key := range m.order {
		r := m.fonts[key]
		out = append(out, FaceData{ID: r.id, Data: r.data})
	}
	return out
}

// FontSupports reports whether any face f would fall back to has a glyph for r.
func (m *OpenTypeMeasurer) FontSupports(f Font, r rune) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, reg := range m.candidates(f) {
		if m.hasGlyph(reg, r) {
			return true
		}
	}
	return false
}

// Measure implements Measurer.
func (m *OpenTypeMeasurer) Measure(s string, f Font) (Metrics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cands := m.candidates(f)
	if len(cands) == 0 {
		return Metrics{}, ErrNoFaces
	}
	metrics := approxFontMetrics(f.Size)
	if f.Size > 0 {
		primary, err := m.face(cands[0], f.Size)
		if err != nil {
			return Metrics{}, err
		}
		fm := primary.Metrics()
		metrics.Ascent = toFloat(fm.Ascent)
		metrics.Descent = toFloat(fm.Descent)
	}
	for _, l := range Lines(s) {
		runs, err := m.runs(l, f, cands)
		if err != nil {
			return Metrics{}, err
		}
		w := 0.0
		for _, r := range runs {
			w += r.Width
		}
		metrics.Lines = append(metrics.Lines, Line{Text: l, Width: w})
	}
	return metrics, nil
}

// Runs splits a single line into runs of runes that share a face.
func (m *OpenTypeMeasurer) Runs(line string, f Font) ([]Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cands := m.candidates(f)
	if len(cands) == 0 {
		return nil, ErrNoFaces
	}
	return m.runs(line, f, cands)
}

func (m *OpenTypeMeasurer) runs(line string, f Font, cands []*registered) ([]Run, error) {
	var (
		out  []Run
		cur  *registered
		face font.Face
		b    strings.Builder
		w    fixed.Int26_6
		prev rune = -1
	)
	flush := func() {
		if cur != nil && b.Len() > 0 {
			out = append(out, Run{Text: b.String(), Face: cur.id, Width: toFloat(w)})
		}
		b.Reset()
		w = 0
		prev = -1
	}
	for _, r := range line {
		reg := cands[len(cands)-1]
		for _, c := range cands {
			if m.hasGlyph(c, r) {
				reg = c
				break
			}
		}
		if reg != cur {
			flush()
			cur = reg
			if f.Size > 0 {
				var err error
				if face, err = m.face(reg, f.Size); err != nil {
					return nil, err
				}
			}
		}
		b.WriteRune(r)
		if f.Size <= 0 {
			continue
		}
		if prev >= 0 {
			w += face.Kern(prev, r)
		}
		adv, _ := face.GlyphAdvance(r)
		w += adv
		prev = r
	}
	flush()
	return out, nil
}

// candidates lists the faces to try for f, most preferred first. The
// default family is always last. Callers hold m.mu.
func (m *OpenTypeMeasurer) candidates(f Font) []*registered {
	var out []*registered
	seen := make(map[*registered]bool)
	for _, family := range append(append([]string{f.Family}, f.Fallbacks...), DefaultFamily) {
		if strings.TrimSpace(family) == "" {
			continue
		}
		if reg := m.variant(family, f.Bold(), f.Italic); reg != nil && !seen[reg] {
			seen[reg] = true
			out = append(out, reg)
		}
	}
	return out
}

// variant picks the closest registered variant of family.
func (m *OpenTypeMeasurer) variant(family string, bold, italic bool) *registered {
	for _, id := range []FaceID{
		{family, bold, italic},
		{family, bold, false},
		{family, false, italic},
		{family, false, false},
	} {
		if reg, ok := m.fonts[canonical(id)]; ok {
			return reg
		}
	}
	return nil
}

func (m *OpenTypeMeasurer) hasGlyph(reg *registered, r rune) bool {
	idx, err := reg.font.GlyphIndex(&m.buf, r)
	return err == nil && idx != 0
}

func (m *OpenTypeMeasurer) face(reg *registered, size float64) (font.Face, error) {
	key := faceKey{id: canonical(reg.id), size: size}
	if f, ok := m.faces[key]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(reg.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("face %s %.1f: %w", reg.id.Family, size, err)
	}
	m.faces[key] = f
	return f, nil
}

func canonical(id FaceID) FaceID {
	id.Family = strings.ToLower(strings.TrimSpace(strings.Trim(id.Family, `'"`)))
	return id
}

func toFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
