package text

import (
	"strings"
	"sync"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"
)

// PDFMeasurer measures text with the metrics of the PDF core fonts
// (Helvetica, Times, Courier). Units are points, which the layout treats as
// pixels. It is safe for concurrent use.
type PDFMeasurer struct {
	once      sync.Once
	mu        sync.Mutex
	pdf       *fpdf.Fpdf
	translate func(string) string
}

// NewPDFMeasurer returns a measurer backed by a private fpdf document.
func NewPDFMeasurer() *PDFMeasurer {
	return &PDFMeasurer{}
}

func (m *PDFMeasurer) init() {
	m.pdf = fpdf.New("P", "pt", "", "")
	m.pdf.SetFont("Helvetica", "", 12)
	m.translate = m.pdf.UnicodeTranslatorFromDescriptor("")
}

// Measure implements Measurer.
func (m *PDFMeasurer) Measure(s string, f Font) (Metrics, error) {
	m.once.Do(m.init)
	m.mu.Lock()
	defer m.mu.Unlock()

	metrics := approxFontMetrics(f.Size)
	if f.Size <= 0 {
		for _, l := range Lines(s) {
			metrics.Lines = append(metrics.Lines, Line{Text: l})
		}
		return metrics, nil
	}
	family, fontStyle := CoreFont(f)
	m.pdf.SetFont(family, fontStyle, f.Size)
	for _, l := range Lines(s) {
		metrics.Lines = append(metrics.Lines, Line{Text: l, Width: m.pdf.GetStringWidth(m.translate(l))})
	}
	if err := m.pdf.Error(); err != nil {
		m.pdf.ClearError()
		return Metrics{}, err
	}
	return metrics, nil
}

// FontSupports reports whether r is representable in the core fonts'
// cp1252 encoding.
func (m *PDFMeasurer) FontSupports(_ Font, r rune) bool {
	_, ok := charmap.Windows1252.EncodeRune(r)
	return ok
}

// CoreFont maps a Font onto a core PDF family and fpdf style string. The
// family list is searched in order and the first recognised name wins.
func CoreFont(f Font) (family, fontStyle string) {
	family = "Helvetica"
	for _, name := range append([]string{f.Family}, f.Fallbacks...) {
		if fam, ok := coreFamily(name); ok {
			family = fam
			break
		}
	}
	if f.Bold() {
		fontStyle += "B"
	}
	if f.Italic {
		fontStyle += "I"
	}
	return family, fontStyle
}

func coreFamily(name string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(strings.Trim(name, `'"`))) {
	case "arial", "helvetica", "sans-serif":
		return "Helvetica", true
	case "times", "times new roman", "serif":
		return "Times", true
	case "courier", "courier new", "monospace":
		return "Courier", true
	}
	return "", false
}
