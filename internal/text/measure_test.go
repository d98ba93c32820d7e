package text

import (
	"math"
	"testing"
)

func TestLines(t *testing.T) {
	type tc struct {
		in   string
		want []string
	}

	tests := map[string]tc{
		"single line":      {in: "abc", want: []string{"abc"}},
		"newline split":    {in: "a\nbc", want: []string{"a", "bc"}},
		"crlf":             {in: "a\r\nb", want: []string{"a", "b"}},
		"trailing newline": {in: "a\n", want: []string{"a", ""}},
		"nfc composed":     {in: "e\u0301", want: []string{"\u00e9"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := Lines(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("Lines(%q) = %q, want %q", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestApproxMeasurer(t *testing.T) {
	m := ApproxMeasurer{CharWidth: 0.5}
	got, err := m.Measure("ab\nabcd", Font{Size: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(got.Lines))
	}
	if got.Lines[0].Width != 10 || got.Lines[1].Width != 20 {
		t.Errorf("line widths = %v, %v; want 10, 20", got.Lines[0].Width, got.Lines[1].Width)
	}
	if got.Width() != 20 {
		t.Errorf("Width() = %v, want 20", got.Width())
	}
	if got.Ascent != 8 || got.Descent != 2 {
		t.Errorf("ascent/descent = %v/%v, want 8/2", got.Ascent, got.Descent)
	}
}

func TestCoreFont(t *testing.T) {
	type tc struct {
		font       Font
		wantFamily string
		wantStyle  string
	}

	tests := map[string]tc{
		"default":          {font: Font{}, wantFamily: "Helvetica"},
		"serif bold":       {font: Font{Family: "serif", Weight: 700}, wantFamily: "Times", wantStyle: "B"},
		"fallback matches": {font: Font{Family: "Nope", Fallbacks: []string{"'Courier New'"}, Italic: true}, wantFamily: "Courier", wantStyle: "I"},
		"bold italic":      {font: Font{Family: "Arial", Weight: 900, Italic: true}, wantFamily: "Helvetica", wantStyle: "BI"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			fam, sty := CoreFont(tt.font)
			if fam != tt.wantFamily || sty != tt.wantStyle {
				t.Errorf("CoreFont = %q %q, want %q %q", fam, sty, tt.wantFamily, tt.wantStyle)
			}
		})
	}
}

func TestPDFMeasurer(t *testing.T) {
	m := NewPDFMeasurer()
	short, err := m.Measure("i", Font{Family: "Courier", Size: 10})
	if err != nil {
		t.Fatal(err)
	}
	long, err := m.Measure("iiii", Font{Family: "Courier", Size: 10})
	if err != nil {
		t.Fatal(err)
	}
	// Courier is monospaced at 600/1000 em.
	if math.Abs(short.Width()-6) > 1e-9 {
		t.Errorf("width of one Courier glyph = %v, want 6", short.Width())
	}
	if math.Abs(long.Width()-4*short.Width()) > 1e-9 {
		t.Errorf("width of four glyphs = %v, want %v", long.Width(), 4*short.Width())
	}
	if !m.FontSupports(Font{}, 'é') {
		t.Error("é should be supported by cp1252")
	}
	if m.FontSupports(Font{}, '世') {
		t.Error("世 should not be supported by cp1252")
	}
}

func TestOpenTypeMeasurer(t *testing.T) {
	m, err := NewOpenTypeMeasurer()
	if err != nil {
		t.Fatal(err)
	}
	f := Font{Family: "Unknown", Size: 20}

	one, err := m.Measure("W", f)
	if err != nil {
		t.Fatal(err)
	}
	if one.Width() <= 0 {
		t.Fatalf("width of W = %v, want > 0", one.Width())
	}
	if one.Ascent <= 0 || one.Descent <= 0 {
		t.Errorf("ascent/descent = %v/%v, want both > 0", one.Ascent, one.Descent)
	}

	two, err := m.Measure("WW", f)
	if err != nil {
		t.Fatal(err)
	}
	if two.Width() <= one.Width() {
		t.Errorf("width of WW = %v, want more than W (%v)", two.Width(), one.Width())
	}

	if !m.FontSupports(f, 'A') {
		t.Error("Go font should support 'A'")
	}

	runs, err := m.Runs("ab", f)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Face.Family != DefaultFamily || runs[0].Text != "ab" {
		t.Errorf("Runs = %+v, want one run in %s", runs, DefaultFamily)
	}

	if got := len(m.FontData()); got != 4 {
		t.Errorf("FontData has %d faces, want 4", got)
	}
}
