package markup

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gompdf/styledbox/internal/layout"
	"github.com/gompdf/styledbox/internal/res"
	"github.com/gompdf/styledbox/internal/style"
)

func prepared(t *testing.T, root *layout.Node) *layout.Node {
	t.Helper()
	if err := layout.NewEngine().Prepare(root); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestBuildTree(t *testing.T) {
	src := `<html><head><style>
	row { gap: 5px }
	.title { font-size: 20px; color: #ff0000 }
	row text.title { font-weight: bold }
	</style></head><body>
	<row style="width: 200px">
		<text class="title">Hello</text>
		<column>
			<text>a</text>
			loose
		</column>
	</row>
	</body></html>`

	root, err := NewBuilder(nil).BuildString(src)
	if err != nil {
		t.Fatal(err)
	}
	if root.Kind() != layout.KindRow {
		t.Fatalf("root kind = %v, want row", root.Kind())
	}
	children := root.Children()
	if len(children) != 2 {
		t.Fatalf("root has %d children, want 2", len(children))
	}
	title, col := children[0], children[1]
	if title.Kind() != layout.KindText || title.Text() != "Hello" {
		t.Errorf("first child = %v %q, want text Hello", title.Kind(), title.Text())
	}
	if col.Kind() != layout.KindColumn {
		t.Fatalf("second child = %v, want column", col.Kind())
	}
	leaves := col.Children()
	if len(leaves) != 2 || leaves[0].Text() != "a" || leaves[1].Text() != "loose" {
		t.Fatalf("column leaves = %d, want [a loose]", len(leaves))
	}

	raw := title.Style()
	if raw.FontSize.Get() != 20 || raw.FontWeight.Get() != 700 {
		t.Errorf("title font = %v/%v, want 20/700", raw.FontSize.Get(), raw.FontWeight.Get())
	}
	if raw.Color.Get() != (style.Color{R: 255, A: 255}) {
		t.Errorf("title color = %+v, want red", raw.Color.Get())
	}
	if root.Style().Gap.Get() != 5 {
		t.Errorf("row gap = %v, want 5", root.Style().Gap.Get())
	}
	if root.Style().Width.Get() != style.Absolute(200) {
		t.Errorf("row width = %+v, want 200px", root.Style().Width.Get())
	}

	prepared(t, root)
	if got := root.ContentBounds().W; got != 200 {
		t.Errorf("prepared row width = %v, want 200", got)
	}
}

func TestCascadeOrder(t *testing.T) {
	type tc struct {
		css    string
		inline string
		want   float64
	}

	tests := map[string]tc{
		"later rule wins":      {css: "text { gap: 1px } text { gap: 2px }", want: 2},
		"class beats tag":      {css: ".c { gap: 3px } text { gap: 4px }", want: 3},
		"id beats class":       {css: "#i { gap: 5px } .c { gap: 6px }", want: 5},
		"inline beats id":      {css: "#i { gap: 5px }", inline: "gap: 7px", want: 7},
		"important beats all":  {css: "text { gap: 8px !important }", inline: "gap: 9px", want: 8},
		"descendant selector":  {css: "row text { gap: 10px } text { gap: 11px }", want: 10},
		"unmatched descendant": {css: "column text { gap: 12px }", want: 0},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			src := "<style>" + tt.css + `</style><row><text id="i" class="c" style="` + tt.inline + `">x</text></row>`
			root, err := NewBuilder(nil).BuildString(src)
			if err != nil {
				t.Fatal(err)
			}
			if got := root.Children()[0].Style().Gap.Get(); got != tt.want {
				t.Errorf("gap = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShorthandCascade(t *testing.T) {
	tests := map[string]struct {
		css  string
		want style.Edges
	}{
		"specific shorthand beats longhand": {
			css:  "#a { padding: 10px } text { padding-left: 2px }",
			want: style.EdgeAll(10),
		},
		"specific longhand beats shorthand": {
			css:  "text { padding: 10px } #a { padding-left: 2px }",
			want: style.Edges{Top: 10, Right: 10, Bottom: 10, Left: 2},
		},
		"later longhand in one rule": {
			css:  "text { padding: 10px; padding-left: 2px }",
			want: style.Edges{Top: 10, Right: 10, Bottom: 10, Left: 2},
		},
		"later shorthand in one rule": {
			css:  "text { padding-left: 2px; padding: 10px }",
			want: style.EdgeAll(10),
		},
		"important longhand": {
			css:  "#a { padding: 10px } text { padding-left: 2px !important }",
			want: style.Edges{Top: 10, Right: 10, Bottom: 10, Left: 2},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			src := "<style>" + tt.css + `</style><row><text id="a">hi</text></row>`
			root, err := NewBuilder(nil).BuildString(src)
			if err != nil {
				t.Fatal(err)
			}
			if got := root.Children()[0].Style().Padding.Get(); got != tt.want {
				t.Errorf("padding = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBuildErrors(t *testing.T) {
	type tc struct {
		src  string
		want error
	}

	tests := map[string]tc{
		"no root":       {src: "<p>plain</p>", want: ErrNoRoot},
		"bad value":     {src: `<row style="gap: lots"></row>`, want: style.ErrInvalidValue},
		"bad inline":    {src: `<row style="gap"></row>`},
		"bad size unit": {src: `<text style="width: 1parsec">x</text>`, want: style.ErrInvalidValue},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewBuilder(nil).BuildString(tt.src)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPositionFromMarkup(t *testing.T) {
	src := `<column style="width: 100px; height: 50px">
		<text style="width: 10px; height: 10px; position: relative; x: center; y: 100%; y-offset: -10px">p</text>
	</column>`
	root, err := NewBuilder(nil).BuildString(src)
	if err != nil {
		t.Fatal(err)
	}
	child := prepared(t, root).Children()[0]
	if got := child.AbsolutePosition(); got != (layout.Point{X: 45, Y: 40}) {
		t.Errorf("position = %+v, want (45,40)", got)
	}
}

func TestLinkedStylesheet(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "site.css"), []byte("text { padding: 3px }"), 0o644); err != nil {
		t.Fatal(err)
	}
	b := NewBuilder(res.NewLoader(filepath.Join(dir, "doc.html")))
	b.Stylesheet = "text { padding: 1px; gap: 2px }"
	root, err := b.BuildString(`<link rel="stylesheet" href="site.css"><text>x</text>`)
	if err != nil {
		t.Fatal(err)
	}
	st := root.Style()
	if st.Padding.Get() != style.EdgeAll(3) {
		t.Errorf("padding = %+v, want 3 from the linked sheet", st.Padding.Get())
	}
	if st.Gap.Get() != 2 {
		t.Errorf("gap = %v, want 2 from the default sheet", st.Gap.Get())
	}
}

func TestCleanText(t *testing.T) {
	type tc struct {
		in   string
		want string
	}

	tests := map[string]tc{
		"trim":        {in: "  a  ", want: "a"},
		"dedent":      {in: "\n\t\tone\n\t\ttwo\n\t", want: "one\ntwo"},
		"inner blank": {in: "a\n\n b", want: "a\n\nb"},
		"empty":       {in: " \n ", want: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := cleanText(tt.in); got != tt.want {
				t.Errorf("cleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
