package style

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseLength(t *testing.T) {
	tests := map[string]struct {
		in      string
		want    float64
		wantErr bool
	}{
		"px":        {in: "12px", want: 12},
		"unitless":  {in: "7.5", want: 7.5},
		"em":        {in: "2em", want: 32},
		"rem":       {in: "0.5rem", want: 8},
		"negative":  {in: "-3px", want: -3},
		"uppercase": {in: "4PX", want: 4},
		"bad unit":  {in: "4pt", wantErr: true},
		"empty":     {in: "", wantErr: true},
		"nan":       {in: "NaN", wantErr: true},
		"infinity":  {in: "-Inf", wantErr: true},
		"inf px":    {in: "infpx", wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseLength(tc.in)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidValue) {
					t.Fatalf("got %v, want ErrInvalidValue", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseSize(t *testing.T) {
	tests := map[string]struct {
		in      string
		want    SizeValue
		wantErr bool
	}{
		"auto":                 {in: "auto", want: SizeValue{}},
		"absolute":             {in: "120px", want: Absolute(120)},
		"percent":              {in: "50%", want: Percent(50)},
		"fit content":          {in: "fit-content", want: FitContent()},
		"fit background image": {in: "fit-background-image", want: FitBackgroundImage()},
		"bad percent":          {in: "x%", wantErr: true},
		"bad keyword":          {in: "huge", wantErr: true},
		"nan":                  {in: "NaN", wantErr: true},
		"nan percent":          {in: "nan%", wantErr: true},
		"infinite percent":     {in: "+Inf%", wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseSize(tc.in)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidValue) {
					t.Fatalf("got %v, want ErrInvalidValue", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestIsConcrete(t *testing.T) {
	tests := map[string]struct {
		in   SizeValue
		want bool
	}{
		"auto":        {SizeValue{}, false},
		"absolute":    {Absolute(1), true},
		"percent":     {Percent(1), true},
		"fit content": {FitContent(), false},
		"fit image":   {FitBackgroundImage(), true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tc.in.IsConcrete(); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseEdges(t *testing.T) {
	tests := map[string]struct {
		in      string
		want    Edges
		wantErr bool
	}{
		"one":   {in: "4px", want: EdgeAll(4)},
		"two":   {in: "1px 2px", want: Edges{1, 2, 1, 2}},
		"three": {in: "1px 2px 3px", want: Edges{1, 2, 3, 2}},
		"four":  {in: "1px 2px 3px 4px", want: Edges{1, 2, 3, 4}},
		"five":  {in: "1 2 3 4 5", wantErr: true},
		"empty": {in: "", wantErr: true},
		"bad":   {in: "1px wide", wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseEdges(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := map[string]struct {
		in      string
		want    Color
		wantErr bool
	}{
		"short hex":   {in: "#f00", want: Color{255, 0, 0, 255}},
		"hex":         {in: "#336699", want: Color{0x33, 0x66, 0x99, 255}},
		"hex alpha":   {in: "#00000080", want: Color{0, 0, 0, 0x80}},
		"rgb":         {in: "rgb(1, 2, 3)", want: Color{1, 2, 3, 255}},
		"rgba":        {in: "rgba(10, 20, 30, 0)", want: Color{10, 20, 30, 0}},
		"named":       {in: "White", want: Color{255, 255, 255, 255}},
		"transparent": {in: "transparent", want: Transparent},
		"bad hex":     {in: "#zzzzzz", wantErr: true},
		"bad name":    {in: "blurple", wantErr: true},
		"bad rgb":     {in: "rgb(1, 2)", wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseColor(tc.in)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidValue) {
					t.Fatalf("got %v, want ErrInvalidValue", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestParseShadows(t *testing.T) {
	tests := map[string]struct {
		in      string
		want    []Shadow
		wantErr bool
	}{
		"offsets only": {in: "2px 3px", want: []Shadow{{OffsetX: 2, OffsetY: 3, Color: Black}}},
		"blur and color": {
			in:   "1px 1px 4px #ff0000",
			want: []Shadow{{OffsetX: 1, OffsetY: 1, BlurRadius: 4, Color: Color{255, 0, 0, 255}}},
		},
		"list with rgb": {
			in: "0 0 rgb(0, 0, 255), -1px 2px 3px",
			want: []Shadow{
				{Color: Color{0, 0, 255, 255}},
				{OffsetX: -1, OffsetY: 2, BlurRadius: 3, Color: Black},
			},
		},
		"none":        {in: "none"},
		"one length":  {in: "2px red", wantErr: true},
		"four length": {in: "1px 2px 3px 4px", wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseShadows(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestApply(t *testing.T) {
	tests := map[string]struct {
		property, value string
		check           func(*Style) bool
	}{
		"font family with fallbacks": {"font-family", `"Go", Courier`, func(s *Style) bool {
			return s.FontFamily.Get() == "Go" && reflect.DeepEqual(s.FontFallbacks.Get(), []string{"Courier"})
		}},
		"bold": {"font-weight", "bold", func(s *Style) bool { return s.FontWeight.Get() == 700 }},
		"italic": {"font-style", "italic", func(s *Style) bool { return s.FontStyle.Get() == FontItalic }},
		"underline with color": {"text-decoration", "underline 1px red", func(s *Style) bool {
			u := s.Underline.Get()
			return u != nil && u.Thickness == 1 && u.Color != nil && *u.Color == Color{255, 0, 0, 255}
		}},
		"line through": {"text-decoration", "line-through", func(s *Style) bool {
			d := s.Strikethrough.Get()
			return d != nil && d.Thickness == 2 && d.Color == nil && s.Underline.Get() == nil
		}},
		"text stroke": {"-text-stroke", "2px blue", func(s *Style) bool {
			o := s.OutlineStroke.Get()
			return o != nil && o.Width == 2 && o.Color == Color{0, 0, 255, 255}
		}},
		"border": {"border", "3px dashed #00ff00", func(s *Style) bool {
			b := s.Border.Get()
			return b != nil && *b == Border{Width: 3, Color: Color{0, 255, 0, 255}, Style: BorderDashed}
		}},
		"padding side": {"padding-left", "6px", func(s *Style) bool {
			return s.Padding.Get() == Edges{Left: 6}
		}},
		"background image": {"background-image", "url('a.png') tile", func(s *Style) bool {
			b := s.BackgroundImage.Get()
			return b != nil && *b == BackgroundImage{Path: "a.png", Fit: FitTile}
		}},
		"background color shorthand": {"background", "#ff0000", func(s *Style) bool {
			return s.BackgroundColor.Get() == Color{255, 0, 0, 255} && s.BackgroundImage.Get() == nil
		}},
		"background image shorthand": {"background", "url(x.png) contain", func(s *Style) bool {
			b := s.BackgroundImage.Get()
			return b != nil && *b == BackgroundImage{Path: "x.png", Fit: FitContain} && !s.BackgroundColor.IsExplicit()
		}},
		"background color and image": {"background", "rgb(0, 0, 255) url('x.png')", func(s *Style) bool {
			b := s.BackgroundImage.Get()
			return s.BackgroundColor.Get() == Color{0, 0, 255, 255} && b != nil && b.Path == "x.png" && b.Fit == FitCover
		}},
		"justify content alias": {"justify-content", "space-between", func(s *Style) bool {
			return s.Distribution.Get() == DistributeSpaceBetween && s.Distribution.IsExplicit()
		}},
		"align items alias": {"align-items", "center", func(s *Style) bool {
			return s.Alignment.Get() == AlignCenter
		}},
		"x keyword": {"x", "center", func(s *Style) bool {
			p := s.Position.Get()
			return p != nil && p.X == "center" && p.Y == nil
		}},
		"y length": {"y", "12px", func(s *Style) bool {
			p := s.Position.Get()
			return p != nil && p.Y == 12.0
		}},
		"absolute mode": {"position", "absolute", func(s *Style) bool {
			return s.Position.Get().Mode == PositionAbsolute
		}},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			s := New()
			known, err := s.Apply(tc.property, tc.value)
			if err != nil {
				t.Fatal(err)
			}
			if !known {
				t.Fatalf("%s not recognised", tc.property)
			}
			if !tc.check(s) {
				t.Errorf("%s: %s did not apply", tc.property, tc.value)
			}
		})
	}
}

func TestApplyPositionParts(t *testing.T) {
	s := New()
	for _, d := range [][2]string{{"x", "right"}, {"position", "absolute"}, {"x-offset", "-4px"}, {"y", "50%"}} {
		if _, err := s.Apply(d[0], d[1]); err != nil {
			t.Fatal(err)
		}
	}
	want := Position{X: "right", Y: "50%", XOffset: -4, Mode: PositionAbsolute}
	if got := *s.Position.Get(); got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestApplyErrors(t *testing.T) {
	tests := map[string][2]string{
		"font weight range": {"font-weight", "1200"},
		"font style":        {"font-style", "slanted"},
		"line height":       {"line-height", "-1"},
		"text align":        {"text-align", "justify"},
		"stroke arity":      {"-text-stroke", "2px"},
		"distribution":      {"distribution", "around"},
		"position mode":     {"position", "fixed"},
		"image fit":         {"background-image", "url(a.png) stretch"},
		"image syntax":      {"background-image", "a.png"},
		"offset":            {"x-offset", "left"},
		"nan width":         {"width", "NaN"},
		"infinite padding":  {"padding", "1px Inf"},
		"nan line height":   {"line-height", "NaN"},
		"nan color channel": {"color", "rgb(NaN, 0, 0)"},
		"background":        {"background", "url(a.png) stretch"},
		"background color":  {"background", "notacolor url(a.png)"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			known, err := New().Apply(tc[0], tc[1])
			if !known {
				t.Fatalf("%s not recognised", tc[0])
			}
			if !errors.Is(err, ErrInvalidValue) {
				t.Errorf("got %v, want ErrInvalidValue", err)
			}
		})
	}
}

func TestApplyUnknown(t *testing.T) {
	known, err := New().Apply("margin", "4px")
	if known || err != nil {
		t.Errorf("got (%v, %v), want (false, nil)", known, err)
	}
}
