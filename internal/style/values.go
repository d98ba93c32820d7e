package style

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Apply sets the style property matching a CSS-like declaration. It reports
// false for properties it does not know; a known property with a malformed
// value returns an error wrapping ErrInvalidValue.
func (s *Style) Apply(property, value string) (bool, error) {
	property = strings.ToLower(strings.TrimSpace(property))
	value = strings.TrimSpace(value)
	if setter, ok := declarationSetters[property]; ok {
		if err := setter(s, value); err != nil {
			return true, fmt.Errorf("%s: %w", property, err)
		}
		return true, nil
	}
	return false, nil
}

var declarationSetters map[string]func(*Style, string) error

func init() {
	declarationSetters = map[string]func(*Style, string) error{
		"font-family": func(s *Style, v string) error {
			families := splitList(v)
			if len(families) == 0 {
				return invalid(v)
			}
			s.FontFamily.Set(families[0])
			if len(families) > 1 {
				s.FontFallbacks.Set(families[1:])
			}
			return nil
		},
		"font-fallbacks": func(s *Style, v string) error {
			s.FontFallbacks.Set(splitList(v))
			return nil
		},
		"font-size": lengthSetter(func(s *Style, f float64) { s.FontSize.Set(f) }),
		"font-weight": func(s *Style, v string) error {
			switch strings.ToLower(v) {
			case "normal":
				s.FontWeight.Set(400)
			case "bold":
				s.FontWeight.Set(700)
			default:
				w, err := strconv.Atoi(v)
				if err != nil || w < 1 || w > 1000 {
					return invalid(v)
				}
				s.FontWeight.Set(w)
			}
			return nil
		},
		"font-style": func(s *Style, v string) error {
			switch strings.ToLower(v) {
			case "normal":
				s.FontStyle.Set(FontNormal)
			case "italic", "oblique":
				s.FontStyle.Set(FontItalic)
			default:
				return invalid(v)
			}
			return nil
		},
		"line-height": func(s *Style, v string) error {
			f, err := parseNumber(v)
			if err != nil || f < 0 {
				return invalid(v)
			}
			s.LineHeight.Set(f)
			return nil
		},
		"text-align": func(s *Style, v string) error {
			switch strings.ToLower(v) {
			case "left", "start":
				s.TextAlign.Set(TextLeft)
			case "center":
				s.TextAlign.Set(TextCenter)
			case "right", "end":
				s.TextAlign.Set(TextRight)
			default:
				return invalid(v)
			}
			return nil
		},
		"color": colorSetter(func(s *Style, c Color) { s.Color.Set(c) }),
		"text-shadow": func(s *Style, v string) error {
			shadows, err := ParseShadows(v)
			if err != nil {
				return err
			}
			s.TextShadows.Set(shadows)
			return nil
		},
		"text-decoration": func(s *Style, v string) error {
			parts := strings.Fields(v)
			if len(parts) == 0 {
				return invalid(v)
			}
			thickness := 2.0
			var col *Color
			var lines []string
			for _, p := range parts {
				switch strings.ToLower(p) {
				case "none", "underline", "line-through":
					lines = append(lines, strings.ToLower(p))
					continue
				}
				if f, err := ParseLength(p); err == nil {
					thickness = f
					continue
				}
				c, err := ParseColor(p)
				if err != nil {
					return invalid(v)
				}
				col = &c
			}
			for _, l := range lines {
				switch l {
				case "none":
					s.Underline.Set(nil)
					s.Strikethrough.Set(nil)
				case "underline":
					s.Underline.Set(&Decoration{Thickness: thickness, Color: col})
				case "line-through":
					s.Strikethrough.Set(&Decoration{Thickness: thickness, Color: col})
				}
			}
			return nil
		},
		"box-shadow": func(s *Style, v string) error {
			shadows, err := ParseShadows(v)
			if err != nil {
				return err
			}
			s.BoxShadows.Set(shadows)
			return nil
		},
		"-text-stroke": func(s *Style, v string) error {
			parts := strings.Fields(v)
			if len(parts) != 2 {
				return invalid(v)
			}
			w, err := ParseLength(parts[0])
			if err != nil {
				return err
			}
			c, err := ParseColor(parts[1])
			if err != nil {
				return err
			}
			s.OutlineStroke.Set(&OutlineStroke{Width: w, Color: c})
			return nil
		},
		"padding": func(s *Style, v string) error {
			e, err := ParseEdges(v)
			if err != nil {
				return err
			}
			s.Padding.Set(e)
			return nil
		},
		"padding-top":    paddingSide(func(e *Edges, f float64) { e.Top = f }),
		"padding-right":  paddingSide(func(e *Edges, f float64) { e.Right = f }),
		"padding-bottom": paddingSide(func(e *Edges, f float64) { e.Bottom = f }),
		"padding-left":   paddingSide(func(e *Edges, f float64) { e.Left = f }),
		"border": func(s *Style, v string) error {
			if strings.EqualFold(v, "none") {
				s.Border.Set(nil)
				return nil
			}
			b := Border{Width: 1, Color: Black}
			for _, p := range strings.Fields(v) {
				switch strings.ToLower(p) {
				case "solid":
					b.Style = BorderSolid
					continue
				case "dashed":
					b.Style = BorderDashed
					continue
				case "dotted":
					b.Style = BorderDotted
					continue
				}
				if f, err := ParseLength(p); err == nil {
					b.Width = f
					continue
				}
				c, err := ParseColor(p)
				if err != nil {
					return invalid(v)
				}
				b.Color = c
			}
			s.Border.Set(&b)
			return nil
		},
		"border-radius":    lengthSetter(func(s *Style, f float64) { s.BorderRadius.Set(f) }),
		"background-color": colorSetter(func(s *Style, c Color) { s.BackgroundColor.Set(c) }),
		"background":       setBackground,
		"background-image": func(s *Style, v string) error {
			img, err := parseBackgroundImage(v)
			if err != nil {
				return err
			}
			s.BackgroundImage.Set(img)
			return nil
		},
		"width":  sizeSetter(func(s *Style, sv SizeValue) { s.Width.Set(sv) }),
		"height": sizeSetter(func(s *Style, sv SizeValue) { s.Height.Set(sv) }),
		"gap":    lengthSetter(func(s *Style, f float64) { s.Gap.Set(f) }),
		"distribution": func(s *Style, v string) error {
			d, err := ParseDistribution(v)
			if err != nil {
				return err
			}
			s.Distribution.Set(d)
			return nil
		},
		"alignment": func(s *Style, v string) error {
			a, err := ParseAlignment(v)
			if err != nil {
				return err
			}
			s.Alignment.Set(a)
			return nil
		},
		"position": func(s *Style, v string) error {
			p := s.positionForUpdate()
			switch strings.ToLower(v) {
			case "relative":
				p.Mode = PositionRelative
			case "absolute":
				p.Mode = PositionAbsolute
			default:
				return invalid(v)
			}
			s.Position.Set(p)
			return nil
		},
		"x":        coordinateSetter(func(p *Position, c any) { p.X = c }),
		"y":        coordinateSetter(func(p *Position, c any) { p.Y = c }),
		"x-offset": offsetSetter(func(p *Position, f float64) { p.XOffset = f }),
		"y-offset": offsetSetter(func(p *Position, f float64) { p.YOffset = f }),
	}
	declarationSetters["justify-content"] = declarationSetters["distribution"]
	declarationSetters["align-items"] = declarationSetters["alignment"]
}

func invalid(v string) error {
	return fmt.Errorf("%w: %q", ErrInvalidValue, v)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(strings.Trim(strings.TrimSpace(part), `'"`))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func lengthSetter(set func(*Style, float64)) func(*Style, string) error {
	return func(s *Style, v string) error {
		f, err := ParseLength(v)
		if err != nil {
			return err
		}
		set(s, f)
		return nil
	}
}

func colorSetter(set func(*Style, Color)) func(*Style, string) error {
	return func(s *Style, v string) error {
		c, err := ParseColor(v)
		if err != nil {
			return err
		}
		set(s, c)
		return nil
	}
}

func sizeSetter(set func(*Style, SizeValue)) func(*Style, string) error {
	return func(s *Style, v string) error {
		sv, err := ParseSize(v)
		if err != nil {
			return err
		}
		set(s, sv)
		return nil
	}
}

func paddingSide(set func(*Edges, float64)) func(*Style, string) error {
	return func(s *Style, v string) error {
		f, err := ParseLength(v)
		if err != nil {
			return err
		}
		e := s.Padding.Get()
		set(&e, f)
		s.Padding.Set(e)
		return nil
	}
}

// positionForUpdate returns a copy of the current position override, or a new
// one, so declarations for x, y and mode can arrive in any order.
func (s *Style) positionForUpdate() *Position {
	if p := s.Position.Get(); p != nil {
		c := *p
		return &c
	}
	return &Position{}
}

func coordinateSetter(set func(*Position, any)) func(*Style, string) error {
	return func(s *Style, v string) error {
		p := s.positionForUpdate()
		// Lengths become pixel values; anything else stays a string and is
		// checked as an anchor when the tree is laid out.
		if f, err := ParseLength(v); err == nil {
			set(p, f)
		} else {
			set(p, v)
		}
		s.Position.Set(p)
		return nil
	}
}

func offsetSetter(set func(*Position, float64)) func(*Style, string) error {
	return func(s *Style, v string) error {
		f, err := ParseLength(v)
		if err != nil {
			return err
		}
		p := s.positionForUpdate()
		set(p, f)
		s.Position.Set(p)
		return nil
	}
}

// ParseLength parses px, em, rem or unitless lengths. em and rem use a 16px base.
func ParseLength(value string) (float64, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	scale := 1.0
	switch {
	case strings.HasSuffix(v, "rem"):
		v, scale = v[:len(v)-3], 16
	case strings.HasSuffix(v, "px"):
		v = v[:len(v)-2]
	case strings.HasSuffix(v, "em"):
		v, scale = v[:len(v)-2], 16
	}
	f, err := parseNumber(v)
	if err != nil {
		return 0, invalid(value)
	}
	return f * scale, nil
}

// parseNumber is strconv.ParseFloat without NaN and infinities.
func parseNumber(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, strconv.ErrSyntax
	}
	return f, nil
}

// ParseSize parses a width or height declaration.
func ParseSize(value string) (SizeValue, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "auto", "":
		return SizeValue{}, nil
	case "fit-content":
		return FitContent(), nil
	case "fit-background-image":
		return FitBackgroundImage(), nil
	}
	if pct, ok := strings.CutSuffix(v, "%"); ok {
		f, err := parseNumber(pct)
		if err != nil {
			return SizeValue{}, invalid(value)
		}
		return Percent(f), nil
	}
	f, err := ParseLength(v)
	if err != nil {
		return SizeValue{}, err
	}
	return Absolute(f), nil
}

// ParseEdges parses a 1 to 4 value box shorthand into (top, right, bottom, left).
func ParseEdges(value string) (Edges, error) {
	parts := strings.Fields(value)
	vals := make([]float64, len(parts))
	for i, p := range parts {
		f, err := ParseLength(p)
		if err != nil {
			return Edges{}, err
		}
		vals[i] = f
	}
	switch len(vals) {
	case 1:
		return EdgeAll(vals[0]), nil
	case 2:
		return Edges{vals[0], vals[1], vals[0], vals[1]}, nil
	case 3:
		return Edges{vals[0], vals[1], vals[2], vals[1]}, nil
	case 4:
		return Edges{vals[0], vals[1], vals[2], vals[3]}, nil
	default:
		return Edges{}, invalid(value)
	}
}

// ParseColor accepts #rgb, #rrggbb, #rrggbbaa, rgb(), rgba(), transparent and
// SVG colour names.
func ParseColor(value string) (Color, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch {
	case v == "transparent":
		return Transparent, nil
	case strings.HasPrefix(v, "#"):
		return parseHexColor(v)
	case strings.HasPrefix(v, "rgb"):
		return parseRGBFunc(v)
	}
	if c, ok := colornames.Map[v]; ok {
		return Color{c.R, c.G, c.B, c.A}, nil
	}
	return Color{}, invalid(value)
}

func parseHexColor(v string) (Color, error) {
	alpha := uint8(255)
	switch len(v) {
	case 4:
		v = "#" + strings.Repeat(v[1:2], 2) + strings.Repeat(v[2:3], 2) + strings.Repeat(v[3:4], 2)
	case 9:
		a, err := strconv.ParseUint(v[7:9], 16, 8)
		if err != nil {
			return Color{}, invalid(v)
		}
		alpha = uint8(a)
		v = v[:7]
	}
	c, err := colorful.Hex(v)
	if err != nil {
		return Color{}, invalid(v)
	}
	r, g, b := c.RGB255()
	return Color{r, g, b, alpha}, nil
}

func parseRGBFunc(v string) (Color, error) {
	lp, rp := strings.IndexByte(v, '('), strings.LastIndexByte(v, ')')
	if lp < 0 || rp < lp {
		return Color{}, invalid(v)
	}
	parts := strings.Split(v[lp+1:rp], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, invalid(v)
	}
	var ch [4]uint8
	ch[3] = 255
	for i, p := range parts {
		f, err := parseNumber(strings.TrimSpace(p))
		if err != nil {
			return Color{}, invalid(v)
		}
		if i == 3 {
			f *= 255
		}
		ch[i] = uint8(max(0, min(255, f)))
	}
	return Color{ch[0], ch[1], ch[2], ch[3]}, nil
}

// ParseShadows parses a comma separated list of "<x> <y> [<blur>] <color>".
func ParseShadows(value string) ([]Shadow, error) {
	if strings.EqualFold(strings.TrimSpace(value), "none") {
		return nil, nil
	}
	var out []Shadow
	for _, item := range splitOutsideParens(value) {
		var lengths []float64
		col := Black
		for _, p := range fieldsOutsideParens(item) {
			if f, err := ParseLength(p); err == nil {
				lengths = append(lengths, f)
				continue
			}
			c, err := ParseColor(p)
			if err != nil {
				return nil, invalid(item)
			}
			col = c
		}
		if len(lengths) < 2 || len(lengths) > 3 {
			return nil, invalid(item)
		}
		sh := Shadow{OffsetX: lengths[0], OffsetY: lengths[1], Color: col}
		if len(lengths) == 3 {
			sh.BlurRadius = lengths[2]
		}
		out = append(out, sh)
	}
	return out, nil
}

// setBackground accepts a colour, a url() image with an optional fit keyword,
// or a colour followed by an image.
func setBackground(s *Style, v string) error {
	colorPart, imagePart := v, ""
	if i := strings.Index(strings.ToLower(v), "url("); i >= 0 {
		colorPart, imagePart = strings.TrimSpace(v[:i]), v[i:]
	}
	if colorPart == "" && imagePart == "" {
		return invalid(v)
	}
	var c Color
	if colorPart != "" {
		var err error
		if c, err = ParseColor(colorPart); err != nil {
			return err
		}
	}
	var img *BackgroundImage
	if imagePart != "" {
		var err error
		if img, err = parseBackgroundImage(imagePart); err != nil {
			return err
		}
	}
	if colorPart != "" {
		s.BackgroundColor.Set(c)
	}
	if img != nil {
		s.BackgroundImage.Set(img)
	}
	return nil
}

func parseBackgroundImage(value string) (*BackgroundImage, error) {
	v := strings.TrimSpace(value)
	if strings.EqualFold(v, "none") {
		return nil, nil
	}
	if !strings.HasPrefix(strings.ToLower(v), "url(") {
		return nil, invalid(value)
	}
	end := strings.IndexByte(v, ')')
	if end < 0 {
		return nil, invalid(value)
	}
	path := strings.Trim(strings.TrimSpace(v[4:end]), `'"`)
	img := &BackgroundImage{Path: path}
	switch strings.ToLower(strings.TrimSpace(v[end+1:])) {
	case "", "cover":
		img.Fit = FitCover
	case "contain":
		img.Fit = FitContain
	case "tile", "repeat":
		img.Fit = FitTile
	default:
		return nil, invalid(value)
	}
	return img, nil
}

// ParseDistribution parses a main axis distribution keyword.
func ParseDistribution(value string) (Distribution, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "start", "flex-start", "left", "top":
		return DistributeStart, nil
	case "end", "flex-end", "right", "bottom":
		return DistributeEnd, nil
	case "center":
		return DistributeCenter, nil
	case "space-between":
		return DistributeSpaceBetween, nil
	case "space-around":
		return DistributeSpaceAround, nil
	case "space-evenly":
		return DistributeSpaceEvenly, nil
	}
	return 0, invalid(value)
}

// ParseAlignment parses a cross axis alignment keyword.
func ParseAlignment(value string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "start", "flex-start", "left", "top":
		return AlignStart, nil
	case "center":
		return AlignCenter, nil
	case "end", "flex-end", "right", "bottom":
		return AlignEnd, nil
	}
	return 0, invalid(value)
}

func splitOutsideParens(s string) []string {
	var out []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if tail := strings.TrimSpace(s[start:]); tail != "" {
		out = append(out, tail)
	}
	return out
}

func fieldsOutsideParens(s string) []string {
	var out []string
	var cur strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')':
			depth--
		case (r == ' ' || r == '\t') && depth == 0:
			if cur.Len() > 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
			continue
		}
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}
