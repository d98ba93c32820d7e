// Package markup turns a markup document into a layout tree. The elements
// <row>, <column> and <text> map to the node kinds of the same name, styles
// come from <style> blocks, linked stylesheets and style attributes.
package markup

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gompdf/styledbox/internal/layout"
	"github.com/gompdf/styledbox/internal/parser/css"
	"github.com/gompdf/styledbox/internal/parser/html"
	"github.com/gompdf/styledbox/internal/res"
	"github.com/gompdf/styledbox/internal/style"
	xhtml "golang.org/x/net/html"
)

var ErrNoRoot = errors.New("document has no <row>, <column> or <text> element")

// Builder converts parsed documents into layout trees.
type Builder struct {
	loader *res.Loader
	// Stylesheet is applied before the document's own stylesheets.
	Stylesheet string
	Debug      bool
}

// NewBuilder returns a builder that loads linked stylesheets through loader.
// A nil loader disables <link> stylesheets.
func NewBuilder(loader *res.Loader) *Builder {
	return &Builder{loader: loader}
}

// BuildString parses src and builds its tree.
func (b *Builder) BuildString(src string) (*layout.Node, error) {
	doc, err := html.NewParser().ParseString(src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse markup: %w", err)
	}
	return b.Build(doc)
}

// Build converts doc into a layout tree rooted at its first <row>, <column>
// or <text> element.
func (b *Builder) Build(doc *html.Document) (*layout.Node, error) {
	engine := style.NewStyleEngine()
	parser := css.NewParser()
	sheets := b.collectStylesheets(doc.Root)
	if strings.TrimSpace(b.Stylesheet) != "" {
		sheets = append([]string{b.Stylesheet}, sheets...)
	}
	for _, src := range sheets {
		sheet, err := parser.ParseString(src)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stylesheet: %w", err)
		}
		engine.AddStylesheet(sheet)
	}
	declared, err := engine.ComputeDeclarations(doc)
	if err != nil {
		return nil, err
	}

	rootEl := findRoot(doc.Root)
	if rootEl == nil {
		return nil, ErrNoRoot
	}

	type item struct {
		el     *html.Node
		parent *layout.Node
	}
	var root *layout.Node
	stack := []item{{el: rootEl}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n, err := b.nodeFor(it.el, declared[it.el])
		if err != nil {
			return nil, err
		}
		if it.parent == nil {
			root = n
		} else if err := it.parent.AttachChildren(n); err != nil {
			return nil, err
		}
		if !n.IsContainer() {
			continue
		}
		children := childItems(it.el)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, item{el: children[i], parent: n})
		}
	}
	return root, nil
}

// childItems returns the element children of el and its non-blank text
// children in document order.
func childItems(el *html.Node) []*html.Node {
	var out []*html.Node
	for c := el.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xhtml.ElementNode:
			if !skipped(c.Data) {
				out = append(out, c)
			}
		case xhtml.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				out = append(out, c)
			}
		}
	}
	return out
}

// nodeFor creates the layout node for el. Bare text inside a container
// becomes an unstyled text leaf that inherits from the container.
func (b *Builder) nodeFor(el *html.Node, d style.Declared) (*layout.Node, error) {
	if el.Type == xhtml.TextNode {
		return layout.NewText(nil, cleanText(el.Data)), nil
	}
	st, err := b.styleFor(el, d)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(el.Data) {
	case "row":
		return layout.NewRow(st)
	case "column":
		return layout.NewColumn(st)
	default:
		return layout.NewText(st, textOf(el)), nil
	}
}

func (b *Builder) styleFor(el *html.Node, d style.Declared) (*style.Style, error) {
	st := style.New()
	unknown, err := d.ApplyTo(st)
	if err != nil {
		return nil, fmt.Errorf("<%s>: %w", el.Data, err)
	}
	if b.Debug {
		for _, name := range unknown {
			log.Printf("markup: ignoring unsupported property %q on <%s>", name, el.Data)
		}
	}
	return st, nil
}

func skipped(tag string) bool {
	switch strings.ToLower(tag) {
	case "style", "link", "script", "head", "title", "meta":
		return true
	}
	return false
}

func findRoot(n *html.Node) *html.Node {
	stack := []*html.Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.IsElement("row") || cur.IsElement("column") || cur.IsElement("text") {
			return cur
		}
		for c := cur.LastChild; c != nil; c = c.PrevSibling {
			stack = append(stack, c)
		}
	}
	return nil
}

func textOf(el *html.Node) string {
	return cleanText(el.TextContent())
}

// cleanText trims every line and drops blank lines at either end, so
// indented markup does not leak indentation into the text.
func cleanText(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// collectStylesheets returns the document's <style> blocks and linked
// stylesheets in document order.
func (b *Builder) collectStylesheets(root *html.Node) []string {
	var sheets []string
	stack := []*html.Node{root}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch {
		case cur.IsElement("link"):
			href := cur.AttrValue("href")
			rel := strings.ToLower(cur.AttrValue("rel"))
			if href == "" || !strings.Contains(rel, "stylesheet") || b.loader == nil {
				break
			}
			r, err := b.loader.LoadCSS(href)
			if err != nil {
				if b.Debug {
					log.Printf("markup: failed to load stylesheet %s: %v", href, err)
				}
				break
			}
			sheets = append(sheets, string(r.Data))
		case cur.IsElement("style"):
			if src := strings.TrimSpace(cur.TextContent()); src != "" {
				sheets = append(sheets, src)
			}
		}

		for c := cur.LastChild; c != nil; c = c.PrevSibling {
			stack = append(stack, c)
		}
	}
	return sheets
}
