package style

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gompdf/styledbox/internal/parser/css"
	"github.com/gompdf/styledbox/internal/parser/html"
	xhtml "golang.org/x/net/html"
)

// Specificity represents the specificity of a CSS selector
type Specificity struct {
	ID      int
	Class   int
	Element int
}

// Source represents the origin of a declaration
type Source int

const (
	SourceAuthor Source = iota
	SourceInline
)

// DeclaredValue is the winning declaration for one property of one element.
type DeclaredValue struct {
	Name        string
	Value       string
	Important   bool
	Source      Source
	Specificity Specificity
	order       int
}

// Declared maps property names to the declaration that won the cascade.
type Declared map[string]DeclaredValue

// Names returns the declared property names from lowest to highest cascade
// rank. A shorthand and its longhands overlap, so applying them in this order
// lets the stronger declaration win whichever form it uses.
func (d Declared) Names() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return d[names[i]].precedes(d[names[j]]) })
	return names
}

// precedes reports whether v ranks below o in the cascade.
func (v DeclaredValue) precedes(o DeclaredValue) bool {
	if v.Important != o.Important {
		return !v.Important
	}
	if v.Source != o.Source {
		return v.Source < o.Source
	}
	if c := compareSpecificity(v.Specificity, o.Specificity); c != 0 {
		return c < 0
	}
	return v.order < o.order
}

// ApplyTo sets every declared value on st as an explicit property. Unknown
// properties are returned so callers can report them.
func (d Declared) ApplyTo(st *Style) (unknown []string, err error) {
	for _, name := range d.Names() {
		known, err := st.Apply(name, d[name].Value)
		if err != nil {
			return unknown, err
		}
		if !known {
			unknown = append(unknown, name)
		}
	}
	return unknown, nil
}

// StyleEngine handles the CSS cascade for markup elements
type StyleEngine struct {
	authorStyles []*css.Stylesheet
	seq          int
}

// NewStyleEngine creates a new style engine
func NewStyleEngine() *StyleEngine {
	return &StyleEngine{}
}

// AddStylesheet adds an author stylesheet to the style engine
func (e *StyleEngine) AddStylesheet(stylesheet *css.Stylesheet) {
	e.authorStyles = append(e.authorStyles, stylesheet)
}

// ComputeDeclarations runs the cascade for all elements in the document
func (e *StyleEngine) ComputeDeclarations(doc *html.Document) (map[*html.Node]Declared, error) {
	result := make(map[*html.Node]Declared)
	stack := []*html.Node{doc.Root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == nil {
			continue
		}
		if node.Type == xhtml.ElementNode {
			d, err := e.computeForElement(node)
			if err != nil {
				return nil, err
			}
			result[node] = d
		}
		for child := node.LastChild; child != nil; child = child.PrevSibling {
			stack = append(stack, child)
		}
	}
	return result, nil
}

// computeForElement computes the declarations for a single element
func (e *StyleEngine) computeForElement(node *html.Node) (Declared, error) {
	declared := make(Declared)

	for _, stylesheet := range e.authorStyles {
		e.applyStylesheet(declared, node, stylesheet)
	}

	if err := e.applyInlineStyles(declared, node); err != nil {
		return nil, err
	}

	return declared, nil
}

// applyStylesheet applies rules from a stylesheet to an element
func (e *StyleEngine) applyStylesheet(declared Declared, node *html.Node, stylesheet *css.Stylesheet) {
	for _, rule := range stylesheet.Rules {
		for _, selector := range rule.Selectors {
			if e.selectorMatches(node, selector) {
				specificity := calculateSpecificity(selector)
				e.applyDeclarations(declared, rule.Declarations, specificity, SourceAuthor)
			}
		}
	}
}

// applyInlineStyles applies the style attribute of an element
func (e *StyleEngine) applyInlineStyles(declared Declared, node *html.Node) error {
	for _, attr := range node.Attr {
		if attr.Key != "style" {
			continue
		}
		decls, err := css.NewParser().ParseDeclarations(attr.Val)
		if err != nil {
			return fmt.Errorf("inline style on <%s>: %w", node.Data, err)
		}
		e.applyDeclarations(declared, decls, Specificity{1, 0, 0}, SourceInline)
	}
	return nil
}

// applyDeclarations applies CSS declarations, keeping the winner per property.
func (e *StyleEngine) applyDeclarations(declared Declared, declarations []*css.Declaration, specificity Specificity, source Source) {
	for _, decl := range declarations {
		property := strings.ToLower(decl.Property)
		existing, exists := declared[property]

		// A new declaration wins when:
		// 1. the property has no declaration yet, or
		// 2. it is !important and the existing one is not, or
		// 3. importance is equal and it comes from a higher priority source, or
		// 4. importance and source are equal and its specificity is not lower
		//    (later rules win ties).
		if exists {
			switch {
			case decl.Important != existing.Important:
				if !decl.Important {
					continue
				}
			case source != existing.Source:
				if source < existing.Source {
					continue
				}
			case compareSpecificity(specificity, existing.Specificity) < 0:
				continue
			}
		}

		e.seq++
		declared[property] = DeclaredValue{
			Name:        property,
			Value:       decl.Value,
			Important:   decl.Important,
			Source:      source,
			Specificity: specificity,
			order:       e.seq,
		}
	}
}

// selectorMatches checks if an element matches a descendant selector chain
func (e *StyleEngine) selectorMatches(node *html.Node, selector string) bool {
	parts := strings.Fields(selector)
	if len(parts) == 0 || node == nil {
		return false
	}
	if !matchCompoundSelector(node, parts[len(parts)-1]) {
		return false
	}

	current := node.Parent
	for i := len(parts) - 2; i >= 0; i-- {
		found := false
		for anc := current; anc != nil; anc = anc.Parent {
			if anc.Type == xhtml.ElementNode && matchCompoundSelector(anc, parts[i]) {
				found = true
				current = anc.Parent
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// matchCompoundSelector matches a single compound selector against a node.
// Compound selectors can be forms like:
//   - tag
//   - .class
//   - #id
//   - tag#id.class1.class2
//
// It does not support attributes, pseudo-classes, or combinators.
func matchCompoundSelector(node *html.Node, sel string) bool {
	if node == nil || node.Type != xhtml.ElementNode || sel == "" {
		return false
	}

	var wantTag string
	var wantID string
	var wantClasses []string

	i := 0
	if sel[i] != '.' && sel[i] != '#' {
		j := i
		for j < len(sel) && sel[j] != '#' && sel[j] != '.' {
			j++
		}
		wantTag = sel[i:j]
		i = j
	}
	for i < len(sel) {
		j := i + 1
		for j < len(sel) && sel[j] != '.' && sel[j] != '#' {
			j++
		}
		switch sel[i] {
		case '#':
			wantID = sel[i+1 : j]
		case '.':
			wantClasses = append(wantClasses, sel[i+1:j])
		default:
			return false
		}
		i = j
	}

	if wantTag != "" && wantTag != "*" && !strings.EqualFold(wantTag, node.Data) {
		return false
	}

	if wantID != "" && node.AttrValue("id") != wantID {
		return false
	}

	if len(wantClasses) > 0 {
		have := strings.Fields(node.AttrValue("class"))
		set := make(map[string]struct{}, len(have))
		for _, c := range have {
			set[c] = struct{}{}
		}
		for _, need := range wantClasses {
			if _, ok := set[need]; !ok {
				return false
			}
		}
	}

	return true
}

// calculateSpecificity calculates the specificity of a CSS selector
func calculateSpecificity(selector string) Specificity {
	var sp Specificity
	for _, part := range strings.Fields(selector) {
		sp.ID += strings.Count(part, "#")
		sp.Class += strings.Count(part, ".")
		if part != "" && part[0] != '.' && part[0] != '#' && part[0] != '*' {
			sp.Element++
		}
	}
	return sp
}

// compareSpecificity compares two specificities
func compareSpecificity(a, b Specificity) int {
	if a.ID != b.ID {
		return a.ID - b.ID
	}
	if a.Class != b.Class {
		return a.Class - b.Class
	}
	return a.Element - b.Element
}
