package html

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Parser represents a markup parser
type Parser struct {
	// Configuration options could be added here
}

// Node represents a markup node in the document tree
type Node struct {
	Type        html.NodeType
	Data        string
	Attr        []html.Attribute
	Parent      *Node
	FirstChild  *Node
	LastChild   *Node
	PrevSibling *Node
	NextSibling *Node
}

// Document represents a parsed markup document
type Document struct {
	Root *Node
}

// NewParser creates a new markup parser
func NewParser() *Parser {
	return &Parser{}
}

// ParseString parses markup from a string
func (p *Parser) ParseString(content string) (*Document, error) {
	return p.Parse(strings.NewReader(content))
}

// Parse parses markup from an io.Reader
func (p *Parser) Parse(r io.Reader) (*Document, error) {
	node, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	root := convertNode(node, nil)
	return &Document{Root: root}, nil
}

// convertNode converts an html.Node to our Node structure
func convertNode(n *html.Node, parent *Node) *Node {
	if n == nil {
		return nil
	}

	node := &Node{
		Type:   n.Type,
		Data:   n.Data,
		Attr:   n.Attr,
		Parent: parent,
	}

	var lastChild *Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		child := convertNode(c, node)
		if node.FirstChild == nil {
			node.FirstChild = child
		}
		if lastChild != nil {
			lastChild.NextSibling = child
			child.PrevSibling = lastChild
		}
		lastChild = child
	}
	node.LastChild = lastChild

	return node
}

// AttrValue returns the value of the named attribute, or "".
func (n *Node) AttrValue(key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// IsElement reports whether n is an element with the given tag name.
func (n *Node) IsElement(tag string) bool {
	return n != nil && n.Type == html.ElementNode && strings.EqualFold(n.Data, tag)
}

// Find returns the first element with the given tag in document order.
func (n *Node) Find(tag string) *Node {
	if n.IsElement(tag) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := c.Find(tag); found != nil {
			return found
		}
	}
	return nil
}

// TextContent concatenates all descendant text nodes.
func (n *Node) TextContent() string {
	var b strings.Builder
	var walk func(*Node)
	walk = func(x *Node) {
		if x.Type == html.TextNode {
			b.WriteString(x.Data)
		}
		for c := x.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
