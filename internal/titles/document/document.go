// Package document reads and replaces the title of an HTML page, standing in
// for the browser page a rewrite would normally run against.
package document

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type Document struct {
	root *html.Node
}

// Parse reads an HTML document. Like a browser it accepts malformed markup
// and always produces html, head and body elements.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Document{root: root}, nil
}

// Title returns the text of the first title element with ASCII whitespace
// stripped and collapsed, as document.title does. No title element yields "".
func (d *Document) Title() string {
	n := find(d.root, atom.Title)
	if n == nil {
		return ""
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return strings.Join(strings.FieldsFunc(b.String(), isASCIISpace), " ")
}

// SetTitle replaces the children of the first title element with t. Without
// a title element one is appended to head.
func (d *Document) SetTitle(t string) {
	n := find(d.root, atom.Title)
	if n == nil {
		head := find(d.root, atom.Head)
		if head == nil {
			return
		}
		n = &html.Node{Type: html.ElementNode, DataAtom: atom.Title, Data: "title"}
		head.AppendChild(n)
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	if t != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: t})
	}
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// find returns the first element with the given atom in document order.
func find(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, a); found != nil {
			return found
		}
	}
	return nil
}

func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}
