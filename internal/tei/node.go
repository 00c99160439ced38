// Package tei extracts bibliography records from GROBID TEI-XML.
package tei

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// Node is an element of a parsed XML document. Names are local names, so
// the TEI namespace does not need to be spelled out when navigating.
//
// Methods are safe to call on a nil *Node, which makes chained navigation
// collapse to nil at the first missing step.
type Node struct {
	Name  string
	items []item
}

// item is either character data or a child element, kept in document order.
type item struct {
	text  string
	child *Node
}

// Parse reads a whole XML document and returns its root element.
func Parse(r io.Reader) (*Node, error) {
	d := xml.NewDecoder(r)
	d.Entity = xml.HTMLEntity
	d.CharsetReader = charset.NewReaderLabel

	var root *Node
	var stack []*Node

	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: t.Name.Local}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("parsing XML: multiple root elements")
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.items = append(parent.items, item{child: n})
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				top.items = append(top.items, item{text: string(t)})
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("parsing XML: no root element")
	}
	return root, nil
}

// First returns the first child element with the given local name.
func (n *Node) First(name string) *Node {
	if n == nil {
		return nil
	}
	for _, it := range n.items {
		if it.child != nil && it.child.Name == name {
			return it.child
		}
	}
	return nil
}

// Path follows first-child elements by name, returning nil as soon as one
// step is absent.
func (n *Node) Path(names ...string) *Node {
	cur := n
	for _, name := range names {
		cur = cur.First(name)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Elements returns the child elements in document order.
func (n *Node) Elements() []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, it := range n.items {
		if it.child != nil {
			out = append(out, it.child)
		}
	}
	return out
}

// Children returns the child elements with the given name in document order.
func (n *Node) Children(name string) []*Node {
	var out []*Node
	for _, c := range n.Elements() {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Text returns all character data below n with whitespace runs collapsed to
// single spaces and the ends trimmed.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	n.writeText(&b)
	return strings.Join(strings.Fields(b.String()), " ")
}

func (n *Node) writeText(b *strings.Builder) {
	for _, it := range n.items {
		if it.child != nil {
			// Adjacent elements are separate words: <forename>A</forename><surname>B</surname>
			b.WriteByte(' ')
			it.child.writeText(b)
			b.WriteByte(' ')
			continue
		}
		b.WriteString(it.text)
	}
}
