package experian

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Node is one element of a parsed document. Children keep document order and
// may repeat a name, which is how the bureau encodes lists. Attributes are
// not retained.
type Node struct {
	Name     string
	Text     string
	Children []*Node
}

// Parse reads an XML document into a tree rooted at its single top-level
// element. Encoding declarations are not transcoded: input is treated as UTF-8.
func Parse(data []byte) (*Node, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var (
		root  *Node
		stack []*Node
		text  []*strings.Builder
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 && root != nil {
				return nil, fmt.Errorf("unexpected second root element <%s>", t.Name.Local)
			}
			node := &Node{Name: t.Name.Local}
			if len(stack) == 0 {
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)
			text = append(text, &strings.Builder{})
		case xml.EndElement:
			node := stack[len(stack)-1]
			node.Text = text[len(text)-1].String()
			stack = stack[:len(stack)-1]
			text = text[:len(text)-1]
		case xml.CharData:
			if len(stack) == 0 {
				if len(bytes.TrimSpace(t)) > 0 {
					return nil, errors.New("character data outside the root element")
				}
				continue
			}
			text[len(text)-1].Write(t)
		}
	}

	if len(stack) > 0 {
		return nil, fmt.Errorf("unexpected end of document inside <%s>", stack[len(stack)-1].Name)
	}
	if root == nil {
		return nil, errors.New("document has no root element")
	}
	return root, nil
}

// Child returns the first child element with the given name.
func (n *Node) Child(name string) (*Node, bool) {
	if n == nil {
		return nil, false
	}
	for _, child := range n.Children {
		if child.Name == name {
			return child, true
		}
	}
	return nil, false
}

// ChildrenNamed returns every child element with the given name in document order.
func (n *Node) ChildrenNamed(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, child := range n.Children {
		if child.Name == name {
			out = append(out, child)
		}
	}
	return out
}

// Find follows path through the first matching child at each level.
func (n *Node) Find(path ...string) (*Node, bool) {
	cur := n
	for _, segment := range path {
		next, ok := cur.Child(segment)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, cur != nil
}

// Lookup returns the trimmed text of the leaf element at path. It reports
// false when any segment is missing, when the target has child elements of
// its own, or when the text is blank.
func (n *Node) Lookup(path ...string) (string, bool) {
	node, ok := n.Find(path...)
	if !ok || len(node.Children) > 0 {
		return "", false
	}
	value := strings.TrimSpace(node.Text)
	if value == "" {
		return "", false
	}
	return value, true
}

// LookupOr is Lookup with a fallback for the not-found case.
func (n *Node) LookupOr(fallback string, path ...string) string {
	if value, ok := n.Lookup(path...); ok {
		return value
	}
	return fallback
}
