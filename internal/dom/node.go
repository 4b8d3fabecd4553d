// Package dom is a small page model over x/net/html: element queries, text,
// select controls and change listeners. It is what the chart and filter
// binders operate on, whether the page came from the backend or a test.
package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NodeType distinguishes the kinds of nodes in a document tree
type NodeType = html.NodeType

const (
	DocumentNode = html.DocumentNode
	ElementNode  = html.ElementNode
	TextNode     = html.TextNode
	CommentNode  = html.CommentNode
	DoctypeNode  = html.DoctypeNode
)

// Listener is invoked when an event is dispatched on a node
type Listener func(target *Node)

// Node is a handle on one node of an x/net/html tree.
// There is exactly one handle per node, so handles compare equal when they name the same node.
// A Node is not safe for concurrent use.
type Node struct {
	h    *html.Node
	tree *tree
}

// tree keeps the per-node state that is not part of the markup
type tree struct {
	handles     map[*html.Node]*Node
	listeners   map[*html.Node]map[string][]Listener
	noSelection map[*html.Node]bool
}

func newTree() *tree {
	return &tree{
		handles:     make(map[*html.Node]*Node),
		listeners:   make(map[*html.Node]map[string][]Listener),
		noSelection: make(map[*html.Node]bool),
	}
}

func (t *tree) wrap(h *html.Node) *Node {
	if h == nil {
		return nil
	}
	if n, ok := t.handles[h]; ok {
		return n
	}
	n := &Node{h: h, tree: t}
	t.handles[h] = n
	return n
}

// adopt moves the state of the subtree rooted at h from another tree into t
func (t *tree) adopt(from *tree, h *html.Node) {
	if from == t {
		return
	}
	var visit func(*html.Node)
	visit = func(c *html.Node) {
		if n, ok := from.handles[c]; ok {
			n.tree = t
			t.handles[c] = n
			delete(from.handles, c)
		}
		if l, ok := from.listeners[c]; ok {
			t.listeners[c] = l
			delete(from.listeners, c)
		}
		if from.noSelection[c] {
			t.noSelection[c] = true
			delete(from.noSelection, c)
		}
		for k := c.FirstChild; k != nil; k = k.NextSibling {
			visit(k)
		}
	}
	visit(h)
}

// NewDocument creates an empty document node
func NewDocument() *Node {
	return newTree().wrap(&html.Node{Type: html.DocumentNode})
}

// NewElement creates a detached element with the given attributes, given as name/value pairs
func NewElement(tag string, attrs ...string) *Node {
	tag = strings.ToLower(tag)
	n := newTree().wrap(&html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))})
	for i := 0; i+1 < len(attrs); i += 2 {
		n.SetAttr(attrs[i], attrs[i+1])
	}
	return n
}

// NewText creates a detached text node
func NewText(text string) *Node {
	return newTree().wrap(&html.Node{Type: html.TextNode, Data: text})
}

// Type returns the node type
func (n *Node) Type() NodeType {
	return n.h.Type
}

// Tag returns the lowercase tag name of an element, or "" for other nodes
func (n *Node) Tag() string {
	if n.h.Type != html.ElementNode {
		return ""
	}
	return n.h.Data
}

// Parent returns the parent node, or nil when n is detached
func (n *Node) Parent() *Node {
	return n.tree.wrap(n.h.Parent)
}

// Children returns the direct children of n in document order
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.h.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, n.tree.wrap(c))
	}
	return out
}

// Attr returns the attribute value and whether it is present
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.h.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttr reports whether the attribute is present
func (n *Node) HasAttr(name string) bool {
	_, ok := n.Attr(name)
	return ok
}

// SetAttr sets or replaces an attribute
func (n *Node) SetAttr(name, value string) {
	for i := range n.h.Attr {
		if n.h.Attr[i].Namespace == "" && n.h.Attr[i].Key == name {
			n.h.Attr[i].Val = value
			return
		}
	}
	n.h.Attr = append(n.h.Attr, html.Attribute{Key: name, Val: value})
}

// RemoveAttr deletes an attribute if present
func (n *Node) RemoveAttr(name string) {
	for i, a := range n.h.Attr {
		if a.Namespace == "" && a.Key == name {
			n.h.Attr = append(n.h.Attr[:i], n.h.Attr[i+1:]...)
			return
		}
	}
}

// ID returns the id attribute
func (n *Node) ID() string {
	id, _ := n.Attr("id")
	return id
}

// AppendChild attaches child as the last child of n, detaching it from any previous parent
func (n *Node) AppendChild(child *Node) {
	child.Remove()
	n.tree.adopt(child.tree, child.h)
	n.h.AppendChild(child.h)
}

// InsertAfter attaches child directly after the reference child of n, or last when ref is not a child of n
func (n *Node) InsertAfter(child, ref *Node) {
	child.Remove()
	n.tree.adopt(child.tree, child.h)
	if ref == nil || ref.h.Parent != n.h {
		n.h.AppendChild(child.h)
		return
	}
	n.h.InsertBefore(child.h, ref.h.NextSibling)
}

// RemoveChildren detaches all children of n
func (n *Node) RemoveChildren() {
	for c := n.h.FirstChild; c != nil; c = n.h.FirstChild {
		n.h.RemoveChild(c)
	}
}

// Remove detaches n from its parent
func (n *Node) Remove() {
	if n.h.Parent != nil {
		n.h.Parent.RemoveChild(n.h)
	}
}

// TextContent returns the concatenated text of all descendant text nodes
func (n *Node) TextContent() string {
	if n.h.Type == html.TextNode {
		return n.h.Data
	}
	var sb strings.Builder
	walk(n.h, func(d *html.Node) bool {
		if d.Type == html.TextNode {
			sb.WriteString(d.Data)
		}
		return true
	})
	return sb.String()
}

// SetTextContent replaces all children with a single text node
func (n *Node) SetTextContent(text string) {
	n.RemoveChildren()
	if text != "" {
		n.h.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

// walk visits the descendants of h depth-first in document order; returning false stops the walk
func walk(h *html.Node, visit func(*html.Node) bool) bool {
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		if !visit(c) {
			return false
		}
		if !walk(c, visit) {
			return false
		}
	}
	return true
}

// Find returns the first descendant element matching pred
func (n *Node) Find(pred func(*Node) bool) *Node {
	var found *Node
	walk(n.h, func(d *html.Node) bool {
		if d.Type != html.ElementNode {
			return true
		}
		if e := n.tree.wrap(d); pred(e) {
			found = e
			return false
		}
		return true
	})
	return found
}

// FindAll returns every descendant element matching pred, in document order
func (n *Node) FindAll(pred func(*Node) bool) []*Node {
	var out []*Node
	walk(n.h, func(d *html.Node) bool {
		if d.Type != html.ElementNode {
			return true
		}
		if e := n.tree.wrap(d); pred(e) {
			out = append(out, e)
		}
		return true
	})
	return out
}

// QueryAttr returns the first descendant element carrying the attribute
func (n *Node) QueryAttr(name string) *Node {
	return n.Find(func(d *Node) bool { return d.HasAttr(name) })
}

// QueryAllAttr returns every descendant element carrying the attribute
func (n *Node) QueryAllAttr(name string) []*Node {
	return n.FindAll(func(d *Node) bool { return d.HasAttr(name) })
}

// GetElementByID returns the first descendant element with the id, or nil
func (n *Node) GetElementByID(id string) *Node {
	if id == "" {
		return nil
	}
	return n.Find(func(d *Node) bool { return d.ID() == id })
}

// AddEventListener registers fn for the named event
func (n *Node) AddEventListener(event string, fn Listener) {
	byEvent := n.tree.listeners[n.h]
	if byEvent == nil {
		byEvent = make(map[string][]Listener)
		n.tree.listeners[n.h] = byEvent
	}
	byEvent[event] = append(byEvent[event], fn)
}

// Dispatch runs the listeners registered for event, in registration order
func (n *Node) Dispatch(event string) {
	for _, fn := range n.tree.listeners[n.h][event] {
		fn(n)
	}
}
