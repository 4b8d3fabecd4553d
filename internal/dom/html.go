package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Parse reads an HTML document
func Parse(r io.Reader) (*Node, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return newTree().wrap(root), nil
}

// ParseString is Parse for an in-memory document
func ParseString(s string) (*Node, error) {
	return Parse(strings.NewReader(s))
}

// Render writes the tree rooted at n as HTML
func Render(w io.Writer, n *Node) error {
	if err := html.Render(w, n.h); err != nil {
		return fmt.Errorf("failed to render HTML: %w", err)
	}
	return nil
}

// RenderString renders the tree rooted at n into a string
func RenderString(n *Node) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
