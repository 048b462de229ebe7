// Package doctree is the node API the catalog extractor walks. It wraps the
// parsed golang.org/x/net/html tree with the handful of queries extraction
// needs: kind checks, text, attributes, children and sibling navigation.
// Nothing here mutates a node.
package doctree

import (
	"iter"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Match reports whether a node is of interest.
type Match func(*html.Node) bool

// Is reports whether n is an element of the given kind.
func Is(n *html.Node, kind atom.Atom) bool {
	return n != nil && n.Type == html.ElementNode && n.DataAtom == kind
}

// Kind returns a Match for elements of any of the given kinds.
func Kind(kinds ...atom.Atom) Match {
	return func(n *html.Node) bool {
		for _, k := range kinds {
			if Is(n, k) {
				return true
			}
		}
		return false
	}
}

// Text returns the concatenated text of n and all of its descendants.
func Text(n *html.Node) string {
	return OwnText(n, nil)
}

// OwnText returns the text of n, leaving out any descendant subtree for
// which skip returns true. A nil skip includes everything.
func OwnText(n *html.Node, skip Match) string {
	if n == nil {
		return ""
	}
	var buf strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if skip != nil && skip(c) {
				continue
			}
			collect(c)
		}
	}
	collect(n)
	return buf.String()
}

// Attr returns the value of the named attribute.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasClass reports whether the class attribute of n contains class.
func HasClass(n *html.Node, class string) bool {
	v, ok := Attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// Children yields the direct element children of n in document order.
func Children(n *html.Node) iter.Seq[*html.Node] {
	return func(yield func(*html.Node) bool) {
		if n == nil {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if !yield(c) {
				return
			}
		}
	}
}

// ChildrenOf returns the direct element children of n matching m.
func ChildrenOf(n *html.Node, m Match) []*html.Node {
	var out []*html.Node
	for c := range Children(n) {
		if m(c) {
			out = append(out, c)
		}
	}
	return out
}

// FollowingSiblings yields the element siblings after n in document order.
func FollowingSiblings(n *html.Node) iter.Seq[*html.Node] {
	return func(yield func(*html.Node) bool) {
		if n == nil {
			return
		}
		for s := n.NextSibling; s != nil; s = s.NextSibling {
			if s.Type != html.ElementNode {
				continue
			}
			if !yield(s) {
				return
			}
		}
	}
}

// NearestPrecedingSibling returns the closest element sibling before n that
// satisfies m, or nil.
func NearestPrecedingSibling(n *html.Node, m Match) *html.Node {
	if n == nil {
		return nil
	}
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode && m(s) {
			return s
		}
	}
	return nil
}

// FirstContentChild returns the first child of n that is an element or a
// text node with non-whitespace content.
func FirstContentChild(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			return c
		case html.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				return c
			}
		}
	}
	return nil
}

// Find returns the first node in a depth-first walk of n that satisfies m.
func Find(n *html.Node, m Match) *html.Node {
	if n == nil {
		return nil
	}
	if m(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if f := Find(c, m); f != nil {
			return f
		}
	}
	return nil
}
