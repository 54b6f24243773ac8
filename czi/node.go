package czi

import "strings"

// Attr is a single attribute on a metadata element.
type Attr struct {
	Name  string
	Value string
}

// Node is one element of the parsed metadata tree: tag name, ordered
// attributes, ordered child elements, and trimmed character data.
type Node struct {
	Tag      string
	Attrs    []Attr
	Children []*Node
	Text     string
}

// Attr returns the value of the named attribute, or "" when absent.
func (n *Node) Attr(name string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

// Child returns the first direct child with the given tag, or nil.
func (n *Node) Child(tag string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns all direct children with the given tag, in order.
func (n *Node) ChildrenNamed(tag string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// ChildText returns the text of the first child with the given tag.
// The second return reports whether such a child exists at all, which
// callers use to distinguish an absent element from an empty one.
func (n *Node) ChildText(tag string) (string, bool) {
	c := n.Child(tag)
	if c == nil {
		return "", false
	}
	return c.Text, true
}

// Descend walks the given tag path from n and returns the final node,
// taking the first matching child at every step. Returns nil as soon as
// any step is missing.
func (n *Node) Descend(tags ...string) *Node {
	cur := n
	for _, tag := range tags {
		cur = cur.Child(tag)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// FindAll returns every descendant of n (excluding n itself) with the
// given tag, in document order.
func (n *Node) FindAll(tag string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	var walk func(*Node)
	walk = func(cur *Node) {
		for _, c := range cur.Children {
			if c.Tag == tag {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// findPathAll returns every descendant chain matching the tag path, in
// document order. Used for the handful of joins that address elements by
// a fixed ancestry (e.g. Image/Dimensions/Channels) rather than by a
// single tag.
func (n *Node) findPathAll(tags ...string) []*Node {
	if n == nil || len(tags) == 0 {
		return nil
	}
	var out []*Node
	var walk func(*Node)
	walk = func(cur *Node) {
		for _, c := range cur.Children {
			if c.Tag == tags[0] {
				if len(tags) == 1 {
					out = append(out, c)
				} else if end := c.Descend(tags[1:]...); end != nil {
					out = append(out, end)
				}
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// trimText collapses the whitespace-only character data the decoder
// reports between child elements.
func trimText(s string) string {
	return strings.TrimSpace(s)
}
