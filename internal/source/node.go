// Package source provides the hierarchical data ftree browses: directory
// trees on disk and structured documents. Each source hands out child lists
// through one-shot channels, the shape the tree engine fetches children in.
package source

import (
	"context"
	"time"
)

// Kind classifies a node.
type Kind int

const (
	Dir Kind = iota
	File
	Symlink
	Object
	Array
	Value
)

func (k Kind) String() string {
	switch k {
	case Dir:
		return "dir"
	case File:
		return "file"
	case Symlink:
		return "symlink"
	case Object:
		return "object"
	case Array:
		return "array"
	case Value:
		return "value"
	}
	return "unknown"
}

// Node is one element of a source's hierarchy.
type Node struct {
	Name string
	// Path identifies the node across reloads. For files it is the
	// absolute path, for document entries the file path followed by a
	// JSON pointer, e.g. "/etc/app.yaml#/server/port".
	Path    string
	Kind    Kind
	Size    int64
	ModTime time.Time
	// Value holds the scalar text of a document value or a symlink target.
	Value      string
	Depth      int
	Unreadable bool

	owner    Source
	children []*Node
}

// Expandable reports whether the node can have children.
func (n *Node) Expandable() bool {
	if n.Unreadable {
		return false
	}
	switch n.Kind {
	case Dir, Object, Array:
		return true
	}
	return false
}

// Source supplies root nodes and lazily fetched children.
type Source interface {
	Roots(ctx context.Context) ([]*Node, error)
	// Children starts fetching the children of n. The returned channel
	// delivers at most one list; it is closed without a value when the
	// children are unavailable.
	Children(n *Node) (<-chan []*Node, error)
}

// Forest joins several sources into one. Children are fetched from the
// source that produced the node.
type Forest []Source

// Roots returns the roots of every source in order.
func (f Forest) Roots(ctx context.Context) ([]*Node, error) {
	var roots []*Node
	for _, src := range f {
		r, err := src.Roots(ctx)
		if err != nil {
			return nil, err
		}
		roots = append(roots, r...)
	}
	return roots, nil
}

// Children dispatches to the node's source.
func (f Forest) Children(n *Node) (<-chan []*Node, error) {
	if n.owner == nil {
		return nil, nil
	}
	return n.owner.Children(n)
}

func resolved(children []*Node) <-chan []*Node {
	ch := make(chan []*Node, 1)
	ch <- children
	return ch
}

func never() <-chan []*Node {
	ch := make(chan []*Node)
	close(ch)
	return ch
}
