package source

import "github.com/raphi011/ftree/internal/tree"

// Row is a flattened node as the tree engine produces it.
type Row struct {
	Node       *Node
	Level      int
	Expandable bool
	Role       tree.Role
}

// Transform builds the row for n at level. Unreadable nodes are shown but
// cannot be focused.
func Transform(n *Node, level int) Row {
	role := tree.DefaultRole
	if n.Unreadable {
		role.Disabled = true
		role.TabIndex = -1
	}
	return Row{Node: n, Level: level, Expandable: n.Expandable(), Role: role}
}

// Level returns the row's depth.
func Level(r Row) int { return r.Level }

// Expandable reports whether the row can be expanded.
func Expandable(r Row) bool { return r.Expandable }

// Key returns the row's stable identity, its node path.
func Key(r Row) string { return r.Node.Path }

// NewFlattener returns a flattener over src.
func NewFlattener(src Source) *tree.Flattener[*Node, Row] {
	return tree.NewFlattener(Transform, Level, Expandable, src.Children)
}

// NewControl returns an expansion control keyed by node path.
func NewControl() *tree.FlatTreeControl[Row, string] {
	return tree.NewFlatTreeControl(Level, Expandable, Key)
}
