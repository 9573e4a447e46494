package tree

// Role describes how a node takes part in keyboard navigation. The
// capabilities are independent fields rather than layered behaviour.
type Role struct {
	Name     string // accessibility role, "treeitem" by default
	Disabled bool
	TabIndex int // negative removes the node from the focus order
}

// DefaultRole is the role of an enabled, focusable tree item.
var DefaultRole = Role{Name: "treeitem"}

// Focusable reports whether the node can receive the cursor.
func (r Role) Focusable() bool {
	return !r.Disabled && r.TabIndex >= 0
}
