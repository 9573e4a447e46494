package tree

// Branch describes where a node sits among its siblings, for drawing guide
// lines next to a flat sequence.
type Branch struct {
	// Last is true when no later sibling follows the node.
	Last bool
	// Open[i] is true when the node's ancestor at level i has a later
	// sibling, i.e. a vertical guide continues through this row at that
	// level. len(Open) equals the node's level.
	Open []bool
}

// Branches computes a Branch for every node of a flat or visible sequence
// using levels alone. A later node at level L is a sibling of an earlier
// node at level L if no node with a smaller level sits between them.
func Branches[F any](nodes []F, level LevelFunc[F]) []Branch {
	out := make([]Branch, len(nodes))
	// more[l] is true when a node at level l was seen further down without
	// an intervening shallower node.
	var more []bool

	for i := len(nodes) - 1; i >= 0; i-- {
		lvl := max(level(nodes[i]), 0)
		for len(more) <= lvl {
			more = append(more, false)
		}

		open := make([]bool, lvl)
		copy(open, more[:lvl])
		out[i] = Branch{Last: !more[lvl], Open: open}

		more[lvl] = true
		for l := lvl + 1; l < len(more); l++ {
			more[l] = false
		}
	}
	return out
}
