package tree

// ExpansionState answers whether a flat node is currently expanded. The
// engine only reads it.
type ExpansionState[F any] interface {
	IsExpanded(node F) bool
}

// ExpansionFunc adapts a plain function to ExpansionState.
type ExpansionFunc[F any] func(node F) bool

// IsExpanded calls fn(node).
func (fn ExpansionFunc[F]) IsExpanded(node F) bool {
	return fn(node)
}

// Expand filters a flat sequence down to the nodes whose ancestors are all
// expanded.
//
// It keeps one flag per level meaning "every ancestor down to this level is
// expanded". Level 0 is always set, so roots are always visible. After a
// node is visited, an expandable node writes its own expansion into the flag
// one level below it; that flag then gates following nodes at deeper levels
// until another expandable node at the same level overwrites it. Levels that
// never received a flag count as collapsed. Nodes with a negative level are
// emitted but never gate anything.
func Expand[F any](nodes []F, level LevelFunc[F], expandable ExpandableFunc[F], state ExpansionState[F]) []F {
	visible := make([]F, 0, len(nodes))
	chain := []bool{true}

	for _, node := range nodes {
		lvl := level(node)
		show := true
		for i := 0; i <= lvl; i++ {
			if i >= len(chain) || !chain[i] {
				show = false
				break
			}
		}
		if show {
			visible = append(visible, node)
		}
		if lvl >= 0 && expandable(node) {
			next := lvl + 1
			for len(chain) <= next {
				chain = append(chain, false)
			}
			chain[next] = state.IsExpanded(node)
		}
	}
	return visible
}
