package tree

import "sync"

// FlatTreeControl keeps the expansion state of a flat tree. Nodes are
// identified by a track-by key, so equal keys share one expansion entry
// even when the flat nodes are rebuilt by a new flatten pass.
type FlatTreeControl[F any, K comparable] struct {
	level      LevelFunc[F]
	expandable ExpandableFunc[F]
	trackBy    func(F) K

	expansion *SelectionModel[K]

	mu    sync.Mutex
	nodes []F
}

// NewFlatTreeControl creates a tree control. trackBy maps a flat node to
// the key stored in the expansion model.
func NewFlatTreeControl[F any, K comparable](level LevelFunc[F], expandable ExpandableFunc[F], trackBy func(F) K) *FlatTreeControl[F, K] {
	return &FlatTreeControl[F, K]{
		level:      level,
		expandable: expandable,
		trackBy:    trackBy,
		expansion:  NewSelectionModel[K](true),
	}
}

// Expansion returns the underlying expansion model.
func (c *FlatTreeControl[F, K]) Expansion() *SelectionModel[K] {
	return c.expansion
}

// SetDataNodes sets the flat sequence used by the bulk operations.
func (c *FlatTreeControl[F, K]) SetDataNodes(nodes []F) {
	c.mu.Lock()
	c.nodes = nodes
	c.mu.Unlock()
}

// DataNodes returns the flat sequence set by SetDataNodes.
func (c *FlatTreeControl[F, K]) DataNodes() []F {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nodes
}

// Key returns the track-by key of node.
func (c *FlatTreeControl[F, K]) Key(node F) K {
	return c.trackBy(node)
}

// IsExpanded reports whether node is expanded.
func (c *FlatTreeControl[F, K]) IsExpanded(node F) bool {
	return c.expansion.IsSelected(c.trackBy(node))
}

// Expand expands node.
func (c *FlatTreeControl[F, K]) Expand(node F) {
	c.expansion.Select(c.trackBy(node))
}

// Collapse collapses node.
func (c *FlatTreeControl[F, K]) Collapse(node F) {
	c.expansion.Deselect(c.trackBy(node))
}

// Toggle flips the expansion of node.
func (c *FlatTreeControl[F, K]) Toggle(node F) {
	c.expansion.Toggle(c.trackBy(node))
}

// ExpandAll expands every expandable data node.
func (c *FlatTreeControl[F, K]) ExpandAll() {
	c.expansion.Apply(c.keys(c.DataNodes()), nil)
}

// CollapseAll collapses everything.
func (c *FlatTreeControl[F, K]) CollapseAll() {
	c.expansion.Clear()
}

// Descendants returns the nodes below node in the data nodes: every node
// after it up to the first one whose level is not greater than its own.
// It returns nil when node is not among the data nodes.
func (c *FlatTreeControl[F, K]) Descendants(node F) []F {
	nodes := c.DataNodes()
	key := c.trackBy(node)
	start := -1
	for i, n := range nodes {
		if c.trackBy(n) == key {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}

	lvl := c.level(nodes[start])
	end := start + 1
	for end < len(nodes) && c.level(nodes[end]) > lvl {
		end++
	}
	return nodes[start+1 : end]
}

// ExpandDescendants expands node and everything below it.
func (c *FlatTreeControl[F, K]) ExpandDescendants(node F) {
	c.expansion.Apply(c.keys(append([]F{node}, c.Descendants(node)...)), nil)
}

// CollapseDescendants collapses node and everything below it.
func (c *FlatTreeControl[F, K]) CollapseDescendants(node F) {
	c.expansion.Apply(nil, c.keys(append([]F{node}, c.Descendants(node)...)))
}

// ToggleDescendants expands node and its subtree if node is collapsed,
// and collapses them otherwise.
func (c *FlatTreeControl[F, K]) ToggleDescendants(node F) {
	if c.IsExpanded(node) {
		c.CollapseDescendants(node)
	} else {
		c.ExpandDescendants(node)
	}
}

// ExpandedKeys returns the keys of expanded nodes in expansion order.
func (c *FlatTreeControl[F, K]) ExpandedKeys() []K {
	return c.expansion.Selected()
}

// ExpandKeys expands nodes by key, e.g. to restore saved state.
func (c *FlatTreeControl[F, K]) ExpandKeys(keys ...K) {
	c.expansion.Apply(keys, nil)
}

// ExpandToLevel expands every expandable data node whose level is below
// depth, so nodes down to that level become visible.
func (c *FlatTreeControl[F, K]) ExpandToLevel(depth int) {
	var keys []K
	for _, n := range c.DataNodes() {
		if c.level(n) < depth && c.expandable(n) {
			keys = append(keys, c.trackBy(n))
		}
	}
	c.expansion.Apply(keys, nil)
}

// Subscribe registers fn to be called after every expansion change.
func (c *FlatTreeControl[F, K]) Subscribe(fn func()) func() {
	return c.expansion.Subscribe(fn)
}

// keys returns the keys of the expandable nodes among nodes.
func (c *FlatTreeControl[F, K]) keys(nodes []F) []K {
	keys := make([]K, 0, len(nodes))
	for _, n := range nodes {
		if c.expandable(n) {
			keys = append(keys, c.trackBy(n))
		}
	}
	return keys
}
