// Package tree projects hierarchical data onto a flat, level-annotated
// sequence and filters that sequence down to what is visible under the
// current expansion state.
//
// # Pipeline
//
//	roots []T --Flattener--> flat []F --ExpandFlattenedNodes--> visible []F
//
// A [Flattener] walks a forest depth-first in pre-order, transforming each
// node into its flat representation F together with its depth. Children are
// fetched through a one-shot channel per node: only the first value sent is
// used, and a fetch that never emits leaves the node without descendants.
//
// [Flattener.ExpandFlattenedNodes] is a single linear pass that keeps one
// "ancestors expanded" flag per level and drops every node below a collapsed
// ancestor. Roots are always visible.
//
// [FlatDataSource] ties both together: it owns the current forest, caches
// the flat sequence on [FlatDataSource.SetData], and republishes the visible
// sequence to connected subscribers whenever the view, the expansion state
// or the cached flat sequence changes.
//
// # Expansion State
//
// [FlatTreeControl] is the usual expansion state. It keys flat nodes with a
// track-by function, keeps expanded keys in a [SelectionModel], and notifies
// subscribers after every change so a connected data source recomputes.
//
// # Errors
//
// Failures only originate in caller-supplied capabilities. A children fetch
// that returns an error, or a capability that panics, aborts the pass with
// an error marked [ErrCapability]; partial output is never returned.
package tree
