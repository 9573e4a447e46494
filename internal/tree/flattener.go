package tree

import (
	"context"

	"github.com/cockroachdb/errors"
)

// TransformFunc converts a source node and its depth into a flat node.
type TransformFunc[T, F any] func(node T, level int) F

// LevelFunc returns the depth of a flat node.
type LevelFunc[F any] func(node F) int

// ExpandableFunc reports whether a flat node can have children.
type ExpandableFunc[F any] func(node F) bool

// ChildrenFunc starts a one-shot fetch of a node's children.
//
// Only the first value received from the channel is used. A nil channel or a
// channel closed without a value means the fetch never emits. Producers
// should buffer the channel so that a discarded result never blocks them.
type ChildrenFunc[T any] func(node T) (<-chan []T, error)

// Flattener converts a forest of source nodes T into a flat pre-order
// sequence of F annotated with levels.
type Flattener[T, F any] struct {
	transform  TransformFunc[T, F]
	level      LevelFunc[F]
	expandable ExpandableFunc[F]
	children   ChildrenFunc[T]
}

// NewFlattener creates a Flattener from the four node capabilities.
func NewFlattener[T, F any](
	transform TransformFunc[T, F],
	level LevelFunc[F],
	expandable ExpandableFunc[F],
	children ChildrenFunc[T],
) *Flattener[T, F] {
	return &Flattener[T, F]{
		transform:  transform,
		level:      level,
		expandable: expandable,
		children:   children,
	}
}

// Level returns the level of a flat node.
func (f *Flattener[T, F]) Level(node F) int {
	return f.level(node)
}

// IsExpandable reports whether a flat node can have children.
func (f *Flattener[T, F]) IsExpandable(node F) bool {
	return f.expandable(node)
}

// Flatten flattens roots without waiting on any fetch. A node's children are
// included only if its fetch has already delivered a value when the pass
// reaches it; otherwise the node contributes itself alone.
func (f *Flattener[T, F]) Flatten(roots []T) ([]F, error) {
	return f.flatten(context.Background(), roots, false)
}

// FlattenContext flattens roots, waiting for each pending fetch until it
// emits, is closed, or ctx is done. Fetches that are still pending when ctx
// is done contribute no descendants; their late results are discarded.
// Context expiry is not reported as an error.
func (f *Flattener[T, F]) FlattenContext(ctx context.Context, roots []T) ([]F, error) {
	return f.flatten(ctx, roots, true)
}

func (f *Flattener[T, F]) flatten(ctx context.Context, roots []T, wait bool) (out []F, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, capabilityPanic(r)
		}
	}()

	w := walk[T, F]{f: f, ctx: ctx, wait: wait}
	if err := w.siblings(roots, 0); err != nil {
		return nil, err
	}
	if w.out == nil {
		w.out = []F{}
	}
	return w.out, nil
}

// walk holds the state of a single flatten pass.
type walk[T, F any] struct {
	f    *Flattener[T, F]
	ctx  context.Context
	wait bool
	out  []F
}

// pending is a transformed node whose children fetch may be in flight.
type pending[T, F any] struct {
	flat  F
	fetch <-chan []T
}

// siblings emits a list of siblings at level and their subtrees. Every
// sibling is transformed and its fetch started before the first subtree is
// descended, so fetches run concurrently while output stays in order.
func (w *walk[T, F]) siblings(nodes []T, level int) error {
	batch := make([]pending[T, F], len(nodes))
	for i, node := range nodes {
		flat := w.f.transform(node, level)
		batch[i].flat = flat
		if !w.f.expandable(flat) {
			continue
		}
		ch, err := w.f.children(node)
		if err != nil {
			return errors.Mark(errors.Wrapf(err, "fetch children at level %d", level), ErrCapability)
		}
		batch[i].fetch = ch
	}

	for _, p := range batch {
		w.out = append(w.out, p.flat)
		if p.fetch == nil {
			continue
		}
		children, ok := w.receive(p.fetch)
		if !ok {
			continue
		}
		if err := w.siblings(children, level+1); err != nil {
			return err
		}
	}
	return nil
}

// receive takes the first value of a fetch. A value that is already
// available always wins over an expired context.
func (w *walk[T, F]) receive(ch <-chan []T) ([]T, bool) {
	select {
	case v, ok := <-ch:
		return v, ok
	default:
	}
	if !w.wait {
		return nil, false
	}
	select {
	case v, ok := <-ch:
		return v, ok
	case <-w.ctx.Done():
		return nil, false
	}
}

// ExpandFlattenedNodes returns the subsequence of nodes that is visible
// under state. See [Expand].
func (f *Flattener[T, F]) ExpandFlattenedNodes(nodes []F, state ExpansionState[F]) []F {
	return Expand(nodes, f.level, f.expandable, state)
}
