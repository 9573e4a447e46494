package tree

import (
	"context"
	"sync"
	"sync/atomic"
)

// DataNodesSetter is implemented by expansion states that want to know the
// current flat sequence, e.g. to expand all nodes or find descendants.
type DataNodesSetter[F any] interface {
	SetDataNodes(nodes []F)
}

// FlatDataSource owns a forest, caches its flattened projection and
// republishes the visible projection to connected subscribers.
//
// It starts without data. Triggers may arrive from any goroutine.
type FlatDataSource[T, F any] struct {
	flattener *Flattener[T, F]
	state     ExpansionState[F]

	mu      sync.Mutex
	data    []T
	flat    []F
	visible []F
	hasData bool
	conns   map[*Connection]struct{}

	flattened Signal
}

// NewFlatDataSource creates a data source that flattens with flattener and
// filters with state. If state also implements Notifier, connected feeds
// recompute whenever it changes.
func NewFlatDataSource[T, F any](flattener *Flattener[T, F], state ExpansionState[F]) *FlatDataSource[T, F] {
	return &FlatDataSource[T, F]{
		flattener: flattener,
		state:     state,
		conns:     make(map[*Connection]struct{}),
	}
}

// SetData replaces the forest and recomputes the flat sequence. The
// previous visible sequence is invalidated and every connected feed
// republishes. If flattening fails the previous forest and flat sequence
// remain in place and nothing is republished.
func (ds *FlatDataSource[T, F]) SetData(ctx context.Context, roots []T) error {
	flat, err := ds.flattener.FlattenContext(ctx, roots)
	if err != nil {
		return err
	}

	ds.mu.Lock()
	ds.data = roots
	ds.flat = flat
	ds.visible = nil
	ds.hasData = true
	ds.mu.Unlock()

	if setter, ok := ds.state.(DataNodesSetter[F]); ok {
		setter.SetDataNodes(flat)
	}

	ds.flattened.Notify()
	return nil
}

// HasData reports whether SetData has succeeded at least once.
func (ds *FlatDataSource[T, F]) HasData() bool {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.hasData
}

// Data returns the current forest.
func (ds *FlatDataSource[T, F]) Data() []T {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.data
}

// Flattened returns the cached flat sequence.
func (ds *FlatDataSource[T, F]) Flattened() []F {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.flat
}

// Visible returns the most recently published visible sequence, or nil if
// nothing was published since the last SetData.
func (ds *FlatDataSource[T, F]) Visible() []F {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.visible
}

// Connect subscribes fn to the visible sequence. fn is called once right
// away and then once per trigger: a view change, an expansion state change
// (when the state is a Notifier) or a new flat sequence. view may be nil.
//
// Calls to fn on one connection never overlap and each sees a sequence at
// least as new as the previous one. A trigger that arrives while fn runs,
// including one caused by fn itself, is published after fn returns.
func (ds *FlatDataSource[T, F]) Connect(view Notifier, fn func(visible []F)) *Connection {
	c := &Connection{}
	trigger := func() { c.publish(func() { fn(ds.recompute()) }) }

	if view != nil {
		c.unsubs = append(c.unsubs, view.Subscribe(trigger))
	}
	if n, ok := ds.state.(Notifier); ok {
		c.unsubs = append(c.unsubs, n.Subscribe(trigger))
	}
	c.unsubs = append(c.unsubs, ds.flattened.Subscribe(trigger))

	ds.mu.Lock()
	ds.conns[c] = struct{}{}
	ds.mu.Unlock()
	c.release = func() {
		ds.mu.Lock()
		delete(ds.conns, c)
		ds.mu.Unlock()
	}

	trigger()
	return c
}

// Disconnect stops every connected feed. Data and the flat cache are kept,
// so the source can be connected again.
func (ds *FlatDataSource[T, F]) Disconnect() {
	ds.mu.Lock()
	conns := make([]*Connection, 0, len(ds.conns))
	for c := range ds.conns {
		conns = append(conns, c)
	}
	ds.mu.Unlock()

	for _, c := range conns {
		c.Disconnect()
	}
}

// recompute filters the cached flat sequence and stores the result as the
// current visible sequence.
func (ds *FlatDataSource[T, F]) recompute() []F {
	ds.mu.Lock()
	flat := ds.flat
	ds.mu.Unlock()

	visible := ds.flattener.ExpandFlattenedNodes(flat, ds.state)

	ds.mu.Lock()
	ds.visible = visible
	ds.mu.Unlock()
	return visible
}

// Connection is a live feed returned by Connect.
type Connection struct {
	mu      sync.Mutex
	running bool
	pending bool
	closed  atomic.Bool
	unsubs  []func()
	release func()
	once    sync.Once
}

// publish runs emit unless a publication is already in progress, in which
// case the running one emits again once it is done. Triggers that pile up
// meanwhile collapse into one publication.
func (c *Connection) publish(emit func()) {
	c.mu.Lock()
	if c.running {
		c.pending = true
		c.mu.Unlock()
		return
	}
	c.running = true
	for {
		c.pending = false
		c.mu.Unlock()

		if !c.closed.Load() {
			emit()
		}

		c.mu.Lock()
		if !c.pending || c.closed.Load() {
			c.running = false
			c.mu.Unlock()
			return
		}
	}
}

// Disconnect releases the feed's subscriptions. No further publications
// happen after it returns. Safe to call more than once.
func (c *Connection) Disconnect() {
	c.once.Do(func() {
		c.closed.Store(true)
		for _, unsub := range c.unsubs {
			unsub()
		}
		if c.release != nil {
			c.release()
		}
	})
}

// Closed reports whether the connection was disconnected.
func (c *Connection) Closed() bool {
	return c.closed.Load()
}
