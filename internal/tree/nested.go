package tree

import "sync"

// NestedDataSource holds nested data that is rendered as-is. It needs no
// flattening; expansion is left to whoever walks the nodes.
type NestedDataSource[T any] struct {
	mu      sync.Mutex
	data    []T
	changed Signal
	conns   map[*Connection]struct{}
}

// NewNestedDataSource creates an empty nested data source.
func NewNestedDataSource[T any]() *NestedDataSource[T] {
	return &NestedDataSource[T]{conns: make(map[*Connection]struct{})}
}

// SetData replaces the data and republishes it to connected feeds.
func (ds *NestedDataSource[T]) SetData(data []T) {
	ds.mu.Lock()
	ds.data = data
	ds.mu.Unlock()
	ds.changed.Notify()
}

// Data returns the current data.
func (ds *NestedDataSource[T]) Data() []T {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.data
}

// Connect calls fn with the current data right away and again on every
// view change or SetData. view may be nil.
func (ds *NestedDataSource[T]) Connect(view Notifier, fn func(data []T)) *Connection {
	c := &Connection{}
	trigger := func() {
		if c.closed.Load() {
			return
		}
		fn(ds.Data())
	}

	if view != nil {
		c.unsubs = append(c.unsubs, view.Subscribe(trigger))
	}
	c.unsubs = append(c.unsubs, ds.changed.Subscribe(trigger))

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

// Disconnect stops every connected feed.
func (ds *NestedDataSource[T]) Disconnect() {
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
