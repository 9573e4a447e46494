package tree

import "sync"

// SelectionChange describes one mutation of a SelectionModel.
type SelectionChange[K comparable] struct {
	Added   []K
	Removed []K
}

// SelectionModel tracks a set of selected keys and reports changes.
// In single mode at most one key is selected at a time.
type SelectionModel[K comparable] struct {
	multiple bool

	mu       sync.Mutex
	selected map[K]struct{}
	order    []K

	changed Signal
	typed   []func(SelectionChange[K])
}

// NewSelectionModel creates a selection model. multiple allows more than
// one selected key; initial keys are selected without emitting a change.
func NewSelectionModel[K comparable](multiple bool, initial ...K) *SelectionModel[K] {
	m := &SelectionModel[K]{
		multiple: multiple,
		selected: make(map[K]struct{}),
	}
	if !multiple && len(initial) > 1 {
		initial = initial[:1]
	}
	for _, k := range initial {
		m.add(k)
	}
	return m
}

// Multiple reports whether more than one key may be selected.
func (m *SelectionModel[K]) Multiple() bool {
	return m.multiple
}

// Select selects keys. In single mode only the last key is kept.
func (m *SelectionModel[K]) Select(keys ...K) {
	if len(keys) == 0 {
		return
	}
	m.mu.Lock()
	var change SelectionChange[K]
	if !m.multiple {
		keys = keys[len(keys)-1:]
		if _, ok := m.selected[keys[0]]; !ok {
			change.Removed = m.removeAll()
		}
	}
	for _, k := range keys {
		if m.add(k) {
			change.Added = append(change.Added, k)
		}
	}
	m.mu.Unlock()
	m.emit(change)
}

// Deselect removes keys from the selection.
func (m *SelectionModel[K]) Deselect(keys ...K) {
	m.mu.Lock()
	var change SelectionChange[K]
	for _, k := range keys {
		if m.remove(k) {
			change.Removed = append(change.Removed, k)
		}
	}
	m.mu.Unlock()
	m.emit(change)
}

// Toggle flips the selection of key.
func (m *SelectionModel[K]) Toggle(key K) {
	if m.IsSelected(key) {
		m.Deselect(key)
	} else {
		m.Select(key)
	}
}

// Clear deselects every key.
func (m *SelectionModel[K]) Clear() {
	m.mu.Lock()
	change := SelectionChange[K]{Removed: m.removeAll()}
	m.mu.Unlock()
	m.emit(change)
}

// Apply deselects and selects in one step, emitting a single change.
func (m *SelectionModel[K]) Apply(selectKeys, deselectKeys []K) {
	m.mu.Lock()
	var change SelectionChange[K]
	for _, k := range deselectKeys {
		if m.remove(k) {
			change.Removed = append(change.Removed, k)
		}
	}
	if !m.multiple && len(selectKeys) > 1 {
		selectKeys = selectKeys[len(selectKeys)-1:]
	}
	if !m.multiple && len(selectKeys) == 1 {
		if _, ok := m.selected[selectKeys[0]]; !ok {
			change.Removed = append(change.Removed, m.removeAll()...)
		}
	}
	for _, k := range selectKeys {
		if m.add(k) {
			change.Added = append(change.Added, k)
		}
	}
	m.mu.Unlock()
	m.emit(change)
}

// IsSelected reports whether key is selected.
func (m *SelectionModel[K]) IsSelected(key K) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.selected[key]
	return ok
}

// IsEmpty reports whether nothing is selected.
func (m *SelectionModel[K]) IsEmpty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.selected) == 0
}

// Selected returns the selected keys in selection order.
func (m *SelectionModel[K]) Selected() []K {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]K, len(m.order))
	copy(out, m.order)
	return out
}

// OnChange registers fn for typed change events.
func (m *SelectionModel[K]) OnChange(fn func(SelectionChange[K])) func() {
	m.mu.Lock()
	m.typed = append(m.typed, fn)
	idx := len(m.typed) - 1
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			m.typed[idx] = nil
			m.mu.Unlock()
		})
	}
}

// Subscribe registers fn to be called after every change. It makes the
// model usable as a Notifier.
func (m *SelectionModel[K]) Subscribe(fn func()) func() {
	return m.changed.Subscribe(fn)
}

func (m *SelectionModel[K]) emit(change SelectionChange[K]) {
	if len(change.Added) == 0 && len(change.Removed) == 0 {
		return
	}
	m.mu.Lock()
	typed := make([]func(SelectionChange[K]), 0, len(m.typed))
	for _, fn := range m.typed {
		if fn != nil {
			typed = append(typed, fn)
		}
	}
	m.mu.Unlock()

	for _, fn := range typed {
		fn(change)
	}
	m.changed.Notify()
}

// add and remove expect m.mu to be held.

func (m *SelectionModel[K]) add(k K) bool {
	if _, ok := m.selected[k]; ok {
		return false
	}
	m.selected[k] = struct{}{}
	m.order = append(m.order, k)
	return true
}

func (m *SelectionModel[K]) remove(k K) bool {
	if _, ok := m.selected[k]; !ok {
		return false
	}
	delete(m.selected, k)
	for i, o := range m.order {
		if o == k {
			m.order = append(m.order[:i:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

func (m *SelectionModel[K]) removeAll() []K {
	removed := m.order
	m.order = nil
	m.selected = make(map[K]struct{})
	return removed
}
