package tree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectionModelMultiple(t *testing.T) {
	t.Parallel()

	m := NewSelectionModel[string](true)
	require.True(t, m.Multiple())
	var changes []SelectionChange[string]
	m.OnChange(func(c SelectionChange[string]) { changes = append(changes, c) })
	notified := 0
	m.Subscribe(func() { notified++ })

	m.Select("a", "b")
	require.Equal(t, []string{"a", "b"}, m.Selected())
	require.True(t, m.IsSelected("a"))

	// Selecting an already selected key is not a change.
	m.Select("a")
	require.Len(t, changes, 1)
	require.Equal(t, 1, notified)

	m.Toggle("a")
	require.False(t, m.IsSelected("a"))
	require.Equal(t, SelectionChange[string]{Removed: []string{"a"}}, changes[1])

	m.Deselect("missing")
	require.Len(t, changes, 2)

	m.Clear()
	require.True(t, m.IsEmpty())
	require.Equal(t, []string{"b"}, changes[2].Removed)
	require.Equal(t, 3, notified)
}

func TestSelectionModelSingle(t *testing.T) {
	t.Parallel()

	m := NewSelectionModel(false, "a", "b")
	require.False(t, m.Multiple())
	require.Equal(t, []string{"a"}, m.Selected())

	var last SelectionChange[string]
	m.OnChange(func(c SelectionChange[string]) { last = c })

	m.Select("c")
	require.Equal(t, []string{"c"}, m.Selected())
	require.Equal(t, []string{"c"}, last.Added)
	require.Equal(t, []string{"a"}, last.Removed)

	m.Select("x", "y")
	require.Equal(t, []string{"y"}, m.Selected())
}

func TestSelectionModelApplyEmitsOnce(t *testing.T) {
	t.Parallel()

	m := NewSelectionModel(true, "a")
	notified := 0
	unsub := m.Subscribe(func() { notified++ })

	m.Apply([]string{"b", "c"}, []string{"a"})
	require.Equal(t, 1, notified)
	require.Equal(t, []string{"b", "c"}, m.Selected())

	unsub()
	m.Select("d")
	require.Equal(t, 1, notified)
}

func TestSelectionModelUnsubscribeTyped(t *testing.T) {
	t.Parallel()

	m := NewSelectionModel[int](true)
	calls := 0
	unsub := m.OnChange(func(SelectionChange[int]) { calls++ })
	m.Select(1)
	unsub()
	unsub()
	m.Select(2)
	require.Equal(t, 1, calls)
}
