package tree

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func newTestSource(t *testing.T) (*FlatDataSource[*testNode, flatNode], *FlatTreeControl[flatNode, string]) {
	t.Helper()
	control := NewFlatTreeControl(flatLevel, flatExpandable, flatName)
	ds := NewFlatDataSource(newTestFlattener(fetcher{}), control)
	return ds, control
}

func TestFlatDataSourceStartsEmpty(t *testing.T) {
	t.Parallel()

	ds, _ := newTestSource(t)
	require.False(t, ds.HasData())
	require.Nil(t, ds.Data())
	require.Nil(t, ds.Flattened())
	require.Nil(t, ds.Visible())
}

func TestFlatDataSourceSetData(t *testing.T) {
	t.Parallel()

	ds, control := newTestSource(t)
	roots := parseForest(t, "A+\n  B\n  C+\n    D")
	require.NoError(t, ds.SetData(context.Background(), roots))

	require.True(t, ds.HasData())
	require.Equal(t, roots, ds.Data())
	require.Equal(t, []string{"A", "B", "C", "D"}, names(ds.Flattened()))
	require.Equal(t, ds.Flattened(), control.DataNodes())
}

func TestFlatDataSourceConnectPublishes(t *testing.T) {
	t.Parallel()

	ds, control := newTestSource(t)
	require.NoError(t, ds.SetData(context.Background(), parseForest(t, "A+\n  B\n  C+\n    D")))

	var got [][]string
	view := &Signal{}
	conn := ds.Connect(view, func(visible []flatNode) {
		got = append(got, names(visible))
	})
	defer conn.Disconnect()

	// Connecting publishes once.
	require.Equal(t, [][]string{{"A"}}, got)

	// (b) expansion state changes.
	control.Expand(flatNode{name: "A"})
	require.Equal(t, []string{"A", "B", "C"}, got[len(got)-1])
	control.Expand(flatNode{name: "C"})
	require.Equal(t, []string{"A", "B", "C", "D"}, got[len(got)-1])

	// (a) view changes.
	n := len(got)
	view.Notify()
	require.Len(t, got, n+1)
	require.Equal(t, got[n-1], got[n])

	// (c) new flat sequence.
	require.NoError(t, ds.SetData(context.Background(), parseForest(t, "X+\n  Y")))
	require.Equal(t, []string{"X"}, got[len(got)-1])
	require.Equal(t, []string{"X"}, names(ds.Visible()))
}

func TestFlatDataSourceReplaceDiscardsOldEntries(t *testing.T) {
	t.Parallel()

	ds, control := newTestSource(t)
	control.ExpandKeys("A", "X")
	require.NoError(t, ds.SetData(context.Background(), parseForest(t, "A+\n  B")))

	var last []flatNode
	conn := ds.Connect(nil, func(visible []flatNode) { last = visible })
	defer conn.Disconnect()
	require.Equal(t, []string{"A", "B"}, names(last))

	require.NoError(t, ds.SetData(context.Background(), parseForest(t, "X+\n  Y")))
	require.Equal(t, []string{"X", "Y"}, names(ds.Flattened()))
	require.Equal(t, []string{"X", "Y"}, names(last))
}

func TestFlatDataSourceErrorKeepsCache(t *testing.T) {
	t.Parallel()

	control := NewFlatTreeControl(flatLevel, flatExpandable, flatName)
	ds := NewFlatDataSource(newTestFlattener(fetcher{fail: map[string]bool{"bad": true}}), control)
	require.NoError(t, ds.SetData(context.Background(), parseForest(t, "A+\n  B")))

	published := 0
	conn := ds.Connect(nil, func([]flatNode) { published++ })
	defer conn.Disconnect()
	require.Equal(t, 1, published)

	err := ds.SetData(context.Background(), parseForest(t, "bad+\n  C"))
	require.True(t, errors.Is(err, ErrCapability))
	require.Equal(t, []string{"A", "B"}, names(ds.Flattened()))
	require.Equal(t, "A", ds.Data()[0].name)
	require.Equal(t, 1, published)
}

func TestFlatDataSourceDisconnect(t *testing.T) {
	t.Parallel()

	ds, control := newTestSource(t)
	require.NoError(t, ds.SetData(context.Background(), parseForest(t, "A+\n  B")))

	view := &Signal{}
	published := 0
	conn := ds.Connect(view, func([]flatNode) { published++ })
	require.Equal(t, 1, published)

	ds.Disconnect()
	require.True(t, conn.Closed())
	require.Zero(t, view.Len())

	view.Notify()
	control.Expand(flatNode{name: "A"})
	require.NoError(t, ds.SetData(context.Background(), parseForest(t, "C")))
	require.Equal(t, 1, published)

	// Data and cache survive for a new connection.
	var last []flatNode
	conn = ds.Connect(view, func(v []flatNode) { last = v })
	defer conn.Disconnect()
	require.Equal(t, []string{"C"}, names(last))

	// Disconnecting twice is harmless.
	conn.Disconnect()
	conn.Disconnect()
}

func TestFlatDataSourceIdempotentRecompute(t *testing.T) {
	t.Parallel()

	ds, control := newTestSource(t)
	require.NoError(t, ds.SetData(context.Background(), parseForest(t, "A+\n  B+\n    C\n  D")))
	control.ExpandKeys("A", "B")

	view := &Signal{}
	var got [][]flatNode
	conn := ds.Connect(view, func(v []flatNode) { got = append(got, v) })
	defer conn.Disconnect()
	view.Notify()

	require.Len(t, got, 2)
	require.Equal(t, got[0], got[1])
}

func TestFlatDataSourceReentrantPublication(t *testing.T) {
	t.Parallel()

	ds, control := newTestSource(t)
	require.NoError(t, ds.SetData(context.Background(), parseForest(t, "A+\n  B")))

	var got [][]string
	var setErr error
	connected := make(chan *Connection)
	go func() {
		connected <- ds.Connect(nil, func(visible []flatNode) {
			got = append(got, names(visible))
			switch len(got) {
			case 1:
				// Replace the data from inside the first publication.
				setErr = ds.SetData(context.Background(), parseForest(t, "X+\n  Y"))
			case 2:
				control.Expand(flatNode{name: "X"})
			}
		})
	}()

	var conn *Connection
	select {
	case conn = <-connected:
	case <-time.After(5 * time.Second):
		t.Fatal("Connect did not return after the subscriber triggered a publication")
	}
	defer conn.Disconnect()
	require.NoError(t, setErr)

	// Each nested trigger is published after the callback that caused it.
	require.Equal(t, [][]string{{"A"}, {"X"}, {"X", "Y"}}, got)
}

func TestFlatDataSourceCollapsesPendingTriggers(t *testing.T) {
	t.Parallel()

	ds, _ := newTestSource(t)
	require.NoError(t, ds.SetData(context.Background(), parseForest(t, "A")))

	view := &Signal{}
	published := 0
	conn := ds.Connect(view, func([]flatNode) {
		published++
		if published == 2 {
			view.Notify()
			view.Notify()
			view.Notify()
		}
	})
	defer conn.Disconnect()

	view.Notify()
	require.Equal(t, 3, published)
}

func TestNestedDataSource(t *testing.T) {
	t.Parallel()

	ds := NewNestedDataSource[string]()
	view := &Signal{}

	var got [][]string
	conn := ds.Connect(view, func(data []string) { got = append(got, data) })
	require.Equal(t, [][]string{nil}, got)

	ds.SetData([]string{"a", "b"})
	view.Notify()
	require.Equal(t, [][]string{nil, {"a", "b"}, {"a", "b"}}, got)

	conn.Disconnect()
	ds.SetData([]string{"c"})
	require.Len(t, got, 3)
	require.Equal(t, []string{"c"}, ds.Data())
}

func TestSignal(t *testing.T) {
	t.Parallel()

	var s Signal
	var calls []string
	unsubA := s.Subscribe(func() { calls = append(calls, "a") })
	s.Subscribe(func() { calls = append(calls, "b") })

	s.Notify()
	require.Equal(t, []string{"a", "b"}, calls)

	unsubA()
	unsubA()
	s.Notify()
	require.Equal(t, []string{"a", "b", "b"}, calls)
	require.Equal(t, 1, s.Len())
}
