package browser

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/raphi011/ftree/internal/source"
)

const testDoc = `{"a": {"b": 1, "c": [true, false]}, "d": "x"}`

func keyMsg(key string) tea.KeyPressMsg {
	switch key {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	case "home":
		return tea.KeyPressMsg{Code: tea.KeyHome}
	case "end":
		return tea.KeyPressMsg{Code: tea.KeyEnd}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "space":
		return tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	case "ctrl+c":
		return tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}
	default:
		r := []rune(key)[0]
		return tea.KeyPressMsg{Code: r, Text: key}
	}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

// drain applies every pending publication of the data source.
func drain(t *testing.T, m Model) Model {
	t.Helper()
	for {
		select {
		case rows := <-m.updates:
			m, _ = update(t, m, visibleMsg(rows))
		default:
			return m
		}
	}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m, _ = update(t, m, keyMsg(k))
		m = drain(t, m)
	}
	return m
}

// start creates a model and runs its first load to completion.
func start(t *testing.T, opts Options) Model {
	t.Helper()
	m := New(context.Background(), opts)
	t.Cleanup(m.Close)
	m, _ = update(t, m, m.load()())
	return drain(t, m)
}

func docOptions(t *testing.T) Options {
	t.Helper()
	doc, err := source.ParseDocument("doc.json", []byte(testDoc), source.FormatJSON)
	require.NoError(t, err)
	return Options{Source: doc, ExpandDepth: 1, Copy: func(string) error { return nil }}
}

func visibleNames(m Model) []string {
	out := make([]string, len(m.rows))
	for i, r := range m.rows {
		out[i] = r.Node.Name
	}
	return out
}

func cursorName(t *testing.T, m Model) string {
	t.Helper()
	row, ok := m.current()
	require.True(t, ok)
	return row.Node.Name
}

func TestInitialLoad(t *testing.T) {
	t.Parallel()

	m := start(t, docOptions(t))
	require.False(t, m.loading)
	require.NoError(t, m.err)
	require.Equal(t, []string{"doc.json", "a", "d"}, visibleNames(m))
	require.Equal(t, "doc.json", cursorName(t, m))

	view := ansi.Strip(m.render())
	require.Contains(t, view, "doc.json")
	require.Contains(t, view, "d: x")
	require.NotContains(t, view, "b: 1")
}

func TestRestoredExpansion(t *testing.T) {
	t.Parallel()

	opts := docOptions(t)
	opts.Expanded = []string{"doc.json", "doc.json#/a"}
	m := start(t, opts)
	require.Equal(t, []string{"doc.json", "a", "b", "c", "d"}, visibleNames(m))
}

func TestNavigation(t *testing.T) {
	t.Parallel()

	m := start(t, docOptions(t))

	m = press(t, m, "down")
	require.Equal(t, "a", cursorName(t, m))

	// right expands, then moves into the children
	m = press(t, m, "right")
	require.Equal(t, []string{"doc.json", "a", "b", "c", "d"}, visibleNames(m))
	require.Equal(t, "a", cursorName(t, m))
	m = press(t, m, "right")
	require.Equal(t, "b", cursorName(t, m))

	// left on a leaf moves to the parent, then collapses it
	m = press(t, m, "left")
	require.Equal(t, "a", cursorName(t, m))
	m = press(t, m, "left")
	require.Equal(t, []string{"doc.json", "a", "d"}, visibleNames(m))
	require.Equal(t, "a", cursorName(t, m))
	m = press(t, m, "left")
	require.Equal(t, "doc.json", cursorName(t, m))

	m = press(t, m, "end")
	require.Equal(t, "d", cursorName(t, m))
	m = press(t, m, "down")
	require.Equal(t, "d", cursorName(t, m))
	m = press(t, m, "home", "up")
	require.Equal(t, "doc.json", cursorName(t, m))
}

func TestToggleKeys(t *testing.T) {
	t.Parallel()

	m := start(t, docOptions(t))
	m = press(t, m, "down", "space")
	require.Equal(t, []string{"doc.json", "a", "b", "c", "d"}, visibleNames(m))
	m = press(t, m, "space")
	require.Equal(t, []string{"doc.json", "a", "d"}, visibleNames(m))

	m = press(t, m, "L")
	require.Equal(t, []string{"doc.json", "a", "b", "c", "0", "1", "d"}, visibleNames(m))
	m = press(t, m, "L")
	require.Equal(t, []string{"doc.json", "a", "d"}, visibleNames(m))

	// toggling a leaf does nothing
	m = press(t, m, "down", "space")
	require.Equal(t, []string{"doc.json", "a", "d"}, visibleNames(m))
}

func TestExpandAndCollapseAll(t *testing.T) {
	t.Parallel()

	m := start(t, docOptions(t))
	m = press(t, m, "E")
	require.Equal(t, []string{"doc.json", "a", "b", "c", "0", "1", "d"}, visibleNames(m))

	m = press(t, m, "end")
	require.Equal(t, "d", cursorName(t, m))

	m = press(t, m, "C")
	require.Equal(t, []string{"doc.json"}, visibleNames(m))
	require.Equal(t, "doc.json", cursorName(t, m))
}

func TestFilterRevealsMatch(t *testing.T) {
	t.Parallel()

	m := start(t, docOptions(t))
	m = press(t, m, "/")
	require.True(t, m.filtering)

	m = press(t, m, "c", "/", "1")
	require.Len(t, m.matches, 1)
	require.Equal(t, "doc.json/a/c/1", m.matches[0].Str)
	require.Contains(t, ansi.Strip(m.render()), "doc.json/a/c/1")

	m = press(t, m, "enter")
	require.False(t, m.filtering)
	require.Equal(t, []string{"doc.json", "a", "b", "c", "0", "1", "d"}, visibleNames(m))
	require.Equal(t, "1", cursorName(t, m))
	require.Equal(t, "doc.json#/a/c/1", m.focus)
}

func TestFilterEscape(t *testing.T) {
	t.Parallel()

	m := start(t, docOptions(t))
	m = press(t, m, "/", "z", "z", "z")
	require.Empty(t, m.matches)
	require.Contains(t, ansi.Strip(m.render()), "No matches found")

	m = press(t, m, "esc")
	require.False(t, m.filtering)
	require.Equal(t, []string{"doc.json", "a", "d"}, visibleNames(m))
	require.Nil(t, m.Result().Selected)
}

func TestCopyPath(t *testing.T) {
	t.Parallel()

	var copied string
	opts := docOptions(t)
	opts.Copy = func(s string) error {
		copied = s
		return nil
	}
	m := start(t, opts)
	m = press(t, m, "down")

	m, cmd := update(t, m, keyMsg("y"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	require.Equal(t, "doc.json#/a", copied)
	require.Contains(t, ansi.Strip(m.render()), "copied doc.json#/a")

	opts.Copy = func(string) error { return errors.New("no clipboard") }
	m.opts = opts
	m, cmd = update(t, m, keyMsg("y"))
	m, _ = update(t, m, cmd())
	require.Contains(t, ansi.Strip(m.render()), "error: copy: no clipboard")
}

func TestSelectAndQuit(t *testing.T) {
	t.Parallel()

	m := start(t, docOptions(t))
	m = press(t, m, "down", "right")

	m, cmd := update(t, m, keyMsg("enter"))
	require.NotNil(t, cmd)
	res := m.Result()
	require.False(t, res.Cancelled)
	require.Equal(t, "doc.json#/a", res.Selected.Path)
	require.Equal(t, []string{"doc.json", "doc.json#/a"}, res.Expanded)
}

func TestCancel(t *testing.T) {
	t.Parallel()

	for _, key := range []string{"esc", "q", "ctrl+c"} {
		t.Run(key, func(t *testing.T) {
			t.Parallel()

			m := start(t, docOptions(t))
			m, cmd := update(t, m, keyMsg(key))
			require.NotNil(t, cmd)
			require.True(t, m.Result().Cancelled)
			require.Nil(t, m.Result().Selected)
		})
	}
}

func TestScrolling(t *testing.T) {
	t.Parallel()

	m := start(t, docOptions(t))
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: chrome + 3})
	m = drain(t, m)
	m = press(t, m, "E", "end")

	require.Equal(t, "d", cursorName(t, m))
	require.Equal(t, 4, m.offset)

	view := ansi.Strip(m.render())
	require.NotContains(t, view, "b: 1")
	require.Contains(t, view, "7/7")

	m = press(t, m, "home")
	require.Zero(t, m.offset)
}

// fakeSource serves a fixed tree keyed by path.
type fakeSource struct {
	roots    []*source.Node
	children map[string][]*source.Node
	err      error
}

func (f *fakeSource) Roots(context.Context) ([]*source.Node, error) {
	return f.roots, f.err
}

func (f *fakeSource) Children(n *source.Node) (<-chan []*source.Node, error) {
	ch := make(chan []*source.Node, 1)
	ch <- f.children[n.Path]
	return ch, nil
}

func TestUnreadableRowsAreSkipped(t *testing.T) {
	t.Parallel()

	src := &fakeSource{
		roots: []*source.Node{{Name: "root", Path: "/root", Kind: source.Dir}},
		children: map[string][]*source.Node{
			"/root": {
				{Name: "one", Path: "/root/one", Kind: source.File},
				{Name: "locked", Path: "/root/locked", Kind: source.Dir, Unreadable: true},
				{Name: "two", Path: "/root/two", Kind: source.File},
			},
		},
	}
	m := start(t, Options{Source: src, ExpandDepth: 1})
	require.Equal(t, []string{"root", "one", "locked", "two"}, visibleNames(m))

	m = press(t, m, "down", "down")
	require.Equal(t, "two", cursorName(t, m))
	m = press(t, m, "up")
	require.Equal(t, "one", cursorName(t, m))
}

func TestLoadError(t *testing.T) {
	t.Parallel()

	src := &fakeSource{err: errors.New("permission denied")}
	m := start(t, Options{Source: src})
	require.False(t, m.loading)
	require.Empty(t, m.rows)

	view := ansi.Strip(m.render())
	require.Contains(t, view, "error: permission denied")
	require.Contains(t, view, "(empty)")

	// enter on an empty tree selects nothing
	m, _ = update(t, m, keyMsg("enter"))
	require.Nil(t, m.Result().Selected)
}

func TestReload(t *testing.T) {
	t.Parallel()

	m := start(t, docOptions(t))
	m = press(t, m, "down", "right")

	m, cmd := update(t, m, keyMsg("r"))
	require.NotNil(t, cmd)
	require.True(t, m.loading)
	require.Contains(t, ansi.Strip(m.render()), "loading")

	// a second reload while loading is ignored
	m, cmd = update(t, m, keyMsg("r"))
	require.Nil(t, cmd)

	m, _ = update(t, m, m.load()())
	m = drain(t, m)
	require.False(t, m.loading)
	// expansion survives because keys are paths
	require.Equal(t, []string{"doc.json", "a", "b", "c", "d"}, visibleNames(m))
	require.Equal(t, "a", cursorName(t, m))
}

func TestRelativePaths(t *testing.T) {
	t.Parallel()

	rows := []source.Row{
		{Node: &source.Node{Name: "r"}, Level: 0},
		{Node: &source.Node{Name: "a"}, Level: 1},
		{Node: &source.Node{Name: "b"}, Level: 2},
		{Node: &source.Node{Name: "c"}, Level: 1},
		{Node: &source.Node{Name: "s"}, Level: 0},
	}
	require.Equal(t, pathSource{"r", "r/a", "r/a/b", "r/c", "s"}, relativePaths(rows))
}

func TestHighlight(t *testing.T) {
	t.Parallel()

	out := highlight("héllo", []int{0, 3})
	require.Equal(t, "héllo", ansi.Strip(out))
	require.True(t, strings.HasSuffix(out, "lo"))
}
