// Package browser implements the interactive tree view.
//
// The model owns a FlatDataSource connected to a buffered channel. Every
// publication (expansion change, window resize, reload) lands on that
// channel and is picked up by a re-armed command, so the model itself is
// only ever mutated inside Update.
package browser

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/colorprofile"
	"github.com/sahilm/fuzzy"

	"github.com/raphi011/ftree/internal/source"
	"github.com/raphi011/ftree/internal/tree"
	"github.com/raphi011/ftree/internal/ui/static"
	"github.com/raphi011/ftree/internal/ui/styles"
)

const (
	defaultHeight = 20
	// header line plus status and help lines
	chrome     = 3
	maxMatches = 10
)

// Options configures a browser.
type Options struct {
	Source source.Source
	// Expanded restores previously expanded keys. When empty the tree is
	// expanded down to ExpandDepth after the first load.
	Expanded     []string
	ExpandDepth  int
	FetchTimeout time.Duration
	Guides       bool
	Indent       int
	// Copy writes text to the clipboard. Defaults to clipboard.WriteAll.
	Copy func(string) error
}

// Result is what the user chose when the browser exited.
type Result struct {
	Selected  *source.Node
	Expanded  []string
	Cancelled bool
}

type visibleMsg []source.Row

type loadedMsg struct {
	err error
}

type statusMsg struct {
	text string
	err  error
}

// Model is the bubbletea model of the browser.
type Model struct {
	ctx  context.Context
	opts Options

	control  *tree.FlatTreeControl[source.Row, string]
	ds       *tree.FlatDataSource[*source.Node, source.Row]
	viewport *tree.Signal
	conn     *tree.Connection
	updates  chan []source.Row

	rows     []source.Row
	branches []tree.Branch
	focus    string
	cursor   int
	offset   int
	width    int
	height   int

	loading bool
	loaded  bool
	spinner spinner.Model
	status  string
	err     error

	filtering   bool
	input       textinput.Model
	candidates  []source.Row
	paths       pathSource
	matches     fuzzy.Matches
	matchCursor int

	result Result
}

// New creates a browser over opts.Source and connects it to its data
// source. The first load starts with Init.
func New(ctx context.Context, opts Options) Model {
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}
	if opts.Indent <= 0 {
		opts.Indent = 2
	}

	control := source.NewControl()
	control.ExpandKeys(opts.Expanded...)
	ds := tree.NewFlatDataSource(source.NewFlattener(opts.Source), control)

	updates := make(chan []source.Row, 1)
	viewport := &tree.Signal{}
	conn := ds.Connect(viewport, func(rows []source.Row) {
		// Keep only the newest sequence.
		select {
		case <-updates:
		default:
		}
		updates <- rows
	})

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.TitleStyle

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "type to filter..."
	ti.SetWidth(40)

	return Model{
		ctx:      ctx,
		opts:     opts,
		control:  control,
		ds:       ds,
		viewport: viewport,
		conn:     conn,
		updates:  updates,
		loading:  true,
		spinner:  sp,
		input:    ti,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.spinner.Tick, m.waitForVisible())
}

// waitForVisible blocks until the data source publishes.
func (m Model) waitForVisible() tea.Cmd {
	updates := m.updates
	return func() tea.Msg {
		return visibleMsg(<-updates)
	}
}

// load reads the roots and flattens them, waiting up to the fetch timeout
// for pending listings.
func (m Model) load() tea.Cmd {
	ctx, src, ds, timeout := m.ctx, m.opts.Source, m.ds, m.opts.FetchTimeout
	return func() tea.Msg {
		roots, err := src.Roots(ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		fctx, cancel := ctx, context.CancelFunc(func() {})
		if timeout > 0 {
			fctx, cancel = context.WithTimeout(ctx, timeout)
		}
		defer cancel()
		return loadedMsg{err: ds.SetData(fctx, roots)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case visibleMsg:
		m.setRows(msg)
		return m, m.waitForVisible()

	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil && !m.loaded {
			m.loaded = true
			if len(m.opts.Expanded) == 0 {
				m.control.ExpandToLevel(m.opts.ExpandDepth)
			}
		}
		return m, nil

	case statusMsg:
		m.status = msg.text
		m.err = msg.err
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Notify()
		return m, nil

	case tea.KeyPressMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		return m.updateTree(msg)
	}
	return m, nil
}

func (m Model) updateTree(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "ctrl+c", "esc", "q":
		m.result.Cancelled = true
		return m.quit()

	case "enter":
		if row, ok := m.current(); ok {
			m.result.Selected = row.Node
		}
		return m.quit()

	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "pgup":
		m.move(-m.pageSize())
	case "pgdown":
		m.move(m.pageSize())
	case "home", "g":
		m.moveTo(0, 1)
	case "end", "G":
		m.moveTo(len(m.rows)-1, -1)

	case "right", "l":
		row, ok := m.current()
		if !ok || !row.Expandable {
			break
		}
		if !m.control.IsExpanded(row) {
			m.control.Expand(row)
		} else if m.cursor+1 < len(m.rows) && m.rows[m.cursor+1].Level > row.Level {
			m.setFocus(source.Key(m.rows[m.cursor+1]))
		}

	case "left", "h":
		row, ok := m.current()
		if !ok {
			break
		}
		if row.Expandable && m.control.IsExpanded(row) {
			m.control.Collapse(row)
			break
		}
		for i := m.cursor - 1; i >= 0; i-- {
			if m.rows[i].Level < row.Level {
				m.setFocus(source.Key(m.rows[i]))
				break
			}
		}

	case "space":
		if row, ok := m.current(); ok && row.Expandable {
			m.control.Toggle(row)
		}
	case "L":
		if row, ok := m.current(); ok && row.Expandable {
			m.control.ToggleDescendants(row)
		}
	case "E":
		m.control.ExpandAll()
	case "C":
		m.control.CollapseAll()

	case "/":
		return m, m.openFilter()

	case "y":
		if row, ok := m.current(); ok {
			return m, m.copyPath(row.Node.Path)
		}

	case "r":
		if m.loading {
			break
		}
		m.loading = true
		m.err = nil
		return m, tea.Batch(m.load(), m.spinner.Tick)
	}
	return m, nil
}

func (m Model) updateFilter(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.result.Cancelled = true
		return m.quit()
	case "esc":
		m.closeFilter()
		return m, nil
	case "up", "ctrl+p":
		if m.matchCursor > 0 {
			m.matchCursor--
		}
		return m, nil
	case "down", "ctrl+n":
		if m.matchCursor < min(len(m.matches), maxMatches)-1 {
			m.matchCursor++
		}
		return m, nil
	case "enter":
		if m.matchCursor < len(m.matches) {
			m.reveal(m.matches[m.matchCursor].Index)
		}
		m.closeFilter()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.applyFilter()
	return m, cmd
}

// Result returns the outcome once the program has quit.
func (m Model) Result() Result {
	return m.result
}

// Close disconnects the model from its data source.
func (m Model) Close() {
	m.conn.Disconnect()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.result.Expanded = m.control.ExpandedKeys()
	return m, tea.Quit
}

func (m Model) copyPath(path string) tea.Cmd {
	write := m.opts.Copy
	return func() tea.Msg {
		if err := write(path); err != nil {
			return statusMsg{err: fmt.Errorf("copy: %w", err)}
		}
		return statusMsg{text: "copied " + path}
	}
}

// setRows installs a new visible sequence and puts the cursor back on the
// focused key. If the focused row disappeared the cursor stays at the same
// position.
func (m *Model) setRows(rows []source.Row) {
	m.rows = rows
	m.branches = nil
	if m.opts.Guides {
		m.branches = tree.Branches(rows, source.Level)
	}
	if len(rows) == 0 {
		m.cursor, m.offset = 0, 0
		return
	}

	idx := m.index(m.focus)
	if idx < 0 {
		idx = min(m.cursor, len(rows)-1)
	}
	if !m.moveTo(idx, 1) && !m.moveTo(idx, -1) {
		m.cursor = idx
		m.scroll()
	}
}

func (m *Model) setFocus(key string) {
	m.focus = key
	if idx := m.index(key); idx >= 0 {
		m.cursor = idx
		m.scroll()
	}
}

func (m Model) index(key string) int {
	if key == "" {
		return -1
	}
	for i, r := range m.rows {
		if source.Key(r) == key {
			return i
		}
	}
	return -1
}

func (m Model) current() (source.Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return source.Row{}, false
	}
	return m.rows[m.cursor], true
}

// move steps the cursor by delta rows, skipping rows that cannot be
// focused.
func (m *Model) move(delta int) {
	if len(m.rows) == 0 || delta == 0 {
		return
	}
	target := max(0, min(len(m.rows)-1, m.cursor+delta))
	dir := 1
	if delta < 0 {
		dir = -1
	}
	if !m.moveTo(target, dir) {
		m.moveTo(target, -dir)
	}
}

// moveTo puts the cursor on the first focusable row from idx in direction
// dir. It reports false and leaves the cursor alone if there is none.
func (m *Model) moveTo(idx, dir int) bool {
	for i := idx; i >= 0 && i < len(m.rows); i += dir {
		if m.rows[i].Role.Focusable() {
			m.cursor = i
			m.focus = source.Key(m.rows[i])
			m.scroll()
			return true
		}
	}
	return false
}

func (m Model) pageSize() int {
	h := m.height - chrome
	if m.height == 0 {
		h = defaultHeight
	}
	return max(1, h)
}

func (m *Model) scroll() {
	h := m.pageSize()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	m.offset = max(0, min(m.offset, len(m.rows)-h))
}

// openFilter snapshots the flat sequence so every node can be found, not
// only the visible ones.
func (m *Model) openFilter() tea.Cmd {
	m.filtering = true
	m.candidates = m.ds.Flattened()
	m.paths = relativePaths(m.candidates)
	m.input.Reset()
	m.applyFilter()
	return m.input.Focus()
}

func (m *Model) closeFilter() {
	m.filtering = false
	m.input.Blur()
	m.matches = nil
	m.candidates = nil
	m.paths = nil
}

func (m *Model) applyFilter() {
	m.matchCursor = 0
	query := m.input.Value()
	if query == "" {
		m.matches = nil
		return
	}
	m.matches = fuzzy.FindFrom(query, m.paths)
}

// reveal expands every ancestor of candidate i and focuses it.
func (m *Model) reveal(i int) {
	target := m.candidates[i]
	var ancestors []string
	level := target.Level
	for j := i - 1; j >= 0 && level > 0; j-- {
		if m.candidates[j].Level < level {
			ancestors = append(ancestors, source.Key(m.candidates[j]))
			level = m.candidates[j].Level
		}
	}
	m.setFocus(source.Key(target))
	m.control.ExpandKeys(ancestors...)
}

// pathSource lists slash-joined names relative to each row's root.
type pathSource []string

func (s pathSource) String(i int) string { return s[i] }
func (s pathSource) Len() int            { return len(s) }

func relativePaths(rows []source.Row) pathSource {
	out := make(pathSource, len(rows))
	var stack []string
	for i, r := range rows {
		stack = append(stack[:min(r.Level, len(stack))], r.Node.Name)
		out[i] = strings.Join(stack, "/")
	}
	return out
}

func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m Model) render() string {
	var b strings.Builder
	b.WriteString(styles.Bold.Render(m.title()))
	if m.loading {
		b.WriteString("  " + m.spinner.View() + styles.MutedStyle.Render(" loading"))
	}
	b.WriteString("\n")

	if m.filtering {
		m.renderFilter(&b)
	} else {
		m.renderRows(&b)
	}

	switch {
	case m.err != nil:
		b.WriteString(styles.ErrorStyle.Render("error: "+m.err.Error()) + "\n")
	case m.status != "":
		b.WriteString(styles.StatusStyle.Render(m.status) + "\n")
	}
	b.WriteString(styles.MutedStyle.Render(m.help()))
	return b.String()
}

func (m Model) title() string {
	roots := m.ds.Data()
	switch len(roots) {
	case 0:
		return "ftree"
	case 1:
		return roots[0].Path
	default:
		return fmt.Sprintf("ftree (%d roots)", len(roots))
	}
}

func (m Model) renderRows(b *strings.Builder) {
	if len(m.rows) == 0 {
		if !m.loading {
			b.WriteString(styles.MutedStyle.Render("  (empty)") + "\n")
		}
		return
	}

	sym := styles.CurrentSymbols()
	end := min(len(m.rows), m.offset+m.pageSize())
	for i := m.offset; i < end; i++ {
		r := m.rows[i]
		marker := "  "
		if i == m.cursor {
			marker = styles.CursorStyle.Render(sym.Cursor) + " "
		}
		var prefix string
		if m.opts.Guides {
			prefix = styles.GuideStyle.Render(static.Guide(m.branches[i]))
		} else {
			prefix = strings.Repeat(" ", m.opts.Indent*r.Level)
		}
		label := static.Label(r, r.Expandable && m.control.IsExpanded(r), false)
		if i == m.cursor {
			label = styles.CursorStyle.Render(label)
		}
		b.WriteString(marker + prefix + label + "\n")
	}
	if len(m.rows) > m.pageSize() {
		b.WriteString(styles.MutedStyle.Render(fmt.Sprintf("  %d/%d", m.cursor+1, len(m.rows))) + "\n")
	}
}

func (m Model) renderFilter(b *strings.Builder) {
	b.WriteString(m.input.View() + "\n")
	if m.input.Value() != "" && len(m.matches) == 0 {
		b.WriteString(styles.MutedStyle.Render("  No matches found") + "\n")
		return
	}
	for i, match := range m.matches {
		if i == maxMatches {
			b.WriteString(styles.MutedStyle.Render(fmt.Sprintf("  ... %d more", len(m.matches)-maxMatches)) + "\n")
			break
		}
		marker := "  "
		if i == m.matchCursor {
			marker = styles.CursorStyle.Render("> ")
		}
		b.WriteString(marker + highlight(match.Str, match.MatchedIndexes) + "\n")
	}
}

// highlight styles the matched byte offsets of s.
func highlight(s string, matched []int) string {
	set := make(map[int]bool, len(matched))
	for _, i := range matched {
		set[i] = true
	}
	var b strings.Builder
	for i, r := range s {
		if set[i] {
			b.WriteString(styles.MatchStyle.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (m Model) help() string {
	if m.filtering {
		return "↑/↓ choose • enter jump • esc back"
	}
	return "↑/↓ move • ←/→ fold • space toggle • L subtree • E/C all • / find • y copy • r reload • enter select • q quit"
}

// Run shows the browser on stderr until the user selects a node or quits.
func Run(ctx context.Context, opts Options) (Result, error) {
	m := New(ctx, opts)
	defer m.Close()

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithOutput(os.Stderr),
		tea.WithColorProfile(colorprofile.Detect(os.Stderr, os.Environ())),
	)
	final, err := p.Run()
	if err != nil {
		return Result{}, fmt.Errorf("browser: %w", err)
	}
	fm, ok := final.(Model)
	if !ok {
		return Result{Cancelled: true}, nil
	}
	return fm.Result(), nil
}
