package static

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/raphi011/ftree/internal/source"
	"github.com/raphi011/ftree/internal/tree"
	"github.com/raphi011/ftree/internal/ui/styles"
)

// TreeOptions controls how rows are drawn.
type TreeOptions struct {
	// Indent is the number of spaces per level when Guides is off.
	Indent int
	// Guides draws connector lines between siblings.
	Guides bool
	// Expanded reports whether an expandable row is expanded. Nil means
	// every expandable row is drawn collapsed.
	Expanded func(source.Row) bool
	// Links wraps file and directory names in OSC 8 hyperlinks.
	Links bool
}

// RenderTree renders a visible sequence, one row per line.
func RenderTree(rows []source.Row, opts TreeOptions) string {
	var b strings.Builder
	for _, line := range treeLines(rows, opts) {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

var longColumns = []Column{
	{Header: "NAME"},
	{Header: "KIND"},
	{Header: "SIZE", Right: true},
	{Header: "MODIFIED"},
}

// RenderLong renders rows as a table with kind, size and modification
// time columns.
func RenderLong(rows []source.Row, opts TreeOptions) string {
	lines := treeLines(rows, opts)
	table := make([][]string, len(rows))
	for i, r := range rows {
		table[i] = []string{lines[i], r.Node.Kind.String(), size(r.Node), modified(r.Node)}
	}
	return RenderTable(longColumns, table)
}

func treeLines(rows []source.Row, opts TreeOptions) []string {
	var branches []tree.Branch
	if opts.Guides {
		branches = tree.Branches(rows, source.Level)
	}
	indent := opts.Indent
	if indent <= 0 {
		indent = 2
	}

	lines := make([]string, len(rows))
	for i, r := range rows {
		var b strings.Builder
		if opts.Guides {
			b.WriteString(styles.GuideStyle.Render(Guide(branches[i])))
		} else {
			b.WriteString(strings.Repeat(" ", indent*r.Level))
		}
		b.WriteString(Label(r, opts.Expanded != nil && opts.Expanded(r), opts.Links))
		lines[i] = b.String()
	}
	return lines
}

// Guide returns the connector prefix for a row, e.g. "│   ├── ". Roots
// have none.
func Guide(br tree.Branch) string {
	if len(br.Open) == 0 {
		return ""
	}
	sym := styles.CurrentSymbols()
	var b strings.Builder
	for _, open := range br.Open[1:] {
		if open {
			b.WriteString(sym.GuideVert)
		} else {
			b.WriteString(sym.GuideSpace)
		}
	}
	if br.Last {
		b.WriteString(sym.GuideLast)
	} else {
		b.WriteString(sym.GuideBranch)
	}
	return b.String()
}

// Label renders the expander, icon and name of a row.
func Label(r source.Row, expanded, links bool) string {
	n := r.Node
	var b strings.Builder
	b.WriteString(styles.GuideStyle.Render(styles.Expander(r.Expandable, expanded)))
	b.WriteString(" ")
	if icon := styles.KindIcon(n.Kind.String()); icon != "" {
		b.WriteString(icon + " ")
	}

	style := styles.FileStyle
	switch {
	case n.Unreadable:
		style = styles.MutedStyle
	case r.Expandable:
		style = styles.DirStyle
	}

	link := ""
	if links && (n.Kind == source.Dir || n.Kind == source.File) {
		link = n.Path
	}
	b.WriteString(styles.Hyperlink(n.Name, link, style))

	switch n.Kind {
	case source.Value:
		b.WriteString(styles.MutedStyle.Render(": "))
		b.WriteString(styles.ValueStyle.Render(n.Value))
	case source.Symlink:
		if n.Value != "" {
			b.WriteString(styles.MutedStyle.Render(" -> " + n.Value))
		}
	}
	return b.String()
}

func size(n *source.Node) string {
	switch n.Kind {
	case source.File, source.Symlink:
		return humanize.IBytes(uint64(n.Size))
	case source.Object, source.Array:
		if n.Size == 1 {
			return "1 item"
		}
		return fmt.Sprintf("%s items", humanize.Comma(n.Size))
	}
	return ""
}

func modified(n *source.Node) string {
	if n.ModTime.IsZero() {
		return ""
	}
	return humanize.Time(n.ModTime)
}
