package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/raphi011/ftree/internal/config"
	"github.com/raphi011/ftree/internal/log"
	"github.com/raphi011/ftree/internal/output"
	"github.com/raphi011/ftree/internal/source"
	"github.com/raphi011/ftree/internal/state"
	"github.com/raphi011/ftree/internal/tree"
	"github.com/raphi011/ftree/internal/ui/progress"
	"github.com/raphi011/ftree/internal/ui/static"
)

// spinnerDelay is how long a flatten may run before a spinner appears.
const spinnerDelay = 300 * time.Millisecond

type showOptions struct {
	format   string
	depth    int
	depthSet bool
	all      bool
	collapse []string
	long     bool
	json     bool
	saved    bool
	noGuides bool
}

// RowJSON is the --json shape of a visible row.
type RowJSON struct {
	Path       string     `json:"path"`
	Name       string     `json:"name"`
	Kind       string     `json:"kind"`
	Level      int        `json:"level"`
	Expandable bool       `json:"expandable"`
	Expanded   bool       `json:"expanded,omitempty"`
	Disabled   bool       `json:"disabled,omitempty"`
	Size       int64      `json:"size,omitempty"`
	Modified   *time.Time `json:"modified,omitempty"`
	Value      string     `json:"value,omitempty"`
}

func runShow(ctx context.Context, args []string, opts showOptions) error {
	l := log.FromContext(ctx)
	out := output.FromContext(ctx)

	paths, err := absPaths(args)
	if err != nil {
		return err
	}
	cfg, err := effectiveConfig(ctx, paths[0])
	if err != nil {
		return err
	}
	format, err := source.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	depth := cfg.Tree.ExpandDepth
	if opts.depthSet {
		if opts.depth < 0 {
			return fmt.Errorf("--depth must not be negative, got %d", opts.depth)
		}
		depth = opts.depth
	}

	// Listing below the printed depth is wasted work.
	fsOpts := fsOptions(cfg)
	if !opts.all && !opts.saved {
		switch {
		case depth == 0:
			fsOpts.MaxDepth = source.RootsOnly
		case fsOpts.MaxDepth == 0 || depth < fsOpts.MaxDepth:
			fsOpts.MaxDepth = depth
		}
	}

	forest, err := source.OpenAll(ctx, paths, format, fsOpts)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	roots, err := forest.Roots(ctx)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}

	flattener := source.NewFlattener(forest)
	var flat []source.Row
	err = progress.While("Reading tree...", spinnerDelay, func() error {
		fctx, cancel := context.WithTimeout(ctx, cfg.Tree.FetchTimeout)
		defer cancel()
		var err error
		flat, err = flattener.FlattenContext(fctx, roots)
		return err
	})
	if err != nil {
		return fmt.Errorf("flatten: %w", err)
	}
	l.Debug("flattened", "roots", len(roots), "nodes", len(flat))

	control := source.NewControl()
	control.SetDataNodes(flat)
	if err := applyExpansion(control, cfg, paths, depth, opts); err != nil {
		return err
	}
	visible := flattener.ExpandFlattenedNodes(flat, control)
	l.Debug("expanded", "visible", len(visible), "expanded", len(control.ExpandedKeys()))

	if opts.json {
		return writeRowsJSON(out.Writer(), visible, control)
	}

	treeOpts := static.TreeOptions{
		Indent:   cfg.Tree.Indent,
		Guides:   cfg.Tree.Guides && !opts.noGuides,
		Expanded: control.IsExpanded,
		Links:    out.Styled(),
	}
	if opts.long {
		out.Print(static.RenderLong(visible, treeOpts))
		return nil
	}
	out.Print(static.RenderTree(visible, treeOpts))
	return nil
}

// applyExpansion sets up which nodes are expanded: everything, the saved
// state of each root or everything above depth. --collapse wins over all
// of them.
func applyExpansion(control *tree.FlatTreeControl[source.Row, string], cfg *config.Config, roots []string, depth int, opts showOptions) error {
	switch {
	case opts.all:
		control.ExpandAll()
	case opts.saved:
		st, err := state.Load(statePath(cfg))
		if err != nil {
			return fmt.Errorf("load state: %w", err)
		}
		for _, root := range roots {
			if entry, ok := st.Get(root); ok {
				control.ExpandKeys(entry.Expanded...)
			}
		}
	default:
		control.ExpandToLevel(depth)
	}

	var keys []string
	for _, c := range opts.collapse {
		abs, err := filepath.Abs(c)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", c, err)
		}
		keys = append(keys, abs)
	}
	control.Expansion().Deselect(keys...)
	return nil
}

func writeRowsJSON(w io.Writer, rows []source.Row, control *tree.FlatTreeControl[source.Row, string]) error {
	out := make([]RowJSON, len(rows))
	for i, r := range rows {
		n := r.Node
		out[i] = RowJSON{
			Path:       n.Path,
			Name:       n.Name,
			Kind:       n.Kind.String(),
			Level:      r.Level,
			Expandable: r.Expandable,
			Expanded:   r.Expandable && control.IsExpanded(r),
			Disabled:   !r.Role.Focusable(),
			Size:       n.Size,
			Value:      n.Value,
		}
		if !n.ModTime.IsZero() {
			mod := n.ModTime
			out[i].Modified = &mod
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
