package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/raphi011/ftree/internal/log"
	"github.com/raphi011/ftree/internal/output"
	"github.com/raphi011/ftree/internal/source"
	"github.com/raphi011/ftree/internal/state"
	"github.com/raphi011/ftree/internal/ui/browser"
)

// errNoTerminal is returned when browse runs without a terminal.
var errNoTerminal = errors.New("browse needs an interactive terminal (use 'ftree show' instead)")

type browseOptions struct {
	format string
	copy   bool
}

func newBrowseCmd() *cobra.Command {
	var opts browseOptions

	cmd := &cobra.Command{
		Use:     "browse [path]",
		Short:   "Browse a tree interactively",
		Aliases: []string{"b"},
		GroupID: GroupTree,
		Args:    cobra.MaximumNArgs(1),
		Long: `Browse a directory or document interactively.

Without a path the most recently browsed root is reopened. The expansion
state is saved on exit. Pressing enter prints the selected path to stdout,
so the command composes with the shell:

  cd "$(ftree browse)"

Keys: ↑/↓ move, ←/→ fold, space toggle, L toggle subtree, E/C expand or
collapse all, / find, y copy path, r reload, enter select, q quit.`,
		Example: `  ftree browse               # Reopen the last root
  ftree browse ~/src         # Browse a directory
  ftree browse app.yaml      # Browse a document
  ftree browse --copy .      # Copy the selected path`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !interactive() {
				return errNoTerminal
			}
			return runBrowse(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "auto", "Input format: auto, dir, json, yaml, toml")
	cmd.Flags().BoolVarP(&opts.copy, "copy", "c", false, "Copy the selected path to the clipboard")

	return cmd
}

func interactive() bool {
	for _, f := range []*os.File{os.Stdin, os.Stderr} {
		fd := f.Fd()
		if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
			return false
		}
	}
	return true
}

// browseRoot picks the root to open: args[0] or the most recent saved one,
// falling back to the working directory.
func browseRoot(args []string, st *state.State) (string, error) {
	if len(args) == 0 {
		if recent := st.MostRecent(); recent != "" {
			if _, err := os.Stat(recent); err == nil {
				return recent, nil
			}
		}
	}
	paths, err := absPaths(args)
	if err != nil {
		return "", err
	}
	return paths[0], nil
}

func runBrowse(ctx context.Context, args []string, opts browseOptions) error {
	l := log.FromContext(ctx)
	out := output.FromContext(ctx)

	global := globalConfig(ctx)
	st, err := state.Load(statePath(global))
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	root, err := browseRoot(args, st)
	if err != nil {
		return err
	}
	cfg, err := effectiveConfig(ctx, root)
	if err != nil {
		return err
	}
	format, err := source.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	src, err := source.Open(ctx, root, format, fsOptions(cfg))
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}

	var expanded []string
	if entry, ok := st.Get(root); ok {
		expanded = entry.Expanded
		l.Debug("restoring state", "root", root, "expanded", len(expanded))
	}

	res, err := browser.Run(ctx, browser.Options{
		Source:       src,
		Expanded:     expanded,
		ExpandDepth:  cfg.Tree.ExpandDepth,
		FetchTimeout: cfg.Tree.FetchTimeout,
		Guides:       cfg.Tree.Guides,
		Indent:       cfg.Tree.Indent,
	})
	if err != nil {
		return err
	}

	if err := state.Update(statePath(global), func(s *state.State) error {
		s.Set(root, res.Expanded)
		return nil
	}); err != nil {
		l.Printf("Warning: failed to save state: %v\n", err)
	}

	if res.Cancelled || res.Selected == nil {
		return nil
	}
	if opts.copy {
		if err := clipboard.WriteAll(res.Selected.Path); err != nil {
			return fmt.Errorf("copy: %w", err)
		}
		l.Printf("Copied %s\n", res.Selected.Path)
	}
	out.Println(res.Selected.Path)
	return nil
}
