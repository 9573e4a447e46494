package main

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/raphi011/ftree/internal/log"
	"github.com/raphi011/ftree/internal/output"
	"github.com/raphi011/ftree/internal/state"
	"github.com/raphi011/ftree/internal/ui/prompt"
	"github.com/raphi011/ftree/internal/ui/static"
)

func newStateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "state",
		Short:   "Manage saved expansion state",
		GroupID: GroupState,
		Long: `Manage the expansion state 'ftree browse' saves per root.

The state file defaults to ~/.ftree/state.json and can be moved with
state_file in the config.`,
		Example: `  ftree state list           # Show saved roots
  ftree state clear ~/src    # Forget one root
  ftree state clear          # Forget everything
  ftree state clear -y       # ... without asking
  ftree state prune          # Drop roots that no longer exist`,
	}

	cmd.AddCommand(newStateListCmd())
	cmd.AddCommand(newStateClearCmd())
	cmd.AddCommand(newStatePruneCmd())

	return cmd
}

func newStateListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List saved roots",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			st, err := state.Load(statePath(globalConfig(ctx)))
			if err != nil {
				return fmt.Errorf("load state: %w", err)
			}
			entries := st.Sorted()

			if jsonOutput {
				enc := json.NewEncoder(out.Writer())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			if len(entries) == 0 {
				out.Println("No saved state")
				return nil
			}

			cols := []static.Column{
				{Header: "ROOT"},
				{Header: "EXPANDED", Right: true},
				{Header: "OPENED", Right: true},
				{Header: "LAST ACCESS"},
			}
			rows := make([][]string, len(entries))
			for i, e := range entries {
				rows[i] = []string{
					e.Root,
					humanize.Comma(int64(len(e.Expanded))),
					strconv.Itoa(e.AccessCount) + "x",
					humanize.Time(e.LastAccess),
				}
			}
			out.Print(static.RenderTable(cols, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newStateClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear [root]",
		Short: "Forget saved state",
		Args:  cobra.MaximumNArgs(1),
		Long: `Forget the saved state of one root, or of all roots when none is
given. Clearing all roots asks for confirmation on a terminal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			var root string
			if len(args) == 1 {
				abs, err := filepath.Abs(args[0])
				if err != nil {
					return fmt.Errorf("resolve %s: %w", args[0], err)
				}
				root = abs
			}

			path := statePath(globalConfig(ctx))
			if root == "" && !yes && interactive() {
				ok, err := confirmClearAll(ctx, path)
				if err != nil || !ok {
					return err
				}
			}

			var cleared int
			err := state.Update(path, func(s *state.State) error {
				if root == "" {
					cleared = len(s.Entries)
					s.Entries = nil
					return nil
				}
				if !s.Remove(root) {
					return fmt.Errorf("no saved state for %s", root)
				}
				cleared = 1
				return nil
			})
			if err != nil {
				return err
			}

			l.Printf("Cleared %d saved root(s)\n", cleared)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

// confirmClearAll asks before forgetting every root. Nothing saved means
// nothing to ask.
func confirmClearAll(ctx context.Context, path string) (bool, error) {
	st, err := state.Load(path)
	if err != nil {
		return false, fmt.Errorf("load state: %w", err)
	}
	if len(st.Entries) == 0 {
		return true, nil
	}
	res, err := prompt.Confirm(ctx, fmt.Sprintf("Clear saved state of all %d roots?", len(st.Entries)))
	if err != nil {
		return false, err
	}
	if !res.Confirmed {
		log.FromContext(ctx).Println("Aborted")
	}
	return res.Confirmed, nil
}

func newStatePruneCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Drop state of roots that no longer exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)
			path := statePath(globalConfig(ctx))

			var removed []string
			if dryRun {
				st, err := state.Load(path)
				if err != nil {
					return fmt.Errorf("load state: %w", err)
				}
				removed = st.RemoveStale()
			} else {
				err := state.Update(path, func(s *state.State) error {
					removed = s.RemoveStale()
					return nil
				})
				if err != nil {
					return err
				}
			}

			if len(removed) == 0 {
				l.Println("Nothing to prune")
				return nil
			}
			for _, root := range removed {
				out.Println(root)
			}
			verb := "Pruned"
			if dryRun {
				verb = "Would prune"
			}
			l.Printf("%s %d root(s)\n", verb, len(removed))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Only list what would be removed")

	return cmd
}
