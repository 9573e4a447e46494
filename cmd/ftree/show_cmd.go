package main

import (
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	var opts showOptions

	cmd := &cobra.Command{
		Use:     "show [path...]",
		Short:   "Print a tree",
		Aliases: []string{"s"},
		GroupID: GroupTree,
		Long: `Print directories or documents as a tree.

Each path becomes a root. Directories are listed from disk, files are
parsed as JSON, YAML or TOML based on their extension or --format.

Nodes are expanded down to --depth (default from config). Use --all to
expand everything, --saved to reuse the expansion left by 'ftree browse',
and --collapse to fold single nodes.`,
		Example: `  ftree show                       # Current directory
  ftree show -d 3 src              # Three levels deep
  ftree show -a config.yaml        # Whole document
  ftree show --collapse ./vendor   # Fold vendor/
  ftree show -l                    # With kind, size and modification time
  ftree show --json | jq .         # Visible rows as JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.depthSet = cmd.Flags().Changed("depth")
			return runShow(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "auto", "Input format: auto, dir, json, yaml, toml")
	cmd.Flags().IntVarP(&opts.depth, "depth", "d", 0, "Expand nodes down to this depth")
	cmd.Flags().BoolVarP(&opts.all, "all", "a", false, "Expand every node")
	cmd.Flags().StringArrayVar(&opts.collapse, "collapse", nil, "Collapse the node at this path (repeatable)")
	cmd.Flags().BoolVarP(&opts.long, "long", "l", false, "Show kind, size and modification time")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Output visible rows as JSON")
	cmd.Flags().BoolVar(&opts.saved, "saved", false, "Apply the saved expansion state")
	cmd.Flags().BoolVar(&opts.noGuides, "no-guides", false, "Indent instead of drawing guide lines")
	cmd.MarkFlagsMutuallyExclusive("all", "saved")
	cmd.MarkFlagsMutuallyExclusive("long", "json")

	cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "dir", "json", "yaml", "toml"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}
