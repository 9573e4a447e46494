package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/raphi011/ftree/internal/config"
	"github.com/raphi011/ftree/internal/log"
	"github.com/raphi011/ftree/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage ftree configuration.

Global config: ~/.config/ftree/config.toml (or $FTREE_CONFIG)
Local config:  .ftree.toml in a browsed directory ([tree] only)`,
		Example: `  ftree config init          # Create default config
  ftree config show          # Show effective config
  ftree config show ~/src    # Include ~/src/.ftree.toml`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force  bool
		stdout bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default config file",
		Args:  cobra.NoArgs,
		Example: `  ftree config init      # Create config
  ftree config init -f   # Overwrite existing config
  ftree config init -s   # Print config to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			if stdout {
				out.Print(config.DefaultConfig())
				return nil
			}

			path, err := config.Init(force)
			if err != nil {
				return fmt.Errorf("%w (use -f to overwrite)", err)
			}
			log.FromContext(ctx).Printf("Created config file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print config to stdout")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show [dir]",
		Short: "Show effective configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			cfg := globalConfig(ctx)
			var localPath string
			if len(args) == 1 {
				dir, err := filepath.Abs(args[0])
				if err != nil {
					return fmt.Errorf("resolve %s: %w", args[0], err)
				}
				if cfg, err = effectiveConfig(ctx, dir); err != nil {
					return err
				}
				localPath = filepath.Join(dir, config.LocalConfigFileName)
			}

			if jsonOutput {
				enc := json.NewEncoder(out.Writer())
				enc.SetIndent("", "  ")
				return enc.Encode(cfg)
			}

			globalPath, _ := config.Path()
			out.Printf("Global config: %s\n", globalPath)
			if localPath != "" {
				if _, err := os.Stat(localPath); err == nil {
					out.Printf("Local config:  %s\n", localPath)
				} else {
					out.Printf("Local config:  (none)\n")
				}
			}
			out.Println()

			out.Println("[tree]")
			out.Printf("  indent        = %d\n", cfg.Tree.Indent)
			out.Printf("  expand_depth  = %d\n", cfg.Tree.ExpandDepth)
			out.Printf("  max_depth     = %d\n", cfg.Tree.MaxDepth)
			out.Printf("  show_hidden   = %t\n", cfg.Tree.ShowHidden)
			out.Printf("  dirs_first    = %t\n", cfg.Tree.DirsFirst)
			out.Printf("  guides        = %t\n", cfg.Tree.Guides)
			out.Printf("  fetch_timeout = %s\n", cfg.Tree.FetchTimeout)
			out.Println()
			out.Println("[theme]")
			out.Printf("  name     = %q\n", cfg.Theme.Name)
			out.Printf("  mode     = %q\n", cfg.Theme.Mode)
			out.Printf("  nerdfont = %t\n", cfg.Theme.Nerdfont)
			out.Println()
			out.Printf("state_file = %q\n", statePath(cfg))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
