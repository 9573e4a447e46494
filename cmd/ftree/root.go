package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raphi011/ftree/internal/config"
	"github.com/raphi011/ftree/internal/log"
	"github.com/raphi011/ftree/internal/output"
	"github.com/raphi011/ftree/internal/ui/styles"
)

// Command group IDs for organizing help output
const (
	GroupTree   = "tree"
	GroupState  = "state"
	GroupConfig = "config"
)

// newRootCmd builds the command tree around cfg.
func newRootCmd(cfg *config.Config) *cobra.Command {
	var (
		verbose bool
		quiet   bool
	)

	cmd := &cobra.Command{
		Use:   "ftree",
		Short: "Browse directories and structured documents as trees",
		Long: `ftree shows directory trees and JSON, YAML or TOML documents as
expandable trees, either printed or in an interactive browser.

Expansion state of browsed roots is remembered, so a tree reopens the way
it was left.`,
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose && quiet {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			// Diagnostics to stderr, data to stdout.
			ctx = log.WithLogger(ctx, log.New(cmd.ErrOrStderr(), verbose, quiet))
			ctx = output.WithTerminalPrinter(ctx, cmd.OutOrStdout())
			ctx = config.WithConfig(ctx, cfg)
			ctx = config.WithResolver(ctx, config.NewResolver(cfg))
			cmd.SetContext(ctx)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log fetches and timings")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.Version = versionString()
	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.AddGroup(
		&cobra.Group{ID: GroupTree, Title: "Tree Commands:"},
		&cobra.Group{ID: GroupState, Title: "State Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newBrowseCmd())
	cmd.AddCommand(newStateCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newCompletionCmd())

	return cmd
}

// Execute loads the config and runs the root command.
func Execute() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	styles.Init(cfg.Theme)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(&cfg).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'ftree -h' for help")
		cancel()
		os.Exit(1)
	}
}
