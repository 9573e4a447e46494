package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/ftree/internal/config"
	"github.com/raphi011/ftree/internal/doctor"
)

func newDoctorCmd() *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:     "doctor",
		Short:   "Diagnose and repair issues",
		GroupID: GroupConfig,
		Args:    cobra.NoArgs,
		Long: `Diagnose and repair state and config issues.

Checks:
- State file is valid JSON
- Each root is saved once
- Saved roots exist on disk
- Saved expanded paths exist on disk
- Global and local config files parse`,
		Example: `  ftree doctor          # Check for issues
  ftree doctor --fix    # Auto-fix recoverable issues`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			configPath, _ := config.Path()
			return doctor.Run(ctx, doctor.Options{
				ConfigPath: configPath,
				StatePath:  statePath(globalConfig(ctx)),
				Fix:        fix,
			})
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Auto-fix recoverable issues")

	return cmd
}
