package cli

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/fieldlog/fieldlog/internal/app"
	infraConfig "github.com/fieldlog/fieldlog/internal/infra/config"
)

// NewRoot builds the fieldlog command tree
func NewRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fieldlog",
		Short:         "Field operations logbook",
		Long:          "fieldlog tracks field operation cycles: displacement, mobilization,\nthe operation itself with its sub-events, and demobilization.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Configure logging before any command runs; a missing or
			// broken setting.json falls back to defaults
			paths := app.ResolvePaths()
			if cfg, err := infraConfig.LoadSettings(afero.NewOsFs(), paths.Home); err == nil {
				InitGlobalLogger(cfg.StderrLevel())
			}
			return nil
		},
		RunE: func(c *cobra.Command, _ []string) error { return c.Help() },
	}

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newDisplacementCmd())
	cmd.AddCommand(newMobilizationCmd())
	cmd.AddCommand(newOperationCmd())
	cmd.AddCommand(newWaitingCmd())
	cmd.AddCommand(newLunchCmd())
	cmd.AddCommand(newRefuelingCmd())
	cmd.AddCommand(newDemobilizationCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newReportCmd())
	cmd.AddCommand(newSyncCmd())
	cmd.AddCommand(newProfileCmd())
	cmd.AddCommand(newClearCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}
