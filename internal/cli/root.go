// Package cli implements the footprint command line tool.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/carbonsense/backend/internal/config"
	"github.com/carbonsense/backend/internal/service"
)

// NewRootCmd creates the root command of the footprint CLI
func NewRootCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "footprint",
		Short:         "Estimate carbon footprints from the command line",
		Long:          "footprint computes travel, electricity, food and waste emissions with Climatiq, falling back to local factors.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewEstimateCmd(cfg))
	return cmd
}

// newFactorClient returns nil when the CLI must run offline
func newFactorClient(cfg *config.Config, offline bool) service.FactorClient {
	if offline || !cfg.HasClimatiqCredential() {
		return nil
	}
	return service.NewClimatiqClient(cfg.ClimatiqBaseURL, cfg.ClimatiqAPIKey, cfg.ClimatiqRateLimit)
}
