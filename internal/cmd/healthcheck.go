// internal/cmd/healthcheck.go
package cmd

import (
	"github.com/spf13/cobra"
)

func NewHealthCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "healthcheck [SERVER...]",
		Aliases: []string{"health-check"},
		Short:   "Probe MCP servers and re-sync recorded state",
		Long: `Probe each server's health endpoint, update the recorded state and
rewrite the Cursor config entries of healthy servers.
Examples:
  mcp-manager healthcheck            # Check every enabled server
  mcp-manager healthcheck search     # Check a specific server`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp(cmd)
			if err != nil {

				return err
			}

			defs, err := app.loadDefinitions(args)
			if err != nil {

				return err
			}

			summary, err := app.orch.HealthCheck(cmd.Context(), defs)
			if err != nil {

				return err
			}

			return renderSummary(summary)
		},
	}

	return cmd
}
