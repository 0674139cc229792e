// internal/cmd/start.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewStartCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start [SERVER...]",
		Short: "Start MCP servers and record their endpoints",
		Long: `Start the enabled MCP servers, one at a time, waiting for each to pass
its health check before moving on.
Examples:
  mcp-manager start                  # Start every enabled server
  mcp-manager start search notes     # Start specific servers
  mcp-manager start --dry-run        # Show what would be started`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp(cmd)
			if err != nil {

				return err
			}

			defs, err := app.loadDefinitions(args)
			if err != nil {

				return err
			}

			dryRun, _ := cmd.Flags().GetBool("dry-run")
			if dryRun {
				for _, def := range defs {
					fmt.Printf("would start %s (%s, image %s)\n", def.Name, def.Transport, def.Image)
				}

				return nil
			}

			summary, err := app.orch.Start(cmd.Context(), defs)
			if err != nil {

				return err
			}

			return renderSummary(summary)
		},
	}

	cmd.Flags().Bool("dry-run", false, "List the servers that would start without starting them")

	return cmd
}
