// internal/cmd/stop.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewStopCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop [SERVER...]",
		Short: "Stop MCP servers and remove their containers",
		Long: `Stop the enabled MCP servers and remove their containers.
Examples:
  mcp-manager stop                   # Stop every enabled server
  mcp-manager stop search            # Stop a specific server`,
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
					fmt.Printf("would stop %s (%s)\n", def.Name, def.Transport)
				}

				return nil
			}

			summary, err := app.orch.Stop(cmd.Context(), defs)
			if err != nil {

				return err
			}

			return renderSummary(summary)
		},
	}

	cmd.Flags().Bool("dry-run", false, "List the servers that would stop without stopping them")

	return cmd
}
