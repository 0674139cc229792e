// internal/cmd/update.go
package cmd

import (
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

func NewUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [SERVER...]",
		Short: "Pull the latest image for MCP servers",
		Long: `Pull the latest container image for each server. Running containers are
left alone; restart a server to pick up the new image.
Examples:
  mcp-manager update                 # Update every enabled server
  mcp-manager update search          # Update a specific server`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp(cmd)
			if err != nil {

				return err
			}

			defs, err := app.loadDefinitions(args)
			if err != nil {

				return err
			}

			s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			s.Suffix = " Pulling images..."
			s.Start()
			summary, err := app.orch.Update(cmd.Context(), defs)
			s.Stop()
			if err != nil {

				return err
			}

			return renderSummary(summary)
		},
	}

	return cmd
}
