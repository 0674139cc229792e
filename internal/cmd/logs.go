// internal/cmd/logs.go
package cmd

import (
	"github.com/spf13/cobra"

	"mcpmanager/internal/constants"
)

func NewLogsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs SERVER",
		Short: "Show container logs for an MCP server",
		Long: `Show the container logs of one server.
Examples:
  mcp-manager logs search            # Print the last log lines
  mcp-manager logs search -f         # Follow the log output`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp(cmd)
			if err != nil {

				return err
			}

			defs, err := app.loadDefinitions(args)
			if err != nil {

				return err
			}

			follow, _ := cmd.Flags().GetBool("follow")
			tail, _ := cmd.Flags().GetInt("tail")

			return app.orch.Logs(cmd.Context(), defs[0], follow, tail)
		},
	}

	cmd.Flags().BoolP("follow", "f", false, "Follow log output")
	cmd.Flags().Int("tail", constants.FailureLogTailLines, "Number of lines to show from the end of the logs")

	return cmd
}
