// internal/cmd/root.go
package cmd

import (
	"github.com/spf13/cobra"
)

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "mcp-manager",
		Short:   "Manage MCP servers as local Docker containers",
		Long:    `MCP-Manager starts, stops and health-checks Model Context Protocol servers running as Docker containers on this workstation, and keeps the Cursor IDE config in sync with what is actually running.`,
		Version: version,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the mcp-manager config file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(NewStartCommand())
	rootCmd.AddCommand(NewStopCommand())
	rootCmd.AddCommand(NewStatusCommand())
	rootCmd.AddCommand(NewHealthCheckCommand())
	rootCmd.AddCommand(NewUpdateCommand())
	rootCmd.AddCommand(NewLogsCommand())
	rootCmd.AddCommand(NewInitCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}
