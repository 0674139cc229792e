// internal/cmd/init.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"mcpmanager/internal/config"
)

func NewInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write an example server definition",
		Long:  `Create the definitions directory and write an example server definition into it as a starting point.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp(cmd)
			if err != nil {

				return err
			}

			if err := config.WriteExampleDefinition(app.cfg.DefinitionsDir); err != nil {

				return err
			}
			fmt.Printf("Wrote an example server definition to %s\n", app.cfg.DefinitionsDir)

			return nil
		},
	}

	return cmd
}
