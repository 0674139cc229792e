// internal/cmd/app.go
package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mcpmanager/internal/config"
	"mcpmanager/internal/container"
	"mcpmanager/internal/cursor"
	"mcpmanager/internal/health"
	"mcpmanager/internal/logging"
	"mcpmanager/internal/orchestrator"
	"mcpmanager/internal/prompt"
	"mcpmanager/internal/state"
)

// app bundles the wired collaborators every subcommand needs
type app struct {
	cfg    config.Config
	logger *logging.Logger
	orch   *orchestrator.Orchestrator
}

// buildApp resolves configuration from the persistent flags and wires the
// orchestrator and its collaborators
func buildApp(cmd *cobra.Command) (*app, error) {
	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := config.LoadConfig(configPath)
	if err != nil {

		return nil, err
	}

	level := cfg.LogLevel
	if verbose {
		level = "DEBUG"
	}
	logger := logging.NewLogger(level)

	runtime := container.NewDockerRuntime(logger)
	store := state.NewStore(cfg.StateFile, logger)
	cursorMgr := cursor.NewManager(cfg.CursorConfig, logger)
	validator := health.NewValidator(runtime, logger)
	prompter := prompt.NewConsolePrompter()

	return &app{
		cfg:    cfg,
		logger: logger,
		orch:   orchestrator.New(runtime, store, cursorMgr, validator, prompter, logger),
	}, nil
}

// loadDefinitions loads the enabled server definitions, narrowed to the
// given names when any were passed on the command line
func (a *app) loadDefinitions(names []string) ([]*config.ServerDefinition, error) {
	defs, err := config.LoadDefinitions(a.cfg.DefinitionsDir, a.cfg.Enabled)
	if err != nil {

		return nil, err
	}
	if len(names) > 0 {

		return config.SelectDefinitions(defs, names)
	}

	return defs, nil
}

// renderSummary prints per-server results and returns an error when any
// server failed, so the process exits non-zero
func renderSummary(summary *orchestrator.Summary) error {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	for _, r := range summary.Results {
		mark := green("✓")
		if !r.Success {
			mark = red("✗")
		}
		fmt.Printf("%s %s: %s\n", mark, r.Name, r.Message)
	}

	if !summary.OK() {

		return fmt.Errorf("%d of %d server(s) failed", summary.Failed(), len(summary.Results))
	}

	return nil
}
