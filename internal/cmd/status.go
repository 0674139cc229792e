// internal/cmd/status.go
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"mcpmanager/internal/config"
	"mcpmanager/internal/constants"
)

func NewStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [SERVER...]",
		Short: "Show the live and recorded state of MCP servers",
		Long: `Show each server's container state, recorded endpoint and last known
health. Read-only: nothing is started, stopped or saved.
Examples:
  mcp-manager status                 # One-off report
  mcp-manager status --watch         # Re-render whenever state changes on disk`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp(cmd)
			if err != nil {

				return err
			}

			defs, err := app.loadDefinitions(args)
			if err != nil {

				return err
			}

			watch, _ := cmd.Flags().GetBool("watch")
			if !watch {

				return renderStatus(cmd.Context(), app, defs)
			}

			return watchStatus(cmd.Context(), app, defs)
		},
	}

	cmd.Flags().BoolP("watch", "w", false, "Keep running and re-render when the state or Cursor config changes")

	return cmd
}

func renderStatus(ctx context.Context, app *app, defs []*config.ServerDefinition) error {
	statuses := app.orch.Status(ctx, defs)

	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	titler := cases.Title(language.English)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTRANSPORT\tRUNNING\tHEALTH\tENDPOINT")
	for _, s := range statuses {
		running := red(titler.String("no"))
		if s.Running {
			running = green(titler.String("yes"))
		}
		if s.Transport == config.TransportStdio {
			running = yellow(titler.String("on demand"))
		}

		healthWord := titler.String("offline")
		health := red(healthWord)
		if s.Online {
			healthWord = titler.String("online")
			health = green(healthWord)
		}

		endpoint := s.Endpoint
		if endpoint == "" {
			endpoint = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", s.Name, s.Transport, running, health, endpoint)
	}
	if err := w.Flush(); err != nil {

		return err
	}

	if updated, at := app.orch.LastUpdated(); updated {
		fmt.Printf("\nState last updated: %s\n", at)
	}

	return nil
}

// watchStatus re-renders whenever the state file or the Cursor config
// changes on disk. Events are debounced; editors and the manager itself both
// write via rename, so the parent directories are watched rather than the
// files.
func watchStatus(ctx context.Context, app *app, defs []*config.ServerDefinition) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {

		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	watched := map[string]bool{}
	for _, path := range []string{app.cfg.StateFile, app.cfg.CursorConfig} {
		if path == "" {
			continue
		}
		dir := filepath.Dir(path)
		if watched[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			app.logger.Warning("Cannot watch '%s': %v", dir, err)
			continue
		}
		watched[dir] = true
	}
	if len(watched) == 0 {

		return fmt.Errorf("no watchable state paths configured")
	}

	if err := renderStatus(ctx, app, defs); err != nil {

		return err
	}

	debounce := time.NewTimer(constants.WatchDebounce)
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		select {
		case <-ctx.Done():

			return nil
		case event, ok := <-watcher.Events:
			if !ok {

				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			debounce.Reset(constants.WatchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {

				return nil
			}
			app.logger.Warning("File watcher error: %v", err)
		case <-debounce.C:
			fmt.Println()
			if err := renderStatus(ctx, app, defs); err != nil {

				return err
			}
		}
	}
}
