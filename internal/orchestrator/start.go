// internal/orchestrator/start.go
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mcpmanager/internal/config"
	"mcpmanager/internal/constants"
	"mcpmanager/internal/container"
	"mcpmanager/internal/state"
)

// Start brings the given servers up, one at a time. Docker unavailability is
// a hard stop; per-server failures are aggregated into the summary. State is
// saved even when bailing early.
func (o *Orchestrator) Start(ctx context.Context, defs []*config.ServerDefinition) (*Summary, error) {
	snapshot := state.Reconcile(o.store.Load(), defs)

	if err := o.EnsureDockerReady(ctx); err != nil {
		o.store.Save(snapshot)

		return nil, err
	}

	summary := &Summary{}
	for _, def := range defs {
		o.logger.Info("Starting server '%s'...", def.Name)
		snapshot = o.startServer(ctx, def, snapshot, summary)
	}

	o.store.Save(snapshot)

	return summary, nil
}

func (o *Orchestrator) startServer(ctx context.Context, def *config.ServerDefinition, snapshot *state.File, summary *Summary) *state.File {
	if def.Transport == config.TransportStdio {

		return o.startStdioServer(ctx, def, snapshot, summary)
	}

	return o.startHTTPServer(ctx, def, snapshot, summary)
}

// startStdioServer validates the server once via a throwaway container.
// Stdio servers have no steady state: they are recorded offline even on
// success, with the descriptor endpoint updated.
func (o *Orchestrator) startStdioServer(ctx context.Context, def *config.ServerDefinition, snapshot *state.File, summary *Summary) *state.File {
	if !o.validator.Validate(ctx, def, 0) {
		snapshot = state.UpdateStatus(snapshot, def.Name, false, "")
		summary.add(def.Name, false, "health check failed")

		return snapshot
	}

	snapshot = state.UpdateStatus(snapshot, def.Name, false, state.StdioEndpoint(def.Image))
	snapshot = o.syncCursorEntry(def, snapshot, false)
	summary.add(def.Name, true, "validated (runs on demand)")
	o.printInstructions(def)

	return snapshot
}

func (o *Orchestrator) startHTTPServer(ctx context.Context, def *config.ServerDefinition, snapshot *state.File, summary *Summary) *state.File {
	port, err := o.resolvePort(def)
	if err != nil {
		summary.add(def.Name, false, err.Error())

		return snapshot
	}
	endpoint := state.HTTPEndpoint(port)

	// Something already answering on the port is either our server from an
	// earlier run or a stranger; the health check tells them apart.
	if o.validator.IsPortOpen(ctx, "localhost", port) {
		if o.validator.Validate(ctx, def, port) {
			snapshot = state.UpdateStatus(snapshot, def.Name, true, endpoint)
			snapshot = o.syncCursorEntry(def, snapshot, false)
			summary.add(def.Name, true, fmt.Sprintf("already running on port %d", port))
			o.printInstructions(def)

			return snapshot
		}
		summary.add(def.Name, false, fmt.Sprintf("a different server is already listening on port %d", port))

		return snapshot
	}

	// A running container that does not answer its port gets judged by the
	// health check rather than restarted.
	if o.runtime.IsContainerRunning(ctx, def.Name) {
		healthy := o.validator.Validate(ctx, def, port)
		if healthy {
			snapshot = state.UpdateStatus(snapshot, def.Name, true, endpoint)
			snapshot = o.syncCursorEntry(def, snapshot, false)
			summary.add(def.Name, true, "container already running")
			o.printInstructions(def)
		} else {
			snapshot = state.UpdateStatus(snapshot, def.Name, false, "")
			summary.add(def.Name, false, "container is running but failed its health check")
		}

		return snapshot
	}

	// Idempotent cleanup of any stale, stopped container with our name
	if err := o.runtime.StopAndRemove(ctx, def.Name); err != nil {
		o.logger.Warning("Failed to clean up stale container '%s': %v", def.Name, err)
	}

	env, err := def.Environment()
	if err != nil {
		o.logger.Warning("Starting '%s' without its env file: %v", def.Name, err)
	}

	result := o.runtime.RunContainer(ctx, container.ContainerSpec{
		Name:  def.Name,
		Image: def.Image,
		Args:  def.Args,
		Env:   env,
		Ports: []string{fmt.Sprintf("%d:%d", port, port)},
	})
	if !result.Success {
		o.failStartedServer(ctx, def.Name)
		snapshot = state.UpdateStatus(snapshot, def.Name, false, "")
		summary.add(def.Name, false, fmt.Sprintf("container failed to start: %s", result.Error))

		return snapshot
	}

	if !o.waitForPort(ctx, port) {
		o.failStartedServer(ctx, def.Name)
		snapshot = state.UpdateStatus(snapshot, def.Name, false, "")
		summary.add(def.Name, false, fmt.Sprintf("server did not become available on port %d", port))

		return snapshot
	}

	if !o.validator.Validate(ctx, def, port) {
		o.failStartedServer(ctx, def.Name)
		snapshot = state.UpdateStatus(snapshot, def.Name, false, "")
		summary.add(def.Name, false, "health check failed after start")

		return snapshot
	}

	snapshot = state.UpdateStatus(snapshot, def.Name, true, endpoint)
	snapshot = o.syncCursorEntry(def, snapshot, false)
	summary.add(def.Name, true, fmt.Sprintf("running on port %d", port))
	o.printInstructions(def)

	return snapshot
}

// waitForPort polls for the container's port to answer during boot
func (o *Orchestrator) waitForPort(ctx context.Context, port int) bool {
	for i := 0; i < o.bootPollAttempts; i++ {
		select {
		case <-ctx.Done():

			return false
		case <-time.After(o.bootPollInterval):
		}
		if o.validator.IsPortOpen(ctx, "localhost", port) {

			return true
		}
		o.logger.Debug("Waiting for port %d (attempt %d/%d)", port, i+1, o.bootPollAttempts)
	}

	return false
}

// failStartedServer surfaces the container's last log lines and tears it
// down so the next attempt starts clean
func (o *Orchestrator) failStartedServer(ctx context.Context, name string) {
	if logs, err := o.runtime.GetLogs(ctx, name, constants.FailureLogTailLines); err == nil {
		if trimmed := strings.TrimSpace(logs); trimmed != "" {
			o.logger.Info("Last log lines from '%s':\n%s", name, trimmed)
		}
	}
	if err := o.runtime.StopAndRemove(ctx, name); err != nil {
		o.logger.Warning("Failed to remove container '%s' after failed start: %v", name, err)
	}
}

func (o *Orchestrator) printInstructions(def *config.ServerDefinition) {
	if def.PostStartInstructions == "" {

		return
	}
	fmt.Printf("\n%s\n", strings.TrimSpace(def.PostStartInstructions))
}
