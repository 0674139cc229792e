// internal/orchestrator/orchestrator.go
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"mcpmanager/internal/config"
	"mcpmanager/internal/constants"
	"mcpmanager/internal/container"
	"mcpmanager/internal/cursor"
	"mcpmanager/internal/logging"
	"mcpmanager/internal/prompt"
	"mcpmanager/internal/state"
	"mcpmanager/pkg/utils"
)

// Validator is the liveness-judging capability the orchestrator needs;
// health.Validator implements it.
type Validator interface {
	Validate(ctx context.Context, def *config.ServerDefinition, port int) bool
	IsPortOpen(ctx context.Context, host string, port int) bool
}

// Orchestrator drives server lifecycle workflows over the Docker adapter,
// the state store, the health validator and the Cursor config. Servers in a
// batch are processed strictly one at a time, in order; a per-server failure
// never aborts the batch.
type Orchestrator struct {
	runtime   container.Runtime
	store     *state.Store
	cursor    *cursor.Manager
	validator Validator
	prompter  prompt.Prompter
	logger    *logging.Logger

	// swappable for tests
	allocatePort     func() (int, error)
	bootPollAttempts int
	bootPollInterval time.Duration
}

// New wires an orchestrator from its collaborators
func New(runtime container.Runtime, store *state.Store, cursorMgr *cursor.Manager,
	validator Validator, prompter prompt.Prompter, logger *logging.Logger) *Orchestrator {

	return &Orchestrator{
		runtime:          runtime,
		store:            store,
		cursor:           cursorMgr,
		validator:        validator,
		prompter:         prompter,
		logger:           logger,
		allocatePort:     utils.FreePort,
		bootPollAttempts: constants.BootPollAttempts,
		bootPollInterval: constants.BootPollInterval,
	}
}

// Result is the outcome of one server's operation
type Result struct {
	Name    string
	Success bool
	Message string
}

// Summary aggregates per-server results for the final report
type Summary struct {
	Results []Result
}

func (s *Summary) add(name string, success bool, message string) {
	s.Results = append(s.Results, Result{Name: name, Success: success, Message: message})
}

// Succeeded counts successful results
func (s *Summary) Succeeded() int {
	n := 0
	for _, r := range s.Results {
		if r.Success {
			n++
		}
	}

	return n
}

// Failed counts failed results
func (s *Summary) Failed() int {

	return len(s.Results) - s.Succeeded()
}

// OK reports whether every server succeeded
func (s *Summary) OK() bool {

	return s.Failed() == 0
}

// EnsureDockerReady verifies docker is installed and its daemon answers,
// attempting a best-effort daemon start when it does not. A failure here is
// a hard stop for the whole command.
func (o *Orchestrator) EnsureDockerReady(ctx context.Context) error {
	if !o.runtime.IsInstalled(ctx) {

		return fmt.Errorf("docker is not installed (see https://docs.docker.com/get-docker/)")
	}

	if o.runtime.IsDaemonRunning(ctx) {

		return nil
	}

	o.logger.Info("Docker daemon is not running, attempting to start it")
	if err := o.runtime.StartDaemon(ctx); err != nil {

		return fmt.Errorf("docker daemon is not running: %w", err)
	}

	return nil
}

// resolvePort returns the server's port: a literal --port from its args, or
// a freshly allocated free port injected into the in-memory args. The
// mutation is deliberate; later calls in this invocation see the assigned
// port.
func (o *Orchestrator) resolvePort(def *config.ServerDefinition) (int, error) {
	if port, ok := state.PortFromArgs(def.Args); ok {

		return port, nil
	}

	port, err := o.allocatePort()
	if err != nil {

		return 0, fmt.Errorf("failed to allocate a port for '%s': %w", def.Name, err)
	}

	def.Args = append(def.Args, "--port", fmt.Sprintf("%d", port))
	o.logger.Debug("Assigned port %d to server '%s'", port, def.Name)

	return port, nil
}

// desiredEntry computes the Cursor entry a server should have given its
// current state
func desiredEntry(def *config.ServerDefinition, srv *state.ServerState) cursor.ServerEntry {
	if def.Transport == config.TransportStdio {

		return cursor.StdioEntry(def.Image, def.Args, def.EnvFile)
	}

	return cursor.HTTPEntry(srv.Endpoint)
}

// syncCursorEntry implements the IDE config update sub-protocol: diff the
// desired entry against the existing one, skip silently when unchanged, and
// otherwise ask for consent unless it was recorded earlier or the caller
// forces the write. A start-time decline skips this run only; it is never
// persisted as "never ask again".
func (o *Orchestrator) syncCursorEntry(def *config.ServerDefinition, snapshot *state.File, force bool) *state.File {
	if !o.cursor.Enabled() {
		o.logger.Debug("No Cursor config path set, skipping IDE sync for '%s'", def.Name)

		return snapshot
	}

	srv := state.GetByName(snapshot, def.Name)
	if srv == nil {

		return snapshot
	}

	desired := desiredEntry(def, srv)
	if existing, ok := o.cursor.GetServers()[def.Name]; ok && existing.Equal(desired) {
		o.logger.Debug("Cursor entry for '%s' is already up to date", def.Name)

		return snapshot
	}

	if force {
		o.cursor.AddOrUpdate(map[string]cursor.ServerEntry{def.Name: desired})

		return snapshot
	}

	consented := srv.ManageCursorConfig != nil && *srv.ManageCursorConfig
	if !consented {
		question := fmt.Sprintf("Update Cursor config entry for '%s'?", def.Name)
		if !o.prompter.Confirm(question, true) {
			o.logger.Info("Skipping Cursor config update for '%s'", def.Name)

			return snapshot
		}
		snapshot = state.SetCursorManaged(snapshot, def.Name, true)
	}

	if o.cursor.AddOrUpdate(map[string]cursor.ServerEntry{def.Name: desired}) {
		o.logger.Info("Updated Cursor config entry for '%s'", def.Name)
	}

	return snapshot
}
