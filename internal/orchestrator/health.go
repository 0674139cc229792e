// internal/orchestrator/health.go
package orchestrator

import (
	"context"

	"mcpmanager/internal/config"
	"mcpmanager/internal/constants"
	"mcpmanager/internal/state"
)

// HealthCheck probes every given server and records the results. It is the
// authoritative re-sync point: Cursor entries for healthy servers are
// rewritten without prompting and without touching recorded consent.
func (o *Orchestrator) HealthCheck(ctx context.Context, defs []*config.ServerDefinition) (*Summary, error) {
	snapshot := state.Reconcile(o.store.Load(), defs)

	summary := &Summary{}
	for _, def := range defs {
		snapshot = o.checkServer(ctx, def, snapshot, summary)
	}

	o.store.Save(snapshot)

	return summary, nil
}

func (o *Orchestrator) checkServer(ctx context.Context, def *config.ServerDefinition, snapshot *state.File, summary *Summary) *state.File {
	if def.Transport == config.TransportStdio {
		if !o.validator.Validate(ctx, def, 0) {
			snapshot = state.UpdateStatus(snapshot, def.Name, false, "")
			summary.add(def.Name, false, "health check failed")

			return snapshot
		}

		snapshot = state.UpdateStatus(snapshot, def.Name, false, state.StdioEndpoint(def.Image))
		snapshot = o.syncCursorEntry(def, snapshot, true)
		summary.add(def.Name, true, "healthy (runs on demand)")

		return snapshot
	}

	port := o.statusPort(def, snapshot)

	// The probe runs regardless; a dead container just fails it
	if !o.runtime.IsContainerRunning(ctx, def.Name) {
		o.logger.Debug("No running container for '%s', probing port %d anyway", def.Name, port)
	}

	if !o.validator.Validate(ctx, def, port) {
		snapshot = state.UpdateStatus(snapshot, def.Name, false, "")
		summary.add(def.Name, false, "health check failed")

		return snapshot
	}

	snapshot = state.UpdateStatus(snapshot, def.Name, true, state.HTTPEndpoint(port))
	snapshot = o.syncCursorEntry(def, snapshot, true)
	summary.add(def.Name, true, "healthy")

	return snapshot
}

// statusPort derives the port to probe without ever allocating a new one:
// the recorded endpoint first, then a literal port in the args, then the
// default.
func (o *Orchestrator) statusPort(def *config.ServerDefinition, snapshot *state.File) int {
	if srv := state.GetByName(snapshot, def.Name); srv != nil {
		if port, ok := state.PortFromEndpoint(srv.Endpoint); ok {

			return port
		}
	}
	if port, ok := state.PortFromArgs(def.Args); ok {

		return port
	}

	return constants.DefaultHTTPPort
}
