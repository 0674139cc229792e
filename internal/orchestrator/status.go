// internal/orchestrator/status.go
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"mcpmanager/internal/config"
	"mcpmanager/internal/state"
	"mcpmanager/pkg/utils"
)

// ServerStatus is one row of the status report
type ServerStatus struct {
	Name      string
	Transport string
	Running   bool
	Online    bool
	Endpoint  string
}

// Status reports the live and last-recorded state of the given servers. It
// is read-only: no state is saved and no port is ever allocated just to
// answer a status question.
func (o *Orchestrator) Status(ctx context.Context, defs []*config.ServerDefinition) []ServerStatus {
	snapshot := state.Reconcile(o.store.Load(), defs)

	statuses := make([]ServerStatus, 0, len(defs))
	for _, def := range defs {
		srv := state.GetByName(snapshot, def.Name)

		status := ServerStatus{
			Name:      def.Name,
			Transport: def.Transport,
			Running:   o.isServerRunning(ctx, def, srv),
		}
		if srv != nil {
			status.Online = srv.Online
			status.Endpoint = srv.Endpoint
		}

		statuses = append(statuses, status)
	}

	return statuses
}

// isServerRunning checks ground truth for http servers: the named container
// first, then whatever port the recorded endpoint or the args point at.
// Stdio servers are on-demand and always report not running.
func (o *Orchestrator) isServerRunning(ctx context.Context, def *config.ServerDefinition, srv *state.ServerState) bool {
	if def.Transport == config.TransportStdio {

		return false
	}

	if o.runtime.IsContainerRunning(ctx, def.Name) {

		return true
	}

	if srv != nil {
		if port, ok := state.PortFromEndpoint(srv.Endpoint); ok {

			return o.validator.IsPortOpen(ctx, "localhost", port)
		}
	}

	if port, ok := state.PortFromArgs(def.Args); ok {

		return o.validator.IsPortOpen(ctx, "localhost", port)
	}

	return false
}

// LastUpdated exposes the snapshot timestamp for status rendering
func (o *Orchestrator) LastUpdated() (updated bool, at string) {
	f := o.store.Load()
	if f.UpdatedOn.IsZero() {

		return false, ""
	}

	return true, fmt.Sprintf("%s (%s ago)", f.UpdatedOn.Format("2006-01-02 15:04:05"), utils.FormatDuration(time.Since(f.UpdatedOn)))
}
