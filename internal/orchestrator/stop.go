// internal/orchestrator/stop.go
package orchestrator

import (
	"context"
	"fmt"

	"mcpmanager/internal/config"
	"mcpmanager/internal/state"
)

// Stop brings the given servers down, one at a time. Docker unavailability
// is a hard stop with state saved first.
func (o *Orchestrator) Stop(ctx context.Context, defs []*config.ServerDefinition) (*Summary, error) {
	snapshot := state.Reconcile(o.store.Load(), defs)

	if err := o.EnsureDockerReady(ctx); err != nil {
		o.store.Save(snapshot)

		return nil, err
	}

	summary := &Summary{}
	for _, def := range defs {
		snapshot = o.stopServer(ctx, def, snapshot, summary)
	}

	o.store.Save(snapshot)

	return summary, nil
}

func (o *Orchestrator) stopServer(ctx context.Context, def *config.ServerDefinition, snapshot *state.File, summary *Summary) *state.File {
	// Stdio servers only exist for the duration of a call
	if def.Transport == config.TransportStdio {
		summary.add(def.Name, true, "nothing to stop (runs on demand)")

		return snapshot
	}

	o.logger.Info("Stopping server '%s'...", def.Name)
	if err := o.runtime.StopAndRemove(ctx, def.Name); err != nil {
		summary.add(def.Name, false, fmt.Sprintf("failed to stop: %v", err))

		return snapshot
	}

	snapshot = state.UpdateStatus(snapshot, def.Name, false, "")
	snapshot = o.removeCursorEntry(def, snapshot)
	summary.add(def.Name, true, "stopped")

	return snapshot
}

// removeCursorEntry applies the stop-time consent policy: a recorded yes
// removes the entry without asking, a recorded no skips silently, and an
// unset answer prompts once and is persisted either way. This differs from
// the start flow, which never persists a decline.
func (o *Orchestrator) removeCursorEntry(def *config.ServerDefinition, snapshot *state.File) *state.File {
	if !o.cursor.Enabled() {

		return snapshot
	}

	srv := state.GetByName(snapshot, def.Name)
	if srv == nil {

		return snapshot
	}

	if srv.ManageCursorConfig == nil {
		question := fmt.Sprintf("Remove '%s' from the Cursor config when it is stopped?", def.Name)
		answer := o.prompter.Confirm(question, true)
		snapshot = state.SetCursorManaged(snapshot, def.Name, answer)
		if !answer {

			return snapshot
		}
	} else if !*srv.ManageCursorConfig {

		return snapshot
	}

	if o.cursor.Remove([]string{def.Name}) {
		o.logger.Info("Removed Cursor config entry for '%s'", def.Name)
	}

	return snapshot
}
