// internal/orchestrator/update.go
package orchestrator

import (
	"context"
	"fmt"

	"mcpmanager/internal/config"
)

// Update pulls the latest image for every given server. It mutates no state
// beyond the local image cache; tallies are reported per transport type.
func (o *Orchestrator) Update(ctx context.Context, defs []*config.ServerDefinition) (*Summary, error) {
	if err := o.EnsureDockerReady(ctx); err != nil {

		return nil, err
	}

	summary := &Summary{}
	tally := map[string]int{}
	for _, def := range defs {
		o.logger.Info("Pulling image '%s' for server '%s'...", def.Image, def.Name)
		if err := o.runtime.PullImage(ctx, def.Image); err != nil {
			summary.add(def.Name, false, fmt.Sprintf("pull failed: %v", err))
			continue
		}
		tally[def.Transport]++
		summary.add(def.Name, true, fmt.Sprintf("updated %s", def.Image))
	}

	for transport, count := range tally {
		o.logger.Info("Updated %d %s server image(s)", count, transport)
	}

	return summary, nil
}
