// internal/orchestrator/logs.go
package orchestrator

import (
	"context"
	"fmt"

	"mcpmanager/internal/config"
)

// Logs prints or streams container logs for one server. Stdio servers leave
// no persistent container behind, so there is nothing to show.
func (o *Orchestrator) Logs(ctx context.Context, def *config.ServerDefinition, stream bool, tail int) error {
	if def.Transport == config.TransportStdio {

		return fmt.Errorf("server '%s' runs on demand and keeps no logs", def.Name)
	}

	if stream {

		return o.runtime.StreamLogs(ctx, def.Name)
	}

	logs, err := o.runtime.GetLogs(ctx, def.Name, tail)
	if err != nil {

		return err
	}
	fmt.Print(logs)

	return nil
}
