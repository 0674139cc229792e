// internal/health/portcheck.go
package health

import (
	"context"
	"fmt"
	"net/http"

	"mcpmanager/internal/constants"
)

// IsPortOpen is the fast liveness signal used before and instead of full
// health validation: any HTTP response at all, error statuses included,
// means something answers on the port. It says nothing about whether that
// something is the server we want.
func (v *Validator) IsPortOpen(ctx context.Context, host string, port int) bool {
	reqCtx, cancel := context.WithTimeout(ctx, constants.DefaultPortProbeTimeout)
	defer cancel()

	url := fmt.Sprintf("http://%s:%d/", host, port)
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {

		return false
	}

	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.Debug("Port probe %s failed: %v", url, err)

		return false
	}
	_ = resp.Body.Close()

	return true
}
