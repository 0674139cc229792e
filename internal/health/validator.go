// internal/health/validator.go
package health

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strings"

	"mcpmanager/internal/config"
	"mcpmanager/internal/constants"
	"mcpmanager/internal/container"
	"mcpmanager/internal/logging"
)

// rpcRequest is the single synthetic JSON-RPC 2.0 request sent per probe
type rpcRequest struct {
	JSONRPC string                 `json:"jsonrpc"`
	ID      int                    `json:"id"`
	Method  string                 `json:"method"`
	Params  map[string]interface{} `json:"params"`
}

// Validator judges server liveness from a single request/response pair.
// Servers without a declared health check are healthy by definition.
type Validator struct {
	runtime container.Runtime
	logger  *logging.Logger
	client  *http.Client
	newID   func() int
}

// NewValidator creates a validator. The runtime is only used for stdio
// probes, which run a throwaway container per check.
func NewValidator(runtime container.Runtime, logger *logging.Logger) *Validator {

	return &Validator{
		runtime: runtime,
		logger:  logger,
		client:  &http.Client{},
		newID:   func() int { return rand.Intn(1_000_000) + 1 },
	}
}

// Validate runs the definition's health check. For http servers the probe is
// POSTed to the given local port; for stdio servers a throwaway container is
// launched with the request on its stdin.
func (v *Validator) Validate(ctx context.Context, def *config.ServerDefinition, port int) bool {
	hc := def.HealthCheck
	if hc == nil {
		// No probe declared: vacuously healthy
		v.logger.Debug("Server '%s' has no health check, assuming healthy", def.Name)

		return true
	}

	req := rpcRequest{JSONRPC: "2.0", ID: v.newID(), Method: hc.Method, Params: hc.Params}
	if req.Params == nil {
		req.Params = map[string]interface{}{}
	}

	if def.Transport == config.TransportStdio {

		return v.validateStdio(ctx, def, req)
	}

	return v.validateHTTP(ctx, def, req, port)
}

func (v *Validator) validateHTTP(ctx context.Context, def *config.ServerDefinition, req rpcRequest, port int) bool {
	hc := def.HealthCheck

	path := hc.Path
	if path == "" {
		path = constants.DefaultSSEPath
	}
	url := fmt.Sprintf("http://localhost:%d%s", port, path)

	body, err := json.Marshal(req)
	if err != nil {
		v.logger.Error("Failed to serialize health request for '%s': %v", def.Name, err)

		return false
	}

	timeout := hc.TimeoutOrDefault(constants.DefaultHTTPHealthTimeout)
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		v.logger.Error("Failed to build health request for '%s': %v", def.Name, err)

		return false
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(httpReq)
	if err != nil {
		v.logger.Info("Health check for '%s' failed: %v", def.Name, err)

		return false
	}
	defer func() { _ = resp.Body.Close() }()

	var payload map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		v.logger.Info("Health check for '%s' returned non-JSON response: %v", def.Name, err)

		return false
	}

	return v.judge(def.Name, hc, payload)
}

func (v *Validator) validateStdio(ctx context.Context, def *config.ServerDefinition, req rpcRequest) bool {
	hc := def.HealthCheck

	body, err := json.Marshal(req)
	if err != nil {
		v.logger.Error("Failed to serialize health request for '%s': %v", def.Name, err)

		return false
	}

	env, err := def.Environment()
	if err != nil {
		v.logger.Warning("Ignoring env file for '%s': %v", def.Name, err)
	}

	timeout := hc.TimeoutOrDefault(constants.DefaultStdioHealthTimeout)
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	output, err := v.runtime.RunOneShot(runCtx, container.OneShotSpec{
		Image: def.Image,
		Args:  def.Args,
		Env:   env,
		Stdin: string(body) + "\n",
	})
	if err != nil {
		v.logger.Info("Health check for '%s' failed: %v", def.Name, err)

		return false
	}

	payload, ok := findResponse(output, req.ID)
	if !ok {
		v.logger.Info("Health check for '%s' produced no response matching id %d", def.Name, req.ID)

		return false
	}

	return v.judge(def.Name, hc, payload)
}

// judge applies the success criteria: no error member, and the configured
// substring, if any, present in the stringified response.
func (v *Validator) judge(name string, hc *config.HealthCheckSpec, payload map[string]interface{}) bool {
	if _, hasError := payload["error"]; hasError {
		v.logger.Info("Health check for '%s' returned an error response", name)

		return false
	}

	if hc.ResponseContains != "" {
		stringified, err := json.Marshal(payload)
		if err != nil || !strings.Contains(string(stringified), hc.ResponseContains) {
			v.logger.Info("Health check response for '%s' does not contain %q", name, hc.ResponseContains)

			return false
		}
	}

	return true
}

// findResponse scans combined container output for the first line that
// parses as JSON and carries the expected request id. Log lines interleaved
// with the response are tolerated.
func findResponse(output string, id int) (map[string]interface{}, bool) {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.HasPrefix(line, "{") {
			continue
		}

		var payload map[string]interface{}
		if err := json.Unmarshal([]byte(line), &payload); err != nil {
			continue
		}

		respID, ok := payload["id"].(float64)
		if !ok || int(respID) != id {
			continue
		}

		return payload, true
	}

	return nil, false
}
