// internal/state/endpoints.go
package state

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"mcpmanager/internal/config"
	"mcpmanager/internal/constants"
)

// HTTPEndpoint returns the canonical endpoint string for an http server on
// the given local port.
func HTTPEndpoint(port int) string {

	return fmt.Sprintf("http://localhost:%d%s", port, constants.DefaultSSEPath)
}

// StdioEndpoint returns the descriptor string recorded for stdio servers,
// which have no reachable address.
func StdioEndpoint(image string) string {

	return fmt.Sprintf("command:docker:%s", image)
}

// DefaultEndpoint synthesizes the endpoint recorded for a server that has
// never been started: the args' literal port (or 9000) for http, the
// descriptor string for stdio.
func DefaultEndpoint(def *config.ServerDefinition) string {
	if def.Transport == config.TransportStdio {

		return StdioEndpoint(def.Image)
	}

	port, ok := PortFromArgs(def.Args)
	if !ok {
		port = constants.DefaultHTTPPort
	}

	return HTTPEndpoint(port)
}

// PortFromArgs scans launch arguments for a literal --port value, accepting
// both "--port 9001" and "--port=9001".
func PortFromArgs(args []string) (int, bool) {
	for i, arg := range args {
		if arg == "--port" && i+1 < len(args) {
			if port, err := strconv.Atoi(args[i+1]); err == nil && port > 0 {

				return port, true
			}
		}
		if value, found := strings.CutPrefix(arg, "--port="); found {
			if port, err := strconv.Atoi(value); err == nil && port > 0 {

				return port, true
			}
		}
	}

	return 0, false
}

// PortFromEndpoint extracts the port of a recorded http endpoint. Stdio
// descriptors and malformed URLs report no port.
func PortFromEndpoint(endpoint string) (int, bool) {
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {

		return 0, false
	}

	u, err := url.Parse(endpoint)
	if err != nil {

		return 0, false
	}

	port, err := strconv.Atoi(u.Port())
	if err != nil || port <= 0 {

		return 0, false
	}

	return port, true
}
