// internal/container/runtime.go
package container

import (
	"context"
	"fmt"
)

// ContainerSpec holds the options for a detached container run
type ContainerSpec struct {
	Name  string
	Image string
	Args  []string
	Env   map[string]string
	// Ports are host:container mappings, e.g. "9000:9000"
	Ports []string
}

// OneShotSpec holds the options for a throwaway foreground run with input
// piped to the container's stdin. The container is removed when it exits.
type OneShotSpec struct {
	Image string
	Args  []string
	Env   map[string]string
	Stdin string
}

// RunResult is the collapsed outcome of a container run. Failures carry the
// daemon's combined output instead of an error value so nothing escapes the
// adapter boundary.
type RunResult struct {
	Success bool
	Output  string
	Error   string
}

// Runtime defines the container lifecycle operations the orchestrator needs.
// Implementations must be safe to call against an absent daemon: every
// failure collapses into a boolean or a RunResult.
type Runtime interface {
	// Daemon management
	IsInstalled(ctx context.Context) bool
	IsDaemonRunning(ctx context.Context) bool
	StartDaemon(ctx context.Context) error

	// Image management
	IsImagePulled(ctx context.Context, image string) bool
	PullImage(ctx context.Context, image string) error

	// Container lifecycle
	IsContainerRunning(ctx context.Context, name string) bool
	RunContainer(ctx context.Context, spec ContainerSpec) RunResult
	// StopAndRemove is idempotent: an absent container is a success
	StopAndRemove(ctx context.Context, name string) error

	// Logs and one-shot execution
	GetLogs(ctx context.Context, name string, tail int) (string, error)
	StreamLogs(ctx context.Context, name string) error
	RunOneShot(ctx context.Context, spec OneShotSpec) (string, error)
}

// ValidateSpec performs basic validation on a container spec
func ValidateSpec(spec ContainerSpec) error {
	if spec.Name == "" {

		return fmt.Errorf("container name cannot be empty")
	}
	if spec.Image == "" {

		return fmt.Errorf("container '%s' must specify an image", spec.Name)
	}

	return nil
}
