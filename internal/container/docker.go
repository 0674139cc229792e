// internal/container/docker.go
package container

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sort"
	"strings"
	"time"

	"mcpmanager/internal/constants"
	"mcpmanager/internal/logging"
)

// DockerRuntime drives the Docker daemon through its CLI
type DockerRuntime struct {
	execPath string
	logger   *logging.Logger
}

// NewDockerRuntime creates a Docker runtime. The docker binary is resolved
// lazily if it is not on PATH yet; IsInstalled reports the real state.
func NewDockerRuntime(logger *logging.Logger) *DockerRuntime {
	path, err := exec.LookPath("docker")
	if err != nil {
		path = "docker"
	}

	return &DockerRuntime{execPath: path, logger: logger}
}

func (d *DockerRuntime) IsInstalled(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, d.execPath, "--version")
	if err := cmd.Run(); err != nil {
		d.logger.Debug("docker --version failed: %v", err)

		return false
	}

	return true
}

func (d *DockerRuntime) IsDaemonRunning(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, d.execPath, "info", "--format", "{{.ServerVersion}}")
	if err := cmd.Run(); err != nil {
		d.logger.Debug("docker info failed: %v", err)

		return false
	}

	return true
}

// StartDaemon starts Docker Desktop on macOS and polls until the daemon
// answers. Other platforms have no portable way to start the daemon, so the
// user is asked to do it.
func (d *DockerRuntime) StartDaemon(ctx context.Context) error {
	if runtime.GOOS != "darwin" {

		return fmt.Errorf("cannot start the Docker daemon automatically on %s, please start it manually", runtime.GOOS)
	}

	if err := exec.CommandContext(ctx, "open", "-a", "Docker").Run(); err != nil {

		return fmt.Errorf("failed to launch Docker Desktop: %w", err)
	}

	d.logger.Info("Waiting for the Docker daemon to start...")
	for i := 0; i < constants.DaemonPollAttempts; i++ {
		select {
		case <-ctx.Done():

			return ctx.Err()
		case <-time.After(constants.DaemonPollInterval):
		}
		if d.IsDaemonRunning(ctx) {

			return nil
		}
	}

	return fmt.Errorf("docker daemon did not become available")
}

func (d *DockerRuntime) IsImagePulled(ctx context.Context, image string) bool {
	cmd := exec.CommandContext(ctx, d.execPath, "image", "inspect", image)

	return cmd.Run() == nil
}

func (d *DockerRuntime) PullImage(ctx context.Context, image string) error {
	cmd := exec.CommandContext(ctx, d.execPath, "pull", image)
	output, err := cmd.CombinedOutput()
	if err != nil {

		return fmt.Errorf("failed to pull image '%s': %w. Output: %s", image, err, strings.TrimSpace(string(output)))
	}

	return nil
}

// IsContainerRunning matches running containers by exact name
func (d *DockerRuntime) IsContainerRunning(ctx context.Context, name string) bool {
	cmd := exec.CommandContext(ctx, d.execPath, "ps", "--filter", fmt.Sprintf("name=^%s$", name), "--format", "{{.Names}}")
	output, err := cmd.CombinedOutput()
	if err != nil {
		d.logger.Debug("docker ps failed for '%s': %v", name, err)

		return false
	}

	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		if line == name {

			return true
		}
	}

	return false
}

func (d *DockerRuntime) RunContainer(ctx context.Context, spec ContainerSpec) RunResult {
	if err := ValidateSpec(spec); err != nil {

		return RunResult{Success: false, Error: err.Error()}
	}

	runArgs := []string{"run", "-d", "--name", spec.Name}

	for _, p := range spec.Ports {
		runArgs = append(runArgs, "-p", p)
	}

	for _, k := range sortedKeys(spec.Env) {
		runArgs = append(runArgs, "-e", fmt.Sprintf("%s=%s", k, spec.Env[k]))
	}

	runArgs = append(runArgs, spec.Image)
	runArgs = append(runArgs, spec.Args...)

	d.logger.Debug("Executing: %s %s", d.execPath, strings.Join(runArgs, " "))
	cmd := exec.CommandContext(ctx, d.execPath, runArgs...)
	output, err := cmd.CombinedOutput()
	if err != nil {

		return RunResult{
			Success: false,
			Error:   fmt.Sprintf("docker run failed: %v. Output: %s", err, strings.TrimSpace(string(output))),
		}
	}

	id := strings.TrimSpace(string(output))
	display := id
	if len(display) > constants.ContainerIDDisplayLength {
		display = display[:constants.ContainerIDDisplayLength]
	}
	d.logger.Debug("Started container '%s' (%s)", spec.Name, display)

	return RunResult{Success: true, Output: id}
}

// StopAndRemove ensures the named container is gone. A container that does
// not exist is a success, not an error.
func (d *DockerRuntime) StopAndRemove(ctx context.Context, name string) error {
	inspectCmd := exec.CommandContext(ctx, d.execPath, "inspect", "--type=container", name)
	if err := inspectCmd.Run(); err != nil {
		d.logger.Debug("Container '%s' not found, nothing to stop", name)

		return nil
	}

	stopCmd := exec.CommandContext(ctx, d.execPath, "stop", name)
	if err := stopCmd.Run(); err != nil {
		// It might already be stopped; removal below is what matters
		d.logger.Debug("Failed to stop container '%s' (it might be already stopped): %v", name, err)
	}

	rmCmd := exec.CommandContext(ctx, d.execPath, "rm", "-f", name)
	output, err := rmCmd.CombinedOutput()
	if err != nil {

		return fmt.Errorf("failed to remove container '%s': %w. Output: %s", name, err, strings.TrimSpace(string(output)))
	}

	return nil
}

func (d *DockerRuntime) GetLogs(ctx context.Context, name string, tail int) (string, error) {
	args := []string{"logs"}
	if tail > 0 {
		args = append(args, "--tail", fmt.Sprintf("%d", tail))
	}
	args = append(args, name)

	cmd := exec.CommandContext(ctx, d.execPath, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {

		return "", fmt.Errorf("failed to get logs for container '%s': %w", name, err)
	}

	return string(output), nil
}

// StreamLogs follows the container's logs on the caller's terminal until
// interrupted
func (d *DockerRuntime) StreamLogs(ctx context.Context, name string) error {
	cmd := exec.CommandContext(ctx, d.execPath, "logs", "-f", name)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

// RunOneShot runs a foreground container with input piped to its stdin and
// returns the combined output. Used for stdio health probes; the container
// is removed when it exits or the context is cancelled.
func (d *DockerRuntime) RunOneShot(ctx context.Context, spec OneShotSpec) (string, error) {
	if spec.Image == "" {

		return "", fmt.Errorf("one-shot run requires an image")
	}

	runArgs := []string{"run", "--rm", "-i"}
	for _, k := range sortedKeys(spec.Env) {
		runArgs = append(runArgs, "-e", fmt.Sprintf("%s=%s", k, spec.Env[k]))
	}
	runArgs = append(runArgs, spec.Image)
	runArgs = append(runArgs, spec.Args...)

	d.logger.Debug("Executing one-shot: %s %s", d.execPath, strings.Join(runArgs, " "))
	cmd := exec.CommandContext(ctx, d.execPath, runArgs...)
	cmd.Stdin = strings.NewReader(spec.Stdin)

	output, err := cmd.CombinedOutput()
	if err != nil {

		return string(output), fmt.Errorf("one-shot run of '%s' failed: %w", spec.Image, err)
	}

	return string(output), nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
