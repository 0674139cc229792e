// internal/config/definitions.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"mcpmanager/internal/constants"
)

// Transport types for MCP servers
const (
	TransportHTTP  = "http"
	TransportStdio = "stdio"
)

// HealthCheckSpec declares the JSON-RPC probe used to judge liveness.
// A definition without one is considered healthy by default.
type HealthCheckSpec struct {
	Method           string                 `yaml:"method"`
	Params           map[string]interface{} `yaml:"params,omitempty"`
	ResponseContains string                 `yaml:"response_contains,omitempty"`
	Timeout          string                 `yaml:"timeout,omitempty"`
	Path             string                 `yaml:"path,omitempty"`
}

// TimeoutOrDefault parses the configured timeout, falling back to the given
// default when unset or unparseable.
func (h *HealthCheckSpec) TimeoutOrDefault(def time.Duration) time.Duration {
	if h == nil || h.Timeout == "" {

		return def
	}
	d, err := time.ParseDuration(h.Timeout)
	if err != nil || d <= 0 {

		return def
	}

	return d
}

// ServerDefinition is the user-authored description of one MCP server.
// Definitions are loaded fresh on every command invocation and never
// persisted. Args is mutated only by the orchestrator, to inject an
// assigned --port.
type ServerDefinition struct {
	Name                  string           `yaml:"name"`
	Transport             string           `yaml:"transport"`
	Image                 string           `yaml:"image"`
	Args                  []string         `yaml:"args,omitempty"`
	EnvFile               string           `yaml:"env_file,omitempty"`
	HealthCheck           *HealthCheckSpec `yaml:"health_check,omitempty"`
	PostStartInstructions string           `yaml:"post_start_instructions,omitempty"`
}

// Validate checks the fields a definition cannot function without
func (d *ServerDefinition) Validate() error {
	if d.Name == "" {

		return fmt.Errorf("definition is missing a name")
	}
	if d.Transport != TransportHTTP && d.Transport != TransportStdio {

		return fmt.Errorf("server '%s' has invalid transport '%s' (want %s or %s)",
			d.Name, d.Transport, TransportHTTP, TransportStdio)
	}
	if d.Image == "" {

		return fmt.Errorf("server '%s' is missing an image", d.Name)
	}

	return nil
}

// Environment reads the definition's env file, if any. A missing file is not
// an error; the caller degrades to running without it.
func (d *ServerDefinition) Environment() (map[string]string, error) {
	if d.EnvFile == "" {

		return nil, nil
	}
	if _, err := os.Stat(d.EnvFile); os.IsNotExist(err) {

		return nil, nil
	}

	env, err := godotenv.Read(d.EnvFile)
	if err != nil {

		return nil, fmt.Errorf("failed to parse env file '%s': %w", d.EnvFile, err)
	}

	return env, nil
}

// LoadDefinitions scans dir for YAML definition files, filters them by the
// allow-list and returns them sorted by name. A missing directory or zero
// valid definitions is a hard error: there is nothing to orchestrate.
func LoadDefinitions(dir string, enabled []string) ([]*ServerDefinition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {

		return nil, fmt.Errorf("failed to read definitions directory '%s': %w", dir, err)
	}

	allow := make(map[string]bool, len(enabled))
	for _, name := range enabled {
		allow[name] = true
	}

	var defs []*ServerDefinition
	seen := make(map[string]bool)
	var warnings []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		def, err := loadDefinitionFile(path)
		if err != nil {
			warnings = append(warnings, err.Error())
			continue
		}

		if seen[def.Name] {
			warnings = append(warnings, fmt.Sprintf("duplicate definition for server '%s' in '%s', ignoring", def.Name, path))
			continue
		}
		seen[def.Name] = true

		if len(allow) > 0 && !allow[def.Name] {
			continue
		}

		// Env file paths are relative to the definition file
		if def.EnvFile != "" && !filepath.IsAbs(def.EnvFile) {
			def.EnvFile = filepath.Join(dir, def.EnvFile)
		}

		defs = append(defs, def)
	}

	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	if len(defs) == 0 {

		return nil, fmt.Errorf("no valid server definitions found in '%s'", dir)
	}

	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })

	return defs, nil
}

func loadDefinitionFile(path string) (*ServerDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {

		return nil, fmt.Errorf("failed to read definition '%s': %w", path, err)
	}

	var def ServerDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {

		return nil, fmt.Errorf("failed to parse definition '%s': %w", path, err)
	}

	if def.Transport == "" {
		def.Transport = TransportHTTP
	}

	if err := def.Validate(); err != nil {

		return nil, fmt.Errorf("invalid definition '%s': %w", path, err)
	}

	return &def, nil
}

// SelectDefinitions narrows defs to the requested names. Unknown names are
// an error so a typo cannot silently operate on nothing.
func SelectDefinitions(defs []*ServerDefinition, names []string) ([]*ServerDefinition, error) {
	if len(names) == 0 {

		return defs, nil
	}

	byName := make(map[string]*ServerDefinition, len(defs))
	for _, def := range defs {
		byName[def.Name] = def
	}

	selected := make([]*ServerDefinition, 0, len(names))
	for _, name := range names {
		def, ok := byName[name]
		if !ok {

			return nil, fmt.Errorf("server '%s' not found in definitions", name)
		}
		selected = append(selected, def)
	}

	return selected, nil
}

// WriteExampleDefinition writes a commented starter definition, used by the
// CLI when the definitions directory is empty.
func WriteExampleDefinition(dir string) error {
	if err := os.MkdirAll(dir, constants.DefaultDirMode); err != nil {

		return fmt.Errorf("failed to create definitions directory '%s': %w", dir, err)
	}

	example := `name: example
transport: http
image: ghcr.io/example/mcp-server:latest
args:
  - "--transport"
  - "sse"
health_check:
  method: tools/list
  params: {}
  response_contains: tools
  timeout: 5s
`

	path := filepath.Join(dir, "example.yaml")

	return os.WriteFile(path, []byte(example), constants.DefaultFileMode)
}
