// internal/cursor/config.go
package cursor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"

	"mcpmanager/internal/constants"
	"mcpmanager/internal/logging"
)

const serversKey = "mcpServers"

// ServerEntry is one entry of the IDE's mcpServers map: {url} for http
// servers, {command, args} for stdio servers.
type ServerEntry struct {
	URL     string   `json:"url,omitempty"`
	Command string   `json:"command,omitempty"`
	Args    []string `json:"args,omitempty"`
}

// Equal reports structural equality of two entries
func (e ServerEntry) Equal(other ServerEntry) bool {

	return reflect.DeepEqual(e, other)
}

// HTTPEntry builds the IDE entry for an http server endpoint
func HTTPEntry(url string) ServerEntry {

	return ServerEntry{URL: url}
}

// StdioEntry builds the IDE entry for a stdio server: a docker run
// invocation the IDE executes per call, with the env file injected when
// configured.
func StdioEntry(image string, args []string, envFile string) ServerEntry {
	runArgs := []string{"run", "--rm", "-i"}
	if envFile != "" {
		runArgs = append(runArgs, "--env-file", envFile)
	}
	runArgs = append(runArgs, image)
	runArgs = append(runArgs, args...)

	return ServerEntry{Command: "docker", Args: runArgs}
}

// Manager mutates the mcpServers map of the Cursor config file and nothing
// else: every other key in the document passes through each read-modify-write
// cycle untouched. There is no file locking; concurrent writers are
// last-writer-wins by design.
type Manager struct {
	path   string
	logger *logging.Logger
}

// NewManager creates a manager for the config file at path. An empty path
// disables all operations.
func NewManager(path string, logger *logging.Logger) *Manager {

	return &Manager{path: path, logger: logger}
}

// Enabled reports whether a config path is set at all
func (m *Manager) Enabled() bool {

	return m.path != ""
}

// Path returns the managed config file path
func (m *Manager) Path() string {

	return m.path
}

// read loads the whole document as raw JSON. Missing or unparseable files
// yield an empty document.
func (m *Manager) read() map[string]json.RawMessage {
	doc := make(map[string]json.RawMessage)
	if m.path == "" {

		return doc
	}

	data, err := os.ReadFile(m.path)
	if err != nil {
		if !os.IsNotExist(err) {
			m.logger.Warning("Failed to read Cursor config '%s': %v", m.path, err)
		}

		return doc
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		m.logger.Warning("Failed to parse Cursor config '%s': %v", m.path, err)

		return make(map[string]json.RawMessage)
	}

	return doc
}

// write persists the document pretty-printed, creating parent directories as
// needed
func (m *Manager) write(doc map[string]json.RawMessage) bool {
	if m.path == "" {

		return false
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		m.logger.Error("Failed to serialize Cursor config: %v", err)

		return false
	}

	if err := os.MkdirAll(filepath.Dir(m.path), constants.DefaultDirMode); err != nil {
		m.logger.Error("Failed to create Cursor config directory: %v", err)

		return false
	}

	if err := os.WriteFile(m.path, append(data, '\n'), constants.DefaultFileMode); err != nil {
		m.logger.Error("Failed to write Cursor config '%s': %v", m.path, err)

		return false
	}

	return true
}

// GetServers returns the current mcpServers map, empty when absent
func (m *Manager) GetServers() map[string]ServerEntry {
	doc := m.read()

	servers := make(map[string]ServerEntry)
	raw, ok := doc[serversKey]
	if !ok {

		return servers
	}

	if err := json.Unmarshal(raw, &servers); err != nil {
		m.logger.Warning("Cursor config has a malformed %s key: %v", serversKey, err)

		return make(map[string]ServerEntry)
	}

	return servers
}

// AddOrUpdate merges entries into the mcpServers map, read-modify-write
func (m *Manager) AddOrUpdate(entries map[string]ServerEntry) bool {
	if len(entries) == 0 {

		return true
	}

	doc := m.read()
	servers := m.GetServers()
	for name, entry := range entries {
		servers[name] = entry
	}

	return m.writeServers(doc, servers)
}

// Remove deletes the named entries. An absent file or nothing to remove is a
// success, never an error.
func (m *Manager) Remove(names []string) bool {
	if _, err := os.Stat(m.path); os.IsNotExist(err) {

		return true
	}

	doc := m.read()
	servers := m.GetServers()

	removed := false
	for _, name := range names {
		if _, ok := servers[name]; ok {
			delete(servers, name)
			removed = true
		}
	}
	if !removed {

		return true
	}

	return m.writeServers(doc, servers)
}

func (m *Manager) writeServers(doc map[string]json.RawMessage, servers map[string]ServerEntry) bool {
	raw, err := json.Marshal(servers)
	if err != nil {
		m.logger.Error("Failed to serialize %s: %v", serversKey, err)

		return false
	}
	doc[serversKey] = raw

	return m.write(doc)
}
