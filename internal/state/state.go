// internal/state/state.go
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"mcpmanager/internal/config"
	"mcpmanager/internal/constants"
	"mcpmanager/internal/logging"
)

// ServerState is the last-known status of one server. ManageCursorConfig is
// tri-state: nil means the user was never asked about IDE config syncing.
type ServerState struct {
	Name               string `json:"name"`
	Endpoint           string `json:"endpoint"`
	Online             bool   `json:"online"`
	ManageCursorConfig *bool  `json:"manageCursorConfig,omitempty"`
}

// File is the persisted snapshot. UpdatedOn is rewritten on every save.
type File struct {
	Servers   []ServerState `json:"servers"`
	UpdatedOn time.Time     `json:"updatedOn"`
}

// NewFile returns an empty snapshot stamped now
func NewFile() *File {

	return &File{Servers: []ServerState{}, UpdatedOn: time.Now()}
}

// Store reads and writes the snapshot at a fixed path. It never raises:
// a broken or missing file loads as empty, and failed saves are logged and
// swallowed, because state can always be re-derived from Docker and the
// network on the next run.
type Store struct {
	path   string
	logger *logging.Logger
}

// NewStore creates a store for the given state file path
func NewStore(path string, logger *logging.Logger) *Store {

	return &Store{path: path, logger: logger}
}

// Load reads the persisted snapshot, degrading to an empty one on any error
func (s *Store) Load() *File {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warning("Failed to read state file '%s': %v, starting fresh", s.path, err)
		}

		return NewFile()
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		s.logger.Warning("Failed to parse state file '%s': %v, starting fresh", s.path, err)

		return NewFile()
	}
	if f.Servers == nil {
		f.Servers = []ServerState{}
	}

	return &f
}

// Save stamps and persists the snapshot, pretty-printed. Failures are logged
// but not returned.
func (s *Store) Save(f *File) {
	f.UpdatedOn = time.Now()

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		s.logger.Error("Failed to serialize state: %v", err)

		return
	}

	if err := os.MkdirAll(filepath.Dir(s.path), constants.DefaultDirMode); err != nil {
		s.logger.Error("Failed to create state directory: %v", err)

		return
	}

	if err := os.WriteFile(s.path, append(data, '\n'), constants.DefaultFileMode); err != nil {
		s.logger.Error("Failed to write state file '%s': %v", s.path, err)
	}
}

// Reconcile produces a snapshot with exactly one entry per definition.
// Prior endpoint and consent are carried forward by name; new servers get a
// synthesized default endpoint and start offline. Entries for names not in
// defs are dropped from the output.
func Reconcile(f *File, defs []*config.ServerDefinition) *File {
	prior := make(map[string]ServerState, len(f.Servers))
	for _, srv := range f.Servers {
		prior[srv.Name] = srv
	}

	out := &File{Servers: make([]ServerState, 0, len(defs)), UpdatedOn: f.UpdatedOn}
	for _, def := range defs {
		if existing, ok := prior[def.Name]; ok {
			out.Servers = append(out.Servers, existing)
			continue
		}
		out.Servers = append(out.Servers, ServerState{
			Name:     def.Name,
			Endpoint: DefaultEndpoint(def),
			Online:   false,
		})
	}

	return out
}

// UpdateStatus returns a snapshot with the named server's liveness updated.
// An empty endpoint retains the prior one; consent is always carried forward
// untouched. A server unknown to the snapshot is appended.
func UpdateStatus(f *File, name string, online bool, endpoint string) *File {
	out := &File{Servers: make([]ServerState, 0, len(f.Servers)+1), UpdatedOn: f.UpdatedOn}

	found := false
	for _, srv := range f.Servers {
		if srv.Name == name {
			found = true
			srv.Online = online
			if endpoint != "" {
				srv.Endpoint = endpoint
			}
		}
		out.Servers = append(out.Servers, srv)
	}

	if !found {
		out.Servers = append(out.Servers, ServerState{Name: name, Endpoint: endpoint, Online: online})
	}

	return out
}

// SetCursorManaged returns a snapshot with the named server's consent
// recorded
func SetCursorManaged(f *File, name string, managed bool) *File {
	out := &File{Servers: make([]ServerState, 0, len(f.Servers)), UpdatedOn: f.UpdatedOn}
	for _, srv := range f.Servers {
		if srv.Name == name {
			value := managed
			srv.ManageCursorConfig = &value
		}
		out.Servers = append(out.Servers, srv)
	}

	return out
}

// GetByName returns the named server's state, or nil
func GetByName(f *File, name string) *ServerState {
	for i := range f.Servers {
		if f.Servers[i].Name == name {

			return &f.Servers[i]
		}
	}

	return nil
}
