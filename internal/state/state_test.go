package state

import (
	"os"
	"path/filepath"
	"testing"

	"mcpmanager/internal/config"
	"mcpmanager/internal/logging"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	return NewStore(filepath.Join(t.TempDir(), "state.json"), logging.NewLogger("ERROR"))
}

func TestLoadMissingFile(t *testing.T) {
	store := newTestStore(t)
	f := store.Load()
	if f == nil || len(f.Servers) != 0 {
		t.Fatalf("expected fresh empty state, got %+v", f)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	store := NewStore(path, logging.NewLogger("ERROR"))
	f := store.Load()
	if f == nil || len(f.Servers) != 0 {
		t.Fatalf("corrupt file should load as fresh state, got %+v", f)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	managed := true
	f := NewFile()
	f.Servers = []ServerState{
		{Name: "github", Endpoint: "http://localhost:9001/sse", Online: true, ManageCursorConfig: &managed},
		{Name: "fetch", Endpoint: "command:docker:mcp/fetch", Online: false},
	}

	before := f.UpdatedOn
	store.Save(f)
	if !f.UpdatedOn.After(before) && !f.UpdatedOn.Equal(before) {
		t.Error("Save should restamp UpdatedOn")
	}

	loaded := store.Load()
	if len(loaded.Servers) != 2 {
		t.Fatalf("got %d servers after round trip", len(loaded.Servers))
	}
	github := GetByName(loaded, "github")
	if github == nil || !github.Online || github.Endpoint != "http://localhost:9001/sse" {
		t.Errorf("github state corrupted: %+v", github)
	}
	if github.ManageCursorConfig == nil || !*github.ManageCursorConfig {
		t.Errorf("consent not round-tripped: %+v", github.ManageCursorConfig)
	}
	fetch := GetByName(loaded, "fetch")
	if fetch == nil || fetch.ManageCursorConfig != nil {
		t.Errorf("unset consent should stay nil: %+v", fetch)
	}
}

func TestReconcile(t *testing.T) {
	declined := false
	prior := &File{Servers: []ServerState{
		{Name: "keep", Endpoint: "http://localhost:9500/sse", Online: true, ManageCursorConfig: &declined},
		{Name: "stale", Endpoint: "http://localhost:9999/sse", Online: true},
	}}

	defs := []*config.ServerDefinition{
		{Name: "keep", Transport: config.TransportHTTP, Image: "img"},
		{Name: "fresh-http", Transport: config.TransportHTTP, Image: "img", Args: []string{"--port", "9001"}},
		{Name: "fresh-default", Transport: config.TransportHTTP, Image: "img"},
		{Name: "fresh-stdio", Transport: config.TransportStdio, Image: "mcp/fetch"},
	}

	out := Reconcile(prior, defs)

	if len(out.Servers) != len(defs) {
		t.Fatalf("got %d entries, want exactly %d", len(out.Servers), len(defs))
	}
	if GetByName(out, "stale") != nil {
		t.Error("stale entry should be dropped from reconcile output")
	}

	keep := GetByName(out, "keep")
	if keep.Endpoint != "http://localhost:9500/sse" || !keep.Online {
		t.Errorf("prior entry not carried forward: %+v", keep)
	}
	if keep.ManageCursorConfig == nil || *keep.ManageCursorConfig {
		t.Errorf("prior consent not carried forward: %+v", keep.ManageCursorConfig)
	}

	tests := []struct {
		name     string
		endpoint string
	}{
		{"fresh-http", "http://localhost:9001/sse"},
		{"fresh-default", "http://localhost:9000/sse"},
		{"fresh-stdio", "command:docker:mcp/fetch"},
	}
	for _, tt := range tests {
		srv := GetByName(out, tt.name)
		if srv == nil {
			t.Fatalf("missing entry for %s", tt.name)
		}
		if srv.Endpoint != tt.endpoint {
			t.Errorf("%s endpoint = %q, want %q", tt.name, srv.Endpoint, tt.endpoint)
		}
		if srv.Online {
			t.Errorf("%s should start offline", tt.name)
		}
		if srv.ManageCursorConfig != nil {
			t.Errorf("%s should start with unset consent", tt.name)
		}
	}
}

func TestUpdateStatus(t *testing.T) {
	managed := true
	f := &File{Servers: []ServerState{
		{Name: "svc", Endpoint: "http://localhost:9000/sse", Online: false, ManageCursorConfig: &managed},
	}}

	// Endpoint omitted: prior endpoint retained, consent untouched
	out := UpdateStatus(f, "svc", true, "")
	svc := GetByName(out, "svc")
	if !svc.Online || svc.Endpoint != "http://localhost:9000/sse" {
		t.Errorf("unexpected state: %+v", svc)
	}
	if svc.ManageCursorConfig == nil || !*svc.ManageCursorConfig {
		t.Error("consent must be carried forward untouched")
	}

	// Endpoint supplied: replaced
	out = UpdateStatus(out, "svc", true, "http://localhost:9500/sse")
	if GetByName(out, "svc").Endpoint != "http://localhost:9500/sse" {
		t.Error("endpoint not updated")
	}

	// Unknown server: appended
	out = UpdateStatus(out, "new", false, "command:docker:img")
	if GetByName(out, "new") == nil {
		t.Error("unknown server should be appended")
	}

	// Input snapshot must not be mutated
	if f.Servers[0].Online {
		t.Error("UpdateStatus mutated its input")
	}
}

func TestSetCursorManaged(t *testing.T) {
	f := &File{Servers: []ServerState{{Name: "svc"}}}

	out := SetCursorManaged(f, "svc", false)
	svc := GetByName(out, "svc")
	if svc.ManageCursorConfig == nil || *svc.ManageCursorConfig {
		t.Errorf("consent not recorded: %+v", svc.ManageCursorConfig)
	}
	if f.Servers[0].ManageCursorConfig != nil {
		t.Error("SetCursorManaged mutated its input")
	}
}

func TestPortFromArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		port int
		ok   bool
	}{
		{"separate value", []string{"--transport", "sse", "--port", "9001"}, 9001, true},
		{"equals form", []string{"--port=9500"}, 9500, true},
		{"no port", []string{"--transport", "sse"}, 0, false},
		{"dangling flag", []string{"--port"}, 0, false},
		{"non-numeric", []string{"--port", "auto"}, 0, false},
		{"empty args", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			port, ok := PortFromArgs(tt.args)
			if port != tt.port || ok != tt.ok {
				t.Errorf("PortFromArgs(%v) = (%d, %v), want (%d, %v)", tt.args, port, ok, tt.port, tt.ok)
			}
		})
	}
}

func TestPortFromEndpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		port     int
		ok       bool
	}{
		{"http://localhost:9001/sse", 9001, true},
		{"http://localhost/sse", 0, false},
		{"command:docker:mcp/fetch", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		port, ok := PortFromEndpoint(tt.endpoint)
		if port != tt.port || ok != tt.ok {
			t.Errorf("PortFromEndpoint(%q) = (%d, %v), want (%d, %v)", tt.endpoint, port, ok, tt.port, tt.ok)
		}
	}
}
