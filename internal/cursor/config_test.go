package cursor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"mcpmanager/internal/logging"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	return NewManager(filepath.Join(t.TempDir(), "mcp.json"), logging.NewLogger("ERROR"))
}

func TestGetServersMissingFile(t *testing.T) {
	m := newTestManager(t)
	servers := m.GetServers()
	if servers == nil || len(servers) != 0 {
		t.Fatalf("missing file should yield empty map, got %v", servers)
	}
}

func TestAddOrUpdateRoundTrip(t *testing.T) {
	m := newTestManager(t)

	ok := m.AddOrUpdate(map[string]ServerEntry{
		"github": HTTPEntry("http://localhost:9001/sse"),
		"fetch":  StdioEntry("mcp/fetch", []string{"--verbose"}, "/tmp/fetch.env"),
	})
	if !ok {
		t.Fatal("AddOrUpdate failed")
	}

	servers := m.GetServers()
	if len(servers) != 2 {
		t.Fatalf("got %d entries", len(servers))
	}
	if servers["github"].URL != "http://localhost:9001/sse" {
		t.Errorf("github entry = %+v", servers["github"])
	}

	fetch := servers["fetch"]
	if fetch.Command != "docker" {
		t.Errorf("fetch command = %q", fetch.Command)
	}
	want := []string{"run", "--rm", "-i", "--env-file", "/tmp/fetch.env", "mcp/fetch", "--verbose"}
	if len(fetch.Args) != len(want) {
		t.Fatalf("fetch args = %v, want %v", fetch.Args, want)
	}
	for i := range want {
		if fetch.Args[i] != want[i] {
			t.Fatalf("fetch args = %v, want %v", fetch.Args, want)
		}
	}
}

func TestUnrelatedKeysPreserved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp.json")
	existing := `{
  "editorSettings": {"theme": "dark", "fontSize": 14},
  "mcpServers": {"old": {"url": "http://localhost:8000/sse"}},
  "telemetry": false
}`
	if err := os.WriteFile(path, []byte(existing), 0644); err != nil {
		t.Fatal(err)
	}

	m := NewManager(path, logging.NewLogger("ERROR"))
	if !m.AddOrUpdate(map[string]ServerEntry{"new": HTTPEntry("http://localhost:9000/sse")}) {
		t.Fatal("AddOrUpdate failed")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("rewritten config is not valid JSON: %v", err)
	}

	var settings map[string]interface{}
	if err := json.Unmarshal(doc["editorSettings"], &settings); err != nil {
		t.Fatalf("editorSettings lost or corrupted: %v", err)
	}
	if settings["theme"] != "dark" || settings["fontSize"] != float64(14) {
		t.Errorf("editorSettings changed: %v", settings)
	}
	if string(doc["telemetry"]) != "false" {
		t.Errorf("telemetry changed: %s", doc["telemetry"])
	}

	servers := m.GetServers()
	if len(servers) != 2 {
		t.Errorf("merge lost entries: %v", servers)
	}
	if servers["old"].URL != "http://localhost:8000/sse" {
		t.Errorf("pre-existing entry changed: %+v", servers["old"])
	}
}

func TestRemove(t *testing.T) {
	m := newTestManager(t)

	// Removing from an absent file is a success
	if !m.Remove([]string{"ghost"}) {
		t.Error("remove on absent file should succeed")
	}

	m.AddOrUpdate(map[string]ServerEntry{
		"a": HTTPEntry("http://localhost:9000/sse"),
		"b": HTTPEntry("http://localhost:9001/sse"),
	})

	if !m.Remove([]string{"a"}) {
		t.Fatal("Remove failed")
	}
	servers := m.GetServers()
	if _, ok := servers["a"]; ok {
		t.Error("entry 'a' not removed")
	}
	if _, ok := servers["b"]; !ok {
		t.Error("entry 'b' should survive")
	}

	// Nothing to remove is still a success
	if !m.Remove([]string{"a"}) {
		t.Error("no-op removal should succeed")
	}
}

func TestEntryEqual(t *testing.T) {
	a := StdioEntry("img", []string{"--x"}, "")
	b := StdioEntry("img", []string{"--x"}, "")
	c := StdioEntry("img", []string{"--y"}, "")

	if !a.Equal(b) {
		t.Error("identical entries should compare equal")
	}
	if a.Equal(c) {
		t.Error("different args should not compare equal")
	}
	if HTTPEntry("http://a").Equal(HTTPEntry("http://b")) {
		t.Error("different urls should not compare equal")
	}
}

func TestDisabledManager(t *testing.T) {
	m := NewManager("", logging.NewLogger("ERROR"))
	if m.Enabled() {
		t.Error("empty path should disable the manager")
	}
	if m.AddOrUpdate(map[string]ServerEntry{"x": HTTPEntry("http://x")}) {
		t.Error("writes must fail when no path is configured")
	}
}
