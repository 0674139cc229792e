// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the application-level settings. It is resolved once at
// startup from defaults, an optional YAML file and MCP_MANAGER_* environment
// overrides, in that order, and passed around as an immutable value.
type Config struct {
	// DefinitionsDir is the directory scanned for server definition files
	DefinitionsDir string `yaml:"definitions_dir,omitempty"`

	// StateFile is the path of the persisted state snapshot
	StateFile string `yaml:"state_file,omitempty"`

	// CursorConfig is the path of the Cursor IDE's MCP config. May be empty,
	// in which case all IDE config syncing is skipped.
	CursorConfig string `yaml:"cursor_config,omitempty"`

	// Enabled is the allow-list of server names. Empty means all definitions.
	Enabled []string `yaml:"enabled,omitempty"`

	// LogLevel selects the logger verbosity (DEBUG, INFO, WARNING, ERROR)
	LogLevel string `yaml:"log_level,omitempty"`
}

// DefaultConfig returns the built-in defaults, rooted in the user's home
// directory when it can be resolved.
func DefaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	return Config{
		DefinitionsDir: filepath.Join(home, ".mcp-manager", "servers"),
		StateFile:      filepath.Join(home, ".mcp-manager", "state.json"),
		CursorConfig:   filepath.Join(home, ".cursor", "mcp.json"),
		LogLevel:       "INFO",
	}
}

// LoadConfig resolves the effective configuration. A missing config file is
// not an error; a file that exists but cannot be parsed is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			var fileCfg Config
			if err := yaml.Unmarshal(data, &fileCfg); err != nil {

				return Config{}, fmt.Errorf("failed to parse config file '%s': %w", path, err)
			}
			cfg = mergeConfig(cfg, fileCfg)
		case os.IsNotExist(err):
			// Defaults apply
		default:

			return Config{}, fmt.Errorf("failed to read config file '%s': %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)

	return cfg, nil
}

func mergeConfig(base, override Config) Config {
	merged := base
	if override.DefinitionsDir != "" {
		merged.DefinitionsDir = override.DefinitionsDir
	}
	if override.StateFile != "" {
		merged.StateFile = override.StateFile
	}
	if override.CursorConfig != "" {
		merged.CursorConfig = override.CursorConfig
	}
	if len(override.Enabled) > 0 {
		merged.Enabled = override.Enabled
	}
	if override.LogLevel != "" {
		merged.LogLevel = override.LogLevel
	}

	return merged
}

// applyEnvOverrides layers MCP_MANAGER_* variables over the resolved config.
// The environment is read once here; nothing ever writes it back.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MCP_MANAGER_DEFINITIONS_DIR"); v != "" {
		cfg.DefinitionsDir = v
	}
	if v := os.Getenv("MCP_MANAGER_STATE_FILE"); v != "" {
		cfg.StateFile = v
	}
	if v := os.Getenv("MCP_MANAGER_CURSOR_CONFIG"); v != "" {
		cfg.CursorConfig = v
	}
	if v := os.Getenv("MCP_MANAGER_ENABLED"); v != "" {
		names := strings.Split(v, ",")
		enabled := make([]string, 0, len(names))
		for _, name := range names {
			if name = strings.TrimSpace(name); name != "" {
				enabled = append(enabled, name)
			}
		}
		cfg.Enabled = enabled
	}
	if v := os.Getenv("MCP_MANAGER_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
