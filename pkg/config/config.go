// Package config handles loading and saving lw configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/lw/config.yaml
//   - State:   ~/.local/state/lw/ (view state cache)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/linework/pkg/model"
)

// SelectorConfig holds the lineage selector widget settings.
type SelectorConfig struct {
	DisplayCycles   bool   `yaml:"display_cycles,omitempty"`    // Render cycle nodes themselves
	ShowPrimaryFlag bool   `yaml:"show_primary_flag,omitempty"` // Mark the primary scenario per cycle
	Propagate       bool   `yaml:"propagate,omitempty"`         // Notify downstream listeners on selection change
	Multiple        bool   `yaml:"multiple,omitempty"`          // Reserved; single-select is enforced
	LeafType        string `yaml:"leaf_type,omitempty"`         // Selectable node type (cycle, scenario, pipeline, datanode)
	ShowPins        bool   `yaml:"show_pins,omitempty"`         // Enable pinning and the pinned-only filter
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	Headless bool `yaml:"headless,omitempty"` // Compact header mode
}

// Config is the top-level configuration for lw.
type Config struct {
	// LineageDir is the directory holding graph snapshots (defaults to
	// .linework, overridable with LINEWORK_DIR).
	LineageDir string         `yaml:"lineage_dir,omitempty"`
	Selector   SelectorConfig `yaml:"selector,omitempty"`
	UI         UIConfig       `yaml:"ui,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Selector: SelectorConfig{
			DisplayCycles:   true,
			ShowPrimaryFlag: true,
			Propagate:       true,
			LeafType:        string(model.TypeDataNode),
			ShowPins:        true,
		},
	}
}

// LeafType parses the configured leaf type, falling back to datanode when
// the value is empty or unknown.
func (c Config) LeafType() model.NodeType {
	t, err := model.ParseNodeType(c.Selector.LeafType)
	if err != nil {
		return model.TypeDataNode
	}
	return t
}

// ConfigDir returns the XDG config directory for lw.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "lw")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "lw")
}

// StateDir returns the XDG state directory for lw.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "lw")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "lw")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.LineageDir = expandHome(cfg.LineageDir)

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
