// Package config provides configuration types and defaults for modmap.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zjrosen/modmap/internal/log"
	"github.com/zjrosen/modmap/internal/namespace"
)

// NamespaceConfig maps one namespace name onto a directory or script.
type NamespaceConfig struct {
	Name    string `mapstructure:"name"`
	Path    string `mapstructure:"path"`     // absolute, or relative to asset_root
	BaseURL string `mapstructure:"base_url"` // optional public root override
}

// LogConfig controls the debug log.
type LogConfig struct {
	// Debug enables logging. Also enabled by --debug or MODMAP_DEBUG.
	Debug bool `mapstructure:"debug"`

	// File is the log destination.
	// Default: modmap-debug.log
	File string `mapstructure:"file"`

	// Level is the minimum level written: debug, info, warn or error.
	// Default: debug
	Level string `mapstructure:"level"`
}

// Config holds all configuration options for modmap.
type Config struct {
	BasePath   string            `mapstructure:"base_path"`  // public root, e.g. "/js"
	AssetRoot  string            `mapstructure:"asset_root"` // root for relative paths
	Namespaces []NamespaceConfig `mapstructure:"namespaces"` // registration order
	Log        LogConfig         `mapstructure:"log"`
}

// Definitions converts the configured namespaces into registry definitions,
// preserving order.
func (c Config) Definitions() []namespace.Definition {
	defs := make([]namespace.Definition, 0, len(c.Namespaces))
	for _, ns := range c.Namespaces {
		defs = append(defs, namespace.Definition{
			Name:    ns.Name,
			Path:    ns.Path,
			BaseURL: ns.BaseURL,
		})
	}
	return defs
}

// NewRegistry builds a registry from the config and registers every
// namespace in order. The first namespace whose path does not exist aborts
// the build.
func (c Config) NewRegistry() (*namespace.Registry, error) {
	reg := namespace.New(c.BasePath, c.AssetRoot)
	if err := reg.RegisterAll(c.Definitions()); err != nil {
		return nil, fmt.Errorf("registering namespaces: %w", err)
	}
	log.Info(log.CatConfig, "Registry ready", "namespaces", reg.Len(), "base_path", c.BasePath, "asset_root", c.AssetRoot)
	return reg, nil
}

// UpsertNamespace returns a copy of list with ns added. An entry with the
// same name is replaced in place so its precedence does not change.
func UpsertNamespace(list []NamespaceConfig, ns NamespaceConfig) []NamespaceConfig {
	out := make([]NamespaceConfig, len(list), len(list)+1)
	copy(out, list)
	for i := range out {
		if out[i].Name == ns.Name {
			out[i] = ns
			return out
		}
	}
	return append(out, ns)
}

// ValidateNamespaces checks namespace configuration for errors.
// Duplicate names are rejected even though the registry tolerates them;
// in a config file a duplicate is almost always a mistake.
func ValidateNamespaces(list []NamespaceConfig) error {
	seen := make(map[string]int, len(list))
	for i, ns := range list {
		if ns.Name == "" {
			return fmt.Errorf("namespace %d: name is required", i)
		}
		if ns.Path == "" {
			return fmt.Errorf("namespace %d (%s): path is required", i, ns.Name)
		}
		if first, dup := seen[ns.Name]; dup {
			return fmt.Errorf("namespace %d (%s): duplicate of namespace %d", i, ns.Name, first)
		}
		seen[ns.Name] = i
	}
	return nil
}

// ValidateLog checks log configuration for errors.
func ValidateLog(cfg LogConfig) error {
	switch cfg.Level {
	case "", "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("log.level must be \"debug\", \"info\", \"warn\", or \"error\", got %q", cfg.Level)
	}
}

// Validate checks the whole configuration.
func (c Config) Validate() error {
	if err := ValidateNamespaces(c.Namespaces); err != nil {
		return fmt.Errorf("invalid namespaces: %w", err)
	}
	if err := ValidateLog(c.Log); err != nil {
		return fmt.Errorf("invalid log config: %w", err)
	}
	return nil
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		BasePath:  "/js",
		AssetRoot: ".",
		Log: LogConfig{
			Debug: false,
			File:  "modmap-debug.log",
			Level: "debug",
		},
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# modmap configuration

# Public root for module paths when a namespace has no base_url.
base_path: /js

# Directory that relative namespace paths and lookups are resolved against.
asset_root: .

# Namespaces are matched in the order listed; the first whose directory
# prefixes a file wins.
namespaces: []
  # - name: app
  #   path: app                 # absolute, or relative to asset_root
  # - name: jquery
  #   path: vendor/jquery       # ".js" is appended when that file exists
  #   base_url: https://cdn.example/jquery

# Debug logging
log:
  debug: false
  file: modmap-debug.log
  level: debug
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
