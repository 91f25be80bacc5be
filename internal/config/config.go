/*
Package config handles loading and saving casevault configuration.

Configuration is stored in ~/.casevault.json. Every field has a working
default, so a missing file is not an error: the CLI runs out of the box
and flags always override file values.

Schema:

	{
	  "dataDir": "~/.casevault",
	  "defaultProfile": "trusted",
	  "searchLimit": 5,
	  "memory": false
	}
*/
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the root configuration.
type Config struct {
	// DataDir is the directory holding cases.json, vault.enc, vault.key
	// and audit.db.
	DataDir string `json:"dataDir,omitempty"`

	// DefaultProfile is the policy profile used when --profile is absent.
	DefaultProfile string `json:"defaultProfile,omitempty"`

	// SearchLimit is the CLI's default result cap for search.
	SearchLimit int `json:"searchLimit,omitempty"`

	// Memory selects the ephemeral in-memory store by default.
	Memory bool `json:"memory,omitempty"`
}

// Defaults returns the configuration used when no file exists.
func Defaults() *Config {
	return &Config{
		DataDir:        defaultDataDir(),
		DefaultProfile: "trusted",
		SearchLimit:    5,
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".casevault"
	}
	return filepath.Join(home, ".casevault")
}

// Path returns the config file location, ~/.casevault.json.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".casevault.json"), nil
}

// Load reads the config from the default path, falling back to defaults
// when the file does not exist.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return Defaults(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from a specific path. A missing file yields
// defaults; a present but unparsable file is an error.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Defaults(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Defaults()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir()
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = 5
	}
	return cfg, nil
}

// Save writes the config to path.
func Save(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
