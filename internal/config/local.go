package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LocalConfigFileName is the per-root override file.
const LocalConfigFileName = ".ftree.toml"

// LocalConfig holds per-root overrides. Only [tree] can be overridden.
type LocalConfig struct {
	tree rawTree
	path string
}

type rawLocalConfig struct {
	Tree rawTree `toml:"tree"`
}

// LoadLocal reads .ftree.toml from dir.
// Returns nil (no error) if the file doesn't exist.
func LoadLocal(dir string) (*LocalConfig, error) {
	configFile := filepath.Join(dir, LocalConfigFileName)

	data, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read local config %s: %w", configFile, err)
	}

	var raw rawLocalConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse local config %s: %w", configFile, err)
	}

	// Validate against a scratch copy so errors surface at load time.
	scratch := Default().Tree
	if err := applyTree(&scratch, raw.Tree, configFile); err != nil {
		return nil, err
	}

	return &LocalConfig{tree: raw.Tree, path: configFile}, nil
}

// MergeLocal returns a copy of global with local's [tree] values applied.
// Returns global unchanged if local is nil.
func MergeLocal(global *Config, local *LocalConfig) *Config {
	if local == nil {
		return global
	}
	merged := *global
	// Validated in LoadLocal.
	_ = applyTree(&merged.Tree, local.tree, local.path)
	return &merged
}
