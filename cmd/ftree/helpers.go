package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/raphi011/ftree/internal/config"
	"github.com/raphi011/ftree/internal/source"
	"github.com/raphi011/ftree/internal/state"
)

// absPaths resolves args to absolute paths. No args means the working
// directory.
func absPaths(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}
	paths := make([]string, len(args))
	for i, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", arg, err)
		}
		paths[i] = abs
	}
	return paths, nil
}

// globalConfig returns the config without per-root overrides.
func globalConfig(ctx context.Context) *config.Config {
	if r := config.ResolverFromContext(ctx); r != nil {
		return r.Global()
	}
	return config.FromContext(ctx)
}

// effectiveConfig returns the config for root. Directory roots get their
// .ftree.toml merged in.
func effectiveConfig(ctx context.Context, root string) (*config.Config, error) {
	r := config.ResolverFromContext(ctx)
	if r == nil {
		return config.FromContext(ctx), nil
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return r.Global(), nil
	}
	return r.ForRoot(root)
}

func fsOptions(cfg *config.Config) source.Options {
	return source.Options{
		ShowHidden: cfg.Tree.ShowHidden,
		DirsFirst:  cfg.Tree.DirsFirst,
		MaxDepth:   cfg.Tree.MaxDepth,
	}
}

func statePath(cfg *config.Config) string {
	if cfg.StateFile != "" {
		return cfg.StateFile
	}
	return state.DefaultPath()
}
