package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// TreeConfig holds tree listing and drawing settings
type TreeConfig struct {
	Indent       int
	ExpandDepth  int
	MaxDepth     int
	ShowHidden   bool
	DirsFirst    bool
	Guides       bool
	FetchTimeout time.Duration
}

// ThemeConfig holds UI colour settings. Each colour overrides one role of
// the chosen preset.
type ThemeConfig struct {
	Name     string `toml:"name"`     // preset family: "default", "nord", "gruvbox" or "none"
	Mode     string `toml:"mode"`     // "auto", "light" or "dark"
	Nerdfont bool   `toml:"nerdfont"` // use nerd font glyphs for expanders and kinds
	Dir      string `toml:"dir"`      // expandable node names, titles
	File     string `toml:"file"`     // leaf names
	Value    string `toml:"value"`    // document scalar values
	Guide    string `toml:"guide"`    // guide lines, expanders, hints
	Cursor   string `toml:"cursor"`   // focused row
	Match    string `toml:"match"`    // fuzzy-matched characters
	Status   string `toml:"status"`   // confirmations like "copied"
	Error    string `toml:"error"`
}

// Config holds the ftree configuration
type Config struct {
	Tree      TreeConfig
	Theme     ThemeConfig
	StateFile string
}

// Defaults for settings that are not in the config file.
const (
	DefaultIndent       = 2
	DefaultExpandDepth  = 1
	DefaultFetchTimeout = 5 * time.Second
)

// Default returns the default configuration
func Default() Config {
	return Config{
		Tree: TreeConfig{
			Indent:       DefaultIndent,
			ExpandDepth:  DefaultExpandDepth,
			Guides:       true,
			FetchTimeout: DefaultFetchTimeout,
		},
	}
}

// rawTree mirrors TreeConfig with pointers so unset keys keep their defaults
type rawTree struct {
	Indent       *int   `toml:"indent"`
	ExpandDepth  *int   `toml:"expand_depth"`
	MaxDepth     *int   `toml:"max_depth"`
	ShowHidden   *bool  `toml:"show_hidden"`
	DirsFirst    *bool  `toml:"dirs_first"`
	Guides       *bool  `toml:"guides"`
	FetchTimeout string `toml:"fetch_timeout"`
}

type rawConfig struct {
	Tree      rawTree     `toml:"tree"`
	Theme     ThemeConfig `toml:"theme"`
	StateFile string      `toml:"state_file"`
}

// Path returns the config file location: $FTREE_CONFIG if set, otherwise
// ~/.config/ftree/config.toml
func Path() (string, error) {
	if p := os.Getenv("FTREE_CONFIG"); p != "" {
		return expandPath(p)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ftree", "config.toml"), nil
}

// Load reads the config file at Path.
// Returns Default() if the file doesn't exist (no error).
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads config from path.
// Returns an error only if the file exists but is invalid.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := Default()
	if err := applyTree(&cfg.Tree, raw.Tree, ""); err != nil {
		return Default(), err
	}
	cfg.Theme = raw.Theme
	cfg.StateFile = raw.StateFile

	if err := validateEnum(cfg.Theme.Name, "theme.name", ValidThemeNames); err != nil {
		return Default(), err
	}
	if err := validateEnum(cfg.Theme.Mode, "theme.mode", ValidThemeModes); err != nil {
		return Default(), err
	}

	if err := ValidatePath(cfg.StateFile, "state_file"); err != nil {
		return Default(), err
	}
	// Expand ~ in state_file (shell doesn't expand in config files)
	cfg.StateFile, err = expandPath(cfg.StateFile)
	if err != nil {
		return Default(), fmt.Errorf("expand state_file: %w", err)
	}

	return cfg, nil
}

// applyTree copies the set fields of raw onto t after validating them.
// source names the file in error messages when it is not the global config.
func applyTree(t *TreeConfig, raw rawTree, source string) error {
	in := ""
	if source != "" {
		in = " in " + source
	}

	if raw.Indent != nil {
		if *raw.Indent < 1 || *raw.Indent > 8 {
			return fmt.Errorf("invalid tree.indent %d%s: must be between 1 and 8", *raw.Indent, in)
		}
		t.Indent = *raw.Indent
	}
	if raw.ExpandDepth != nil {
		if *raw.ExpandDepth < 0 {
			return fmt.Errorf("invalid tree.expand_depth %d%s: must not be negative", *raw.ExpandDepth, in)
		}
		t.ExpandDepth = *raw.ExpandDepth
	}
	if raw.MaxDepth != nil {
		if *raw.MaxDepth < 0 {
			return fmt.Errorf("invalid tree.max_depth %d%s: must not be negative", *raw.MaxDepth, in)
		}
		t.MaxDepth = *raw.MaxDepth
	}
	if raw.ShowHidden != nil {
		t.ShowHidden = *raw.ShowHidden
	}
	if raw.DirsFirst != nil {
		t.DirsFirst = *raw.DirsFirst
	}
	if raw.Guides != nil {
		t.Guides = *raw.Guides
	}
	if raw.FetchTimeout != "" {
		d, err := time.ParseDuration(raw.FetchTimeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid tree.fetch_timeout %q%s: must be a positive duration like \"5s\"", raw.FetchTimeout, in)
		}
		t.FetchTimeout = d
	}
	return nil
}

// ValidatePath checks that the path is absolute or starts with ~
// Returns error if path is relative (like "." or "..")
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil
	}
	if path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if path == "~" {
		return os.UserHomeDir()
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

type ctxKey struct{}

// WithConfig attaches cfg to the context.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext returns the config attached to ctx, or the defaults.
func FromContext(ctx context.Context) *Config {
	if c, ok := ctx.Value(ctxKey{}).(*Config); ok {
		return c
	}
	cfg := Default()
	return &cfg
}

const defaultConfig = `# ftree configuration

[tree]
# Spaces per level in "ftree show" output (1-8)
# indent = 2

# Levels expanded when a tree is shown without saved state
# expand_depth = 1

# Stop listing directories below this depth (0 = unlimited)
# max_depth = 0

# Show dot files
# show_hidden = false

# List directories before files
# dirs_first = false

# Draw guide lines between siblings
# guides = true

# How long a flatten pass waits for slow directory listings.
# Listings still pending after this show up collapsed.
# fetch_timeout = "5s"

# Theme settings
# [theme]
# name = "default"   # none, default, nord, gruvbox
# mode = "auto"      # auto, light, dark
# nerdfont = false   # nerd font glyphs for expanders and node kinds
# Per-role colour overrides
# dir = "#88c0d0"
# guide = "#4c566a"
# cursor = "#b48ead"

# Where expansion state is saved
# Must be an absolute path or start with ~
# state_file = "~/.ftree/state.json"
`

// Init creates a default config file at Path.
// If force is true, overwrites an existing file.
// Returns the path to the created file.
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", errors.New("config file already exists: " + path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return "", err
	}

	return path, nil
}

// DefaultConfig returns the commented default configuration.
func DefaultConfig() string {
	return defaultConfig
}
