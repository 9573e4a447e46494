// Package config handles loading and validation of ftree configuration.
//
// Configuration is read from ~/.config/ftree/config.toml. The FTREE_CONFIG
// environment variable points at a different file.
//
// # Key Settings
//
//   - [tree] indent: spaces per level in static output (default 2)
//   - [tree] expand_depth: levels expanded when a tree is first shown (default 1)
//   - [tree] max_depth: directories deeper than this are not listed (0 = unlimited)
//   - [tree] show_hidden, dirs_first, guides: listing and drawing options
//   - [tree] fetch_timeout: how long a flatten pass waits for slow listings
//   - [theme]: colour preset, light/dark mode, nerd font glyphs, colour overrides
//   - state_file: where expansion state is persisted (default ~/.ftree/state.json)
//
// # Per-root Overrides
//
// A directory being browsed may carry a .ftree.toml file with a [tree]
// section. Values set there override the global [tree] settings for that
// root only:
//
//	[tree]
//	show_hidden = true
//	max_depth = 3
//
// # Path Validation
//
// state_file must be absolute or start with ~ (no relative paths like "."
// or "..") to avoid confusion about the working directory.
package config
