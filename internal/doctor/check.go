package doctor

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/raphi011/ftree/internal/config"
	"github.com/raphi011/ftree/internal/state"
)

// checkConfig loads the global config and the local config of every saved
// root.
func checkConfig(configPath string, st *state.State) []Issue {
	var issues []Issue
	if configPath != "" {
		if _, err := config.LoadFile(configPath); err != nil {
			issues = append(issues, Issue{
				Key:         configPath,
				Description: err.Error(),
				FixAction:   FixNone,
			})
		}
	}

	for _, e := range st.Entries {
		if info, err := os.Stat(e.Root); err != nil || !info.IsDir() {
			continue
		}
		if _, err := config.LoadLocal(e.Root); err != nil {
			issues = append(issues, Issue{
				Key:         e.Root,
				Description: err.Error(),
				FixAction:   FixNone,
			})
		}
	}
	return issues
}

// readState parses the state file strictly. state.Load treats a corrupt
// file as empty, which would hide the problem from doctor.
func readState(path string) (*state.State, *Issue) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &state.State{}, nil
		}
		return &state.State{}, &Issue{Key: path, Description: err.Error(), FixAction: FixNone}
	}

	var st state.State
	if err := json.Unmarshal(data, &st); err != nil {
		return &state.State{}, &Issue{
			Key:         path,
			Description: fmt.Sprintf("not valid JSON: %v", err),
			FixAction:   FixReset,
		}
	}
	return &st, nil
}

// checkEntries finds duplicate roots, roots gone from disk and expanded
// keys whose paths are gone.
func checkEntries(st *state.State) (dupes, stale []Issue) {
	seen := make(map[string]bool)
	for _, e := range st.Entries {
		if seen[e.Root] {
			dupes = append(dupes, Issue{
				Key:         e.Root,
				Description: "saved more than once",
				FixAction:   FixDedupe,
			})
			continue
		}
		seen[e.Root] = true

		if _, err := os.Stat(e.Root); errors.Is(err, os.ErrNotExist) {
			stale = append(stale, Issue{
				Key:         e.Root,
				Description: "root no longer exists",
				FixAction:   FixRemoveEntry,
			})
			continue
		}

		var dead []string
		for _, key := range e.Expanded {
			if _, err := os.Stat(keyPath(key)); errors.Is(err, os.ErrNotExist) {
				dead = append(dead, key)
			}
		}
		if len(dead) > 0 {
			stale = append(stale, Issue{
				Key:         e.Root,
				Description: fmt.Sprintf("%d expanded path(s) no longer exist", len(dead)),
				FixAction:   FixDropKeys,
				Keys:        dead,
			})
		}
	}
	return dupes, stale
}

// keyPath returns the file part of a node key. Document keys carry a JSON
// pointer after '#'.
func keyPath(key string) string {
	if i := strings.Index(key, "#"); i >= 0 {
		return key[:i]
	}
	return key
}
