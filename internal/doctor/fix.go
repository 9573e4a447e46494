package doctor

import (
	"fmt"
	"io"
	"slices"

	"github.com/raphi011/ftree/internal/state"
)

// fixAllIssues applies fixes for all detected issues under the state lock.
func fixAllIssues(w io.Writer, statePath string, issues []Issue) error {
	var fixed, skipped int
	err := state.Update(statePath, func(s *state.State) error {
		for _, issue := range issues {
			switch issue.FixAction {
			case FixReset:
				// A corrupt file loads as empty, so saving it resets it.
				fmt.Fprintf(w, "  ✓ Reset %s\n", issue.Key)
				fixed++
			case FixDedupe:
				dedupe(s, issue.Key)
				fmt.Fprintf(w, "  ✓ Merged duplicate entries for %s\n", issue.Key)
				fixed++
			case FixRemoveEntry:
				s.Remove(issue.Key)
				fmt.Fprintf(w, "  ✓ Removed %s\n", issue.Key)
				fixed++
			case FixDropKeys:
				dropKeys(s, issue.Key, issue.Keys)
				fmt.Fprintf(w, "  ✓ Dropped %d expanded path(s) of %s\n", len(issue.Keys), issue.Key)
				fixed++
			default:
				fmt.Fprintf(w, "  ✗ %s: fix manually\n", issue.Key)
				skipped++
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "\nFixed %d issue(s)", fixed)
	if skipped > 0 {
		fmt.Fprintf(w, ", %d need manual attention", skipped)
	}
	fmt.Fprintln(w)
	return nil
}

// dedupe keeps the most recently accessed entry for root.
func dedupe(s *state.State, root string) {
	best := -1
	for i, e := range s.Entries {
		if e.Root == root && (best < 0 || e.LastAccess.After(s.Entries[best].LastAccess)) {
			best = i
		}
	}
	if best < 0 {
		return
	}
	keep := s.Entries[best]
	s.Entries = slices.DeleteFunc(s.Entries, func(e state.Entry) bool { return e.Root == root })
	s.Entries = append(s.Entries, keep)
}

func dropKeys(s *state.State, root string, keys []string) {
	for i := range s.Entries {
		if s.Entries[i].Root != root {
			continue
		}
		s.Entries[i].Expanded = slices.DeleteFunc(s.Entries[i].Expanded, func(k string) bool {
			return slices.Contains(keys, k)
		})
	}
}
