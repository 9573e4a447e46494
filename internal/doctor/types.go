package doctor

// IssueCategory groups issues by type.
type IssueCategory string

const (
	// CategoryConfig represents invalid global or local config files.
	CategoryConfig IssueCategory = "config"
	// CategoryState represents problems with the state file itself.
	CategoryState IssueCategory = "state"
	// CategoryStale represents saved state pointing at vanished paths.
	CategoryStale IssueCategory = "stale"
)

// Fix actions.
const (
	FixNone        = ""
	FixReset       = "reset"
	FixDedupe      = "dedupe"
	FixRemoveEntry = "remove_entry"
	FixDropKeys    = "drop_keys"
)

// Issue represents a problem detected by doctor.
type Issue struct {
	Key         string        // file path or root
	Description string        // human-readable description
	FixAction   string        // what --fix would do
	Category    IssueCategory // issue category
	Keys        []string      // expanded keys to drop, for FixDropKeys
}

// IssueStats tracks counts by category.
type IssueStats struct {
	ConfigIssues int // config files that fail to load
	StateCorrupt bool
	EntriesValid int // saved roots without issues
	Duplicates   int // extra entries for an already saved root
	StaleRoots   int // saved roots gone from disk
	DeadKeys     int // expanded keys whose paths are gone
}
