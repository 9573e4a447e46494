package doctor

import (
	"context"
	"fmt"
	"io"

	"github.com/raphi011/ftree/internal/output"
)

// Options selects the files doctor inspects.
type Options struct {
	ConfigPath string
	StatePath  string
	Fix        bool
}

// Run performs diagnostic checks and optionally fixes issues. The report
// goes to the printer in ctx.
func Run(ctx context.Context, opts Options) error {
	w := output.FromContext(ctx).Writer()

	var stats IssueStats
	var allIssues []Issue

	// Category 1: state file
	fmt.Fprintln(w, "Checking state file...")
	st, corrupt := readState(opts.StatePath)
	if corrupt != nil {
		corrupt.Category = CategoryState
		allIssues = append(allIssues, *corrupt)
		stats.StateCorrupt = true
	}
	dupes, stale := checkEntries(st)
	for i := range dupes {
		dupes[i].Category = CategoryState
	}
	allIssues = append(allIssues, dupes...)
	stats.Duplicates = len(dupes)

	// Category 2: stale paths
	fmt.Fprintln(w, "Checking saved roots...")
	for i := range stale {
		stale[i].Category = CategoryStale
		switch stale[i].FixAction {
		case FixRemoveEntry:
			stats.StaleRoots++
		case FixDropKeys:
			stats.DeadKeys += len(stale[i].Keys)
		}
	}
	allIssues = append(allIssues, stale...)
	stats.EntriesValid = len(st.Entries) - stats.Duplicates - len(stale)

	// Category 3: config files
	fmt.Fprintln(w, "Checking config...")
	configIssues := checkConfig(opts.ConfigPath, st)
	for i := range configIssues {
		configIssues[i].Category = CategoryConfig
	}
	allIssues = append(allIssues, configIssues...)
	stats.ConfigIssues = len(configIssues)

	printSummary(w, stats)

	if len(allIssues) == 0 {
		fmt.Fprintln(w, "\n✓ No issues found")
		return nil
	}

	fmt.Fprintf(w, "\nFound %d issues:\n", len(allIssues))
	printIssuesByCategory(w, allIssues)

	if opts.Fix {
		fmt.Fprintln(w)
		return fixAllIssues(w, opts.StatePath, allIssues)
	}

	fmt.Fprintln(w, "\nRun 'ftree doctor --fix' to repair.")
	return nil
}

// printSummary prints a categorized summary.
func printSummary(w io.Writer, stats IssueStats) {
	fmt.Fprintln(w)

	if stats.StateCorrupt {
		fmt.Fprintln(w, "  ✗ state file is corrupt")
	} else {
		fmt.Fprintf(w, "  ✓ %d saved roots valid\n", stats.EntriesValid)
	}
	if stats.Duplicates > 0 {
		fmt.Fprintf(w, "  ⚠ %d duplicate entries\n", stats.Duplicates)
	}
	if stats.StaleRoots > 0 {
		fmt.Fprintf(w, "  ⚠ %d roots no longer exist\n", stats.StaleRoots)
	}
	if stats.DeadKeys > 0 {
		fmt.Fprintf(w, "  ⚠ %d expanded paths no longer exist\n", stats.DeadKeys)
	}
	if stats.ConfigIssues > 0 {
		fmt.Fprintf(w, "  ✗ %d invalid config files\n", stats.ConfigIssues)
	}
}

// printIssuesByCategory groups and prints issues.
func printIssuesByCategory(w io.Writer, issues []Issue) {
	byCategory := make(map[IssueCategory][]Issue)
	for _, issue := range issues {
		byCategory[issue.Category] = append(byCategory[issue.Category], issue)
	}

	categoryNames := map[IssueCategory]string{
		CategoryState:  "State file issues",
		CategoryStale:  "Stale entries",
		CategoryConfig: "Config issues",
	}

	for _, cat := range []IssueCategory{CategoryState, CategoryStale, CategoryConfig} {
		catIssues := byCategory[cat]
		if len(catIssues) == 0 {
			continue
		}

		fmt.Fprintf(w, "\n%s:\n", categoryNames[cat])
		for _, issue := range catIssues {
			fmt.Fprintf(w, "  • %s: %s\n", issue.Key, issue.Description)
		}
	}
}
