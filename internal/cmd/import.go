package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runger/hop/internal/history"
)

var (
	importLimit  int
	importDryRun bool
)

var importCmd = &cobra.Command{
	Use:     "import",
	Short:   "Seed the switch log from git's reflog",
	GroupID: groupSetup,
	Long: `Seed the switch log from HEAD's reflog.

Every "checkout: moving from A to B" entry whose target is an existing
local branch becomes a recorded switch. Switches already in the log are
skipped, so running import twice is harmless.

Examples:
  hop import                # Import up to select.import_limit switches
  hop import --limit 500    # Import the 500 most recent switches
  hop import --dry-run      # Show how many switches would be imported`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

func init() {
	importCmd.Flags().IntVar(&importLimit, "limit", 0, "Maximum number of switches to import (default: select.import_limit)")
	importCmd.Flags().BoolVarP(&importDryRun, "dry-run", "n", false, "Count switches without writing them")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}

	limit := importLimit
	if limit <= 0 {
		limit = a.cfg.Select.ImportLimit
	}

	branches, err := a.git.ListBranches(ctx)
	if err != nil {
		return fmt.Errorf("failed to list branches: %w", err)
	}
	reflog, err := a.git.Reflog(ctx)
	if err != nil {
		return fmt.Errorf("failed to read reflog: %w", err)
	}

	events, err := history.ParseReflog(strings.NewReader(reflog), branchSet(branches), limit)
	if err != nil {
		return fmt.Errorf("failed to parse reflog: %w", err)
	}

	store := a.coord.Store()
	fresh := newEvents(store.Load(), events)
	if importDryRun {
		fmt.Printf("Would import %d switch(es) (%d already recorded)\n", len(fresh), len(events)-len(fresh))
		return nil
	}

	for _, ev := range fresh {
		if err := store.Append(ev); err != nil {
			return err
		}
	}

	fmt.Printf("%sImported%s %d switch(es) into %s\n", colorGreen, colorReset, len(fresh), store.Path())
	if skipped := len(events) - len(fresh); skipped > 0 {
		fmt.Printf("%s%d already recorded%s\n", colorDim, skipped, colorReset)
	}
	return nil
}

// branchSet returns a membership test for names.
func branchSet(names []string) func(string) bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool { return set[name] }
}

// newEvents returns the events of incoming that are not already in existing.
func newEvents(existing history.Log, incoming []history.Event) []history.Event {
	seen := make(map[history.Event]bool, len(existing))
	for ev := range existing.Events() {
		seen[ev] = true
	}
	var out []history.Event
	for _, ev := range incoming {
		if seen[ev] {
			continue
		}
		seen[ev] = true
		out = append(out, ev)
	}
	return out
}
