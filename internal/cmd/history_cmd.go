package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/runger/hop/internal/history"
)

var (
	historyLimit int
	historyRaw   bool
)

var historyCmd = &cobra.Command{
	Use:     "history [pattern]",
	Short:   "Show recorded branch switches",
	GroupID: groupCore,
	Long: `Show the branch switches recorded for this repository, oldest first.

With a pattern argument, only switches to branches containing the pattern
(case-insensitive) are shown.

Examples:
  hop history               # Show the last 20 switches
  hop history -n 0          # Show every switch
  hop history feat          # Switches to branches containing "feat"
  hop history --raw         # Print log records unchanged`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of switches to show (0 for all)")
	historyCmd.Flags().BoolVar(&historyRaw, "raw", false, "Print records as stored in the log")
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}

	pattern := ""
	if len(args) > 0 {
		pattern = args[0]
	}

	events := filterEvents(a.coord.Store().Load(), pattern, historyLimit)
	if len(events) == 0 {
		if pattern != "" {
			fmt.Printf("No switches found matching '%s'\n", pattern)
		} else {
			fmt.Println("No branch switches recorded yet.")
			fmt.Println("Tip: run 'hop hook install' to start recording.")
		}
		return nil
	}

	printEvents(os.Stdout, events, historyRaw)
	if !historyRaw {
		fmt.Println()
		fmt.Printf("%sShowing %d switch(es)%s\n", colorDim, len(events), colorReset)
	}
	return nil
}

// filterEvents keeps events whose branch contains pattern and returns the
// last limit of them in log order. limit <= 0 keeps everything.
func filterEvents(log history.Log, pattern string, limit int) history.Log {
	needle := strings.ToLower(pattern)
	var out history.Log
	for ev := range log.Events() {
		if needle != "" && !strings.Contains(strings.ToLower(ev.Branch), needle) {
			continue
		}
		out = append(out, ev)
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

func printEvents(w io.Writer, events history.Log, raw bool) {
	for _, ev := range events {
		if raw {
			fmt.Fprint(w, ev.Line())
			continue
		}
		timestamp := time.Unix(ev.Timestamp, 0).Format("2006-01-02 15:04:05")
		fmt.Fprintf(w, "%s%s%s  %s\n", colorDim, timestamp, colorReset, ev.Branch)
	}
}
