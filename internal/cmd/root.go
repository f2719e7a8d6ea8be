package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

const (
	groupCore  = "core"
	groupSetup = "setup"
)

var (
	listFlag   bool
	dryRunFlag bool
	pickFlag   bool
	repoDir    string
)

var rootCmd = &cobra.Command{
	Use:   "hop [pattern]",
	Short: "Switch git branches by partial name, ranked by how often you use them",
	Long: `hop - switch git branches by partial name

hop learns which branches you use. Every checkout is recorded by a git
post-checkout hook, and branches are ranked by a recency-weighted count of
those switches: each visit counts 1 and loses about two thirds of its
weight per week.

  hop feat          switch to the most used branch containing "feat"
  hop               switch to the most used tracked branch
  hop -l feat       list matching branches with their scores
  hop -p feat       choose from a numbered list (or the TUI picker)
  hop -n feat       print the branch hop would pick, without switching

Run 'hop hook install' once per repository to start recording.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runSwitch,
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// PrintError writes the single user-facing error line.
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "%shop:%s %v\n", colorRed, colorReset, err)
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: groupCore, Title: "Branch history:"},
		&cobra.Group{ID: groupSetup, Title: "Setup:"},
	)

	rootCmd.Flags().BoolVarP(&listFlag, "list", "l", false, "List matching branches instead of switching")
	rootCmd.Flags().BoolVarP(&dryRunFlag, "dry-run", "n", false, "Print the selected branch without switching")
	rootCmd.Flags().BoolVarP(&pickFlag, "pick", "p", false, "Choose interactively when several branches match")
	rootCmd.MarkFlagsMutuallyExclusive("list", "pick")
	rootCmd.PersistentFlags().StringVarP(&repoDir, "repo", "C", "", "Run as if hop was started in this directory")

	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
