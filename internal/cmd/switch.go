package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/runger/hop/internal/config"
	"github.com/runger/hop/internal/picker"
	"github.com/runger/hop/internal/rank"
	"github.com/runger/hop/internal/score"
	"github.com/runger/hop/internal/switcher"
	"github.com/runger/hop/internal/vcs"
)

func runSwitch(cmd *cobra.Command, args []string) error {
	pattern := ""
	if len(args) == 1 {
		pattern = args[0]
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}

	if listFlag {
		return runList(ctx, a, os.Stdout, pattern)
	}

	var out switcher.Outcome
	if pickFlag {
		out, err = a.coord.Choose(ctx, pattern, a.chooser(ctx, pattern), dryRunFlag)
	} else {
		out, err = a.coord.Execute(ctx, pattern, dryRunFlag)
	}
	if err != nil {
		return err
	}

	reportOutcome(os.Stdout, os.Stderr, pattern, out, dryRunFlag, pickFlag)
	return nil
}

// reportOutcome prints the result of a switch. In dry-run mode stdout gets
// only the branch name so it can be used in command substitution.
func reportOutcome(stdout, stderr io.Writer, pattern string, out switcher.Outcome, dryRun, picked bool) {
	if out.Multiple && !picked {
		fmt.Fprintf(stderr, "%s%d branches match%s; using the most used: %s%s%s\n",
			colorYellow, len(out.Ranked), describePattern(pattern), colorBold, out.Branch, colorReset)
	}

	switch {
	case dryRun && (out.Action == switcher.ActionDryRun || out.Action == switcher.ActionAlreadyOn):
		fmt.Fprintln(stdout, out.Branch)
	case out.Action == switcher.ActionAlreadyOn:
		fmt.Fprintf(stdout, "Already on '%s'\n", out.Branch)
	case out.Action == switcher.ActionSwitched:
		fmt.Fprintf(stdout, "%sSwitched to branch '%s'%s\n", colorGreen, out.Branch, colorReset)
	case out.Action == switcher.ActionListed:
		for _, name := range rank.Branches(out.Ranked) {
			fmt.Fprintln(stdout, name)
		}
	}
}

func describePattern(pattern string) string {
	if pattern == "" {
		return ""
	}
	return fmt.Sprintf(" %q", pattern)
}

// runList prints the ranked candidates without switching.
func runList(ctx context.Context, a *app, w io.Writer, pattern string) error {
	entries, err := a.coord.List(ctx, pattern)
	if err != nil {
		return err
	}
	renderList(w, entries, listOptions{
		Stars: a.cfg.UI.Stars,
		Width: terminalWidth(),
	})
	return nil
}

// chooser returns the interactive chooser configured for --pick. The TUI
// starts with pattern in its filter so it can be refined.
func (a *app) chooser(ctx context.Context, pattern string) switcher.Chooser {
	if a.cfg.Select.InteractiveBackend == config.BackendTUI {
		current, err := a.git.CurrentBranch(ctx)
		if err != nil && !errors.Is(err, vcs.ErrDetachedHead) {
			a.logger.Warn("cannot determine current branch", "error", err)
		}
		return &picker.Chooser{
			Current: current,
			Query:   pattern,
			Stars:   a.cfg.UI.Stars,
			Color:   a.cfg.UI.Color != "never",
		}
	}

	// The list goes to stderr so `$(hop -p -n)` still captures only the name.
	return &rank.Prompter{
		In:    os.Stdin,
		Out:   os.Stderr,
		Label: promptLabel(a.cfg.UI.Stars),
	}
}

func promptLabel(stars bool) func(rank.Ranked) string {
	return func(r rank.Ranked) string {
		if !stars {
			return r.Branch
		}
		return colorYellow + starColumn(score.Stars(r.Score)) + colorReset + " " + r.Branch
	}
}
