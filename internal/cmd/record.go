package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/runger/hop/internal/logging"
	"github.com/runger/hop/internal/vcs"
)

var (
	recordFromHook bool
	recordAt       int64
)

var recordCmd = &cobra.Command{
	Use:   "record [branch]",
	Short: "Record a branch switch",
	Long: `Record a branch switch in the repository's switch log.

The post-checkout hook installed by 'hop hook install' runs
'hop record --from-hook <prev-head> <new-head> <branch-flag>'. Only branch
checkouts (flag 1) onto a named branch are recorded; file checkouts and
detached HEADs are ignored.

With a branch argument the switch is recorded directly, at the current time
or at --at <unix-seconds>.`,
	GroupID: groupSetup,
	Args:    cobra.MaximumNArgs(3),
	RunE:    runRecord,
}

func init() {
	recordCmd.Flags().BoolVar(&recordFromHook, "from-hook", false, "Arguments are the post-checkout hook arguments")
	recordCmd.Flags().Int64Var(&recordAt, "at", 0, "Timestamp of the switch in unix seconds (default: now)")
}

func runRecord(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}

	ts := recordAt
	if ts == 0 {
		ts = time.Now().Unix()
	}

	if !recordFromHook {
		if len(args) != 1 {
			return errors.New("record needs exactly one branch name")
		}
		return a.coord.RecordSwitch(args[0], ts)
	}

	if len(args) != 3 {
		return fmt.Errorf("--from-hook expects 3 post-checkout arguments, got %d", len(args))
	}
	if args[2] != "1" {
		logging.LogHookSkipped(a.logger, "file checkout")
		return nil
	}

	branch, err := a.git.CurrentBranch(ctx)
	if errors.Is(err, vcs.ErrDetachedHead) {
		logging.LogHookSkipped(a.logger, "detached HEAD")
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot determine checked-out branch: %w", err)
	}
	return a.coord.RecordSwitch(branch, ts)
}
