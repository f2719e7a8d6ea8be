package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

const (
	hookName      = "post-checkout"
	hookBackup    = "post-checkout.hop-backup"
	hookSignature = "# Installed by hop."
)

var hookCmd = &cobra.Command{
	Use:     "hook",
	Short:   "Manage the git hook that records branch switches",
	GroupID: groupSetup,
}

var hookInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the post-checkout hook in this repository",
	Long: `Install a post-checkout hook that records every branch switch.

An existing post-checkout hook that was not written by hop is kept as
post-checkout.hop-backup and still runs first on every checkout.
Recording errors are printed but never block a checkout.`,
	Args: cobra.NoArgs,
	RunE: runHookInstall,
}

var hookUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the hook and restore any previous post-checkout hook",
	Args:  cobra.NoArgs,
	RunE:  runHookUninstall,
}

var hookStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether switches are being recorded",
	Args:  cobra.NoArgs,
	RunE:  runHookStatus,
}

func init() {
	hookCmd.AddCommand(hookInstallCmd)
	hookCmd.AddCommand(hookUninstallCmd)
	hookCmd.AddCommand(hookStatusCmd)
}

// hookState describes the post-checkout hook in a hooks directory.
type hookState struct {
	Installed bool // The hook is ours
	Foreign   bool // A hook exists that is not ours
	Chained   bool // A previous hook was backed up and is chained
}

func inspectHook(hooksDir string) (hookState, error) {
	var st hookState

	data, err := os.ReadFile(filepath.Join(hooksDir, hookName))
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return st, fmt.Errorf("failed to read hook: %w", err)
	case strings.Contains(string(data), hookSignature):
		st.Installed = true
	default:
		st.Foreign = true
	}

	if _, err := os.Stat(filepath.Join(hooksDir, hookBackup)); err == nil {
		st.Chained = true
	}
	return st, nil
}

// hookScript returns the post-checkout script. exe is the hop binary to run;
// if it has moved, the script falls back to hop on $PATH. Recording errors
// are shown on stderr but never fail the checkout.
func hookScript(exe string) string {
	return `#!/bin/sh
` + hookSignature + ` Records branch switches for 'hop <pattern>'.
# Remove with 'hop hook uninstall'.
status=0
hook_dir=$(dirname "$0")
if [ -x "$hook_dir/` + hookBackup + `" ]; then
	"$hook_dir/` + hookBackup + `" "$@" || status=$?
fi
hop=` + shellQuote(exe) + `
[ -x "$hop" ] || hop=hop
"$hop" record --from-hook "$@" >/dev/null || true
exit $status
`
}

// shellQuote single-quotes s for /bin/sh.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// installHook writes the hook into hooksDir, moving a foreign hook aside.
// It reports whether a foreign hook was backed up.
func installHook(hooksDir, exe string) (backedUp bool, err error) {
	st, err := inspectHook(hooksDir)
	if err != nil {
		return false, err
	}

	if err := os.MkdirAll(hooksDir, 0755); err != nil {
		return false, fmt.Errorf("failed to create hooks directory: %w", err)
	}

	hookPath := filepath.Join(hooksDir, hookName)
	if st.Foreign {
		if st.Chained {
			return false, fmt.Errorf("both %s and %s exist; move one of them away first", hookName, hookBackup)
		}
		if err := os.Rename(hookPath, filepath.Join(hooksDir, hookBackup)); err != nil {
			return false, fmt.Errorf("failed to back up existing hook: %w", err)
		}
		backedUp = true
	}

	if err := os.WriteFile(hookPath, []byte(hookScript(exe)), 0755); err != nil {
		return backedUp, fmt.Errorf("failed to write hook: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(hookPath, 0755); err != nil {
		return backedUp, fmt.Errorf("failed to make hook executable: %w", err)
	}
	return backedUp, nil
}

// uninstallHook removes our hook and restores a backed-up one. It reports
// whether anything was removed and whether a backup was restored.
func uninstallHook(hooksDir string) (removed, restored bool, err error) {
	st, err := inspectHook(hooksDir)
	if err != nil {
		return false, false, err
	}
	if !st.Installed {
		return false, false, nil
	}

	hookPath := filepath.Join(hooksDir, hookName)
	if err := os.Remove(hookPath); err != nil {
		return false, false, fmt.Errorf("failed to remove hook: %w", err)
	}
	if st.Chained {
		if err := os.Rename(filepath.Join(hooksDir, hookBackup), hookPath); err != nil {
			return true, false, fmt.Errorf("failed to restore previous hook: %w", err)
		}
		restored = true
	}
	return true, restored, nil
}

func hopExecutable() string {
	exe, err := os.Executable()
	if err != nil {
		return "hop"
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return exe
}

func runHookInstall(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}

	st, err := inspectHook(a.repo.HooksDir)
	if err != nil {
		return err
	}

	backedUp, err := installHook(a.repo.HooksDir, hopExecutable())
	if err != nil {
		return err
	}

	hookPath := filepath.Join(a.repo.HooksDir, hookName)
	if st.Installed {
		fmt.Printf("%sUpdated%s hook: %s\n", colorGreen, colorReset, hookPath)
	} else {
		fmt.Printf("%sInstalled%s hook: %s\n", colorGreen, colorReset, hookPath)
	}
	if backedUp {
		fmt.Printf("  Existing hook kept as %s and chained\n", hookBackup)
	}
	fmt.Printf("Branch switches are recorded in %s\n", a.repo.LogPath)
	return nil
}

func runHookUninstall(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}

	removed, restored, err := uninstallHook(a.repo.HooksDir)
	if err != nil {
		return err
	}
	if !removed {
		fmt.Println("hop hook is not installed")
		return nil
	}

	fmt.Printf("%sRemoved%s hook from %s\n", colorGreen, colorReset, a.repo.HooksDir)
	if restored {
		fmt.Printf("  Restored previous %s hook\n", hookName)
	}
	fmt.Printf("%sThe switch log was kept: %s%s\n", colorDim, a.repo.LogPath, colorReset)
	return nil
}

func runHookStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}

	st, err := inspectHook(a.repo.HooksDir)
	if err != nil {
		return err
	}

	switch {
	case st.Installed:
		fmt.Printf("Hook:    %sinstalled%s (%s)\n", colorGreen, colorReset, filepath.Join(a.repo.HooksDir, hookName))
	case st.Foreign:
		fmt.Printf("Hook:    %snot installed%s (another post-checkout hook exists)\n", colorYellow, colorReset)
	default:
		fmt.Printf("Hook:    %snot installed%s\n", colorYellow, colorReset)
	}
	if st.Chained {
		fmt.Printf("Chained: %s\n", hookBackup)
	}

	log := a.coord.Store().Load()
	fmt.Printf("Log:     %s\n", a.repo.LogPath)
	fmt.Printf("Records: %d switches, %d branches\n", len(log), len(log.Branches()))
	return nil
}
