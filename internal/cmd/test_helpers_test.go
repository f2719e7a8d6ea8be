package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() failed: %v", err)
	}
	os.Stdout = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	fn()
	_ = w.Close()
	os.Stdout = old
	out := <-outC
	_ = r.Close()
	return out
}

// withoutColors disables ANSI colours for the test and restores them after.
func withoutColors(t *testing.T) {
	t.Helper()
	withColorMode(t, "never")
}

// withCommandGlobals snapshots the package-level flag variables so tests can
// set them freely.
func withCommandGlobals(t *testing.T) {
	t.Helper()
	origRepo := repoDir
	origFromHook, origAt := recordFromHook, recordAt
	origHistLimit, origHistRaw := historyLimit, historyRaw
	origImportLimit, origImportDry := importLimit, importDryRun
	origList, origDry, origPick := listFlag, dryRunFlag, pickFlag
	t.Cleanup(func() {
		repoDir = origRepo
		recordFromHook, recordAt = origFromHook, origAt
		historyLimit, historyRaw = origHistLimit, origHistRaw
		importLimit, importDryRun = origImportLimit, origImportDry
		listFlag, dryRunFlag, pickFlag = origList, origDry, origPick
	})
}

// skipIfNoGit skips tests that need a git binary, or that would run inside
// a git hook where the environment points at another repository.
func skipIfNoGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("skipping: git not installed")
	}
	if os.Getenv("GIT_DIR") != "" || os.Getenv("GIT_INDEX_FILE") != "" {
		t.Skip("skipping: test doesn't work reliably during git hooks")
	}
}

// setupRepo creates an isolated repository on main with the given extra
// branches, points the commands at it and isolates hop's configuration.
func setupRepo(t *testing.T, branches ...string) string {
	t.Helper()
	skipIfNoGit(t)
	withCommandGlobals(t)
	withoutColors(t)

	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	t.Setenv("HOP_CONFIG_DIR", filepath.Join(dir, ".hop-config"))
	t.Setenv("HOME", dir)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))
	for _, k := range []string{"HOP_LOG_LEVEL", "HOP_DEBUG", "HOP_GIT", "HOP_PICKER"} {
		t.Setenv(k, "")
	}

	runGit(t, dir, "init", "-q")
	runGit(t, dir, "symbolic-ref", "HEAD", "refs/heads/main")
	runGit(t, dir, "config", "user.email", "test@test.com")
	runGit(t, dir, "config", "user.name", "Test User")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("hello\n"), 0o644))
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-q", "-m", "initial")
	for _, b := range branches {
		runGit(t, dir, "branch", b)
	}

	repoDir = dir
	return dir
}

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s failed: %v\noutput: %s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}

// withContext gives a command the context ExecuteContext would have set.
func withContext(c *cobra.Command) *cobra.Command {
	c.SetContext(context.Background())
	return c
}

func readLog(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, ".git", "hop", "switches.log"))
	if os.IsNotExist(err) {
		return ""
	}
	require.NoError(t, err)
	return string(data)
}
