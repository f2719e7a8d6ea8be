package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/hop/internal/config"
	"github.com/runger/hop/internal/picker"
	"github.com/runger/hop/internal/rank"
	"github.com/runger/hop/internal/switcher"
)

func TestReportOutcome(t *testing.T) {
	withoutColors(t)

	two := []rank.Ranked{{Branch: "feat-a", Score: 2}, {Branch: "feat-b", Score: 1}}

	tests := []struct {
		name       string
		pattern    string
		out        switcher.Outcome
		dryRun     bool
		picked     bool
		wantStdout string
		wantStderr string
	}{
		{
			name:       "switched",
			out:        switcher.Outcome{Branch: "feat-a", Action: switcher.ActionSwitched},
			wantStdout: "Switched to branch 'feat-a'\n",
		},
		{
			name:       "already on",
			out:        switcher.Outcome{Branch: "main", Action: switcher.ActionAlreadyOn},
			wantStdout: "Already on 'main'\n",
		},
		{
			name:       "dry run prints only the name",
			out:        switcher.Outcome{Branch: "feat-a", Action: switcher.ActionDryRun},
			dryRun:     true,
			wantStdout: "feat-a\n",
		},
		{
			name:       "dry run on current branch",
			out:        switcher.Outcome{Branch: "main", Action: switcher.ActionAlreadyOn},
			dryRun:     true,
			wantStdout: "main\n",
		},
		{
			name:       "multiple matches notice",
			pattern:    "feat",
			out:        switcher.Outcome{Branch: "feat-a", Action: switcher.ActionSwitched, Multiple: true, Ranked: two},
			wantStdout: "Switched to branch 'feat-a'\n",
			wantStderr: "2 branches match \"feat\"; using the most used: feat-a\n",
		},
		{
			name:       "picked has no notice",
			out:        switcher.Outcome{Branch: "feat-b", Action: switcher.ActionSwitched, Multiple: true, Ranked: two},
			picked:     true,
			wantStdout: "Switched to branch 'feat-b'\n",
		},
		{
			name:       "listed",
			out:        switcher.Outcome{Action: switcher.ActionListed, Multiple: true, Ranked: two},
			picked:     true,
			wantStdout: "feat-a\nfeat-b\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			reportOutcome(&stdout, &stderr, tt.pattern, tt.out, tt.dryRun, tt.picked)
			assert.Equal(t, tt.wantStdout, stdout.String())
			assert.Equal(t, tt.wantStderr, stderr.String())
		})
	}
}

func TestPromptLabel(t *testing.T) {
	withoutColors(t)

	r := rank.Ranked{Branch: "main", Score: 1.5}
	assert.Equal(t, "main", promptLabel(false)(r))
	assert.Equal(t, "★★· main", promptLabel(true)(r))
}

func TestPrintError(t *testing.T) {
	withoutColors(t)

	var buf bytes.Buffer
	PrintError(&buf, errors.New("no branch matches \"zzz\""))
	assert.Equal(t, "hop: no branch matches \"zzz\"\n", buf.String())
}

func writeLog(t *testing.T, dir, content string) {
	t.Helper()
	logDir := filepath.Join(dir, ".git", "hop")
	require.NoError(t, os.MkdirAll(logDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(logDir, "switches.log"), []byte(content), 0o644))
}

func TestRunSwitch_Git(t *testing.T) {
	dir := setupRepo(t, "feature-a", "feature-b")
	writeLog(t, dir, "1 feature-a\n2 feature-b\n3 feature-b\n")

	var err error
	out := captureStdout(t, func() {
		err = runSwitch(withContext(rootCmd), []string{"feature-b"})
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Switched to branch 'feature-b'")
	assert.Equal(t, "feature-b", runGit(t, dir, "symbolic-ref", "--short", "HEAD"))

	// The hook is not installed, so switching does not touch the log.
	assert.Equal(t, "1 feature-a\n2 feature-b\n3 feature-b\n", readLog(t, dir))
}

func TestRunSwitch_GitDryRun(t *testing.T) {
	dir := setupRepo(t, "feature-a")
	writeLog(t, dir, "1 feature-a\n")
	dryRunFlag = true

	var err error
	out := captureStdout(t, func() {
		err = runSwitch(withContext(rootCmd), []string{"feat"})
	})
	require.NoError(t, err)
	assert.Equal(t, "feature-a\n", out)
	assert.Equal(t, "main", runGit(t, dir, "symbolic-ref", "--short", "HEAD"))
}

func TestRunSwitch_GitList(t *testing.T) {
	dir := setupRepo(t, "feature-a", "feature-b")
	writeLog(t, dir, "1 feature-a\n")
	listFlag = true

	var err error
	out := captureStdout(t, func() {
		err = runSwitch(withContext(rootCmd), []string{"feature"})
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "feature-a")
	assert.Contains(t, lines[1], "feature-b")
	assert.Equal(t, "main", runGit(t, dir, "symbolic-ref", "--short", "HEAD"))
}

func TestRunSwitch_GitNoMatch(t *testing.T) {
	setupRepo(t)

	err := runSwitch(withContext(rootCmd), []string{"nothing"})
	assert.ErrorIs(t, err, switcher.ErrNoMatch)
}

func TestRunSwitch_GitNoHistory(t *testing.T) {
	setupRepo(t, "feature-a")

	err := runSwitch(withContext(rootCmd), nil)
	assert.ErrorIs(t, err, switcher.ErrNoHistory)
}

func TestAppChooser_Git(t *testing.T) {
	setupRepo(t, "feature-a")
	ctx := context.Background()

	a, err := newApp(ctx)
	require.NoError(t, err)

	prompt, ok := a.chooser(ctx, "feat").(*rank.Prompter)
	require.True(t, ok, "prompt is the default backend")
	assert.Equal(t, os.Stderr, prompt.Out)

	a.cfg.Select.InteractiveBackend = config.BackendTUI
	tui, ok := a.chooser(ctx, "feat").(*picker.Chooser)
	require.True(t, ok)
	assert.Equal(t, "feat", tui.Query)
	assert.Equal(t, "main", tui.Current)
}
