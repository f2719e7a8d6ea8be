package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/hop/internal/history"
)

func TestBranchSet(t *testing.T) {
	isBranch := branchSet([]string{"main", "dev"})
	assert.True(t, isBranch("main"))
	assert.True(t, isBranch("dev"))
	assert.False(t, isBranch("gone"))
}

func TestNewEvents(t *testing.T) {
	existing := history.Log{{Timestamp: 1, Branch: "main"}, {Timestamp: 2, Branch: "dev"}}
	incoming := []history.Event{
		{Timestamp: 1, Branch: "main"},
		{Timestamp: 2, Branch: "main"},
		{Timestamp: 3, Branch: "dev"},
		{Timestamp: 3, Branch: "dev"},
	}

	got := newEvents(existing, incoming)
	assert.Equal(t, []history.Event{
		{Timestamp: 2, Branch: "main"},
		{Timestamp: 3, Branch: "dev"},
	}, got)
}

func TestRunImport_Git(t *testing.T) {
	dir := setupRepo(t, "feature", "gone")
	runGit(t, dir, "checkout", "-q", "feature")
	runGit(t, dir, "checkout", "-q", "gone")
	runGit(t, dir, "checkout", "-q", "main")
	runGit(t, dir, "branch", "-q", "-D", "gone")

	importDryRun = true
	var err error
	out := captureStdout(t, func() {
		err = runImport(withContext(importCmd), nil)
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Would import 2 switch(es)")
	assert.Empty(t, readLog(t, dir))

	importDryRun = false
	out = captureStdout(t, func() {
		err = runImport(withContext(importCmd), nil)
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 switch(es)")

	lines := strings.Split(strings.TrimRight(readLog(t, dir), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], " feature"), lines[0])
	assert.True(t, strings.HasSuffix(lines[1], " main"), lines[1])

	// A second import finds nothing new.
	out = captureStdout(t, func() {
		err = runImport(withContext(importCmd), nil)
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 0 switch(es)")
	assert.Len(t, strings.Split(strings.TrimRight(readLog(t, dir), "\n"), "\n"), 2)
}
