package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/hop/internal/history"
)

var sampleLog = history.Log{
	{Timestamp: 1, Branch: "main"},
	{Timestamp: 2, Branch: "feature/login"},
	{Timestamp: 3, Branch: "main"},
	{Timestamp: 4, Branch: "Feature/UI"},
}

func TestFilterEvents(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		limit   int
		want    []int64
	}{
		{"all", "", 0, []int64{1, 2, 3, 4}},
		{"last two", "", 2, []int64{3, 4}},
		{"limit above size", "", 10, []int64{1, 2, 3, 4}},
		{"case-insensitive pattern", "feature", 0, []int64{2, 4}},
		{"pattern and limit", "main", 1, []int64{3}},
		{"no match", "zzz", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []int64
			for _, ev := range filterEvents(sampleLog, tt.pattern, tt.limit) {
				got = append(got, ev.Timestamp)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrintEvents(t *testing.T) {
	withoutColors(t)

	var raw bytes.Buffer
	printEvents(&raw, sampleLog[:2], true)
	assert.Equal(t, "1 main\n2 feature/login\n", raw.String())

	var pretty bytes.Buffer
	printEvents(&pretty, sampleLog[:1], false)
	want := time.Unix(1, 0).Format("2006-01-02 15:04:05") + "  main\n"
	assert.Equal(t, want, pretty.String())
}

func TestRunHistory_Git(t *testing.T) {
	dir := setupRepo(t)
	writeLog(t, dir, "10 main\n20 dev\n30 main\n")
	historyRaw = true
	historyLimit = 2

	var err error
	out := captureStdout(t, func() {
		err = runHistory(withContext(historyCmd), nil)
	})
	require.NoError(t, err)
	assert.Equal(t, "20 dev\n30 main\n", out)
}

func TestRunHistory_GitEmpty(t *testing.T) {
	setupRepo(t)
	historyLimit = 20

	var err error
	out := captureStdout(t, func() {
		err = runHistory(withContext(historyCmd), nil)
	})
	require.NoError(t, err)
	assert.Contains(t, out, "No branch switches recorded yet.")
}
