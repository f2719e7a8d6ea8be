package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/runger/hop/internal/switcher"
)

func TestStarColumn(t *testing.T) {
	tests := []struct {
		stars int
		want  string
	}{
		{0, "···"},
		{1, "★··"},
		{2, "★★·"},
		{3, "★★★"},
		{7, "★★★"},
		{-1, "···"},
	}
	for _, tt := range tests {
		if got := starColumn(tt.stars); got != tt.want {
			t.Errorf("starColumn(%d) = %q, want %q", tt.stars, got, tt.want)
		}
	}
}

func TestRenderList(t *testing.T) {
	withoutColors(t)

	entries := []switcher.Entry{
		{Branch: "main", Score: 4.21, Stars: 3, Current: true},
		{Branch: "feature/login", Score: 0.37, Stars: 1},
	}

	var buf bytes.Buffer
	renderList(&buf, entries, listOptions{Stars: true})

	want := "* ★★★ main             4.21\n" +
		"  ★·· feature/login    0.37\n"
	if buf.String() != want {
		t.Errorf("renderList() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestRenderList_NoStars(t *testing.T) {
	withoutColors(t)

	var buf bytes.Buffer
	renderList(&buf, []switcher.Entry{{Branch: "dev", Score: 0}}, listOptions{})

	if got, want := buf.String(), "  dev    0.00\n"; got != want {
		t.Errorf("renderList() = %q, want %q", got, want)
	}
}

func TestRenderList_TruncatesToWidth(t *testing.T) {
	withoutColors(t)

	entries := []switcher.Entry{
		{Branch: "feature/a-very-long-branch-name", Score: 1},
		{Branch: "main", Score: 0.5},
	}

	var buf bytes.Buffer
	renderList(&buf, entries, listOptions{Width: 20})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	for _, line := range lines {
		if w := runewidth.StringWidth(line); w != 20 {
			t.Errorf("line %q has width %d, want 20", line, w)
		}
	}
	if !strings.Contains(lines[0], "…") {
		t.Errorf("long name should be truncated with an ellipsis: %q", lines[0])
	}
}

func TestRenderList_Empty(t *testing.T) {
	var buf bytes.Buffer
	renderList(&buf, nil, listOptions{Stars: true, Width: 80})
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}
