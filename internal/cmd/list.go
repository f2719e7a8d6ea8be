package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/runger/hop/internal/picker"
	"github.com/runger/hop/internal/switcher"
)

type listOptions struct {
	Stars bool
	Width int // Terminal columns; 0 disables truncation
}

// starColumn renders a rating as a fixed three-column field.
func starColumn(stars int) string {
	stars = max(0, min(stars, 3))
	return strings.Repeat("★", stars) + strings.Repeat("·", 3-stars)
}

// renderList writes one line per entry:
//
//	* ★★★ main             4.21
//	  ★·· feature/login    0.37
//
// The leading '*' marks the checked-out branch.
func renderList(w io.Writer, entries []switcher.Entry, opts listOptions) {
	nameWidth := 0
	for _, e := range entries {
		nameWidth = max(nameWidth, runewidth.StringWidth(e.Branch))
	}

	// marker(2) + gap(2) + score(6), plus stars(4)
	fixed := 2 + 2 + 6
	if opts.Stars {
		fixed += 4
	}
	if opts.Width > 0 && fixed+nameWidth > opts.Width {
		nameWidth = max(opts.Width-fixed, 8)
	}

	for _, e := range entries {
		var b strings.Builder

		if e.Current {
			b.WriteString(colorGreen + "* " + colorReset)
		} else {
			b.WriteString("  ")
		}

		if opts.Stars {
			b.WriteString(colorYellow + starColumn(e.Stars) + colorReset + " ")
		}

		name := runewidth.FillRight(picker.MiddleTruncate(e.Branch, nameWidth), nameWidth)
		if e.Current {
			name = colorGreen + name + colorReset
		}
		b.WriteString(name + "  ")

		fmt.Fprintf(&b, "%s%6.2f%s", colorDim, e.Score, colorReset)
		fmt.Fprintln(w, b.String())
	}
}
