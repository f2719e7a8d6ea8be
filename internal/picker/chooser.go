package picker

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/runger/hop/internal/rank"
)

// DefaultTTY is the terminal the picker draws on. stdin/stdout may be
// redirected when hop runs inside a shell function.
const DefaultTTY = "/dev/tty"

var (
	// ErrCancelled means the user closed the picker without choosing.
	ErrCancelled = errors.New("selection cancelled")

	// ErrNoTerminal means no terminal is available to draw on.
	ErrNoTerminal = errors.New("no terminal available")
)

// Chooser runs the picker over a ranked list. It satisfies the chooser
// interface used by the switch coordinator.
type Chooser struct {
	Current string // Branch to mark as checked out
	Query   string // Initial filter
	Stars   bool
	Color   bool
	TTYPath string // Defaults to DefaultTTY
}

// Choose shows ranked in a full-screen picker and returns the chosen entry.
func (c *Chooser) Choose(ranked []rank.Ranked) (rank.Ranked, error) {
	if len(ranked) == 0 {
		return rank.Ranked{}, fmt.Errorf("%w: nothing to choose from", rank.ErrInvalidSelection)
	}

	path := c.TTYPath
	if path == "" {
		path = DefaultTTY
	}
	tty, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return rank.Ranked{}, fmt.Errorf("%w: %w", ErrNoTerminal, err)
	}
	defer tty.Close()

	// SetColorProfile changes the default renderer in place, so the
	// package-level styles pick it up.
	if c.Color {
		lipgloss.SetColorProfile(termenv.NewOutput(tty).ColorProfile())
	} else {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	model := NewModel(NewRankedProvider(ranked, c.Current)).
		WithStars(c.Stars).
		WithQuery(c.Query)

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithInput(tty),
		tea.WithOutput(tty),
	)
	final, err := p.Run()
	if err != nil {
		return rank.Ranked{}, fmt.Errorf("picker: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return rank.Ranked{}, errors.New("picker: unexpected model type")
	}
	return resultFrom(m, ranked)
}

// resultFrom maps the picker's final state back onto the ranked list.
func resultFrom(m Model, ranked []rank.Ranked) (rank.Ranked, error) {
	if m.IsCancelled() {
		return rank.Ranked{}, ErrCancelled
	}
	item, ok := m.Result()
	if !ok {
		return rank.Ranked{}, ErrCancelled
	}
	for _, r := range ranked {
		if r.Branch == item.Branch {
			return r, nil
		}
	}
	return rank.Ranked{}, fmt.Errorf("%w: %q is not a candidate", rank.ErrInvalidSelection, item.Branch)
}
