// Package picker is the full-screen branch chooser behind `hop --pick`
// when the tui backend is configured.
package picker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// debounceInterval is the delay after the last keystroke before triggering a fetch.
const debounceInterval = 80 * time.Millisecond

// pickerState represents the current state of the picker's state machine.
type pickerState int

const (
	stateIdle      pickerState = iota // Initial state before first fetch
	stateLoading                      // Fetch in progress
	stateLoaded                       // Items loaded successfully (len > 0)
	stateEmpty                        // Fetch succeeded but returned 0 items
	stateError                        // Fetch failed
	stateCancelled                    // User cancelled (Esc / Ctrl+C)
)

// fetchDoneMsg is sent when an async Provider.Fetch completes.
type fetchDoneMsg struct {
	requestID uint64
	items     []Item
	err       error
}

// debounceMsg fires after the debounce timer expires.
type debounceMsg struct {
	id uint64 // Must match current debounceID to be accepted
}

// initMsg is sent by Init() to trigger the first fetch via Update(),
// ensuring state mutations are visible to the Bubble Tea runtime.
type initMsg struct{}

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Accept key.Binding
	Cancel key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "ctrl+p")),
	Down:   key.NewBinding(key.WithKeys("down", "ctrl+n")),
	Accept: key.NewBinding(key.WithKeys("enter")),
	Cancel: key.NewBinding(key.WithKeys("esc", "ctrl+c")),
}

// Model is the Bubble Tea model for the branch picker.
type Model struct {
	state     pickerState
	items     []Item
	selection int // Index into items; -1 when empty
	err       error
	textInput textinput.Model

	requestID uint64 // Monotonic counter for stale detection
	provider  Provider

	width  int
	height int

	title     string
	showStars bool

	// result holds the chosen item after the user presses Enter.
	result Item
	chosen bool

	// cancelFetch cancels the in-flight Provider.Fetch context.
	cancelFetch context.CancelFunc

	// debounceID tracks the latest debounce timer; only a matching
	// debounceMsg will trigger a fetch.
	debounceID uint64
}

// NewModel creates a picker over provider.
func NewModel(provider Provider) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "filter branches"
	ti.PromptStyle = queryStyle
	ti.Focus()

	return Model{
		state:     stateIdle,
		selection: -1,
		provider:  provider,
		textInput: ti,
		title:     "Switch to branch",
		showStars: true,
	}
}

// WithQuery pre-fills the filter.
func (m Model) WithQuery(q string) Model {
	m.textInput.SetValue(q)
	m.textInput.CursorEnd()
	return m
}

// WithStars toggles the star column.
func (m Model) WithStars(show bool) Model {
	m.showStars = show
	return m
}

// Result returns the chosen item; ok is false if nothing was chosen.
func (m Model) Result() (Item, bool) {
	return m.result, m.chosen
}

// IsCancelled reports whether the user dismissed the picker.
func (m Model) IsCancelled() bool {
	return m.state == stateCancelled
}

func (m Model) query() string {
	return m.textInput.Value()
}

// Init implements tea.Model. The first fetch is triggered through Update so
// its state mutations are captured.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, func() tea.Msg { return initMsg{} })
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case fetchDoneMsg:
		return m.handleFetchDone(msg)

	case debounceMsg:
		return m.handleDebounce(msg)

	case initMsg:
		return m, m.startFetch()
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Cancel):
		m.state = stateCancelled
		m.cancelInflight()
		return m, tea.Quit

	case key.Matches(msg, keys.Accept):
		if m.state != stateLoaded || m.selection < 0 || m.selection >= len(m.items) {
			return m, nil
		}
		m.result = m.items[m.selection]
		m.chosen = true
		m.cancelInflight()
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.state == stateLoading {
			return m, nil
		}
		if m.selection > 0 {
			m.selection--
		}
		return m, nil

	case key.Matches(msg, keys.Down):
		if m.state == stateLoading {
			return m, nil
		}
		if m.selection < len(m.items)-1 {
			m.selection++
		}
		return m, nil
	}

	before := m.query()
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	if m.query() != before {
		return m, tea.Batch(cmd, m.startDebounce())
	}
	return m, cmd
}

func (m Model) handleFetchDone(msg fetchDoneMsg) (tea.Model, tea.Cmd) {
	if msg.requestID != m.requestID {
		return m, nil
	}

	if msg.err != nil {
		m.state = stateError
		m.err = msg.err
		m.items = nil
		m.selection = -1
		return m, nil
	}

	m.items = msg.items
	if len(m.items) == 0 {
		m.state = stateEmpty
		m.selection = -1
	} else {
		m.state = stateLoaded
		m.clampSelection()
	}
	return m, nil
}

func (m Model) handleDebounce(msg debounceMsg) (tea.Model, tea.Cmd) {
	if msg.id != m.debounceID {
		return m, nil
	}
	return m, m.startFetch()
}

// startDebounce returns a tick that fires debounceMsg after debounceInterval.
func (m *Model) startDebounce() tea.Cmd {
	m.debounceID++
	id := m.debounceID
	return tea.Tick(debounceInterval, func(time.Time) tea.Msg {
		return debounceMsg{id: id}
	})
}

// startFetch cancels any in-flight fetch, bumps requestID, and returns a
// command that calls the provider.
func (m *Model) startFetch() tea.Cmd {
	m.cancelInflight()
	m.requestID++
	m.state = stateLoading

	reqID := m.requestID
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelFetch = cancel

	req := Request{
		RequestID: reqID,
		Query:     m.query(),
		Limit:     m.listHeight(),
	}

	p := m.provider
	return func() tea.Msg {
		resp, err := p.Fetch(ctx, req)
		if err != nil {
			return fetchDoneMsg{requestID: reqID, err: err}
		}
		return fetchDoneMsg{requestID: reqID, items: resp.Items}
	}
}

func (m *Model) cancelInflight() {
	if m.cancelFetch != nil {
		m.cancelFetch()
		m.cancelFetch = nil
	}
}

func (m *Model) clampSelection() {
	if len(m.items) == 0 {
		m.selection = -1
		return
	}
	if m.selection < 0 {
		m.selection = 0
	}
	if m.selection >= len(m.items) {
		m.selection = len(m.items) - 1
	}
}

// listHeight is the number of visible rows: terminal height minus the title
// and query lines.
func (m Model) listHeight() int {
	const chrome = 2
	h := m.height - chrome
	if h < 1 {
		h = 20 // Before the first WindowSizeMsg
	}
	return h
}

// --- View rendering ---

var (
	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62"))
	selectedStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	normalStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	matchStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	matchSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	starStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	currentStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	truncStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	queryStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.viewTitle())
	b.WriteRune('\n')
	b.WriteString(m.viewContent())
	b.WriteRune('\n')
	b.WriteString(m.textInput.View())
	return b.String()
}

func (m Model) viewTitle() string {
	title := titleStyle.Render(" " + m.title + " ")
	if m.state == stateLoaded {
		title += dimStyle.Render(fmt.Sprintf("  %d matching", len(m.items)))
	}
	return title
}

func (m Model) viewContent() string {
	switch m.state {
	case stateIdle, stateLoading:
		return dimStyle.Render("Loading...")
	case stateEmpty:
		return dimStyle.Render("No matching branches")
	case stateError:
		msg := "Error"
		if m.err != nil {
			msg = fmt.Sprintf("Error: %s", m.err)
		}
		return errorStyle.Render(msg)
	case stateCancelled:
		return dimStyle.Render("Cancelled")
	case stateLoaded:
		return m.viewList()
	default:
		return ""
	}
}

// viewList renders one row per branch: marker, optional stars, the name
// with query matches highlighted, and a '*' for the current branch.
func (m Model) viewList() string {
	var b strings.Builder
	maxItems := min(m.listHeight(), len(m.items))
	for i := range maxItems {
		it := m.items[i]

		base, match, marker := normalStyle, matchStyle, "  "
		if i == m.selection {
			base, match, marker = selectedStyle, matchSelectedStyle, "> "
		}

		b.WriteString(base.Render(marker))
		used := 2
		if m.showStars {
			b.WriteString(starStyle.Render(starBar(it.Stars)) + " ")
			used += 4
		}

		display := displayName(it.Branch)
		if m.width > used+2 {
			display = MiddleTruncate(display, m.width-used-2)
		}
		b.WriteString(renderItem(display, m.query(), base, match))

		if it.Current {
			b.WriteString(currentStyle.Render(" *"))
		}
		if i < maxItems-1 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}

// starBar renders a fixed-width three-column rating.
func starBar(stars int) string {
	stars = max(0, min(stars, 3))
	return strings.Repeat("★", stars) + strings.Repeat(" ", 3-stars)
}

// renderItem highlights query matches and styles the truncation ellipsis
// inserted by MiddleTruncate.
func renderItem(display, query string, base, match lipgloss.Style) string {
	head, tail, truncated := strings.Cut(display, "…")
	if !truncated {
		return highlightQuery(display, query, base, match)
	}
	return highlightQuery(head, query, base, match) +
		truncStyle.Render("…") +
		highlightQuery(tail, query, base, match)
}

// highlightQuery renders every case-insensitive occurrence of query in s with
// the match style and the rest with base.
func highlightQuery(s, query string, base, match lipgloss.Style) string {
	if query == "" || s == "" {
		return base.Render(s)
	}
	lower := strings.ToLower(s)
	q := strings.ToLower(query)
	// Byte offsets are only shared when lowercasing kept the length.
	if len(lower) != len(s) {
		return base.Render(s)
	}

	var b strings.Builder
	pos := 0
	for pos < len(s) {
		idx := strings.Index(lower[pos:], q)
		if idx < 0 {
			break
		}
		start := pos + idx
		if start > pos {
			b.WriteString(base.Render(s[pos:start]))
		}
		b.WriteString(match.Render(s[start : start+len(q)]))
		pos = start + len(q)
	}
	if pos == 0 {
		return base.Render(s)
	}
	if pos < len(s) {
		b.WriteString(base.Render(s[pos:]))
	}
	return b.String()
}
