// Package switcher runs a branch switch end to end: resolve candidates from
// the switch log and live branches, rank them by decayed usage, choose one,
// validate it and check it out.
package switcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/runger/hop/internal/history"
	"github.com/runger/hop/internal/logging"
	"github.com/runger/hop/internal/rank"
	"github.com/runger/hop/internal/repo"
	"github.com/runger/hop/internal/resolve"
	"github.com/runger/hop/internal/score"
	"github.com/runger/hop/internal/vcs"
)

var (
	// ErrNoHistory means no branch switch has been recorded yet.
	ErrNoHistory = errors.New("no tracked branches yet")

	// ErrNoMatch means no candidate matched the pattern.
	ErrNoMatch = errors.New("no branch matches")

	// ErrBranchNotFound means the selected branch no longer exists.
	ErrBranchNotFound = errors.New("branch does not exist")

	// ErrCheckoutFailed means the version-control checkout failed.
	ErrCheckoutFailed = errors.New("failed to switch")
)

// Action is what Execute did with the selected branch.
type Action int

const (
	// ActionSwitched means the branch was checked out.
	ActionSwitched Action = iota
	// ActionAlreadyOn means the selection was already checked out.
	ActionAlreadyOn
	// ActionDryRun means the branch was selected but not checked out.
	ActionDryRun
	// ActionListed means several branches matched and only a list was wanted.
	ActionListed
)

func (a Action) String() string {
	switch a {
	case ActionSwitched:
		return "switched"
	case ActionAlreadyOn:
		return "already-on"
	case ActionDryRun:
		return "dry-run"
	case ActionListed:
		return "listed"
	default:
		return "unknown"
	}
}

// Outcome describes a completed request.
type Outcome struct {
	Branch   string
	Action   Action
	Multiple bool          // More than one branch matched
	Ranked   []rank.Ranked // The ranked candidates the choice was made from
}

// Request is a switch request.
type Request struct {
	Pattern string
	DryRun  bool

	// ListOnly returns the ranked candidates without switching, even when
	// only one branch matches.
	ListOnly bool
}

// Entry is one row of a ranked listing.
type Entry struct {
	Branch  string
	Score   float64
	Stars   int
	Current bool
}

// Chooser picks one branch from a ranked list, typically by asking the user.
type Chooser interface {
	Choose(ranked []rank.Ranked) (rank.Ranked, error)
}

// Options configures a Coordinator.
type Options struct {
	// MaxResults caps the ranked list; 0 means rank.MaxResults.
	MaxResults int

	// Logger receives diagnostics; nil discards them.
	Logger *slog.Logger

	// Now returns the current time; nil means time.Now.
	Now func() time.Time
}

// Coordinator ties the store, resolver, ranker and provider together.
type Coordinator struct {
	store  *history.Store
	vcs    vcs.Provider
	limit  int
	logger *slog.Logger
	now    func() time.Time
}

// New creates a coordinator for the repository.
func New(rc repo.Context, provider vcs.Provider, opts Options) *Coordinator {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Coordinator{
		store:  history.Open(rc, logger),
		vcs:    provider,
		limit:  opts.MaxResults,
		logger: logger,
		now:    now,
	}
}

// Store returns the switch log.
func (c *Coordinator) Store() *history.Store {
	return c.store
}

// RecordSwitch appends a switch to the log. It is the entry point for the
// post-checkout hook.
func (c *Coordinator) RecordSwitch(branch string, ts int64) error {
	return c.store.Append(history.Event{Timestamp: ts, Branch: branch})
}

// Rank resolves and ranks the candidates for pattern against one snapshot of
// the log.
func (c *Coordinator) Rank(ctx context.Context, pattern string) []rank.Ranked {
	snapshot := c.store.Load()
	candidates := resolve.New(snapshot, c.vcs, c.logger).Resolve(ctx, pattern)
	ranked := rank.RankN(candidates, score.NewEngine(snapshot).Score, c.now().Unix(), c.limit)

	c.logger.Debug("ranked candidates",
		"pattern", pattern,
		"events", len(snapshot),
		"candidates", len(candidates),
		"ranked", len(ranked),
	)
	return ranked
}

// Execute selects the best branch for pattern and switches to it.
func (c *Coordinator) Execute(ctx context.Context, pattern string, dryRun bool) (Outcome, error) {
	return c.Run(ctx, Request{Pattern: pattern, DryRun: dryRun})
}

// Run handles a full request, including the list-only mode.
func (c *Coordinator) Run(ctx context.Context, req Request) (Outcome, error) {
	ranked := c.Rank(ctx, req.Pattern)
	sel := rank.Select(ranked, req.ListOnly)

	switch {
	case sel.Kind == rank.KindNone:
		return Outcome{}, noMatch(req.Pattern)
	case req.ListOnly:
		return Outcome{Action: ActionListed, Multiple: len(ranked) > 1, Ranked: ranked}, nil
	}

	out := Outcome{
		Branch:   sel.Branch,
		Multiple: sel.Kind == rank.KindMostUsed,
		Ranked:   ranked,
	}
	if out.Multiple {
		c.logger.Info("multiple branches matched, using most used",
			"pattern", req.Pattern, "branch", sel.Branch, "matches", sel.Count)
	}
	return c.switchTo(ctx, out, req.DryRun)
}

// Choose ranks the candidates for pattern and lets chooser pick one when
// more than one matched, then switches as Execute does.
func (c *Coordinator) Choose(ctx context.Context, pattern string, chooser Chooser, dryRun bool) (Outcome, error) {
	ranked := c.Rank(ctx, pattern)
	if len(ranked) == 0 {
		return Outcome{}, noMatch(pattern)
	}

	picked := ranked[0]
	if len(ranked) > 1 {
		var err error
		picked, err = chooser.Choose(ranked)
		if err != nil {
			return Outcome{Ranked: ranked}, err
		}
	}

	out := Outcome{Branch: picked.Branch, Multiple: len(ranked) > 1, Ranked: ranked}
	return c.switchTo(ctx, out, dryRun)
}

// List returns the ranked candidates for pattern with display details.
func (c *Coordinator) List(ctx context.Context, pattern string) ([]Entry, error) {
	ranked := c.Rank(ctx, pattern)
	if len(ranked) == 0 {
		return nil, noMatch(pattern)
	}
	current := c.currentBranch(ctx)

	entries := make([]Entry, len(ranked))
	for i, r := range ranked {
		entries[i] = Entry{
			Branch:  r.Branch,
			Score:   r.Score,
			Stars:   score.Stars(r.Score),
			Current: r.Branch == current,
		}
	}
	return entries, nil
}

// switchTo validates the target and checks it out unless it is already
// current or dryRun is set.
func (c *Coordinator) switchTo(ctx context.Context, out Outcome, dryRun bool) (Outcome, error) {
	exists, err := c.vcs.BranchExists(ctx, out.Branch)
	if err != nil {
		return out, fmt.Errorf("check branch %q: %w", out.Branch, err)
	}
	if !exists {
		return out, fmt.Errorf("%w: %s", ErrBranchNotFound, out.Branch)
	}

	if c.currentBranch(ctx) == out.Branch {
		out.Action = ActionAlreadyOn
		return out, nil
	}

	if dryRun {
		out.Action = ActionDryRun
		return out, nil
	}

	if err := c.vcs.Checkout(ctx, out.Branch); err != nil {
		return out, fmt.Errorf("%w to %s: %w", ErrCheckoutFailed, out.Branch, err)
	}
	c.logger.Debug("checked out branch", "branch", out.Branch)

	out.Action = ActionSwitched
	return out, nil
}

// currentBranch returns the checked-out branch, or "" when detached or
// unknown.
func (c *Coordinator) currentBranch(ctx context.Context) string {
	current, err := c.vcs.CurrentBranch(ctx)
	if err != nil {
		if !errors.Is(err, vcs.ErrDetachedHead) {
			c.logger.Warn("cannot determine current branch", "error", err)
		}
		return ""
	}
	return current
}

func noMatch(pattern string) error {
	if pattern == "" {
		return ErrNoHistory
	}
	return fmt.Errorf("%w %q", ErrNoMatch, pattern)
}
