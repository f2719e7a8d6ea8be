// Package resolve builds the candidate branch list for a query.
package resolve

import (
	"context"
	"log/slog"
	"strings"

	"github.com/runger/hop/internal/logging"
)

// Tracker returns the branches seen in the switch log, in first-seen order.
type Tracker interface {
	Branches() []string
}

// Lister returns the live branches of the repository.
type Lister interface {
	ListBranches(ctx context.Context) ([]string, error)
}

// Resolver merges tracked and live branch names into a candidate set.
type Resolver struct {
	tracked Tracker
	live    Lister
	logger  *slog.Logger
}

// New creates a resolver. live may be nil, in which case only tracked
// branches are considered.
func New(tracked Tracker, live Lister, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Resolver{tracked: tracked, live: live, logger: logger}
}

// Resolve returns distinct candidate names for pattern.
//
// With an empty pattern the result is every tracked branch; live branches
// are not consulted. Otherwise tracked matches come first, followed by live
// matches, with duplicates dropped in favour of the first occurrence. A
// failing lister is logged and treated as having no branches.
func (r *Resolver) Resolve(ctx context.Context, pattern string) []string {
	if pattern == "" {
		return dedupe(r.tracked.Branches(), nil)
	}

	var merged []string
	for _, name := range r.tracked.Branches() {
		if Matches(name, pattern) {
			merged = append(merged, name)
		}
	}
	for _, name := range r.liveBranches(ctx) {
		if Matches(name, pattern) {
			merged = append(merged, name)
		}
	}
	return dedupe(merged, nil)
}

func (r *Resolver) liveBranches(ctx context.Context) []string {
	if r.live == nil {
		return nil
	}
	branches, err := r.live.ListBranches(ctx)
	if err != nil {
		r.logger.Warn("branch listing failed, using tracked branches only", "error", err)
		return nil
	}
	return branches
}

// Matches reports whether pattern occurs anywhere in name, ignoring case.
func Matches(name, pattern string) bool {
	return strings.Contains(strings.ToLower(name), strings.ToLower(pattern))
}

// dedupe appends names to dst, skipping any already present.
func dedupe(names, dst []string) []string {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		dst = append(dst, name)
	}
	return dst
}
