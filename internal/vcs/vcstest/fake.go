// Package vcstest provides an in-memory vcs.Provider for tests.
package vcstest

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/runger/hop/internal/vcs"
)

// Fake is an in-memory repository with a fixed branch set and a current
// branch pointer. Checkout calls are recorded.
type Fake struct {
	mu       sync.Mutex
	branches []string
	current  string

	// ListErr, if set, is returned by ListBranches.
	ListErr error

	// CheckoutErr, if set, is returned by Checkout without switching.
	CheckoutErr error

	checkouts []string
}

var _ vcs.Provider = (*Fake)(nil)

// NewFake returns a fake with the given branches checked out at current.
// An empty current means HEAD is detached.
func NewFake(current string, branches ...string) *Fake {
	return &Fake{branches: slices.Clone(branches), current: current}
}

// ListBranches returns the configured branches in order.
func (f *Fake) ListBranches(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return slices.Clone(f.branches), nil
}

// CurrentBranch returns the current pointer.
func (f *Fake) CurrentBranch(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == "" {
		return "", vcs.ErrDetachedHead
	}
	return f.current, nil
}

// BranchExists reports membership in the branch set.
func (f *Fake) BranchExists(_ context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Contains(f.branches, name), nil
}

// Checkout moves the current pointer.
func (f *Fake) Checkout(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checkouts = append(f.checkouts, name)
	if f.CheckoutErr != nil {
		return f.CheckoutErr
	}
	if !slices.Contains(f.branches, name) {
		return errors.New("pathspec '" + name + "' did not match any file(s) known to git")
	}
	f.current = name
	return nil
}

// DeleteBranch removes a branch, simulating a concurrent deletion.
func (f *Fake) DeleteBranch(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.branches = slices.DeleteFunc(f.branches, func(b string) bool { return b == name })
}

// Checkouts returns every branch passed to Checkout, in call order.
func (f *Fake) Checkouts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.checkouts)
}
