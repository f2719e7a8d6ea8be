// Package vcs is the boundary between hop and the version-control system.
package vcs

import (
	"context"
	"errors"
)

// ErrDetachedHead is returned by CurrentBranch when HEAD is not on a branch.
var ErrDetachedHead = errors.New("HEAD is detached")

// Provider is the set of version-control operations hop depends on.
type Provider interface {
	// ListBranches returns local branch names, excluding the symbolic HEAD.
	ListBranches(ctx context.Context) ([]string, error)

	// CurrentBranch returns the checked-out branch name.
	CurrentBranch(ctx context.Context) (string, error)

	// BranchExists reports whether a local branch with the name exists.
	BranchExists(ctx context.Context, name string) (bool, error)

	// Checkout switches the working tree to the named branch.
	Checkout(ctx context.Context, name string) error
}
