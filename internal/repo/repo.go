// Package repo describes the repository a hop invocation operates on.
package repo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
)

// ErrNotARepository is returned when no version-control root can be found.
var ErrNotARepository = errors.New("not a git repository")

const (
	// TrackingDirName is the directory inside the git dir that holds hop state.
	TrackingDirName = "hop"

	// LogFileName is the switch log inside the tracking directory.
	LogFileName = "switches.log"
)

// Context identifies a repository and where its switch log lives.
// It is built once per invocation and passed explicitly to the components
// that need it.
type Context struct {
	// RootPath is the top of the working tree.
	RootPath string

	// GitDir is the repository's common git directory. Linked worktrees
	// share it, so they also share one switch log.
	GitDir string

	// LogPath is the append-only switch log.
	LogPath string

	// HooksDir is where git looks for hooks (honours core.hooksPath).
	HooksDir string
}

// New builds a Context from a working tree root and git directory using the
// default log and hooks locations.
func New(rootPath, gitDir string) Context {
	return Context{
		RootPath: rootPath,
		GitDir:   gitDir,
		LogPath:  filepath.Join(gitDir, TrackingDirName, LogFileName),
		HooksDir: filepath.Join(gitDir, "hooks"),
	}
}

// Locator answers the questions needed to build a Context.
type Locator interface {
	TopLevel(ctx context.Context) (string, error)
	CommonDir(ctx context.Context) (string, error)
	HooksPath(ctx context.Context) (string, error)
}

// Discover builds the Context for the repository the locator points at.
func Discover(ctx context.Context, loc Locator) (Context, error) {
	root, err := loc.TopLevel(ctx)
	if err != nil || root == "" {
		return Context{}, fmt.Errorf("%w (or any of the parent directories)", ErrNotARepository)
	}

	gitDir, err := loc.CommonDir(ctx)
	if err != nil {
		return Context{}, fmt.Errorf("%w: resolve git dir: %w", ErrNotARepository, err)
	}

	rc := New(root, gitDir)
	if hooks, err := loc.HooksPath(ctx); err == nil && hooks != "" {
		rc.HooksDir = hooks
	}
	return rc, nil
}
