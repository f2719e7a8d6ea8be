package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// DefaultCommand is the git invocation used when none is configured.
const DefaultCommand = "git"

// Git implements Provider by running the git binary.
type Git struct {
	dir     string
	command []string
}

// Compile-time checks.
var _ Provider = (*Git)(nil)

// NewGit returns a provider rooted at dir. command is the git invocation,
// e.g. []string{"git", "-c", "core.quotepath=off"}; empty means "git".
func NewGit(dir string, command []string) *Git {
	if len(command) == 0 {
		command = []string{DefaultCommand}
	}
	return &Git{dir: dir, command: command}
}

// ListBranches lists local branches via for-each-ref, which never reports
// the symbolic HEAD.
func (g *Git) ListBranches(ctx context.Context) ([]string, error) {
	out, err := g.run(ctx, "for-each-ref", "--format=%(refname:short)", "refs/heads/")
	if err != nil {
		return nil, err
	}
	var branches []string
	for _, line := range strings.Split(out, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			branches = append(branches, name)
		}
	}
	return branches, nil
}

// CurrentBranch returns the checked-out branch or ErrDetachedHead.
func (g *Git) CurrentBranch(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "symbolic-ref", "--quiet", "--short", "HEAD")
	if err != nil {
		if exitCode(err) == 1 {
			return "", ErrDetachedHead
		}
		return "", err
	}
	return out, nil
}

// BranchExists checks refs/heads/<name>.
func (g *Git) BranchExists(ctx context.Context, name string) (bool, error) {
	_, err := g.run(ctx, "show-ref", "--verify", "--quiet", "refs/heads/"+name)
	if err == nil {
		return true, nil
	}
	if exitCode(err) == 1 {
		return false, nil
	}
	return false, err
}

// Checkout runs git checkout for the branch.
func (g *Git) Checkout(ctx context.Context, name string) error {
	_, err := g.run(ctx, "checkout", name, "--")
	return err
}

// TopLevel returns the working tree root.
func (g *Git) TopLevel(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return canonicalizePath(out), nil
}

// CommonDir returns the absolute common git directory.
func (g *Git) CommonDir(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "rev-parse", "--git-common-dir")
	if err != nil {
		return "", err
	}
	return g.absolute(out), nil
}

// HooksPath returns the directory git reads hooks from.
func (g *Git) HooksPath(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "rev-parse", "--git-path", "hooks")
	if err != nil {
		return "", err
	}
	return g.absolute(out), nil
}

// Reflog returns HEAD's reflog as "<selector>\t<subject>" lines, newest first.
func (g *Git) Reflog(ctx context.Context) (string, error) {
	return g.run(ctx, "reflog", "show", "--date=unix", "--format=%gd%x09%gs", "HEAD")
}

func (g *Git) absolute(p string) string {
	if !filepath.IsAbs(p) {
		p = filepath.Join(g.dir, p)
	}
	return canonicalizePath(p)
}

// CommandError carries git's stderr for failed invocations.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("git %s: %v", strings.Join(e.Args, " "), e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// run runs a git command in the provider's directory.
func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	argv := append(append([]string{}, g.command[1:]...), args...)
	cmd := exec.CommandContext(ctx, g.command[0], argv...) //nolint:gosec // git args are controlled by caller
	cmd.Dir = g.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &CommandError{
			Args:   args,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}

	return strings.TrimSpace(stdout.String()), nil
}

// exitCode extracts the process exit code, or -1 if err is not an exit error.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// canonicalizePath returns the canonical (physical) path.
// This resolves symlinks to avoid split history.
func canonicalizePath(path string) string {
	canonical, err := filepath.EvalSymlinks(path)
	if err != nil {
		return path
	}
	return canonical
}
