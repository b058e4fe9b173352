package git

import (
	"context"
	"fmt"
	"strings"

	stasherrors "stashwalk.dev/stashwalk/internal/errors"
)

// Client issues the git operations stashwalk needs on top of an Executor.
// Every method is synchronous. Non-zero exits surface as *errors.GitCommandError;
// process failures surface as *errors.ProcessError and should be treated as fatal.
type Client struct {
	exec Executor
}

// NewClient creates a Client
func NewClient(exec Executor) *Client {
	return &Client{exec: exec}
}

// run executes a command whose output is captured and requires exit status 0
func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	return c.runWith(ctx, ExecOptions{}, args...)
}

func (c *Client) runWith(ctx context.Context, opts ExecOptions, args ...string) (string, error) {
	res, err := c.exec.Exec(ctx, opts, args...)
	if err != nil {
		return "", err
	}
	if !res.Succeeded() {
		return "", stasherrors.NewGitCommandError("git", args, res.ExitCode, res.Stdout, res.Stderr)
	}
	return res.Stdout, nil
}

// Status returns the porcelain status report of the working tree
func (c *Client) Status(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "status", "--porcelain")
	if err != nil {
		return "", fmt.Errorf("failed to get status: %w", err)
	}
	return out, nil
}

// HasLocalChanges reports whether the status report is non-empty
func (c *Client) HasLocalChanges(ctx context.Context) (bool, error) {
	out, err := c.Status(ctx)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// CommitMessagePath returns the path of the file git uses for the commit message
func (c *Client) CommitMessagePath(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "rev-parse", "--path-format=absolute", "--git-path", "COMMIT_EDITMSG")
	if err != nil {
		return "", fmt.Errorf("failed to locate commit message file: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// GitDir returns the repository's common git directory, shared by all worktrees
func (c *Client) GitDir(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "rev-parse", "--path-format=absolute", "--git-common-dir")
	if err != nil {
		return "", fmt.Errorf("%w: %w", stasherrors.ErrNotARepository, err)
	}
	return strings.TrimSpace(out), nil
}
