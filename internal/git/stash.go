package git

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// AppliedCheck selects how StashLooksApplied decides whether a stash is already
// reflected in the working tree.
type AppliedCheck string

const (
	// AppliedCheckAuto uses the stash-applied extension when installed, else the native check
	AppliedCheckAuto AppliedCheck = "auto"
	// AppliedCheckExtension only consults the stash-applied extension
	AppliedCheckExtension AppliedCheck = "extension"
	// AppliedCheckNative only uses the reverse-apply check
	AppliedCheckNative AppliedCheck = "native"
	// AppliedCheckOff always reports "not applied"
	AppliedCheckOff AppliedCheck = "off"
)

// BrokenPipeExitCode is the status git exits with when the pager closes its output early
const BrokenPipeExitCode = 141

// StashRef returns the reflog-style reference for the stash at position
func StashRef(position int) string {
	return fmt.Sprintf("stash@{%d}", position)
}

// ShowStash prints the patch of a stash to out and returns the raw result.
// Callers classify the exit status themselves; see stash.Cursor.Exists.
func (c *Client) ShowStash(ctx context.Context, ref string, in io.Reader, out io.Writer) (Result, error) {
	return c.exec.Exec(ctx, ExecOptions{Stdin: in, Stdout: out}, "stash", "show", "-p", ref)
}

// DropStash removes a stash from the stack
func (c *Client) DropStash(ctx context.Context, ref string) error {
	if _, err := c.run(ctx, "stash", "drop", "-q", ref); err != nil {
		return fmt.Errorf("failed to drop %s: %w", ref, err)
	}
	return nil
}

// ApplyStash applies a stash onto the working tree without removing it
func (c *Client) ApplyStash(ctx context.Context, ref string) error {
	if _, err := c.run(ctx, "stash", "apply", ref); err != nil {
		return fmt.Errorf("failed to apply %s: %w", ref, err)
	}
	return nil
}

// ApplyStashOnTerminal applies a stash and lets git report progress and
// conflicts on the operator's terminal
func (c *Client) ApplyStashOnTerminal(ctx context.Context, ref string, term Terminal) error {
	opts := ExecOptions{Stdout: term.Out, Stderr: term.Err}
	if _, err := c.runWith(ctx, opts, "stash", "apply", ref); err != nil {
		return fmt.Errorf("failed to apply %s: %w", ref, err)
	}
	return nil
}

// StashCount returns the number of entries on the stash stack
func (c *Client) StashCount(ctx context.Context) (int, error) {
	out, err := c.run(ctx, "stash", "list")
	if err != nil {
		return 0, fmt.Errorf("failed to list stashes: %w", err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return 0, nil
	}
	return len(strings.Split(out, "\n")), nil
}

// StashLooksApplied reports whether the changes of a stash already appear in the
// working tree. A check that cannot answer reports false.
func (c *Client) StashLooksApplied(ctx context.Context, ref string, mode AppliedCheck) (bool, error) {
	switch mode {
	case AppliedCheckOff:
		return false, nil
	case AppliedCheckExtension:
		return c.extensionSaysApplied(ctx, ref)
	case AppliedCheckNative:
		return c.reverseApplies(ctx, ref)
	}

	installed, err := c.hasAppliedExtension(ctx)
	if err != nil {
		return false, err
	}
	if installed {
		return c.extensionSaysApplied(ctx, ref)
	}
	return c.reverseApplies(ctx, ref)
}

// hasAppliedExtension reports whether "git stash-applied" resolves to an alias or
// a git-stash-applied executable
func (c *Client) hasAppliedExtension(ctx context.Context) (bool, error) {
	alias, ok, err := c.ConfigValue(ctx, "alias.stash-applied")
	if err != nil {
		return false, err
	}
	if ok && alias != "" {
		return true, nil
	}
	_, lookErr := exec.LookPath("git-stash-applied")
	return lookErr == nil, nil
}

func (c *Client) extensionSaysApplied(ctx context.Context, ref string) (bool, error) {
	res, err := c.exec.Exec(ctx, ExecOptions{}, "stash-applied", ref)
	if err != nil {
		return false, err
	}
	return res.Succeeded(), nil
}

// reverseApplies reports whether the stash's tracked-file patch can be reversed
// cleanly against the working tree, i.e. it is already present there.
func (c *Client) reverseApplies(ctx context.Context, ref string) (bool, error) {
	patch, err := c.StashDiff(ctx, ref)
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(patch) == "" {
		return false, nil
	}
	return c.PatchReverses(ctx, patch)
}
