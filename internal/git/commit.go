package git

import (
	"context"
	"fmt"
	"io"
)

// Terminal holds the streams an interactive git command should use.
// Zero values leave the stream captured.
type Terminal struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// CommitNoVerify commits the index without running the pre-commit and commit-msg
// hooks. The message is taken from the operator's editor, so the terminal is
// handed to git for the duration of the call.
func (c *Client) CommitNoVerify(ctx context.Context, term Terminal) error {
	opts := ExecOptions{Stdin: term.In, Stdout: term.Out, Stderr: term.Err}
	if _, err := c.runWith(ctx, opts, "commit", "--no-verify"); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}
