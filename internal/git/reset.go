package git

import (
	"context"
	"fmt"
)

// ResetIndex unstages everything, leaving the working tree as it is
func (c *Client) ResetIndex(ctx context.Context) error {
	if _, err := c.run(ctx, "reset", "-q", "HEAD"); err != nil {
		return fmt.Errorf("failed to unstage changes: %w", err)
	}
	return nil
}

// DiscardTrackedChanges restores tracked files to their committed contents
func (c *Client) DiscardTrackedChanges(ctx context.Context) error {
	if _, err := c.run(ctx, "checkout", "-q", "--", "."); err != nil {
		return fmt.Errorf("failed to discard tracked changes: %w", err)
	}
	return nil
}

// CleanUntracked removes untracked files and directories that are not ignored
func (c *Client) CleanUntracked(ctx context.Context) error {
	if _, err := c.run(ctx, "clean", "-f", "-d", "-q"); err != nil {
		return fmt.Errorf("failed to remove untracked files: %w", err)
	}
	return nil
}
