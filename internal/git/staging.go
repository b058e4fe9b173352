package git

import (
	"context"
	"fmt"
)

// StageAll stages all changes including untracked files
func (c *Client) StageAll(ctx context.Context) error {
	if _, err := c.run(ctx, "add", "-A"); err != nil {
		return fmt.Errorf("failed to stage all changes: %w", err)
	}
	return nil
}
