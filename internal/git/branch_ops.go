package git

import (
	"context"
	"fmt"
)

// CreateAndCheckoutBranch creates and checks out a new branch
func (c *Client) CreateAndCheckoutBranch(ctx context.Context, branchName string) error {
	if _, err := c.run(ctx, "checkout", "-q", "-b", branchName); err != nil {
		return fmt.Errorf("failed to create and checkout branch %s: %w", branchName, err)
	}
	return nil
}

// CheckoutBranch checks out an existing branch or commit
func (c *Client) CheckoutBranch(ctx context.Context, ref string) error {
	if _, err := c.run(ctx, "checkout", "-q", ref); err != nil {
		return fmt.Errorf("failed to checkout %s: %w", ref, err)
	}
	return nil
}

// DeleteBranch force-deletes a branch, including any commits only it references
func (c *Client) DeleteBranch(ctx context.Context, branchName string) error {
	if _, err := c.run(ctx, "branch", "-q", "-D", branchName); err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", branchName, err)
	}
	return nil
}

// RenameBranch renames a branch. It fails if newName already exists.
func (c *Client) RenameBranch(ctx context.Context, oldName, newName string) error {
	if _, err := c.run(ctx, "branch", "-m", oldName, newName); err != nil {
		return fmt.Errorf("failed to rename branch %s to %s: %w", oldName, newName, err)
	}
	return nil
}
