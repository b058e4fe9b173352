package git

import (
	"context"
	"strings"
)

// StashDiff returns the binary patch of a stash's tracked-file changes against
// the commit it was made on. An empty string means there is nothing to compare.
func (c *Client) StashDiff(ctx context.Context, ref string) (string, error) {
	res, err := c.exec.Exec(ctx, ExecOptions{}, "diff", "--binary", ref+"^1", ref)
	if err != nil {
		return "", err
	}
	if !res.Succeeded() {
		return "", nil
	}
	return res.Stdout, nil
}

// PatchReverses reports whether patch can be reverse-applied to the working
// tree without conflicts
func (c *Client) PatchReverses(ctx context.Context, patch string) (bool, error) {
	res, err := c.exec.Exec(ctx, ExecOptions{Stdin: strings.NewReader(patch)}, "apply", "-R", "--check")
	if err != nil {
		return false, err
	}
	return res.Succeeded(), nil
}
