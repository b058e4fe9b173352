package git

import (
	"context"
	"strings"
)

// ConfigValue returns the value of a git config key. A missing key is reported
// as ok == false, not as an error.
func (c *Client) ConfigValue(ctx context.Context, key string) (value string, ok bool, err error) {
	res, err := c.exec.Exec(ctx, ExecOptions{}, "config", "--get", key)
	if err != nil {
		return "", false, err
	}
	if !res.Succeeded() {
		return "", false, nil
	}
	return strings.TrimSpace(res.Stdout), true, nil
}
