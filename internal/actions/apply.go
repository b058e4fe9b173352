package actions

import (
	"stashwalk.dev/stashwalk/internal/runtime"
	"stashwalk.dev/stashwalk/internal/stash"
)

// ApplyAction applies the stash under the cursor onto the working tree and
// keeps it on the stack. git reports conflicts on the terminal itself.
func ApplyAction(ctx *runtime.Context, cursor stash.Cursor) error {
	return ctx.Git.ApplyStashOnTerminal(ctx.Context, cursor.Ref(), ctx.Terminal())
}
