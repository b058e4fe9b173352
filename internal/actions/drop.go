package actions

import (
	"fmt"

	"stashwalk.dev/stashwalk/internal/git"
	"stashwalk.dev/stashwalk/internal/runtime"
	"stashwalk.dev/stashwalk/internal/stash"
)

// DropConfirmation is asked before dropping a stash that does not look applied
const DropConfirmation = "Stash may not be applied. Drop anyway?"

// DropOptions contains options for dropping a stash
type DropOptions struct {
	Cursor       stash.Cursor
	AppliedCheck git.AppliedCheck
}

// DropAction removes the stash under the cursor. Unless the stash already looks
// applied the operator has to confirm; declining is not an error and leaves the
// stash in place. It reports whether the stash was dropped.
func DropAction(ctx *runtime.Context, opts DropOptions) (bool, error) {
	ref := opts.Cursor.Ref()

	applied, err := ctx.Git.StashLooksApplied(ctx.Context, ref, opts.AppliedCheck)
	if err != nil {
		return false, err
	}
	ctx.Splog.Debug("%s looks applied: %t", ref, applied)

	if !applied {
		confirmed, err := ctx.Console.Confirm(DropConfirmation)
		if err != nil {
			return false, err
		}
		if !confirmed {
			return false, nil
		}
	}

	if err := ctx.Git.DropStash(ctx.Context, ref); err != nil {
		return false, fmt.Errorf("failed to drop stash: %w", err)
	}
	return true, nil
}
