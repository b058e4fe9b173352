package actions

import (
	"stashwalk.dev/stashwalk/internal/runtime"
)

// LocalChangesWarning is shown when the session starts with a dirty working tree
const LocalChangesWarning = "WARNING - Can't backup stashes as branches with local changes.\n" +
	"Resolve local changes to backup stashes as branches."

// CheckPromotionAllowed reports whether stashes may be promoted to branches in
// this session. Promotion needs a clean working tree so that a rollback can
// restore it exactly; when the tree is dirty a warning is printed.
func CheckPromotionAllowed(ctx *runtime.Context) (bool, error) {
	dirty, err := ctx.Git.HasLocalChanges(ctx.Context)
	if err != nil {
		return false, err
	}
	if dirty {
		ctx.Splog.Warn(LocalChangesWarning)
	}
	return !dirty, nil
}
