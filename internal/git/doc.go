// Package git is stashwalk's gateway to the version-control system.
//
// Commands are executed through the git CLI by [CommandRunner], which reports
// every completed invocation as a [Result] carrying the exit status. A process
// that cannot be started, or that dies without an exit code, is reported as an
// error instead (see errors.ProcessError); callers must not confuse the two.
//
// [Client] layers the typed operations on top:
//
//   - Working tree: [Client.Status], [Client.HasLocalChanges], [Client.StageAll],
//     [Client.ResetIndex], [Client.DiscardTrackedChanges], [Client.CleanUntracked]
//   - Stashes: [Client.ShowStash], [Client.StashLooksApplied], [Client.ApplyStash],
//     [Client.DropStash], [Client.StashCount], [Client.StashDiff]
//   - Branches: [Client.CreateAndCheckoutBranch], [Client.CheckoutBranch],
//     [Client.RenameBranch], [Client.DeleteBranch]
//   - Commits: [Client.CommitNoVerify], [Client.CommitMessagePath]
//   - Repository: [Client.GitDir], [Client.ConfigValue]
//
// [Repository] wraps go-git for read-only queries: locating the repository
// root, resolving HEAD and looking up branches.
package git
