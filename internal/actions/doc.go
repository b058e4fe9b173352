// Package actions provides the operations behind stashwalk's interactive session.
//
// Each action corresponds to one operator choice (drop, promote to a branch,
// apply) and orchestrates operations across the git, stash and tui packages.
//
// Key patterns:
//   - Actions accept runtime.Context which provides Git, Splog, Console and Config
//   - Actions never cache stashes; they act on the cursor position they are given
//   - Errors matching errors.IsFatal abort the session; anything else is reported
//     and the session continues
//
// Dependencies:
//   - git: version-control operations
//   - stash: cursor and existence checks
//   - transaction: rollback of partially completed promotions
//   - tui: prompts and output
package actions
