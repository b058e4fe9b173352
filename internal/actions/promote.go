package actions

import (
	"context"
	"errors"
	"fmt"
	"os"

	stasherrors "stashwalk.dev/stashwalk/internal/errors"
	"stashwalk.dev/stashwalk/internal/runtime"
	"stashwalk.dev/stashwalk/internal/stash"
	"stashwalk.dev/stashwalk/internal/transaction"
	"stashwalk.dev/stashwalk/internal/utils"
)

// UnstagedFilesError is shown when promotion is attempted with a dirty working tree
const UnstagedFilesError = "ERROR - Can't commit branches with unstaged files!"

// PromoteOutcome describes how a promotion ended
type PromoteOutcome int

const (
	// PromoteRejected means nothing was attempted because the working tree was dirty
	PromoteRejected PromoteOutcome = iota
	// PromoteRolledBack means a step failed and every completed step was undone
	PromoteRolledBack
	// Promoted means the stash now lives on a branch and was removed from the stack
	Promoted
)

func (o PromoteOutcome) String() string {
	switch o {
	case PromoteRejected:
		return "rejected"
	case PromoteRolledBack:
		return "rolled back"
	case Promoted:
		return "promoted"
	}
	return fmt.Sprintf("PromoteOutcome(%d)", int(o))
}

// PromoteOptions contains options for promoting a stash
type PromoteOptions struct {
	Cursor stash.Cursor
	// Allowed is the session's working-tree guard result
	Allowed bool
	// Namespace prefixes the placeholder and the final branch name
	Namespace string
	// Placeholder names the branch the stash is committed on before it is renamed
	Placeholder string
}

// PromoteResult reports the outcome of a promotion
type PromoteResult struct {
	Outcome PromoteOutcome
	// Branch is the created branch when Outcome is Promoted
	Branch string
}

// PromoteAction commits the stash under the cursor to a new branch named after
// the commit subject, then drops the stash.
//
// The branch is built as a transaction: if creating the placeholder branch,
// applying, staging, committing, reading the message or renaming fails, every
// completed step is undone, the operator is told, and the stash is untouched.
// Process failures abort immediately and are returned.
func PromoteAction(ctx *runtime.Context, opts PromoteOptions) (PromoteResult, error) {
	splog := ctx.Splog
	g := ctx.Git

	if !opts.Allowed {
		splog.Error(UnstagedFilesError)
		return PromoteResult{Outcome: PromoteRejected}, nil
	}

	ref := opts.Cursor.Ref()
	placeholder := opts.Namespace + "/" + opts.Placeholder

	prior, err := ctx.Repo.HeadRef()
	if err != nil {
		return PromoteResult{}, fmt.Errorf("failed to record current branch: %w", err)
	}

	var branch string
	tx := transaction.New(
		transaction.Step{
			Name: "create branch " + placeholder,
			Do: func(c context.Context) error {
				return g.CreateAndCheckoutBranch(c, placeholder)
			},
			Undo: func(c context.Context) error {
				if err := g.CheckoutBranch(c, prior); err != nil {
					return err
				}
				return g.DeleteBranch(c, placeholder)
			},
		},
		transaction.Step{
			Name: "apply " + ref,
			Do: func(c context.Context) error {
				return g.ApplyStash(c, ref)
			},
			Undo: func(c context.Context) error {
				return discardWorkingTree(c, ctx)
			},
			UndoPartial: true,
		},
		transaction.Step{
			Name: "stage changes",
			Do:   g.StageAll,
			Undo: g.ResetIndex,
			// a partial add leaves some paths staged
			UndoPartial: true,
		},
		transaction.Step{
			Name: "commit",
			Do: func(c context.Context) error {
				return g.CommitNoVerify(c, ctx.Terminal())
			},
		},
		transaction.Step{
			Name: "read commit message",
			Do: func(c context.Context) error {
				name, err := branchNameFromCommitMessage(c, ctx, opts.Namespace)
				branch = name
				return err
			},
		},
		transaction.Step{
			Name: "rename branch",
			Do: func(c context.Context) error {
				exists, err := ctx.Repo.BranchExists(branch)
				if err != nil {
					return err
				}
				if exists {
					return fmt.Errorf("branch %s already exists", branch)
				}
				return g.RenameBranch(c, placeholder, branch)
			},
			Undo: func(c context.Context) error {
				return g.RenameBranch(c, branch, placeholder)
			},
		},
	).WithHooks(transaction.Hooks{
		OnStep:       func(name string) { splog.Debug("promote %s: %s", ref, name) },
		OnCompensate: func(name string) { splog.Debug("promote %s: undo %s", ref, name) },
	})

	if err := tx.Run(ctx.Context); err != nil {
		var rollback *stasherrors.RollbackError
		if !errors.As(err, &rollback) {
			return PromoteResult{}, err
		}
		if rollback.CompensationErr != nil {
			splog.Error("Could not fully restore the repository after %s failed: %v", rollback.Step, rollback.CompensationErr)
		}
		splog.Info("Stash not promoted (%s failed); the repository was rolled back.", rollback.Step)
		splog.Debug("%v", rollback.Err)
		return PromoteResult{Outcome: PromoteRolledBack}, nil
	}

	// The branch exists from here on; failures are reported without undoing it.
	if err := g.CheckoutBranch(ctx.Context, prior); err != nil {
		return PromoteResult{Outcome: Promoted, Branch: branch}, fmt.Errorf("created %s but failed to return to %s: %w", branch, prior, err)
	}
	if err := g.DropStash(ctx.Context, ref); err != nil {
		return PromoteResult{Outcome: Promoted, Branch: branch}, fmt.Errorf("created %s but failed to drop the stash: %w", branch, err)
	}

	splog.Info("Saved stash as branch %s.", branch)
	return PromoteResult{Outcome: Promoted, Branch: branch}, nil
}

// discardWorkingTree returns index and working tree to HEAD, removing files the
// stash introduced
func discardWorkingTree(c context.Context, ctx *runtime.Context) error {
	if err := ctx.Git.ResetIndex(c); err != nil {
		return err
	}
	if err := ctx.Git.DiscardTrackedChanges(c); err != nil {
		return err
	}
	return ctx.Git.CleanUntracked(c)
}

// branchNameFromCommitMessage derives the branch name from the message of the
// commit that was just made
func branchNameFromCommitMessage(c context.Context, ctx *runtime.Context, namespace string) (string, error) {
	path, err := ctx.Git.CommitMessagePath(c)
	if err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to read commit message: %w", err)
	}
	defer func() { _ = f.Close() }()

	subject, err := utils.CommitSubject(f)
	if err != nil {
		return "", err
	}
	return utils.BranchNameFromSubject(namespace, subject)
}
