package actions_test

import (
	"errors"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"

	"stashwalk.dev/stashwalk/internal/actions"
	stasherrors "stashwalk.dev/stashwalk/internal/errors"
	"stashwalk.dev/stashwalk/internal/stash"
	"stashwalk.dev/stashwalk/testhelpers"
	"stashwalk.dev/stashwalk/testhelpers/scenario"
)

func promoteOptions(position int) actions.PromoteOptions {
	return actions.PromoteOptions{
		Cursor:      stash.NewCursor(position),
		Allowed:     true,
		Namespace:   "stash",
		Placeholder: "__TEMP_STASH__",
	}
}

func TestPromoteAction(t *testing.T) {
	t.Parallel()

	t.Run("commits the stash to a branch named after the subject", func(t *testing.T) {
		t.Parallel()
		s := scenario.NewScenario(t, testhelpers.StashSceneSetup).
			WithCommitMessage("Fix login bug!! \n\nDetails in the body\n")

		result, err := actions.PromoteAction(s.NewContext(""), promoteOptions(0))
		require.NoError(t, err)
		require.Equal(t, actions.Promoted, result.Outcome)
		require.Equal(t, "stash/fix_login_bug", result.Branch)

		testhelpers.ExpectBranches(t, s.Repo(), []string{"main", "stash/fix_login_bug"})
		testhelpers.ExpectStashes(t, s.Repo(), []string{"On main: second", "On main: first"})

		current, err := s.Repo().CurrentBranchName()
		require.NoError(t, err)
		require.Equal(t, "main", current)

		status, err := s.Repo().Status()
		require.NoError(t, err)
		require.Empty(t, status)

		content, err := s.Repo().RunGitCommandAndGetOutput("show", "stash/fix_login_bug:1_test.txt")
		require.NoError(t, err)
		require.Equal(t, "third edit", content)

		subject, err := s.Repo().RunGitCommandAndGetOutput("log", "-1", "--format=%s", "stash/fix_login_bug")
		require.NoError(t, err)
		require.Equal(t, "Fix login bug!!", subject)
		require.Contains(t, s.Out.String(), "Saved stash as branch stash/fix_login_bug.")
	})

	t.Run("promotes a stash deeper in the stack", func(t *testing.T) {
		t.Parallel()
		s := scenario.NewScenario(t, testhelpers.StashSceneSetup).
			WithCommitMessage("second attempt\n")

		result, err := actions.PromoteAction(s.NewContext(""), promoteOptions(1))
		require.NoError(t, err)
		require.Equal(t, actions.Promoted, result.Outcome)

		testhelpers.ExpectStashes(t, s.Repo(), []string{"On main: third", "On main: first"})
		content, err := s.Repo().RunGitCommandAndGetOutput("show", "stash/second_attempt:1_test.txt")
		require.NoError(t, err)
		require.Equal(t, "second edit", content)
	})

	t.Run("includes untracked files of the stash", func(t *testing.T) {
		t.Parallel()
		s := scenario.NewScenario(t, func(scene *testhelpers.Scene) error {
			if err := testhelpers.BasicSceneSetup(scene); err != nil {
				return err
			}
			return scene.Repo.CreateStashWithUntracked("docs/new.md", "draft", "docs")
		}).WithCommitMessage("Draft docs\n")

		result, err := actions.PromoteAction(s.NewContext(""), promoteOptions(0))
		require.NoError(t, err)
		require.Equal(t, actions.Promoted, result.Outcome)

		content, err := s.Repo().RunGitCommandAndGetOutput("show", "stash/draft_docs:docs/new.md")
		require.NoError(t, err)
		require.Equal(t, "draft", content)

		status, err := s.Repo().Status()
		require.NoError(t, err)
		require.Empty(t, status)
	})

	t.Run("returns to a detached HEAD", func(t *testing.T) {
		t.Parallel()
		s := scenario.NewScenario(t, testhelpers.StashSceneSetup).
			WithCommitMessage("detached work\n")
		head, err := s.Repo().GetRevision("HEAD")
		require.NoError(t, err)
		require.NoError(t, s.Repo().CheckoutDetached("HEAD"))

		result, err := actions.PromoteAction(s.NewContext(""), promoteOptions(0))
		require.NoError(t, err)
		require.Equal(t, actions.Promoted, result.Outcome)

		current, err := s.Repo().CurrentBranchName()
		require.NoError(t, err)
		require.Empty(t, current)
		after, err := s.Repo().GetRevision("HEAD")
		require.NoError(t, err)
		require.Equal(t, head, after)
	})

	t.Run("skips commit hooks", func(t *testing.T) {
		t.Parallel()
		s := scenario.NewScenario(t, testhelpers.StashSceneSetup).
			WithCommitMessage("hooked\n")
		require.NoError(t, s.Repo().CreatePrecommitHook("#!/bin/sh\nexit 1\n"))

		result, err := actions.PromoteAction(s.NewContext(""), promoteOptions(0))
		require.NoError(t, err)
		require.Equal(t, actions.Promoted, result.Outcome)
	})

	t.Run("uses the configured namespace", func(t *testing.T) {
		t.Parallel()
		s := scenario.NewScenario(t, testhelpers.StashSceneSetup).
			WithCommitMessage("wip\n")
		opts := promoteOptions(0)
		opts.Namespace = "backup/stash"

		result, err := actions.PromoteAction(s.NewContext(""), opts)
		require.NoError(t, err)
		require.Equal(t, "backup/stash/wip", result.Branch)
		testhelpers.ExpectBranches(t, s.Repo(), []string{"main", "backup/stash/wip"})
	})

	t.Run("rejected with local changes", func(t *testing.T) {
		t.Parallel()
		s := scenario.NewScenario(t, testhelpers.StashSceneSetup).
			WithUncommittedChange("1")
		before := s.Snapshot()
		opts := promoteOptions(0)
		opts.Allowed = false

		result, err := actions.PromoteAction(s.NewContext(""), opts)
		require.NoError(t, err)
		require.Equal(t, actions.PromoteRejected, result.Outcome)
		require.Contains(t, s.Err.String(), "ERROR - Can't commit branches with unstaged files!")
		testhelpers.ExpectUnchanged(t, s.Repo(), before)
	})
}

func TestPromoteAction_Rollback(t *testing.T) {
	t.Parallel()

	t.Run("aborted commit leaves the repository unchanged", func(t *testing.T) {
		t.Parallel()
		// the default editor leaves the message empty, so git aborts the commit
		s := scenario.NewScenario(t, testhelpers.StashSceneSetup)
		before := s.Snapshot()

		result, err := actions.PromoteAction(s.NewContext(""), promoteOptions(0))
		require.NoError(t, err)
		require.Equal(t, actions.PromoteRolledBack, result.Outcome)
		require.Contains(t, s.Out.String(), "Stash not promoted (commit failed)")
		testhelpers.ExpectUnchanged(t, s.Repo(), before)
	})

	t.Run("subject without usable characters rolls back after the commit", func(t *testing.T) {
		t.Parallel()
		s := scenario.NewScenario(t, testhelpers.StashSceneSetup).
			WithCommitMessage("!!!\n")
		before := s.Snapshot()

		result, err := actions.PromoteAction(s.NewContext(""), promoteOptions(0))
		require.NoError(t, err)
		require.Equal(t, actions.PromoteRolledBack, result.Outcome)
		require.Contains(t, s.Out.String(), "read commit message failed")
		testhelpers.ExpectUnchanged(t, s.Repo(), before)
	})

	t.Run("existing branch name rolls back the rename", func(t *testing.T) {
		t.Parallel()
		s := scenario.NewScenario(t, testhelpers.StashSceneSetup).
			WithCommitMessage("Fix login bug\n")
		require.NoError(t, s.Repo().CreateBranch("stash/fix_login_bug"))
		before := s.Snapshot()

		result, err := actions.PromoteAction(s.NewContext(""), promoteOptions(0))
		require.NoError(t, err)
		require.Equal(t, actions.PromoteRolledBack, result.Outcome)
		require.Contains(t, s.Out.String(), "rename branch failed")
		testhelpers.ExpectUnchanged(t, s.Repo(), before)
	})

	t.Run("conflicting apply is cleaned up", func(t *testing.T) {
		t.Parallel()
		s := scenario.NewScenario(t, testhelpers.StashSceneSetup).
			WithCommitMessage("never used\n")
		require.NoError(t, s.Repo().CreateChangeAndCommit("moved on", "1"))
		before := s.Snapshot()

		result, err := actions.PromoteAction(s.NewContext(""), promoteOptions(0))
		require.NoError(t, err)
		require.Equal(t, actions.PromoteRolledBack, result.Outcome)
		testhelpers.ExpectUnchanged(t, s.Repo(), before)
	})

	t.Run("untracked files are removed on rollback", func(t *testing.T) {
		t.Parallel()
		s := scenario.NewScenario(t, func(scene *testhelpers.Scene) error {
			if err := testhelpers.BasicSceneSetup(scene); err != nil {
				return err
			}
			return scene.Repo.CreateStashWithUntracked("docs/new.md", "draft", "docs")
		})
		before := s.Snapshot()

		result, err := actions.PromoteAction(s.NewContext(""), promoteOptions(0))
		require.NoError(t, err)
		require.Equal(t, actions.PromoteRolledBack, result.Outcome)
		testhelpers.ExpectUnchanged(t, s.Repo(), before)
		_, err = s.Repo().ReadFile("docs/new.md")
		require.Error(t, err)
	})

	t.Run("rollback restores a detached HEAD", func(t *testing.T) {
		t.Parallel()
		s := scenario.NewScenario(t, testhelpers.StashSceneSetup)
		require.NoError(t, s.Repo().CheckoutDetached("HEAD"))
		before := s.Snapshot()

		result, err := actions.PromoteAction(s.NewContext(""), promoteOptions(0))
		require.NoError(t, err)
		require.Equal(t, actions.PromoteRolledBack, result.Outcome)
		testhelpers.ExpectUnchanged(t, s.Repo(), before)
	})
}

func TestPromoteAction_ProcessFailure(t *testing.T) {
	t.Parallel()

	t.Run("aborts without compensation", func(t *testing.T) {
		t.Parallel()
		fake := testhelpers.NewFakeExecutor().
			OnError("stash apply", stasherrors.NewSignalError("git", []string{"stash", "apply"}, syscall.SIGKILL))
		s := scenario.NewScenario(t, nil).WithExecutor(fake)

		_, err := actions.PromoteAction(s.NewContext(""), promoteOptions(0))
		require.Error(t, err)
		require.True(t, stasherrors.IsFatal(err))

		var procErr *stasherrors.ProcessError
		require.True(t, errors.As(err, &procErr))
		require.True(t, procErr.Signaled)

		require.Equal(t, []string{
			"checkout -q -b stash/__TEMP_STASH__",
			"stash apply stash@{0}",
		}, fake.Calls())
	})

	t.Run("failing compensation is still attempted in order", func(t *testing.T) {
		t.Parallel()
		fake := testhelpers.NewFakeExecutor().
			OnExit("add -A", 1).
			OnExit("checkout -q -- .", 1)
		s := scenario.NewScenario(t, nil).WithExecutor(fake)

		result, err := actions.PromoteAction(s.NewContext(""), promoteOptions(0))
		require.NoError(t, err)
		require.Equal(t, actions.PromoteRolledBack, result.Outcome)
		require.Contains(t, s.Err.String(), "Could not fully restore the repository")

		require.Equal(t, []string{
			"checkout -q -b stash/__TEMP_STASH__",
			"stash apply stash@{0}",
			"add -A",
			"reset -q HEAD",
			"reset -q HEAD",
			"checkout -q -- .",
			"checkout -q main",
			"branch -q -D stash/__TEMP_STASH__",
		}, fake.Calls())
	})
}
