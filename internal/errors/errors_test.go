package errors

import (
	"errors"
	"fmt"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProcessError(t *testing.T) {
	t.Parallel()

	t.Run("launch failure", func(t *testing.T) {
		t.Parallel()
		err := NewLaunchError("git", []string{"status"}, syscall.ENOENT)
		require.ErrorIs(t, err, ErrProcessFailure)
		require.ErrorIs(t, err, syscall.ENOENT)
		require.False(t, err.Signaled)
		require.Contains(t, err.Error(), "failed to run git status")
	})

	t.Run("signal death", func(t *testing.T) {
		t.Parallel()
		err := NewSignalError("git", []string{"stash", "show"}, syscall.SIGKILL)
		require.ErrorIs(t, err, ErrProcessFailure)
		require.True(t, err.Signaled)
		require.Contains(t, err.Error(), "git stash show terminated by signal killed")
	})

	t.Run("wrapped errors stay fatal", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("failed to drop: %w", NewSignalError("git", nil, syscall.SIGTERM))
		require.True(t, IsFatal(err))

		var procErr *ProcessError
		require.True(t, errors.As(err, &procErr))
		require.Equal(t, syscall.SIGTERM, procErr.Signal)
	})
}

func TestGitCommandError(t *testing.T) {
	t.Parallel()

	err := NewGitCommandError("git", []string{"branch", "-m", "a", "b"}, 128, "", "fatal: a branch named 'b' already exists\n")
	require.False(t, IsFatal(err))
	require.Contains(t, err.Error(), "(exit code 128)")
	require.Contains(t, err.Error(), "stderr: fatal: a branch named 'b' already exists")

	var gitErr *GitCommandError
	require.True(t, errors.As(fmt.Errorf("rename: %w", err), &gitErr))
	require.Equal(t, 128, gitErr.ExitCode)
}

func TestRollbackError(t *testing.T) {
	t.Parallel()

	cause := NewGitCommandError("git", []string{"commit"}, 1, "", "")
	t.Run("clean rollback", func(t *testing.T) {
		t.Parallel()
		err := &RollbackError{Step: "commit", Err: cause}
		require.ErrorIs(t, err, ErrPromotionRolledBack)
		require.ErrorIs(t, err, cause)
		require.False(t, IsFatal(err))
		require.Equal(t, "commit failed: "+cause.Error(), err.Error())
	})

	t.Run("incomplete rollback", func(t *testing.T) {
		t.Parallel()
		compErr := errors.New("checkout failed")
		err := &RollbackError{Step: "commit", Err: cause, CompensationErr: compErr}
		require.ErrorIs(t, err, compErr)
		require.Contains(t, err.Error(), "rollback incomplete: checkout failed")
	})

	t.Run("malformed message is not fatal", func(t *testing.T) {
		t.Parallel()
		err := &RollbackError{Step: "read commit message", Err: ErrMalformedCommitMessage}
		require.ErrorIs(t, err, ErrMalformedCommitMessage)
		require.False(t, IsFatal(err))
	})
}
