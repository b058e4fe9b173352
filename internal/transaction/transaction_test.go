package transaction

import (
	"context"
	"errors"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"

	stasherrors "stashwalk.dev/stashwalk/internal/errors"
)

// recorder builds steps that log their execution order
type recorder struct {
	log []string
}

func (r *recorder) action(entry string, err error) Action {
	return func(context.Context) error {
		r.log = append(r.log, entry)
		return err
	}
}

func (r *recorder) step(name string, doErr error) Step {
	return Step{Name: name, Do: r.action(name, doErr), Undo: r.action("undo "+name, nil)}
}

func TestTransaction_Run(t *testing.T) {
	t.Parallel()

	t.Run("runs every step in order", func(t *testing.T) {
		t.Parallel()
		r := &recorder{}
		err := New(r.step("a", nil), r.step("b", nil), r.step("c", nil)).Run(context.Background())
		require.NoError(t, err)
		require.Equal(t, []string{"a", "b", "c"}, r.log)
	})

	t.Run("compensates completed steps in reverse order", func(t *testing.T) {
		t.Parallel()
		r := &recorder{}
		failure := errors.New("boom")
		err := New(r.step("a", nil), r.step("b", nil), r.step("c", failure), r.step("d", nil)).Run(context.Background())

		require.ErrorIs(t, err, stasherrors.ErrPromotionRolledBack)
		require.ErrorIs(t, err, failure)
		var rollback *stasherrors.RollbackError
		require.True(t, errors.As(err, &rollback))
		require.Equal(t, "c", rollback.Step)
		require.NoError(t, rollback.CompensationErr)
		require.Equal(t, []string{"a", "b", "c", "undo b", "undo a"}, r.log)
	})

	t.Run("partial steps undo themselves", func(t *testing.T) {
		t.Parallel()
		r := &recorder{}
		partial := r.step("b", errors.New("conflict"))
		partial.UndoPartial = true
		err := New(r.step("a", nil), partial).Run(context.Background())

		require.ErrorIs(t, err, stasherrors.ErrPromotionRolledBack)
		require.Equal(t, []string{"a", "b", "undo b", "undo a"}, r.log)
	})

	t.Run("steps without undo are skipped", func(t *testing.T) {
		t.Parallel()
		r := &recorder{}
		noUndo := Step{Name: "b", Do: r.action("b", nil)}
		err := New(r.step("a", nil), noUndo, r.step("c", errors.New("boom"))).Run(context.Background())

		require.Error(t, err)
		require.Equal(t, []string{"a", "b", "c", "undo a"}, r.log)
	})

	t.Run("failing compensations are joined and the rest still run", func(t *testing.T) {
		t.Parallel()
		r := &recorder{}
		undoErr := errors.New("undo b failed")
		b := r.step("b", nil)
		b.Undo = r.action("undo b", undoErr)
		err := New(r.step("a", nil), b, r.step("c", errors.New("boom"))).Run(context.Background())

		var rollback *stasherrors.RollbackError
		require.True(t, errors.As(err, &rollback))
		require.ErrorIs(t, rollback.CompensationErr, undoErr)
		require.Equal(t, []string{"a", "b", "c", "undo b", "undo a"}, r.log)
	})

	t.Run("fatal step error skips compensation", func(t *testing.T) {
		t.Parallel()
		r := &recorder{}
		fatal := stasherrors.NewSignalError("git", nil, syscall.SIGKILL)
		err := New(r.step("a", nil), r.step("b", fatal)).Run(context.Background())

		require.ErrorIs(t, err, stasherrors.ErrProcessFailure)
		require.NotErrorIs(t, err, stasherrors.ErrPromotionRolledBack)
		require.Equal(t, []string{"a", "b"}, r.log)
	})

	t.Run("fatal compensation error stops compensating", func(t *testing.T) {
		t.Parallel()
		r := &recorder{}
		fatal := stasherrors.NewLaunchError("git", nil, syscall.ENOENT)
		b := r.step("b", nil)
		b.Undo = r.action("undo b", fatal)
		err := New(r.step("a", nil), b, r.step("c", errors.New("boom"))).Run(context.Background())

		require.ErrorIs(t, err, stasherrors.ErrProcessFailure)
		require.Equal(t, []string{"a", "b", "c", "undo b"}, r.log)
	})

	t.Run("custom fatal classifier", func(t *testing.T) {
		t.Parallel()
		r := &recorder{}
		stop := errors.New("stop")
		err := New(r.step("a", nil), r.step("b", stop)).
			WithFatal(func(err error) bool { return errors.Is(err, stop) }).
			Run(context.Background())

		require.ErrorIs(t, err, stop)
		require.Equal(t, []string{"a", "b"}, r.log)
	})

	t.Run("hooks observe steps and compensations", func(t *testing.T) {
		t.Parallel()
		r := &recorder{}
		var seen []string
		err := New(r.step("a", nil), r.step("b", errors.New("boom"))).
			WithHooks(Hooks{
				OnStep:       func(name string) { seen = append(seen, "do "+name) },
				OnCompensate: func(name string) { seen = append(seen, "undo "+name) },
			}).
			Run(context.Background())

		require.Error(t, err)
		require.Equal(t, []string{"do a", "do b", "undo a"}, seen)
	})
}
