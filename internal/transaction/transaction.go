// Package transaction runs a sequence of repository mutations as a unit.
//
// Each Step pairs a forward action with the compensating action that undoes
// it. Steps run in order; when one fails, the compensations of the steps that
// already completed run in reverse order, so the repository ends up where it
// started. A failure classified as fatal stops everything immediately, without
// compensation.
package transaction

import (
	"context"
	"errors"

	stasherrors "stashwalk.dev/stashwalk/internal/errors"
)

// Action is a single forward or compensating operation
type Action func(ctx context.Context) error

// Step is a forward action and its compensation. Undo may be nil when the
// step has nothing to undo, or when a compensation of an earlier step covers it.
// UndoPartial marks a forward action that can fail halfway (for example a stash
// apply that stops on conflicts); its Undo then also runs when Do itself fails.
type Step struct {
	Name        string
	Do          Action
	Undo        Action
	UndoPartial bool
}

// Hooks observe a run. All fields are optional.
type Hooks struct {
	OnStep       func(name string)
	OnCompensate func(name string)
}

// Transaction executes steps with rollback on failure
type Transaction struct {
	steps   []Step
	isFatal func(error) bool
	hooks   Hooks
}

// New creates a transaction over steps. Errors matching errors.IsFatal abort
// without compensation.
func New(steps ...Step) *Transaction {
	return &Transaction{steps: steps, isFatal: stasherrors.IsFatal}
}

// WithHooks sets observation hooks
func (t *Transaction) WithHooks(h Hooks) *Transaction {
	t.hooks = h
	return t
}

// WithFatal overrides the fatal-error classifier
func (t *Transaction) WithFatal(isFatal func(error) bool) *Transaction {
	t.isFatal = isFatal
	return t
}

// Run executes every step in order.
//
// On success it returns nil. When a step fails with a non-fatal error, the
// completed steps are compensated in reverse order and a *errors.RollbackError
// is returned. Compensation keeps going past failed compensations, which are
// joined into RollbackError.CompensationErr, unless one of them is fatal.
// A fatal error from any action is returned unwrapped, without compensation.
func (t *Transaction) Run(ctx context.Context) error {
	for i, step := range t.steps {
		if t.hooks.OnStep != nil {
			t.hooks.OnStep(step.Name)
		}
		err := step.Do(ctx)
		if err == nil {
			continue
		}
		if t.isFatal(err) {
			return err
		}

		done := t.steps[:i]
		if step.UndoPartial {
			done = t.steps[:i+1]
		}
		compErr := t.compensate(ctx, done)
		if compErr != nil && t.isFatal(compErr) {
			return compErr
		}
		return &stasherrors.RollbackError{Step: step.Name, Err: err, CompensationErr: compErr}
	}
	return nil
}

func (t *Transaction) compensate(ctx context.Context, done []Step) error {
	var errs []error
	for i := len(done) - 1; i >= 0; i-- {
		step := done[i]
		if step.Undo == nil {
			continue
		}
		if t.hooks.OnCompensate != nil {
			t.hooks.OnCompensate(step.Name)
		}
		if err := step.Undo(ctx); err != nil {
			if t.isFatal(err) {
				return err
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
