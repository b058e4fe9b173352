// Package stash tracks the operator's position in the stash stack.
//
// Stashes have no stable identity: a stash is whatever currently sits at a given
// ordinal position, and removing the entry at position p shifts every later entry
// down by one. The Cursor therefore never holds a reference to a stash, only a
// position, and callers re-check existence after every action.
package stash

import (
	"context"
	"errors"
	"io"
	"syscall"

	stasherrors "stashwalk.dev/stashwalk/internal/errors"
	"stashwalk.dev/stashwalk/internal/git"
)

// Inspector shows the stash at ref and reports how the command ended
type Inspector interface {
	ShowStash(ctx context.Context, ref string, in io.Reader, out io.Writer) (git.Result, error)
}

// Cursor is the position currently under review. The zero value points at the
// most recent stash.
type Cursor struct {
	position int
}

// NewCursor creates a cursor at position
func NewCursor(position int) Cursor {
	if position < 0 {
		position = 0
	}
	return Cursor{position: position}
}

// Position returns the ordinal position under review
func (c Cursor) Position() int {
	return c.position
}

// Ref returns the stash reference for the current position
func (c Cursor) Ref() string {
	return git.StashRef(c.position)
}

// Advance moves past a stash that stays on the stack
func (c *Cursor) Advance() {
	c.position++
}

// Retain keeps the position after the reviewed stash was removed: the entry that
// was at position+1 now occupies this slot.
func (c *Cursor) Retain() {}

// Exists shows the stash at the cursor on out and reports whether it exists.
// Exit status 0 and the broken-pipe status (the pager was closed before the patch
// was fully written) both mean the stash exists. Any other exit status, or a
// signal other than SIGPIPE or SIGINT, marks the end of the list.
//
// A failure to start git, git dying from SIGINT, and cancellation of ctx are
// returned as errors: the operator interrupted the session.
func (c Cursor) Exists(ctx context.Context, inspector Inspector, in io.Reader, out io.Writer) (bool, error) {
	res, err := inspector.ShowStash(ctx, c.Ref(), in, out)
	if ctxErr := ctx.Err(); ctxErr != nil {
		if err != nil {
			return false, errors.Join(err, ctxErr)
		}
		return false, ctxErr
	}
	if err != nil {
		var procErr *stasherrors.ProcessError
		if errors.As(err, &procErr) && procErr.Signaled {
			switch procErr.Signal {
			case syscall.SIGPIPE:
				return true, nil
			case syscall.SIGINT:
				return false, err
			}
			return false, nil
		}
		return false, err
	}
	return ClassifyExitCode(res.ExitCode), nil
}

// ClassifyExitCode reports whether an inspection exit status means "the stash exists"
func ClassifyExitCode(code int) bool {
	return code == 0 || code == git.BrokenPipeExitCode
}
