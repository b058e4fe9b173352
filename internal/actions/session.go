package actions

import (
	"errors"
	"fmt"

	stasherrors "stashwalk.dev/stashwalk/internal/errors"
	"stashwalk.dev/stashwalk/internal/git"
	"stashwalk.dev/stashwalk/internal/runtime"
	"stashwalk.dev/stashwalk/internal/stash"
)

// ActionPrompt asks the operator what to do with the stash on screen
const ActionPrompt = "Action on this stash [d,b,s,a,q,?]? "

// NoStashesMessage is printed when the stack is empty at startup
const NoStashesMessage = "No stashes found."

// NoStashAtStartMessage is printed when the requested start position is past
// the end of the stack
const NoStashAtStartMessage = "No stash at %s (%d on the stack)."

// HelpText describes the session commands
const HelpText = `d - drop this stash
b - commit this stash to a separate branch and delete it
s - take no action on this stash
a - apply; apply the stash and take no further action
q - quit; take no further action on remaining stashes
? - print help`

// SessionSummary counts what happened during a session
type SessionSummary struct {
	Dropped  int
	Promoted int
	Skipped  int
	Applied  bool
}

// Reviewed reports whether any stash was acted on
func (s SessionSummary) Reviewed() bool {
	return s.Dropped+s.Promoted+s.Skipped > 0 || s.Applied
}

func (s SessionSummary) String() string {
	return fmt.Sprintf("Dropped %d, promoted %d, skipped %d.", s.Dropped, s.Promoted, s.Skipped)
}

// SessionOptions contains options for a review session
type SessionOptions struct {
	// StartAt is the first position to review
	StartAt int
}

// SessionAction walks the stash stack from the most recent entry, showing each
// stash and acting on the operator's choice until the stack is exhausted, the
// operator quits or applies a stash, or input ends.
//
// Only fatal errors are returned. Other failures are reported and the session
// continues with the same stash.
func SessionAction(ctx *runtime.Context, opts SessionOptions) (SessionSummary, error) {
	summary, err := runSession(ctx, opts)
	if err == nil && summary.Reviewed() {
		ctx.Splog.Info(summary.String())
	}
	return summary, err
}

func runSession(ctx *runtime.Context, opts SessionOptions) (SessionSummary, error) {
	var summary SessionSummary
	cfg := ctx.Config
	console := ctx.Console

	if err := ctx.Context.Err(); err != nil {
		return summary, err
	}
	allowed, err := CheckPromotionAllowed(ctx)
	if err != nil {
		return summary, err
	}

	count, err := ctx.Git.StashCount(ctx.Context)
	if err != nil {
		if stasherrors.IsFatal(err) {
			return summary, err
		}
		ctx.Splog.Debug("Could not count stashes: %v", err)
	} else {
		ctx.Splog.Debug("%d stashes on the stack, starting at %s", count, git.StashRef(opts.StartAt))
	}

	cursor := stash.NewCursor(opts.StartAt)
	foundAny := false

	for {
		if err := ctx.Context.Err(); err != nil {
			return summary, err
		}
		// input ended inside an action, which already finished the line
		if console.Exhausted() {
			break
		}

		exists, err := cursor.Exists(ctx.Context, ctx.Git, console.Stdin(), console.Out())
		if err != nil {
			return summary, err
		}
		if !exists {
			if !foundAny {
				if opts.StartAt > 0 && count > 0 {
					ctx.Splog.Info(NoStashAtStartMessage, git.StashRef(opts.StartAt), count)
				} else {
					ctx.Splog.Info(NoStashesMessage)
				}
			}
			break
		}
		foundAny = true

		input, err := console.Prompt(ActionPrompt)
		if errors.Is(err, stasherrors.ErrEndOfInput) {
			ctx.Splog.Newline()
			break
		}
		if err != nil {
			return summary, err
		}

		switch input {
		case "d":
			dropped, err := DropAction(ctx, DropOptions{Cursor: cursor, AppliedCheck: cfg.AppliedCheckMode()})
			if err := reportActionError(ctx, err); err != nil {
				return summary, err
			}
			if dropped {
				summary.Dropped++
				cursor.Retain()
			}

		case "b":
			result, err := PromoteAction(ctx, PromoteOptions{
				Cursor:      cursor,
				Allowed:     allowed,
				Namespace:   cfg.Namespace(),
				Placeholder: cfg.Placeholder(),
			})
			if err := reportActionError(ctx, err); err != nil {
				return summary, err
			}
			switch result.Outcome {
			case Promoted:
				summary.Promoted++
				cursor.Retain()
			case PromoteRolledBack:
				if cfg.AdvanceAfterRollback() {
					summary.Skipped++
					cursor.Advance()
				}
			}

		case "s":
			summary.Skipped++
			cursor.Advance()

		case "a":
			err := ApplyAction(ctx, cursor)
			if err := reportActionError(ctx, err); err != nil {
				return summary, err
			}
			summary.Applied = err == nil
			return summary, nil

		case "q":
			return summary, nil

		case "?", "":
			console.Help(HelpText)
		}
	}

	return summary, nil
}

// reportActionError returns fatal errors and reports the rest
func reportActionError(ctx *runtime.Context, err error) error {
	if err == nil {
		return nil
	}
	if stasherrors.IsFatal(err) {
		return err
	}
	ctx.Splog.Error("%v", err)
	return nil
}
