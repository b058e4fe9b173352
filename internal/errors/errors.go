// Package errors provides sentinel errors and custom error types for the stashwalk application.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Sentinel errors for common conditions
var (
	// ErrProcessFailure indicates that a git process could not be started or ended
	// without an exit code. The state of the repository is no longer trustworthy.
	ErrProcessFailure = errors.New("git process failure")

	// ErrMalformedCommitMessage indicates that the commit message file has no usable subject line
	ErrMalformedCommitMessage = errors.New("commit message has no subject line")

	// ErrEndOfInput indicates that the operator's input stream was closed
	ErrEndOfInput = errors.New("end of input")

	// ErrPromotionRolledBack indicates that a promotion failed and was undone
	ErrPromotionRolledBack = errors.New("promotion rolled back")

	// ErrNotARepository indicates that the working directory is not inside a git repository
	ErrNotARepository = errors.New("not a git repository")
)

// ProcessError represents a git invocation that never produced an exit code,
// either because it failed to launch or because it was killed by a signal.
type ProcessError struct {
	Command  string
	Args     []string
	Signaled bool
	Signal   os.Signal
	Err      error
}

func (e *ProcessError) Error() string {
	cmdline := strings.TrimSpace(e.Command + " " + strings.Join(e.Args, " "))
	if e.Signaled {
		return fmt.Sprintf("%s terminated by signal %v", cmdline, e.Signal)
	}
	if e.Err != nil {
		return fmt.Sprintf("failed to run %s: %v", cmdline, e.Err)
	}
	return fmt.Sprintf("%s terminated abnormally", cmdline)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrProcessFailure
func (e *ProcessError) Is(target error) bool {
	return target == ErrProcessFailure
}

// NewLaunchError creates a ProcessError for a process that could not be started
func NewLaunchError(command string, args []string, err error) *ProcessError {
	return &ProcessError{Command: command, Args: args, Err: err}
}

// NewSignalError creates a ProcessError for a process killed by a signal
func NewSignalError(command string, args []string, sig os.Signal) *ProcessError {
	return &ProcessError{Command: command, Args: args, Signaled: true, Signal: sig}
}

// GitCommandError represents a git command that ran to completion with a non-zero exit code
type GitCommandError struct {
	Command  string
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	msg += fmt.Sprintf(" (exit code %d)", e.ExitCode)
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", strings.TrimSpace(e.Stderr))
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", strings.TrimSpace(e.Stdout))
	}
	return msg
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, exitCode int, stdout, stderr string) *GitCommandError {
	return &GitCommandError{
		Command:  command,
		Args:     args,
		ExitCode: exitCode,
		Stdout:   stdout,
		Stderr:   stderr,
	}
}

// RollbackError describes a promotion that failed at Step and was compensated.
// CompensationErr is non-nil when one or more compensating actions also failed.
type RollbackError struct {
	Step            string
	Err             error
	CompensationErr error
}

func (e *RollbackError) Error() string {
	msg := fmt.Sprintf("%s failed: %v", e.Step, e.Err)
	if e.CompensationErr != nil {
		msg += fmt.Sprintf("; rollback incomplete: %v", e.CompensationErr)
	}
	return msg
}

func (e *RollbackError) Unwrap() []error {
	errs := []error{e.Err}
	if e.CompensationErr != nil {
		errs = append(errs, e.CompensationErr)
	}
	return errs
}

// Is returns true if the target error is ErrPromotionRolledBack
func (e *RollbackError) Is(target error) bool {
	return target == ErrPromotionRolledBack
}

// IsFatal reports whether err must abort the session.
func IsFatal(err error) bool {
	return errors.Is(err, ErrProcessFailure)
}
