// Package git provides a wrapper around git commands and go-git for repository operations.
package git

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"

	stasherrors "stashwalk.dev/stashwalk/internal/errors"
)

// Result is the outcome of a git invocation that ran to completion.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Succeeded reports whether the command exited with status 0
func (r Result) Succeeded() bool {
	return r.ExitCode == 0
}

// ExecOptions controls how a single invocation is wired to the outside world.
// Nil streams are captured into the Result (Stdout, Stderr) or left empty (Stdin).
type ExecOptions struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Env    []string
}

// Executor runs git invocations.
// Exec returns an error only when the process failed to start or ended without
// an exit code; a non-zero exit is reported through Result.
type Executor interface {
	Exec(ctx context.Context, opts ExecOptions, args ...string) (Result, error)
}

// CommandLogger receives one line per executed command
type CommandLogger interface {
	Debug(format string, args ...interface{})
}

// CommandRunner handles execution of git commands
type CommandRunner struct {
	workingDir string
	binary     string
	env        []string
	logger     CommandLogger
}

// RunnerOption configures a CommandRunner
type RunnerOption func(*CommandRunner)

// WithBinary overrides the executable (defaults to "git")
func WithBinary(binary string) RunnerOption {
	return func(r *CommandRunner) { r.binary = binary }
}

// WithEnv appends environment variables to every invocation
func WithEnv(env ...string) RunnerOption {
	return func(r *CommandRunner) { r.env = append(r.env, env...) }
}

// WithLogger logs every invocation at debug level
func WithLogger(logger CommandLogger) RunnerOption {
	return func(r *CommandRunner) { r.logger = logger }
}

// NewCommandRunner creates a new CommandRunner
func NewCommandRunner(workingDir string, opts ...RunnerOption) *CommandRunner {
	r := &CommandRunner{workingDir: workingDir, binary: "git"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetWorkingDir returns the directory commands run in
func (r *CommandRunner) GetWorkingDir() string {
	return r.workingDir
}

// Exec runs a single command. No timeout is applied: stash inspection and commit
// hand the terminal to the operator and may legitimately block for a long time.
func (r *CommandRunner) Exec(ctx context.Context, opts ExecOptions, args ...string) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if r.logger != nil {
		r.logger.Debug("$ %s %s", r.binary, strings.Join(args, " "))
	}

	cmd := exec.CommandContext(ctx, r.binary, args...)
	if r.workingDir != "" {
		cmd.Dir = r.workingDir
	}
	if len(r.env) > 0 || len(opts.Env) > 0 {
		cmd.Env = append(append(os.Environ(), r.env...), opts.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdin = opts.Stdin
	cmd.Stdout = &stdout
	if opts.Stdout != nil {
		cmd.Stdout = opts.Stdout
	}
	cmd.Stderr = &stderr
	if opts.Stderr != nil {
		cmd.Stderr = opts.Stderr
	}

	err := cmd.Run()
	result := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return result, stasherrors.NewLaunchError(r.binary, args, err)
	}
	if code := exitErr.ExitCode(); code >= 0 {
		result.ExitCode = code
		return result, nil
	}

	// No exit code: the process was killed by a signal
	var sig os.Signal
	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		sig = status.Signal()
	}
	return result, stasherrors.NewSignalError(r.binary, args, sig)
}
