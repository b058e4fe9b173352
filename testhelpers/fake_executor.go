package testhelpers

import (
	"context"
	"io"
	"strings"
	"sync"

	"stashwalk.dev/stashwalk/internal/git"
)

// FakeResponse is a scripted reply to a git invocation
type FakeResponse struct {
	Result git.Result
	Err    error
	// Output is written to ExecOptions.Stdout when set, otherwise returned in Result.Stdout
	Output string
}

type fakeRule struct {
	prefix    string
	responses []FakeResponse
}

// FakeExecutor is a scripted git.Executor. Rules match on the space-joined
// arguments by prefix, first registered rule first. A rule with several
// responses plays them in order and then repeats the last one. Unmatched
// invocations succeed with no output.
type FakeExecutor struct {
	mu    sync.Mutex
	rules []*fakeRule
	calls []string
}

// NewFakeExecutor creates an executor with no rules
func NewFakeExecutor() *FakeExecutor {
	return &FakeExecutor{}
}

// On registers responses for invocations starting with prefix
func (f *FakeExecutor) On(prefix string, responses ...FakeResponse) *FakeExecutor {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, &fakeRule{prefix: prefix, responses: responses})
	return f
}

// OnExit registers a single response with the given exit code
func (f *FakeExecutor) OnExit(prefix string, code int) *FakeExecutor {
	return f.On(prefix, FakeResponse{Result: git.Result{ExitCode: code}})
}

// OnError registers a single response that fails with err
func (f *FakeExecutor) OnError(prefix string, err error) *FakeExecutor {
	return f.On(prefix, FakeResponse{Err: err})
}

// Calls returns the space-joined arguments of every invocation so far
func (f *FakeExecutor) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.calls...)
}

// Called reports whether any invocation started with prefix
func (f *FakeExecutor) Called(prefix string) bool {
	for _, call := range f.Calls() {
		if strings.HasPrefix(call, prefix) {
			return true
		}
	}
	return false
}

// Exec implements git.Executor
func (f *FakeExecutor) Exec(_ context.Context, opts git.ExecOptions, args ...string) (git.Result, error) {
	f.mu.Lock()
	cmdline := strings.Join(args, " ")
	f.calls = append(f.calls, cmdline)

	var resp FakeResponse
	for _, rule := range f.rules {
		if !strings.HasPrefix(cmdline, rule.prefix) || len(rule.responses) == 0 {
			continue
		}
		resp = rule.responses[0]
		if len(rule.responses) > 1 {
			rule.responses = rule.responses[1:]
		}
		break
	}
	f.mu.Unlock()

	if resp.Output != "" {
		if opts.Stdout != nil {
			_, _ = io.WriteString(opts.Stdout, resp.Output)
		} else {
			resp.Result.Stdout = resp.Output
		}
	}
	return resp.Result, resp.Err
}
