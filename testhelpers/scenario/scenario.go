// Package scenario provides a high-level test scenario that combines a Scene
// and a runtime Context to provide a terse API for integration tests.
package scenario

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"stashwalk.dev/stashwalk/internal/config"
	"stashwalk.dev/stashwalk/internal/git"
	"stashwalk.dev/stashwalk/internal/runtime"
	"stashwalk.dev/stashwalk/internal/tui"
	"stashwalk.dev/stashwalk/testhelpers"
)

// Scenario represents a high-level test scenario. Each call to NewContext builds
// a fresh runtime Context over the scene's repository whose console reads the
// scripted input and writes into Out and Err.
type Scenario struct {
	T      *testing.T
	Scene  *testhelpers.Scene
	Config *config.RepoConfig
	Out    *bytes.Buffer
	Err    *bytes.Buffer

	env      []string
	executor git.Executor
}

// NewScenario creates a new Scenario with an optional setup function.
// Scenarios are safe for parallel tests.
func NewScenario(t *testing.T, setup testhelpers.SceneSetup) *Scenario {
	t.Helper()
	return &Scenario{
		T:      t,
		Scene:  testhelpers.NewScene(t, setup),
		Config: &config.RepoConfig{},
		Out:    &bytes.Buffer{},
		Err:    &bytes.Buffer{},
		env:    append([]string{"GIT_EDITOR=true"}, testhelpers.GitEnv...),
	}
}

// Repo returns the scene's repository
func (s *Scenario) Repo() *testhelpers.GitRepo {
	return s.Scene.Repo
}

// WithCommitMessage makes the commit editor write message
func (s *Scenario) WithCommitMessage(message string) *Scenario {
	s.T.Helper()
	editor, err := s.Scene.WriteEditor(message)
	require.NoError(s.T, err)
	return s.WithEnv("GIT_EDITOR=" + editor)
}

// WithEnv adds environment variables for git invocations
func (s *Scenario) WithEnv(env ...string) *Scenario {
	s.env = append(s.env, env...)
	return s
}

// WithExecutor replaces the real git runner
func (s *Scenario) WithExecutor(exec git.Executor) *Scenario {
	s.executor = exec
	return s
}

// WithConfig replaces the repository configuration
func (s *Scenario) WithConfig(cfg *config.RepoConfig) *Scenario {
	s.Config = cfg
	return s
}

// WithUncommittedChange creates an uncommitted change in the repository.
func (s *Scenario) WithUncommittedChange(name string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Scene.Repo.CreateChange("unstaged content", name, true))
	return s
}

// NewContext builds a runtime Context whose console reads input
func (s *Scenario) NewContext(input string) *runtime.Context {
	s.T.Helper()

	var exec git.Executor = git.NewCommandRunner(s.Scene.Dir, git.WithEnv(s.env...))
	if s.executor != nil {
		exec = s.executor
	}

	splog, err := tui.NewSplogWithOptions(tui.SplogOptions{
		Out:    s.Out,
		Err:    s.Err,
		Styles: tui.NewStyles(s.Err, tui.ColorNever),
	})
	require.NoError(s.T, err)

	console := tui.NewConsole(strings.NewReader(input), s.Out, s.Err, tui.NewStyles(s.Out, tui.ColorNever))
	repo, err := git.OpenRepository(s.Scene.Dir)
	require.NoError(s.T, err)

	ctx := runtime.NewContext(context.Background(), git.NewClient(exec), splog, console, s.Config)
	ctx.Repo = repo
	ctx.RepoRoot = s.Scene.Dir
	return ctx
}

// Snapshot captures the repository state
func (s *Scenario) Snapshot() testhelpers.RepoSnapshot {
	s.T.Helper()
	snap, err := s.Scene.Repo.Snapshot()
	require.NoError(s.T, err)
	return snap
}
