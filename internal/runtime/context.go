package runtime

import (
	"context"
	"fmt"
	"io"
	"os"

	"stashwalk.dev/stashwalk/internal/config"
	"stashwalk.dev/stashwalk/internal/git"
	"stashwalk.dev/stashwalk/internal/tui"
)

// Context provides access to git, configuration and output for actions
type Context struct {
	Context  context.Context
	Git      *git.Client
	Repo     *git.Repository
	Splog    *tui.Splog
	Console  *tui.Console
	Config   *config.RepoConfig
	RepoRoot string
}

// NewContext creates a new context from already constructed dependencies
func NewContext(ctx context.Context, client *git.Client, splog *tui.Splog, console *tui.Console, cfg *config.RepoConfig) *Context {
	if cfg == nil {
		cfg = &config.RepoConfig{}
	}
	return &Context{
		Context: ctx,
		Git:     client,
		Splog:   splog,
		Console: console,
		Config:  cfg,
	}
}

// Terminal returns the streams interactive git commands should use
func (c *Context) Terminal() git.Terminal {
	return git.Terminal{
		In:  c.Console.Stdin(),
		Out: c.Console.Out(),
		Err: c.Console.Err(),
	}
}

// Close releases the log file, if any
func (c *Context) Close() error {
	if c.Splog != nil {
		return c.Splog.Close()
	}
	return nil
}

// Options describe how to build a Context for a repository.
// Empty overrides leave the configured value in place.
type Options struct {
	Dir           string
	Namespace     string
	Color         string
	LogFile       string
	Verbose       bool
	StayOnFailure bool

	In  io.Reader
	Out io.Writer
	Err io.Writer

	// GitEnv is appended to the environment of every git invocation
	GitEnv []string

	// InputHook runs before the console blocks on terminal input
	InputHook tui.InputHook
}

// GetContext locates the repository containing opts.Dir, loads its configuration,
// applies the overrides and wires up git, logging and the console.
func GetContext(ctx context.Context, opts Options) (*Context, error) {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.Dir == "" {
		opts.Dir = "."
	}

	repo, err := git.OpenRepository(opts.Dir)
	if err != nil {
		return nil, err
	}
	repoRoot := repo.GetRepoRoot()

	// The config file lives in the git directory, which only git can locate
	// reliably for linked worktrees.
	probe := git.NewClient(git.NewCommandRunner(repoRoot, git.WithEnv(opts.GitEnv...)))
	gitDir, err := probe.GitDir(ctx)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(config.Path(gitDir))
	if err != nil {
		return nil, err
	}
	if err := applyOverrides(cfg, opts); err != nil {
		return nil, err
	}

	colorMode, err := tui.ParseColorMode(cfg.ColorMode())
	if err != nil {
		return nil, err
	}
	logFile := cfg.LogFilePath()
	if logFile == "" {
		logFile = tui.LogFileFromEnv()
	}
	splog, err := tui.NewSplogWithOptions(tui.SplogOptions{
		Out:     opts.Out,
		Err:     opts.Err,
		Styles:  tui.NewStyles(opts.Err, colorMode),
		Verbose: opts.Verbose,
		LogFile: logFile,
	})
	if err != nil {
		return nil, err
	}
	console := tui.NewConsole(opts.In, opts.Out, opts.Err, tui.NewStyles(opts.Out, colorMode))
	console.SetInputHook(opts.InputHook)

	runner := git.NewCommandRunner(repoRoot, git.WithEnv(opts.GitEnv...), git.WithLogger(splog))
	rc := NewContext(ctx, git.NewClient(runner), splog, console, cfg)
	rc.Repo = repo
	rc.RepoRoot = repoRoot
	return rc, nil
}

func applyOverrides(cfg *config.RepoConfig, opts Options) error {
	if opts.Namespace != "" {
		cfg.BranchNamespace = &opts.Namespace
	}
	if opts.Color != "" {
		cfg.Color = &opts.Color
	}
	if opts.LogFile != "" {
		cfg.LogFile = &opts.LogFile
	}
	if opts.StayOnFailure {
		advance := false
		cfg.AdvanceOnFailedPromotion = &advance
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid option: %w", err)
	}
	return nil
}
