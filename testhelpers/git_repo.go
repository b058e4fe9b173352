package testhelpers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const textFileName = "test.txt"

// GitEnv isolates test git invocations from the user's and system configuration
var GitEnv = []string{
	"GIT_CONFIG_GLOBAL=/dev/null",
	"GIT_CONFIG_NOSYSTEM=1",
	"GIT_PAGER=cat",
	"GIT_TERMINAL_PROMPT=0",
}

// GitRepo represents a Git repository for testing purposes.
type GitRepo struct {
	Dir string
}

// NewGitRepo initializes a new Git repository in the specified directory using 'git init'.
func NewGitRepo(dir string) (*GitRepo, error) {
	repo := &GitRepo{Dir: dir}

	cmd := exec.Command("git", "-c", "init.defaultBranch=main", "-c", "core.autocrlf=false", "init", dir, "-b", "main")
	cmd.Env = append(os.Environ(), GitEnv...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("failed to init repo: %w: %s", err, out)
	}

	// Configure Git user (required for commits)
	for _, kv := range [][2]string{
		{"user.name", "Test User"},
		{"user.email", "test@example.com"},
		{"commit.gpgsign", "false"},
		{"core.fileMode", "false"},
	} {
		if err := repo.RunGitCommand("config", kv[0], kv[1]); err != nil {
			return nil, err
		}
	}

	return repo, nil
}

// RunGitCommand executes a git command in the repository directory.
func (r *GitRepo) RunGitCommand(args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), GitEnv...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git %s failed: %w: %s", strings.Join(args, " "), err, out)
	}
	return nil
}

// RunGitCommandAndGetOutput executes a git command and returns its trimmed output.
func (r *GitRepo) RunGitCommandAndGetOutput(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), GitEnv...)
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s failed: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(output)), nil
}

// WriteFile writes a file relative to the repository root.
func (r *GitRepo) WriteFile(name, content string) error {
	filePath := filepath.Join(r.Dir, name)
	if err := os.MkdirAll(filepath.Dir(filePath), 0750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(filePath, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// ReadFile reads a file relative to the repository root.
func (r *GitRepo) ReadFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(r.Dir, name))
	return string(data), err
}

// CreateChange creates a file change in the repository.
func (r *GitRepo) CreateChange(textValue string, prefix string, unstaged bool) error {
	fileName := textFileName
	if prefix != "" {
		fileName = prefix + "_" + fileName
	}
	if err := r.WriteFile(fileName, textValue); err != nil {
		return err
	}
	if !unstaged {
		return r.RunGitCommand("add", fileName)
	}
	return nil
}

// CreateChangeAndCommit creates a file change and commits it.
func (r *GitRepo) CreateChangeAndCommit(textValue string, prefix string) error {
	if err := r.CreateChange(textValue, prefix, false); err != nil {
		return err
	}
	return r.RunGitCommand("commit", "-q", "-m", textValue)
}

// CreateStash modifies the committed file with the given prefix and stashes
// the change under message. The file must already be committed.
func (r *GitRepo) CreateStash(textValue, prefix, message string) error {
	if err := r.CreateChange(textValue, prefix, true); err != nil {
		return err
	}
	return r.RunGitCommand("stash", "push", "-q", "-m", message)
}

// CreateStashWithUntracked stashes a brand new file, including it as untracked content.
func (r *GitRepo) CreateStashWithUntracked(name, content, message string) error {
	if err := r.WriteFile(name, content); err != nil {
		return err
	}
	return r.RunGitCommand("stash", "push", "-q", "-u", "-m", message)
}

// StashMessages returns the stash messages from most recent to oldest.
func (r *GitRepo) StashMessages() ([]string, error) {
	output, err := r.RunGitCommandAndGetOutput("stash", "list", "--format=%gs")
	if err != nil {
		return nil, err
	}
	return splitLines(output), nil
}

// CreateBranch creates a new branch without checking it out.
func (r *GitRepo) CreateBranch(name string) error {
	return r.RunGitCommand("branch", name)
}

// CheckoutBranch checks out a branch.
func (r *GitRepo) CheckoutBranch(name string) error {
	return r.RunGitCommand("checkout", "-q", name)
}

// CheckoutDetached checks out a revision with a detached HEAD.
func (r *GitRepo) CheckoutDetached(rev string) error {
	return r.RunGitCommand("checkout", "-q", "--detach", rev)
}

// CurrentBranchName returns the name of the current branch, or "" when detached.
func (r *GitRepo) CurrentBranchName() (string, error) {
	return r.RunGitCommandAndGetOutput("branch", "--show-current")
}

// GetRevision returns the SHA of a revision (branch, tag, or commit reference).
func (r *GitRepo) GetRevision(rev string) (string, error) {
	return r.RunGitCommandAndGetOutput("rev-parse", rev)
}

// GetLocalBranches returns all local branch names.
func (r *GitRepo) GetLocalBranches() ([]string, error) {
	output, err := r.RunGitCommandAndGetOutput("for-each-ref", "refs/heads/", "--format=%(refname:short)")
	if err != nil {
		return nil, err
	}
	return splitLines(output), nil
}

// Status returns the porcelain status including untracked files.
func (r *GitRepo) Status() (string, error) {
	return r.RunGitCommandAndGetOutput("status", "--porcelain", "--untracked-files=all")
}

// CreatePrecommitHook creates a pre-commit hook.
func (r *GitRepo) CreatePrecommitHook(contents string) error {
	hookDir := filepath.Join(r.Dir, ".git", "hooks")
	if err := os.MkdirAll(hookDir, 0700); err != nil {
		return fmt.Errorf("failed to create hooks directory: %w", err)
	}

	hookPath := filepath.Join(hookDir, "pre-commit")
	// nolint:gosec // Hook must be executable
	if err := os.WriteFile(hookPath, []byte(contents), 0700); err != nil {
		return fmt.Errorf("failed to write hook: %w", err)
	}
	return nil
}

// Snapshot captures the refs, stash list, HEAD and working tree status so a test
// can assert that an operation left the repository untouched.
func (r *GitRepo) Snapshot() (RepoSnapshot, error) {
	var snap RepoSnapshot
	var err error
	if snap.Refs, err = r.RunGitCommandAndGetOutput("for-each-ref", "--format=%(refname) %(objectname)"); err != nil {
		return snap, err
	}
	if snap.Stashes, err = r.RunGitCommandAndGetOutput("stash", "list", "--format=%H %gs"); err != nil {
		return snap, err
	}
	if snap.Head, err = r.RunGitCommandAndGetOutput("rev-parse", "--symbolic-full-name", "HEAD"); err != nil {
		return snap, err
	}
	if snap.HeadCommit, err = r.RunGitCommandAndGetOutput("rev-parse", "HEAD"); err != nil {
		return snap, err
	}
	if snap.Status, err = r.Status(); err != nil {
		return snap, err
	}
	return snap, nil
}

// RepoSnapshot is the observable state of a repository
type RepoSnapshot struct {
	Refs       string
	Stashes    string
	Head       string
	HeadCommit string
	Status     string
}

// splitLines splits a string by newlines and returns non-empty lines.
func splitLines(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}
