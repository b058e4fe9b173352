package testhelpers

import (
	"fmt"
	"os"
	"strings"
	"testing"
)

// Scene represents a test scene with a temporary directory and Git repository.
type Scene struct {
	Dir  string
	Repo *GitRepo
	// ToolsDir holds helper scripts; it lives outside the repository so it
	// never shows up in the working tree status.
	ToolsDir string
}

// SceneSetup is a function type for setting up a scene.
type SceneSetup func(*Scene) error

// NewScene creates a new test scene with a temporary directory and Git repository.
// Scenes never change the process working directory and are safe for parallel tests.
func NewScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()

	dir := t.TempDir()
	repo, err := NewGitRepo(dir)
	if err != nil {
		t.Fatalf("Failed to create Git repo: %v", err)
	}

	scene := &Scene{
		Dir:      dir,
		Repo:     repo,
		ToolsDir: t.TempDir(),
	}

	if setup != nil {
		if err := setup(scene); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
	}

	return scene
}

// WriteEditor writes an editor script that replaces the commit message with
// message and returns its path, suitable for GIT_EDITOR.
func (s *Scene) WriteEditor(message string) (string, error) {
	msgFile, err := os.CreateTemp(s.ToolsDir, "message-*.txt")
	if err != nil {
		return "", err
	}
	if _, err := msgFile.WriteString(message); err != nil {
		_ = msgFile.Close()
		return "", err
	}
	if err := msgFile.Close(); err != nil {
		return "", err
	}

	editor, err := os.CreateTemp(s.ToolsDir, "editor-*.sh")
	if err != nil {
		return "", err
	}
	script := fmt.Sprintf("#!/bin/sh\ncat %s > \"$1\"\n", shellQuote(msgFile.Name()))
	if _, err := editor.WriteString(script); err != nil {
		_ = editor.Close()
		return "", err
	}
	if err := editor.Close(); err != nil {
		return "", err
	}
	// nolint:gosec // Editor must be executable
	if err := os.Chmod(editor.Name(), 0700); err != nil {
		return "", err
	}
	return editor.Name(), nil
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// BasicSceneSetup is a setup function that creates a basic scene with a single commit.
func BasicSceneSetup(scene *Scene) error {
	return scene.Repo.CreateChangeAndCommit("1", "1")
}

// StashSceneSetup commits a file and stashes three edits of it.
// The resulting stack, from most recent: "third", "second", "first".
func StashSceneSetup(scene *Scene) error {
	if err := BasicSceneSetup(scene); err != nil {
		return err
	}
	for _, msg := range []string{"first", "second", "third"} {
		if err := scene.Repo.CreateStash(msg+" edit", "1", msg); err != nil {
			return err
		}
	}
	return nil
}
