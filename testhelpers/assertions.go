// Package testhelpers provides testing utilities for stashwalk,
// including a scene system, Git repository helpers, and custom assertions.
package testhelpers

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// Must is a generic helper function that panics if err is not nil,
// otherwise returns the value.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// ExpectBranches asserts that the repository has exactly the expected local branches.
func ExpectBranches(t *testing.T, repo *GitRepo, expected []string) {
	t.Helper()

	branches, err := repo.GetLocalBranches()
	require.NoError(t, err, "Failed to list branches")

	sort.Strings(branches)
	sorted := append([]string{}, expected...)
	sort.Strings(sorted)

	require.Equal(t, sorted, branches, "Branches do not match")
}

// ExpectStashes asserts the stash messages from most recent to oldest.
// git records them as "On <branch>: <message>".
func ExpectStashes(t *testing.T, repo *GitRepo, expected []string) {
	t.Helper()

	messages, err := repo.StashMessages()
	require.NoError(t, err, "Failed to list stashes")
	require.Equal(t, expected, messages, "Stashes do not match")
}

// ExpectUnchanged asserts that the repository still matches before.
func ExpectUnchanged(t *testing.T, repo *GitRepo, before RepoSnapshot) {
	t.Helper()

	after, err := repo.Snapshot()
	require.NoError(t, err, "Failed to snapshot repository")
	require.Equal(t, before, after, "Repository changed")
}
