package utils

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	stasherrors "stashwalk.dev/stashwalk/internal/errors"
)

const (
	// MaxBranchNameByteLength is the maximum length for a generated branch slug.
	// It keeps "refs/heads/<namespace>/<slug>" within git's 256 byte ref limit
	// for short namespaces such as the default.
	MaxBranchNameByteLength = 234

	// CommentPrefix marks commit message lines git strips before committing
	CommentPrefix = "#"
)

// CommitSubject returns the first line of a commit message that is non-empty
// and not a comment. It returns errors.ErrMalformedCommitMessage if there is none.
func CommitSubject(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, CommentPrefix) {
			continue
		}
		return line, nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read commit message: %w", err)
	}
	return "", stasherrors.ErrMalformedCommitMessage
}

// SlugFromSubject turns a commit subject into a branch name component: words are
// joined with underscores, everything except alphabetic characters, numbers and
// underscores is dropped, and the result is lower-cased. Combining vowel signs
// count as alphabetic, so scripts such as Devanagari keep their spelling.
func SlugFromSubject(subject string) string {
	joined := strings.Join(strings.Fields(subject), "_")

	var b strings.Builder
	for _, r := range joined {
		if isSlugRune(r) {
			b.WriteRune(r)
		}
	}
	slug := strings.ToLower(b.String())

	if len(slug) > MaxBranchNameByteLength {
		slug = slug[:MaxBranchNameByteLength]
		for !utf8.ValidString(slug) {
			slug = slug[:len(slug)-1]
		}
	}
	return slug
}

func isSlugRune(r rune) bool {
	return r == '_' ||
		unicode.IsLetter(r) ||
		unicode.IsNumber(r) ||
		unicode.Is(unicode.Other_Alphabetic, r)
}

// BranchNameFromSubject returns "<namespace>/<slug>" for a commit subject.
// An empty slug is reported as errors.ErrMalformedCommitMessage.
func BranchNameFromSubject(namespace, subject string) (string, error) {
	slug := SlugFromSubject(subject)
	if slug == "" {
		return "", fmt.Errorf("%w: subject %q has no usable characters", stasherrors.ErrMalformedCommitMessage, subject)
	}
	if namespace == "" {
		return slug, nil
	}
	return namespace + "/" + slug, nil
}
