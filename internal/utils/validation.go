package utils

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// IsInteractive checks if we're in an interactive terminal
func IsInteractive(f *os.File) bool {
	// Allow forcing non-interactive mode via environment variable
	if os.Getenv("STASHWALK_NON_INTERACTIVE") != "" {
		return false
	}
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ValidateRefComponent checks that name can be used as one or more path
// components of a branch name, following the rules of git check-ref-format.
func ValidateRefComponent(name string) error {
	if name == "" {
		return fmt.Errorf("branch name component must not be empty")
	}
	if strings.HasPrefix(name, "-") {
		return fmt.Errorf("%q must not start with '-'", name)
	}
	if strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") {
		return fmt.Errorf("%q must not start or end with '/'", name)
	}
	if strings.HasSuffix(name, ".") || strings.HasSuffix(name, ".lock") {
		return fmt.Errorf("%q must not end with '.' or '.lock'", name)
	}
	for _, bad := range []string{"..", "//", "@{", "\\"} {
		if strings.Contains(name, bad) {
			return fmt.Errorf("%q must not contain %q", name, bad)
		}
	}
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") {
			return fmt.Errorf("%q has a component starting with '.'", name)
		}
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(" ~^:?*[", r) {
			return fmt.Errorf("%q contains invalid character %q", name, r)
		}
	}
	return nil
}
