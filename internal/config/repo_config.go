// Package config provides repository configuration management,
// including loading and validating the stashwalk configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"stashwalk.dev/stashwalk/internal/git"
	"stashwalk.dev/stashwalk/internal/utils"
)

// FileName is the name of the configuration file inside the git directory
const FileName = "stashwalk.yml"

const (
	// DefaultBranchNamespace prefixes every branch created from a stash
	DefaultBranchNamespace = "stash"
	// DefaultPlaceholderBranch names the branch a stash is committed on before its final name is known
	DefaultPlaceholderBranch = "__TEMP_STASH__"
)

// RepoConfig represents the repository configuration.
// Unset fields fall back to their defaults through the accessor methods.
type RepoConfig struct {
	BranchNamespace          *string `yaml:"branchNamespace,omitempty"`
	PlaceholderBranch        *string `yaml:"placeholderBranch,omitempty"`
	AdvanceOnFailedPromotion *bool   `yaml:"advanceOnFailedPromotion,omitempty"`
	Color                    *string `yaml:"color,omitempty"`
	LogFile                  *string `yaml:"logFile,omitempty"`
	AppliedCheck             *string `yaml:"appliedCheck,omitempty"`
}

// Path returns the configuration file path for a git directory
func Path(gitDir string) string {
	return filepath.Join(gitDir, FileName)
}

// Load reads the configuration file at path. A missing file yields an empty
// configuration; an invalid one is an error.
func Load(path string) (*RepoConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &RepoConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config RepoConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &config, nil
}

// Validate checks the configured values
func (c *RepoConfig) Validate() error {
	if err := utils.ValidateRefComponent(c.Namespace()); err != nil {
		return fmt.Errorf("branchNamespace: %w", err)
	}
	if err := utils.ValidateRefComponent(c.Placeholder()); err != nil {
		return fmt.Errorf("placeholderBranch: %w", err)
	}
	switch c.ColorMode() {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("color: invalid value %q (want auto, always or never)", c.ColorMode())
	}
	switch c.AppliedCheckMode() {
	case git.AppliedCheckAuto, git.AppliedCheckExtension, git.AppliedCheckNative, git.AppliedCheckOff:
	default:
		return fmt.Errorf("appliedCheck: invalid value %q (want auto, extension, native or off)", c.AppliedCheckMode())
	}
	return nil
}

// Namespace returns the branch namespace, "stash" by default
func (c *RepoConfig) Namespace() string {
	if c.BranchNamespace != nil && *c.BranchNamespace != "" {
		return *c.BranchNamespace
	}
	return DefaultBranchNamespace
}

// Placeholder returns the placeholder branch name within the namespace
func (c *RepoConfig) Placeholder() string {
	if c.PlaceholderBranch != nil && *c.PlaceholderBranch != "" {
		return *c.PlaceholderBranch
	}
	return DefaultPlaceholderBranch
}

// AdvanceAfterRollback reports whether the cursor moves past a stash whose
// promotion was rolled back. Defaults to true.
func (c *RepoConfig) AdvanceAfterRollback() bool {
	if c.AdvanceOnFailedPromotion != nil {
		return *c.AdvanceOnFailedPromotion
	}
	return true
}

// ColorMode returns the configured color mode, "auto" by default
func (c *RepoConfig) ColorMode() string {
	if c.Color != nil && *c.Color != "" {
		return *c.Color
	}
	return "auto"
}

// LogFilePath returns the configured log file, or "" for no file logging
func (c *RepoConfig) LogFilePath() string {
	if c.LogFile != nil {
		return *c.LogFile
	}
	return ""
}

// AppliedCheckMode returns how to decide whether a stash is already applied
func (c *RepoConfig) AppliedCheckMode() git.AppliedCheck {
	if c.AppliedCheck != nil && *c.AppliedCheck != "" {
		return git.AppliedCheck(*c.AppliedCheck)
	}
	return git.AppliedCheckAuto
}
