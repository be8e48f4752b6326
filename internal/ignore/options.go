package ignore

import (
	"github.com/bethropolis/exscan/internal/exclusion"
	"github.com/bethropolis/exscan/internal/utils"
)

// Option functions for configuration
type Option func(*IgnoreMatcher)

func WithHiddenIgnore(ignore bool) Option {
	return func(m *IgnoreMatcher) {
		m.ignoreHidden = ignore
	}
}

func WithGitIgnore(ignore bool) Option {
	return func(m *IgnoreMatcher) {
		m.ignoreGit = ignore
	}
}

// WithIgnoreFile enables per-directory ignore files with the given name
func WithIgnoreFile(name string) Option {
	return func(m *IgnoreMatcher) {
		m.ignoreFile = name
	}
}

// WithExclusions sets the policy exclusions checked against absolute paths
func WithExclusions(set *exclusion.Set) Option {
	return func(m *IgnoreMatcher) {
		m.exclusions = set
	}
}

func WithLogger(logger utils.Logger) Option {
	return func(m *IgnoreMatcher) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func WithDisabled(disabled bool) Option {
	return func(m *IgnoreMatcher) {
		m.disabled = disabled
	}
}
