// Package ignore decides whether a walked entry is skipped: .git
// directories, hidden entries, policy exclusions and gitignore-syntax
// ignore files.
package ignore

import (
	"github.com/bethropolis/exscan/internal/exclusion"
	"github.com/bethropolis/exscan/internal/utils"
	gitignore "github.com/denormal/go-gitignore"
)

// DefaultIgnoreFile is the per-directory ignore file looked up when ignore
// files are enabled without a name.
const DefaultIgnoreFile = ".scanignore"

// Reason says which rule skipped an entry.
type Reason string

const (
	ReasonGit        Reason = "Ignored (.git Directory)"
	ReasonHidden     Reason = "Ignored (Hidden Rule)"
	ReasonExclusion  Reason = "Excluded (Policy Exclusion)"
	ReasonIgnoreFile Reason = "Ignored (Ignore File Rule)"
)

// Decision is the outcome of Matcher.Decide.
type Decision struct {
	Skip   bool
	Reason Reason
	// Exclusion is set when Reason is ReasonExclusion.
	Exclusion exclusion.Exclusion
}

// IgnoreMatcher determines whether a file or directory should be skipped
type IgnoreMatcher struct {
	// rules from ignore files below rootDir, nil when disabled
	repoIgnore gitignore.GitIgnore

	exclusions *exclusion.Set

	rootDir      string
	ignoreHidden bool
	ignoreGit    bool
	ignoreFile   string
	logger       utils.Logger
	disabled     bool
}

// Config holds configuration options for the ignore matcher
type Config struct {
	RootDir      string
	IgnoreHidden bool
	IgnoreGit    bool
	// IgnoreFile is the ignore file name; empty disables ignore files.
	IgnoreFile string
	Exclusions *exclusion.Set
	Logger     utils.Logger
	Disabled   bool
}
