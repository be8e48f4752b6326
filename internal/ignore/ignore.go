package ignore

import (
	"fmt"
	"path/filepath"

	"github.com/bethropolis/exscan/internal/utils"
	gitignore "github.com/denormal/go-gitignore"
)

// New creates and initializes an IgnoreMatcher
func New(rootDir string, opts ...Option) (*IgnoreMatcher, error) {
	absRootDir, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("ignore: failed to get absolute path for rootDir '%s': %w", rootDir, err)
	}

	matcher := &IgnoreMatcher{
		rootDir:      absRootDir,
		ignoreHidden: false,
		ignoreGit:    true,
		logger:       utils.NoopLogger{},
	}

	for _, opt := range opts {
		opt(matcher)
	}

	if err := matcher.init(); err != nil {
		return nil, err
	}

	return matcher, nil
}

// init loads ignore files below the root when they are enabled
func (m *IgnoreMatcher) init() error {
	m.logger.Debug("ignore.New: root=%s hidden=%v git=%v ignoreFile=%q exclusions=%d",
		m.rootDir, m.ignoreHidden, m.ignoreGit, m.ignoreFile, m.exclusions.Len())

	if m.disabled {
		m.logger.Debug("ignore.New: Matcher is disabled, skipping ignore file initialization")
		return nil
	}

	if m.ignoreFile == "" {
		return nil
	}

	repo, err := gitignore.NewRepositoryWithFile(m.rootDir, m.ignoreFile)
	if err != nil {
		m.logger.Warn("ignore.New: Error loading %s files under '%s': %v", m.ignoreFile, m.rootDir, err)
	}
	if repo == nil {
		m.logger.Warn("ignore.New: No %s rules loaded for '%s'. Continuing without them.", m.ignoreFile, m.rootDir)
		return nil
	}
	m.repoIgnore = repo
	m.logger.Debug("ignore.New: Using %s files under %s", m.ignoreFile, m.rootDir)

	return nil
}

// RootDir returns the absolute root the matcher was built for
func (m *IgnoreMatcher) RootDir() string {
	return m.rootDir
}
