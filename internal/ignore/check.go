package ignore

import (
	"path/filepath"
	"strings"
)

// Decide reports whether the entry at absPath (relativePath below the root)
// is skipped. isDir and isFile describe the entry; both are false for
// special files and symlinks.
func (m *IgnoreMatcher) Decide(absPath, relativePath string, isDir, isFile bool) Decision {
	if m == nil || m.disabled {
		return Decision{}
	}

	// Never skip the root itself
	if relativePath == "" || relativePath == "." {
		return Decision{}
	}

	if m.ignoreGit && isPathInGitDir(relativePath, isDir) {
		m.logger.Debug("ignore.Decide: Skipped %q (.git rule)", relativePath)
		return Decision{Skip: true, Reason: ReasonGit}
	}

	if m.ignoreHidden && isHidden(relativePath) {
		m.logger.Debug("ignore.Decide: Skipped %q (hidden rule)", relativePath)
		return Decision{Skip: true, Reason: ReasonHidden}
	}

	if e, ok := m.exclusions.Match(absPath, isDir, isFile); ok {
		m.logger.Debug("ignore.Decide: Skipped %q (exclusion %s)", absPath, e)
		return Decision{Skip: true, Reason: ReasonExclusion, Exclusion: e}
	}

	if m.repoIgnore != nil && m.matchIgnoreFile(absPath, isDir) {
		m.logger.Debug("ignore.Decide: Skipped %q (%s rule)", relativePath, m.ignoreFile)
		return Decision{Skip: true, Reason: ReasonIgnoreFile}
	}

	return Decision{}
}

// ShouldIgnore is Decide without the reason
func (m *IgnoreMatcher) ShouldIgnore(absPath, relativePath string, isDir, isFile bool) bool {
	return m.Decide(absPath, relativePath, isDir, isFile).Skip
}

// matchIgnoreFile asks the ignore-file rules; a negated rule ("!name")
// re-includes the path.
func (m *IgnoreMatcher) matchIgnoreFile(absPath string, isDir bool) (ignored bool) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("PANIC recovered in gitignore library for path %q: %v", absPath, r)
			ignored = false
		}
	}()

	match := m.repoIgnore.Absolute(absPath, isDir)
	if match == nil {
		return false
	}
	return match.Ignore()
}

// isHidden reports whether the entry or any parent below the root starts with a dot
func isHidden(relativePath string) bool {
	for _, part := range strings.Split(filepath.ToSlash(relativePath), "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}

// isPathInGitDir checks if a path is inside a .git directory
func isPathInGitDir(relativePath string, isDir bool) bool {
	parts := strings.Split(filepath.ToSlash(relativePath), "/")
	for i, part := range parts {
		if part == ".git" {
			// If .git is a directory component (not just a prefix of a filename)
			if isDir || i < len(parts)-1 {
				return true
			}
		}
	}
	return false
}
