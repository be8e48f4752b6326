package exclusion

import (
	"regexp"
	"strings"
)

// AppliesToPath is AppliesToEntry for callers that only know whether the
// path is a directory; anything that is not a directory is taken as a file.
func (e Exclusion) AppliesToPath(path string, isDirectory bool) bool {
	return e.AppliesToEntry(path, isDirectory, !isDirectory)
}

// AppliesToEntry reports whether the exclusion covers path. Entries that are
// neither directories nor regular files (sockets, devices, symlinks) pass
// false for both flags.
func (e Exclusion) AppliesToEntry(path string, isDirectory, isFile bool) bool {
	if e.rule == nil {
		return false
	}
	return e.rule.applies(path, isDirectory, isFile)
}

// rule is implemented by one struct per Type.
type rule interface {
	applies(path string, isDirectory, isFile bool) bool
}

type neverRule struct{}

func (neverRule) applies(string, bool, bool) bool { return false }

// stemRule is a plain byte prefix test. Stems always end in '/', so
// "/foo/" does not cover "/foobar".
type stemRule struct {
	stem string
}

func (r stemRule) applies(path string, isDirectory, _ bool) bool {
	if strings.HasPrefix(path, r.stem) {
		return true
	}
	// the stem directory itself, reported without its trailing slash
	return isDirectory && len(path)+1 == len(r.stem) && strings.HasPrefix(r.stem, path)
}

type fullPathRule struct {
	path string
}

func (r fullPathRule) applies(path string, _, isFile bool) bool {
	return isFile && path == r.path
}

type filenameRule struct {
	suffix string
}

func (r filenameRule) applies(path string, _, isFile bool) bool {
	return isFile && strings.HasSuffix(path, r.suffix)
}

type relativePathRule struct {
	suffix string
}

func (r relativePathRule) applies(path string, _, _ bool) bool {
	return strings.HasSuffix(path, r.suffix)
}

type relativeStemRule struct {
	fragment string
}

func (r relativeStemRule) applies(path string, _, _ bool) bool {
	return strings.Contains(path, r.fragment)
}

type globRule struct {
	re *regexp.Regexp
}

func (r globRule) applies(path string, _, _ bool) bool {
	return r.re.MatchString(widen(path))
}
