package exclusion

import (
	"strings"
)

// Exclusion is one compiled exclusion rule. The zero value is Invalid.
type Exclusion struct {
	display string
	path    string
	typ     Type
	rule    rule
	err     error
}

// New classifies raw and compiles it. It never fails: empty input and
// patterns the regexp engine rejects produce an Invalid exclusion.
func New(raw string) Exclusion {
	e := Exclusion{display: raw, typ: Invalid, rule: neverRule{}}
	if raw == "" {
		return e
	}

	path := raw

	// "/dir/*" is treated as the directory stem "/dir/"
	if len(path) > 1 && strings.HasSuffix(path, "/*") {
		path = path[:len(path)-1]
	}

	// "*/name" means name anywhere, which relative exclusions already do
	if len(path) > 2 && strings.HasPrefix(path, "*/") {
		path = path[2:]
	}

	if strings.ContainsAny(path, "*?") {
		return e.withGlob(path)
	}

	if strings.HasPrefix(path, "/") {
		e.path = path
		if strings.HasSuffix(path, "/") {
			e.typ = Stem
			e.rule = stemRule{stem: path}
		} else {
			e.typ = FullPath
			e.rule = fullPathRule{path: path}
		}
		return e
	}

	e.path = "/" + path
	switch {
	case !strings.Contains(path, "/"):
		e.typ = Filename
		e.rule = filenameRule{suffix: e.path}
	case strings.HasSuffix(path, "/"):
		e.typ = RelativeStem
		e.rule = relativeStemRule{fragment: e.path}
	default:
		e.typ = RelativePath
		e.rule = relativePathRule{suffix: e.path}
	}
	return e
}

// withGlob finishes classification of a wildcard pattern.
func (e Exclusion) withGlob(path string) Exclusion {
	if strings.HasSuffix(path, "/") {
		path += "*"
	}

	typ := Glob
	if !strings.HasPrefix(path, "/") {
		typ = RelativeGlob
		path = "*/" + path
	}
	e.path = path

	re, err := compileGlob(path)
	// widened patterns only fail on regexp engine size limits
	if err != nil {
		e.err = err
		return e
	}

	e.typ = typ
	e.rule = globRule{re: re}
	return e
}

// DisplayPath returns the exclusion exactly as it was configured
func (e Exclusion) DisplayPath() string {
	return e.display
}

// Path returns the normalized path used for matching
func (e Exclusion) Path() string {
	return e.path
}

// Type returns the matching strategy
func (e Exclusion) Type() Type {
	return e.typ
}

// Err returns the glob compilation error that made the exclusion Invalid, if any.
func (e Exclusion) Err() error {
	return e.err
}

// String implements fmt.Stringer
func (e Exclusion) String() string {
	return e.typ.String() + " " + e.display
}
