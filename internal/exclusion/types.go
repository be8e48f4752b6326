// Package exclusion classifies scan-exclusion strings and matches candidate
// filesystem paths against them.
//
// An exclusion string is classified once, when a policy is loaded, into one
// of a fixed set of strategies (directory stem, full path, filename,
// relative path/stem, absolute or relative glob). Matching is a pure,
// byte-exact function of the compiled exclusion and the candidate path.
package exclusion

// Type identifies the matching strategy chosen for an exclusion string.
type Type int

const (
	// Invalid never matches. Empty input and globs that fail to compile end up here.
	Invalid Type = iota
	// Stem is an absolute directory prefix ("/var/log/").
	Stem
	// FullPath is an absolute file path ("/etc/passwd"). Files only.
	FullPath
	// Glob is an absolute path containing '*' or '?'.
	Glob
	// Filename is a bare name without separators ("core.dump"). Files only.
	Filename
	// RelativePath is a relative path with a separator and no wildcard.
	RelativePath
	// RelativeStem is a relative directory ("cache/") matched anywhere in the path.
	RelativeStem
	// RelativeGlob is a relative wildcard pattern, re-anchored with "*/".
	RelativeGlob
)

var typeNames = map[Type]string{
	Invalid:      "INVALID",
	Stem:         "STEM",
	FullPath:     "FULLPATH",
	Glob:         "GLOB",
	Filename:     "FILENAME",
	RelativePath: "RELATIVE_PATH",
	RelativeStem: "RELATIVE_STEM",
	RelativeGlob: "RELATIVE_GLOB",
}

// String returns the upper-case name of the type
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsGlob reports whether exclusions of this type carry a compiled pattern
func (t Type) IsGlob() bool {
	return t == Glob || t == RelativeGlob
}
