package exclusion

import (
	"github.com/bethropolis/exscan/internal/utils"
)

// Set is an ordered, immutable list of exclusions. A path is excluded when
// any member applies. A nil *Set excludes nothing.
type Set struct {
	exclusions []Exclusion
	logger     utils.Logger
}

// Option configures a Set
type Option func(*Set)

// WithLogger sets the logger used while building the set. Messages are
// prefixed with "exclusion: ".
func WithLogger(logger utils.Logger) Option {
	return func(s *Set) {
		if logger != nil {
			s.logger = utils.WithPrefix(logger, "exclusion")
		}
	}
}

// NewSet compiles every raw exclusion in order. Invalid entries are kept
// and logged; they never match.
func NewSet(raws []string, opts ...Option) *Set {
	s := &Set{
		exclusions: make([]Exclusion, 0, len(raws)),
		logger:     utils.NoopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, raw := range raws {
		e := New(raw)
		switch {
		case e.Err() != nil:
			s.logger.Warn("%q is unusable and will never match: %v", raw, e.Err())
		case e.Type() == Invalid:
			s.logger.Warn("empty exclusion entry will never match")
		default:
			s.logger.Debug("%q classified as %s (%q)", raw, e.Type(), e.Path())
		}
		s.exclusions = append(s.exclusions, e)
	}

	return s
}

// Match returns the first exclusion that applies to path
func (s *Set) Match(path string, isDirectory, isFile bool) (Exclusion, bool) {
	if s == nil {
		return Exclusion{}, false
	}
	for _, e := range s.exclusions {
		if e.AppliesToEntry(path, isDirectory, isFile) {
			return e, true
		}
	}
	return Exclusion{}, false
}

// Excluded reports whether any exclusion applies to path
func (s *Set) Excluded(path string, isDirectory, isFile bool) bool {
	_, ok := s.Match(path, isDirectory, isFile)
	return ok
}

// Len returns the number of exclusions, invalid ones included
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.exclusions)
}

// Exclusions returns a copy of the exclusions in configuration order
func (s *Set) Exclusions() []Exclusion {
	if s == nil {
		return nil
	}
	out := make([]Exclusion, len(s.exclusions))
	copy(out, s.exclusions)
	return out
}
