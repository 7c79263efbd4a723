package scope

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
)

// DefaultPattern accepts any label containing an R source scope, but
// not source.rust or source.ruby.
const DefaultPattern = `source\.r\b`

// matchTimeout bounds a single match so a pathological user pattern
// cannot hang a command.
const matchTimeout = 250 * time.Millisecond

// RegexpMatcher matches scope labels with a regular expression.
// The expression is searched for anywhere in the label, as Python's
// re.search does; anchor it with ^ or $ to require more.
type RegexpMatcher struct {
	pattern string
	re      *regexp2.Regexp
}

// NewMatcher compiles pattern. Lookarounds, named groups and the other
// Python/.NET constructs RE2 lacks are accepted.
func NewMatcher(pattern string) (*RegexpMatcher, error) {
	re, err := regexp2.Compile(pattern, regexp2.RE2)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidPattern, pattern, err)
	}
	re.MatchTimeout = matchTimeout
	return &RegexpMatcher{pattern: pattern, re: re}, nil
}

// MustMatcher is like NewMatcher but panics on error.
func MustMatcher(pattern string) *RegexpMatcher {
	m, err := NewMatcher(pattern)
	if err != nil {
		panic(err)
	}
	return m
}

// Matches reports whether the pattern occurs in scope. A match that
// times out counts as no match.
func (m *RegexpMatcher) Matches(scope string) bool {
	ok, err := m.re.MatchString(scope)
	return err == nil && ok
}

// String returns the source pattern.
func (m *RegexpMatcher) String() string {
	return m.pattern
}
