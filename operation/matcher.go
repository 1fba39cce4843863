package operation

import (
	"regexp"
	"strings"

	"github.com/gobwas/glob"

	"github.com/kbukum/iocapture/errors"
)

// RegexPrefix selects regular-expression syntax for a match pattern.
const RegexPrefix = "re:"

// Matcher decides whether an operation is the capture target. It is
// stateless once built and safe to share.
type Matcher struct {
	pattern string
	match   func(string) bool
}

// NewMatcher compiles pattern. Patterns are globs by default, where "*" does
// not cross a "." and "**" does:
//
//	add                    bare name
//	Calculator.add         qualified name
//	*.add                  add on any class
//	add(int,int)->int      full signature
//
// A pattern starting with "re:" is a regular expression that must match a
// whole candidate.
func NewMatcher(pattern string) (*Matcher, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" || pattern == RegexPrefix {
		return nil, errors.InvalidConfig("capture.pattern", "match pattern is required")
	}

	if expr, ok := strings.CutPrefix(pattern, RegexPrefix); ok {
		re, err := regexp.Compile("^(?:" + expr + ")$")
		if err != nil {
			return nil, errors.InvalidConfig("capture.pattern", "invalid regular expression "+expr).WithCause(err)
		}
		return &Matcher{pattern: pattern, match: re.MatchString}, nil
	}

	g, err := glob.Compile(pattern, '.')
	if err != nil {
		return nil, errors.InvalidConfig("capture.pattern", "invalid glob pattern "+pattern).WithCause(err)
	}
	return &Matcher{pattern: pattern, match: g.Match}, nil
}

// Pattern returns the pattern the matcher was built from.
func (m *Matcher) Pattern() string { return m.pattern }

// Matches reports whether op is the target: the pattern may match its bare
// name, its qualified name or its full signature. A nil operation never matches.
func (m *Matcher) Matches(op *Operation) bool {
	if m == nil || op == nil || op.Name == "" {
		return false
	}
	return m.match(op.Name) || m.match(op.QualifiedName()) || m.match(op.Signature())
}
