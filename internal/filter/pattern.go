package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Pattern matches a string as a case-insensitive substring, a regular
// expression, or a fuzzy subsequence.
type Pattern struct {
	raw   string
	lower string
	re    *regexp.Regexp
	fuzzy bool
}

// Literal matches s as a case-insensitive substring.
func Literal(s string) *Pattern {
	return &Pattern{raw: s, lower: strings.ToLower(s)}
}

// Regexp matches with a compiled regular expression.
func Regexp(re *regexp.Regexp) *Pattern {
	return &Pattern{raw: re.String(), re: re}
}

// Fuzzy matches when the characters of s appear in order, as in an
// interactive picker.
func Fuzzy(s string) *Pattern {
	return &Pattern{raw: s, fuzzy: true}
}

// ParsePattern interprets user input:
//
//	re:<expr>   regular expression
//	/<expr>/    regular expression
//	~<text>     fuzzy match
//	<text>      case-insensitive substring
func ParsePattern(s string) (*Pattern, error) {
	switch {
	case strings.HasPrefix(s, "re:"):
		return compile(strings.TrimPrefix(s, "re:"))
	case len(s) >= 2 && strings.HasPrefix(s, "/") && strings.HasSuffix(s, "/"):
		return compile(s[1 : len(s)-1])
	case strings.HasPrefix(s, "~") && len(s) > 1:
		return Fuzzy(s[1:]), nil
	default:
		return Literal(s), nil
	}
}

func compile(expr string) (*Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", expr, err)
	}
	return Regexp(re), nil
}

// Match reports whether s satisfies the pattern.
func (p *Pattern) Match(s string) bool {
	switch {
	case p.re != nil:
		return p.re.MatchString(s)
	case p.fuzzy:
		return len(fuzzy.Find(p.raw, []string{s})) > 0
	default:
		return strings.Contains(strings.ToLower(s), p.lower)
	}
}

// String returns the pattern as it was given.
func (p *Pattern) String() string {
	return p.raw
}
