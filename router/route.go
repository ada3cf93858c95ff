package router

import (
	"regexp"
	"strings"

	"github.com/shravanasati/eventware/eventware"
)

const (
	exactSigil   = '/'
	patternSigil = '~'
)

// matcher is fixed when the Route is built. group orders routes in the
// registry: exact first, then pattern, then the ones that can never match.
type matcher interface {
	match(path string) bool
	group() int
}

type exactMatcher string

func (m exactMatcher) match(path string) bool { return path == string(m) }

type patternMatcher struct {
	re *regexp.Regexp
}

func (m patternMatcher) match(path string) bool { return m.re.MatchString(path) }

// neverMatcher backs patterns with an unknown sigil or an invalid expression.
type neverMatcher struct{}

func (neverMatcher) match(string) bool { return false }

func (exactMatcher) group() int   { return 0 }
func (patternMatcher) group() int { return 1 }
func (neverMatcher) group() int   { return 2 }

// Route binds a method and a path pattern to an ordered list of handlers.
//
// A pattern starting with "/" matches that exact path. A pattern starting
// with "~" is a regular expression over the rest of the string, trimmed and
// anchored at both ends, so "~/c..t" matches "/cart" and "~art" does not.
// Any other pattern yields a route that never matches.
type Route struct {
	method   string
	pattern  string
	matcher  matcher
	handlers []eventware.Handler
}

// NewRoute builds a route. It never panics: an expression that does not
// compile makes a route that never matches.
//
// A "~" pattern is wrapped as ^body$ without a group, so "~/a|/b" reads as
// "^/a" or "/b$". Wrap alternations yourself: "~(/a|/b)". Bodies use RE2
// syntax (package regexp), so lookarounds and backreferences never match.
func NewRoute(method, pattern string) *Route {
	return &Route{method: method, pattern: pattern, matcher: newMatcher(pattern)}
}

func newMatcher(pattern string) matcher {
	if pattern == "" {
		return neverMatcher{}
	}
	switch pattern[0] {
	case exactSigil:
		return exactMatcher(pattern)
	case patternSigil:
		re, err := regexp.Compile("^" + strings.TrimSpace(pattern[1:]) + "$")
		if err != nil {
			return neverMatcher{}
		}
		return patternMatcher{re: re}
	default:
		return neverMatcher{}
	}
}

func (r *Route) Method() string  { return r.method }
func (r *Route) Pattern() string { return r.pattern }

// Handlers returns a copy of the chain in registration order.
func (r *Route) Handlers() []eventware.Handler {
	return append([]eventware.Handler(nil), r.handlers...)
}

// Handle appends h to the chain.
func (r *Route) Handle(h eventware.Handler) {
	r.handlers = append(r.handlers, h)
}

// Match reports whether method and path select this route.
func (r *Route) Match(method, path string) bool {
	return method == r.method && r.matcher.match(path)
}

// Params returns the named capture groups of a pattern route for path.
// Exact routes have none.
func (r *Route) Params(path string) map[string]string {
	pm, ok := r.matcher.(patternMatcher)
	if !ok {
		return nil
	}
	sub := pm.re.FindStringSubmatch(path)
	if sub == nil {
		return nil
	}
	var params map[string]string
	for i, name := range pm.re.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		if params == nil {
			params = make(map[string]string)
		}
		params[name] = sub[i]
	}
	return params
}
