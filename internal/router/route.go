package router

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// Route is one entry of the table: a method, a pattern and its handler.
type Route struct {
	Method  string
	Pattern string
	// Static is true for file-system pseudo-routes
	Static bool

	handler gin.HandlerFunc
	match   func(method, path string) bool
}

// String formats the route the way the routes command prints it.
func (rt Route) String() string {
	if rt.Static {
		return fmt.Sprintf("%-7s %s (static)", rt.Method, rt.Pattern)
	}
	return fmt.Sprintf("%-7s %s", rt.Method, rt.Pattern)
}

func (rt *Route) matches(method, path string) bool {
	return rt.match(method, path)
}

func newRoute(method, pattern string, handler gin.HandlerFunc) (*Route, error) {
	if method == "" {
		return nil, errors.New("empty method")
	}
	pathMatch, err := compilePattern(pattern)
	if err != nil {
		return nil, err
	}
	method = strings.ToUpper(method)
	return &Route{
		Method:  method,
		Pattern: pattern,
		handler: handler,
		match: func(m, path string) bool {
			return m == method && pathMatch(path)
		},
	}, nil
}

// compilePattern supports exact literals ("/", "/api/") and a single
// trailing wildcard ("*", "/assets/*").
func compilePattern(pattern string) (func(path string) bool, error) {
	if pattern == "*" {
		return func(string) bool { return true }, nil
	}
	if !strings.HasPrefix(pattern, "/") {
		return nil, fmt.Errorf("pattern %q must begin with '/' or be '*'", pattern)
	}

	star := strings.IndexByte(pattern, '*')
	switch {
	case star == -1:
		return func(path string) bool { return path == pattern }, nil
	case star == len(pattern)-1 && strings.HasSuffix(pattern, "/*"):
		prefix := pattern[:star]
		return func(path string) bool { return strings.HasPrefix(path, prefix) }, nil
	default:
		return nil, fmt.Errorf("pattern %q: wildcard only allowed as final segment", pattern)
	}
}
