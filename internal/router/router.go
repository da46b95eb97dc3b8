// Package router dispatches requests against an ordered route table.
//
// Routes are tried strictly in registration order and the first one whose
// method and pattern match wins. There is no specificity ranking: a
// wildcard registered early shadows everything registered after it.
//
//	r := router.NewRouter()
//	r.Get("/api/", hello)
//	r.Static("/", assets)
//	r.Get("*", sendIndex)
//	r.Mount(engine)
package router

import (
	"fmt"
	"io/fs"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// PatternKey is the gin context key holding the pattern of the matched route.
const PatternKey = "router.pattern"

// Router holds the ordered route table.
//
// Set NotFoundHandler to override the generic 404 response.
type Router struct {
	routes  []*Route
	mounted bool

	// Specify a custom NotFoundHandler
	NotFoundHandler gin.HandlerFunc
	// Log every dispatch decision
	Debug bool
}

// NewRouter creates an empty router.
//
// Don't forget to call Mount to actually use it.
func NewRouter() *Router {
	return &Router{routes: make([]*Route, 0, 8)}
}

// Get registers a GET route.
func (r *Router) Get(pattern string, handler gin.HandlerFunc) {
	r.Handle(http.MethodGet, pattern, handler)
}

// Post registers a POST route.
func (r *Router) Post(pattern string, handler gin.HandlerFunc) {
	r.Handle(http.MethodPost, pattern, handler)
}

// Put registers a PUT route.
func (r *Router) Put(pattern string, handler gin.HandlerFunc) {
	r.Handle(http.MethodPut, pattern, handler)
}

// Delete registers a DELETE route.
func (r *Router) Delete(pattern string, handler gin.HandlerFunc) {
	r.Handle(http.MethodDelete, pattern, handler)
}

// Handle appends a route for method and pattern. It panics on an invalid
// pattern, a nil handler, or when the router is already mounted.
func (r *Router) Handle(method, pattern string, handler gin.HandlerFunc) {
	if handler == nil {
		panic(fmt.Sprintf("router: nil handler for %s %s", method, pattern))
	}
	route, err := newRoute(method, pattern, handler)
	if err != nil {
		panic("router: " + err.Error())
	}
	r.register(route)
}

// Static mounts fsys at prefix as a pseudo-route. It takes its place in the
// table like any other route: it only matches GET and HEAD requests for
// files that exist, so a miss falls through to the routes after it.
func (r *Router) Static(prefix string, fsys fs.FS) {
	route, err := newStaticRoute(prefix, fsys)
	if err != nil {
		panic("router: " + err.Error())
	}
	r.register(route)
}

func (r *Router) register(route *Route) {
	if r.mounted {
		panic(fmt.Sprintf("router: cannot register %s %s after Mount", route.Method, route.Pattern))
	}
	r.routes = append(r.routes, route)
}

// Routes returns a copy of the route table in registration order.
func (r *Router) Routes() []Route {
	out := make([]Route, len(r.routes))
	for i, route := range r.routes {
		out[i] = *route
	}
	return out
}

// Match returns the first registered route matching method and path, or nil.
func (r *Router) Match(method, path string) *Route {
	for _, route := range r.routes {
		if route.matches(method, path) {
			return route
		}
	}
	return nil
}

// Mount hands every request of engine to the router and freezes the table.
//
// The engine keeps no routes of its own, so its global middleware runs in
// front of Dispatch for every request.
func (r *Router) Mount(engine *gin.Engine) {
	r.mounted = true
	engine.NoRoute(r.Dispatch)
	log.Printf("[ROUTER]: Mounted %d routes", len(r.routes))
}

// Dispatch runs the handler of the first matching route, or the not found
// handler when nothing matches.
func (r *Router) Dispatch(c *gin.Context) {
	method, path := c.Request.Method, c.Request.URL.Path

	route := r.Match(method, path)
	if route == nil {
		if r.Debug {
			log.Printf("[ROUTER]: No route for %s %s", method, path)
		}
		r.notFound(c)
		return
	}

	if r.Debug {
		log.Printf("[ROUTER]: %s %s -> %s %s", method, path, route.Method, route.Pattern)
	}
	c.Set(PatternKey, route.Pattern)
	// gin presets 404 on the no-route path
	c.Status(http.StatusOK)
	route.handler(c)
}

// MatchedPattern returns the pattern of the route that handled c, if any.
func MatchedPattern(c *gin.Context) string {
	return c.GetString(PatternKey)
}

func (r *Router) notFound(c *gin.Context) {
	if r.NotFoundHandler != nil {
		r.NotFoundHandler(c)
		return
	}
	c.String(http.StatusNotFound, "404 page not found")
}
