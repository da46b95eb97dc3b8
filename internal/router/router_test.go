package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func text(body string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, body)
	}
}

func serve(r *Router) *gin.Engine {
	engine := gin.New()
	r.Mount(engine)
	return engine
}

func do(engine http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestFirstMatchWins(t *testing.T) {
	r := NewRouter()
	r.Get("/", text("root"))
	r.Get("/api/", text("api"))
	r.Post("/api/", text("api-post"))
	r.Get("*", text("catch-all"))
	engine := serve(r)

	testCases := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodGet, "/", "root"},
		{http.MethodGet, "/api/", "api"},
		{http.MethodPost, "/api/", "api-post"},
		{http.MethodGet, "/api", "catch-all"},
		{http.MethodGet, "/api/nonexistent", "catch-all"},
		{http.MethodGet, "/unknown-path", "catch-all"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := do(engine, tc.method, tc.path)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tc.want, rec.Body.String())
		})
	}
}

func TestWildcardShadowsLaterRoutes(t *testing.T) {
	r := NewRouter()
	r.Get("*", text("wildcard"))
	r.Get("/api/", text("api"))
	engine := serve(r)

	rec := do(engine, http.MethodGet, "/api/")
	assert.Equal(t, "wildcard", rec.Body.String())

	route := r.Match(http.MethodGet, "/api/")
	require.NotNil(t, route)
	assert.Equal(t, "*", route.Pattern)
}

func TestPrefixWildcard(t *testing.T) {
	r := NewRouter()
	r.Get("/assets/*", text("assets"))
	engine := serve(r)

	assert.Equal(t, "assets", do(engine, http.MethodGet, "/assets/").Body.String())
	assert.Equal(t, "assets", do(engine, http.MethodGet, "/assets/css/site.css").Body.String())
	assert.Equal(t, http.StatusNotFound, do(engine, http.MethodGet, "/assets").Code)
	assert.Equal(t, http.StatusNotFound, do(engine, http.MethodGet, "/assetsx").Code)
}

func TestMethodMustMatchExactly(t *testing.T) {
	r := NewRouter()
	r.Get("/", text("get"))
	engine := serve(r)

	assert.Equal(t, http.StatusNotFound, do(engine, http.MethodPost, "/").Code)
	assert.Equal(t, http.StatusNotFound, do(engine, http.MethodHead, "/").Code)
	assert.Nil(t, r.Match(http.MethodDelete, "/"))
}

func TestNotFound(t *testing.T) {
	r := NewRouter()
	r.Get("/", text("root"))
	engine := serve(r)

	rec := do(engine, http.MethodGet, "/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "404 page not found", rec.Body.String())
}

func TestCustomNotFoundHandler(t *testing.T) {
	r := NewRouter()
	r.NotFoundHandler = func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "nope"})
	}
	engine := serve(r)

	rec := do(engine, http.MethodGet, "/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"nope"}`, rec.Body.String())
}

func TestStatusDefaultsTo200(t *testing.T) {
	r := NewRouter()
	r.Get("/silent", func(c *gin.Context) {})
	engine := serve(r)

	rec := do(engine, http.MethodGet, "/silent")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestMatchedPatternIsRecorded(t *testing.T) {
	var seen string
	r := NewRouter()
	r.Get("/docs/*", func(c *gin.Context) {
		seen = MatchedPattern(c)
	})
	engine := serve(r)

	do(engine, http.MethodGet, "/docs/intro")
	assert.Equal(t, "/docs/*", seen)
}

func TestMiddlewareRunsBeforeDispatch(t *testing.T) {
	r := NewRouter()
	r.Get("/", text("root"))
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		if c.GetHeader("X-Block") != "" {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	})
	r.Mount(engine)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Block", "1")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	assert.Equal(t, "root", do(engine, http.MethodGet, "/").Body.String())
}

func TestRoutesKeepRegistrationOrder(t *testing.T) {
	r := NewRouter()
	r.Get("/api/", text("a"))
	r.Post("/api/", text("b"))
	r.Static("/", fstest.MapFS{"index.html": {Data: []byte("x")}})
	r.Get("*", text("c"))

	routes := r.Routes()
	require.Len(t, routes, 4)
	assert.Equal(t, "GET /api/", routes[0].Method+" "+routes[0].Pattern)
	assert.Equal(t, "POST /api/", routes[1].Method+" "+routes[1].Pattern)
	assert.True(t, routes[2].Static)
	assert.Equal(t, "/", routes[2].Pattern)
	assert.Equal(t, "*", routes[3].Pattern)
	assert.True(t, strings.HasSuffix(routes[2].String(), "(static)"))
}

func TestInvalidRegistrationsPanic(t *testing.T) {
	testCases := []struct {
		name string
		fn   func(r *Router)
	}{
		{"relative pattern", func(r *Router) { r.Get("api", text("x")) }},
		{"inner wildcard", func(r *Router) { r.Get("/a/*/b", text("x")) }},
		{"partial segment wildcard", func(r *Router) { r.Get("/api*", text("x")) }},
		{"empty method", func(r *Router) { r.Handle("", "/", text("x")) }},
		{"nil handler", func(r *Router) { r.Get("/", nil) }},
		{"nil static fs", func(r *Router) { r.Static("/", nil) }},
		{"relative static prefix", func(r *Router) { r.Static("assets", fstest.MapFS{}) }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Panics(t, func() { tc.fn(NewRouter()) })
		})
	}
}

func TestRegisterAfterMountPanics(t *testing.T) {
	r := NewRouter()
	r.Get("/", text("root"))
	serve(r)

	assert.Panics(t, func() { r.Get("/late", text("late")) })
	assert.Len(t, r.Routes(), 1)
}

func TestConcurrentDispatch(t *testing.T) {
	r := NewRouter()
	r.Get("/", text("root"))
	r.Get("*", text("catch-all"))
	engine := serve(r)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			target := "/"
			want := "root"
			if i%2 == 1 {
				target = "/other"
				want = "catch-all"
			}
			rec := do(engine, http.MethodGet, target)
			assert.Equal(t, want, rec.Body.String())
		}(i)
	}
	wg.Wait()
}
