package router

import (
	"net/http"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
)

func testAssets() fstest.MapFS {
	return fstest.MapFS{
		"index.html":          {Data: []byte("<html>index</html>")},
		"app.js":              {Data: []byte("console.log('app')")},
		"home/home.html":      {Data: []byte("<p>home</p>")},
		"about/index.html":    {Data: []byte("<p>about</p>")},
		"empty/readme.txt":    {Data: []byte("no index here")},
		".env":                {Data: []byte("SECRET=1")},
		"home/.hidden/x.html": {Data: []byte("hidden")},
	}
}

func TestStaticBeforeCatchAll(t *testing.T) {
	r := NewRouter()
	r.Static("/", testAssets())
	r.Get("*", text("fallback"))
	engine := serve(r)

	testCases := []struct {
		name   string
		method string
		path   string
		code   int
		body   string
	}{
		{"root serves index", http.MethodGet, "/", http.StatusOK, "<html>index</html>"},
		{"file", http.MethodGet, "/app.js", http.StatusOK, "console.log('app')"},
		{"nested file", http.MethodGet, "/home/home.html", http.StatusOK, "<p>home</p>"},
		{"directory with index", http.MethodGet, "/about/", http.StatusOK, "<p>about</p>"},
		{"index.html by name", http.MethodGet, "/index.html", http.StatusOK, "<html>index</html>"},
		{"nested index.html by name", http.MethodGet, "/about/index.html", http.StatusOK, "<p>about</p>"},
		{"directory without index falls through", http.MethodGet, "/empty/", http.StatusOK, "fallback"},
		{"missing file falls through", http.MethodGet, "/nope.css", http.StatusOK, "fallback"},
		{"client route falls through", http.MethodGet, "/about-us", http.StatusOK, "fallback"},
		{"dotfile falls through", http.MethodGet, "/.env", http.StatusOK, "fallback"},
		{"dot directory falls through", http.MethodGet, "/home/.hidden/x.html", http.StatusOK, "fallback"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(engine, tc.method, tc.path)
			assert.Equal(t, tc.code, rec.Code)
			assert.Equal(t, tc.body, rec.Body.String())
		})
	}
}

func TestStaticOnlyServesGetAndHead(t *testing.T) {
	r := NewRouter()
	r.Static("/", testAssets())
	engine := serve(r)

	head := do(engine, http.MethodHead, "/app.js")
	assert.Equal(t, http.StatusOK, head.Code)
	assert.Empty(t, head.Body.String())

	assert.Equal(t, http.StatusNotFound, do(engine, http.MethodPost, "/app.js").Code)
}

func TestStaticPrefix(t *testing.T) {
	r := NewRouter()
	r.Static("/static", testAssets())
	engine := serve(r)

	rec := do(engine, http.MethodGet, "/static/app.js")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "console.log('app')", rec.Body.String())
	assert.Equal(t, staticCacheControl, rec.Header().Get("Cache-Control"))

	assert.Equal(t, http.StatusNotFound, do(engine, http.MethodGet, "/app.js").Code)
	assert.Equal(t, http.StatusNotFound, do(engine, http.MethodGet, "/staticx/app.js").Code)

	rec = do(engine, http.MethodGet, "/static/index.html")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"))
	assert.Equal(t, "<html>index</html>", rec.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestStaticName(t *testing.T) {
	testCases := []struct {
		prefix string
		path   string
		name   string
		ok     bool
	}{
		{"/", "/", ".", true},
		{"/", "/a/b.js", "a/b.js", true},
		{"/", "/a/../b.js", "b.js", true},
		{"/", "/.git/config", "", false},
		{"/assets/", "/assets", ".", true},
		{"/assets/", "/assets/x.css", "x.css", true},
		{"/assets/", "/other/x.css", "", false},
	}

	for _, tc := range testCases {
		name, ok := staticName(tc.prefix, tc.path)
		assert.Equal(t, tc.ok, ok, "%s %s", tc.prefix, tc.path)
		assert.Equal(t, tc.name, name, "%s %s", tc.prefix, tc.path)
	}
}
