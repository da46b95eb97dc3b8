package router

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

const staticCacheControl = "public, max-age=0"

func newStaticRoute(prefix string, fsys fs.FS) (*Route, error) {
	if fsys == nil {
		return nil, errors.New("nil file system for static route")
	}
	if !strings.HasPrefix(prefix, "/") {
		return nil, fmt.Errorf("static prefix %q must begin with '/'", prefix)
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	fileServer := http.StripPrefix(strings.TrimSuffix(prefix, "/"), http.FileServer(http.FS(fsys)))

	return &Route{
		Method:  http.MethodGet,
		Pattern: prefix,
		Static:  true,
		handler: func(c *gin.Context) {
			c.Header("Cache-Control", staticCacheControl)
			// http.FileServer redirects .../index.html to .../
			if name, ok := staticName(prefix, c.Request.URL.Path); ok && path.Base(name) == "index.html" {
				serveContent(c, fsys, name)
				return
			}
			fileServer.ServeHTTP(c.Writer, c.Request)
		},
		match: func(method, urlPath string) bool {
			if method != http.MethodGet && method != http.MethodHead {
				return false
			}
			name, ok := staticName(prefix, urlPath)
			return ok && fileExists(fsys, name)
		},
	}, nil
}

// staticName maps a request path below prefix to an fs.FS name.
// Dotfiles are never served.
func staticName(prefix, urlPath string) (string, bool) {
	if urlPath+"/" == prefix {
		urlPath = prefix
	}
	if !strings.HasPrefix(urlPath, prefix) {
		return "", false
	}
	name := strings.TrimPrefix(path.Clean("/"+strings.TrimPrefix(urlPath, prefix)), "/")
	if name == "" {
		return ".", true
	}
	for _, segment := range strings.Split(name, "/") {
		if strings.HasPrefix(segment, ".") {
			return "", false
		}
	}
	return name, true
}

// fileExists reports whether name is a file, or a directory with an index.html.
func fileExists(fsys fs.FS, name string) bool {
	info, err := fs.Stat(fsys, name)
	if err != nil {
		return false
	}
	if !info.IsDir() {
		return true
	}
	index, err := fs.Stat(fsys, path.Join(name, "index.html"))
	return err == nil && !index.IsDir()
}

// serveContent writes a single file without the index.html redirect.
func serveContent(c *gin.Context, fsys fs.FS, name string) {
	f, err := fsys.Open(name)
	if err != nil {
		http.Error(c.Writer, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.Error(c.Writer, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}
	content, ok := f.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(f)
		if err != nil {
			http.Error(c.Writer, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		content = bytes.NewReader(data)
	}
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), content)
}
