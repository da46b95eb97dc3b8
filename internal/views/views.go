// Package views renders html/template documents for the server-rendered sample.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

// LayoutName is the base template every view is rendered through.
const LayoutName = "layout.html"

//go:embed templates/*.html
var embeddedTemplates embed.FS

// ViewContext holds the template variables of one render call.
type ViewContext map[string]any

// Renderer loads views from a folder. Templates are parsed on every render,
// so edits in an on-disk folder show up without a restart.
type Renderer struct {
	fsys   fs.FS
	source string
}

// New returns a Renderer reading from dir, or from the embedded templates
// when dir is empty.
func New(dir string) *Renderer {
	if dir == "" {
		sub, err := fs.Sub(embeddedTemplates, "templates")
		if err != nil {
			panic("Failed to create embedded templates filesystem: " + err.Error())
		}
		return &Renderer{fsys: sub, source: "embedded"}
	}
	return &Renderer{fsys: os.DirFS(dir), source: dir}
}

// NewFS returns a Renderer reading from fsys.
func NewFS(fsys fs.FS) *Renderer {
	return &Renderer{fsys: fsys, source: "fs"}
}

// Source names where the views come from.
func (r *Renderer) Source() string {
	return r.source
}

// Render executes the named view inside the layout and writes the document
// to w. Nothing is written when parsing or execution fails.
func (r *Renderer) Render(w io.Writer, name string, data ViewContext) error {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid view name %q", name)
	}

	tmpl, err := template.ParseFS(r.fsys, LayoutName, name+".html")
	if err != nil {
		return fmt.Errorf("load view %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, LayoutName, data); err != nil {
		return fmt.Errorf("render view %s: %w", name, err)
	}
	_, err = buf.WriteTo(w)
	return err
}

// HTML renders the named view as the response of c.
func (r *Renderer) HTML(c *gin.Context, status int, name string, data ViewContext) error {
	var buf bytes.Buffer
	if err := r.Render(&buf, name, data); err != nil {
		return err
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
	return nil
}

// Error renders the error view, falling back to plain text when the error
// view itself cannot be rendered.
func (r *Renderer) Error(c *gin.Context, status int, message string) {
	err := r.HTML(c, status, "error", ViewContext{
		"title":   message,
		"message": message,
		"status":  status,
	})
	if err != nil {
		log.Printf("[VIEWS]: Error view failed: %v", err)
		c.String(status, http.StatusText(status))
	}
}
