package web

import (
	"embed"
	"io/fs"
)

//go:embed app
var embeddedAppFS embed.FS

// EmbeddedAppFS returns the embedded single-page app rooted at app/
func EmbeddedAppFS() (fs.FS, error) {
	return fs.Sub(embeddedAppFS, "app")
}

// ListEmbeddedFiles returns a list of all embedded app files for debugging
func ListEmbeddedFiles() ([]string, error) {
	var files []string
	err := fs.WalkDir(embeddedAppFS, "app", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
