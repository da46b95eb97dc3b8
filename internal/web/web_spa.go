package web

import (
	"io/fs"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// sendIndex serves the app shell for every path the client router owns
func (s *WebServer) sendIndex(c *gin.Context) {
	content, err := fs.ReadFile(s.assets, "index.html")
	if err != nil {
		log.Printf("[WEB]: Failed to read index.html for %s: %v", c.Request.URL.Path, err)
		c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", content)
}
