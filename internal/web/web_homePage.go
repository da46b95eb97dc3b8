package web

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/go-while/go-starters/internal/views"
)

const helloWorld = "Hello World!"

func (s *WebServer) homePage(c *gin.Context) {
	err := s.views.HTML(c, http.StatusOK, "index", views.ViewContext{"title": helloWorld})
	if err != nil {
		log.Printf("[WEB]: Template error on %s: %v", c.Request.URL.Path, err)
		s.views.Error(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
}
