package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/go-while/go-starters/internal/bodyparse"
)

// getHello answers with the greeting as JSON
func (s *WebServer) getHello(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": helloWorld})
}

// postEcho sends the parsed request body back unchanged.
// Nothing is stored.
func (s *WebServer) postEcho(c *gin.Context) {
	c.JSON(http.StatusOK, bodyparse.Body(c))
}
