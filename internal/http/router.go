// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"swiftcab/internal/http/handlers"
	"swiftcab/internal/http/middleware"
)

func NewRouter(host *handlers.Host, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(logger), middleware.Logging(logger))

	sessionHandler := handlers.NewSessionHandler(host)
	api := r.Group("/api")
	api.POST("/session", sessionHandler.Start)
	api.GET("/session", sessionHandler.Get)
	api.POST("/session/reply", sessionHandler.Reply)
	api.DELETE("/session", sessionHandler.Abort)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	return r
}
