// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"swiftcab/internal/channel"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNoSession):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrSessionActive),
		errors.Is(err, ErrSessionEnded),
		errors.Is(err, channel.ErrNotAwaitingReply),
		errors.Is(err, channel.ErrClosed):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
