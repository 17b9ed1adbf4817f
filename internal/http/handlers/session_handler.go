// README: Session handlers for start/poll/reply/abort of the booking conversation.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	host *Host
}

func NewSessionHandler(host *Host) *SessionHandler {
	return &SessionHandler{host: host}
}

type replyReq struct {
	Text *string `json:"text"`
}

// Start handles POST /api/session.
func (h *SessionHandler) Start(c *gin.Context) {
	snap, err := h.host.Start()
	if err != nil {
		writeSessionError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, snap)
}

// Get handles GET /api/session.
func (h *SessionHandler) Get(c *gin.Context) {
	snap, err := h.host.Poll()
	if err != nil {
		writeSessionError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, snap)
}

// Reply handles POST /api/session/reply.
func (h *SessionHandler) Reply(c *gin.Context) {
	var req replyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Text == nil {
		writeError(c, http.StatusBadRequest, "missing text")
		return
	}
	if err := h.host.Reply(strings.TrimSpace(*req.Text)); err != nil {
		writeSessionError(c, err)
		return
	}
	writeJSON(c, http.StatusAccepted, map[string]any{"accepted": true})
}

// Abort handles DELETE /api/session.
func (h *SessionHandler) Abort(c *gin.Context) {
	snap, err := h.host.Abort()
	if err != nil {
		writeSessionError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, snap)
}
