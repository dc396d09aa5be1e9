package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vibespace/internal/middlewares"
	"vibespace/internal/responses"
)

const pinCookieMaxAge = 60 * 60 * 24 * 7 // 7 days

// SessionHandler remembers the caller's PIN in a cookie so browser
// clients do not have to resend the header.
type SessionHandler struct{}

func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

type startSessionRequest struct {
	Pin string `json:"pin"`
}

// Start handles POST /api/session
func (h *SessionHandler) Start(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}
	pin := strings.TrimSpace(req.Pin)
	if pin == "" {
		responses.Fail(c, http.StatusBadRequest, nil, "PIN required")
		return
	}
	c.SetCookie(middlewares.PinCookie, pin, pinCookieMaxAge, "/", "", false, true)
	responses.Success(c, http.StatusOK, gin.H{"pin": pin}, "Session started")
}
