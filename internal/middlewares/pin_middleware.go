package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Tenant identity: an opaque PIN remembered by the caller, sent either
// as a header or as the cookie set by POST /api/session.
const (
	PinHeader  = "X-Workspace-Pin"
	PinCookie  = "vibe_pin"
	ContextPin = "pin"
)

// RequirePin resolves the tenant PIN and aborts with 401 when absent.
func RequirePin(c *gin.Context) {
	pin := ResolvePin(c)
	if pin == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "PIN required"})
		return
	}
	c.Set(ContextPin, pin)
	c.Next()
}

// ResolvePin returns the requester's PIN or "". Shared routes use it
// directly: a PIN is optional there and only upgrades the share to
// editable when it matches the owner.
func ResolvePin(c *gin.Context) string {
	if pin := c.GetHeader(PinHeader); pin != "" {
		return pin
	}
	if pin, err := c.Cookie(PinCookie); err == nil {
		return pin
	}
	return ""
}

// Pin reads the PIN stored by RequirePin.
func Pin(c *gin.Context) string {
	return c.GetString(ContextPin)
}
