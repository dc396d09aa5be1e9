package routes

import (
	"github.com/gin-gonic/gin"

	"vibespace/internal/handlers"
)

type SessionRoutes struct {
	sessionHandler *handlers.SessionHandler
}

func NewSessionRoutes(sessionHandler *handlers.SessionHandler) *SessionRoutes {
	return &SessionRoutes{sessionHandler: sessionHandler}
}

func (r *SessionRoutes) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/session", r.sessionHandler.Start)
}
