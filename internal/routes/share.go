package routes

import (
	"github.com/gin-gonic/gin"

	"vibespace/internal/handlers"
)

// ShareRoutes are token-scoped: no PIN middleware. The handlers read the
// requester's PIN only to decide can_edit.
type ShareRoutes struct {
	shareHandler *handlers.ShareHandler
}

func NewShareRoutes(shareHandler *handlers.ShareHandler) *ShareRoutes {
	return &ShareRoutes{shareHandler: shareHandler}
}

func (r *ShareRoutes) RegisterRoutes(router *gin.RouterGroup) {
	shared := router.Group("/shared")
	{
		shared.GET("/d/:token", r.shareHandler.GetSharedDocument)
		shared.POST("/d/:token/:docID/notes", r.shareHandler.AddSharedNote)

		shared.GET("/f/:token/state", r.shareHandler.GetSharedState)
		shared.GET("/f/:token/d/:docID", r.shareHandler.GetSharedFolderDocument)
		shared.GET("/f/:token/f/:folderID", r.shareHandler.GetSharedSubFolder)

		shared.GET("/resolve/:token/doc/:docID", r.shareHandler.ResolveShared)
	}
}
