package routes

import (
	"github.com/gin-gonic/gin"

	"vibespace/internal/handlers"
	"vibespace/internal/middlewares"
)

type DocsRoutes struct {
	docsHandler  *handlers.DocsHandler
	shareHandler *handlers.ShareHandler
}

func NewDocsRoutes(docsHandler *handlers.DocsHandler, shareHandler *handlers.ShareHandler) *DocsRoutes {
	return &DocsRoutes{
		docsHandler:  docsHandler,
		shareHandler: shareHandler,
	}
}

func (r *DocsRoutes) RegisterRoutes(router *gin.RouterGroup) {
	docs := router.Group("/docs")
	docs.Use(middlewares.RequirePin)
	{
		docs.GET("/state", r.docsHandler.GetDocsState)

		docs.POST("/folders", r.docsHandler.CreateFolder)
		docs.PATCH("/folders/:folderID", r.docsHandler.UpdateFolder)
		docs.DELETE("/folders/:folderID", r.docsHandler.DeleteFolder)
		docs.POST("/folders/:folderID/share", r.shareHandler.ShareFolder)

		docs.POST("", r.docsHandler.CreateDocument)
		docs.GET("/:docID", r.docsHandler.GetDocument)
		docs.PATCH("/:docID", r.docsHandler.UpdateDocument)
		docs.DELETE("/:docID", r.docsHandler.DeleteDocument)
		docs.POST("/:docID/share", r.shareHandler.ShareDocument)

		docs.GET("/:docID/notes", r.docsHandler.GetNotes)
		docs.POST("/:docID/notes", r.docsHandler.AddNote)
		docs.DELETE("/:docID/notes/:noteID", r.docsHandler.DeleteNote)
	}
}
