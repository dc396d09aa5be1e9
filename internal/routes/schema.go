package routes

import (
	"github.com/gin-gonic/gin"

	"vibespace/internal/handlers"
	"vibespace/internal/middlewares"
)

type SchemaRoutes struct {
	databaseHandler *handlers.DatabaseHandler
	tableHandler    *handlers.TableHandler
	linkHandler     *handlers.LinkHandler
}

func NewSchemaRoutes(databaseHandler *handlers.DatabaseHandler, tableHandler *handlers.TableHandler, linkHandler *handlers.LinkHandler) *SchemaRoutes {
	return &SchemaRoutes{
		databaseHandler: databaseHandler,
		tableHandler:    tableHandler,
		linkHandler:     linkHandler,
	}
}

func (r *SchemaRoutes) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/state", middlewares.RequirePin, r.databaseHandler.GetState)

	databases := router.Group("/databases")
	databases.Use(middlewares.RequirePin)
	{
		databases.POST("", r.databaseHandler.CreateDatabase)
		databases.PATCH("/:dbID", r.databaseHandler.UpdateDatabase)
		databases.DELETE("/:dbID", r.databaseHandler.DeleteDatabase)
		databases.POST("/:dbID/duplicate", r.databaseHandler.DuplicateDatabase)

		databases.POST("/:dbID/tables", r.tableHandler.CreateTable)
		databases.PATCH("/:dbID/tables/:tableID", r.tableHandler.UpdateTable)
		databases.DELETE("/:dbID/tables/:tableID", r.tableHandler.DeleteTable)

		databases.POST("/:dbID/tables/:tableID/columns", r.tableHandler.CreateColumn)
		databases.PATCH("/:dbID/tables/:tableID/columns/:columnID", r.tableHandler.UpdateColumn)
		databases.DELETE("/:dbID/tables/:tableID/columns/:columnID", r.tableHandler.DeleteColumn)

		databases.POST("/:dbID/links", r.linkHandler.CreateLink)
		databases.PATCH("/:dbID/links/:linkID", r.linkHandler.UpdateLink)
		databases.DELETE("/:dbID/links/:linkID", r.linkHandler.DeleteLink)
	}
}
