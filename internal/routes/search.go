package routes

import (
	"github.com/gin-gonic/gin"

	"vibespace/internal/handlers"
	"vibespace/internal/middlewares"
)

type SearchRoutes struct {
	searchHandler *handlers.SearchHandler
}

func NewSearchRoutes(searchHandler *handlers.SearchHandler) *SearchRoutes {
	return &SearchRoutes{searchHandler: searchHandler}
}

func (r *SearchRoutes) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/search", middlewares.RequirePin, r.searchHandler.Search)
}
