package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vibespace/internal/middlewares"
	"vibespace/internal/repositories"
	"vibespace/internal/responses"
	"vibespace/internal/services"
)

type SearchHandler struct {
	store  repositories.TenantStore
	search *services.SearchService
	logger *zap.Logger
}

func NewSearchHandler(store repositories.TenantStore, search *services.SearchService, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		store:  store,
		search: search,
		logger: logger,
	}
}

// Search handles GET /api/search?q=
func (h *SearchHandler) Search(c *gin.Context) {
	pin := middlewares.Pin(c)
	state, err := h.store.LoadState(c.Request.Context(), pin)
	if err != nil {
		h.logger.Error("load state failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to load workspace")
		return
	}
	results := h.search.Search(state, c.Query("q"))
	responses.Success(c, http.StatusOK, gin.H{"results": results}, "Search complete")
}
