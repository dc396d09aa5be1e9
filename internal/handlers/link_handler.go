package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vibespace/internal/middlewares"
	"vibespace/internal/models"
	"vibespace/internal/repositories"
	"vibespace/internal/responses"
	"vibespace/internal/services"
)

type LinkHandler struct {
	store  repositories.TenantStore
	schema *services.SchemaService
	logger *zap.Logger
}

func NewLinkHandler(store repositories.TenantStore, schema *services.SchemaService, logger *zap.Logger) *LinkHandler {
	return &LinkHandler{
		store:  store,
		schema: schema,
		logger: logger,
	}
}

func (h *LinkHandler) withDatabase(c *gin.Context, op func(db *models.Database) (any, error)) (any, bool) {
	pin := middlewares.Pin(c)
	dbs, err := h.store.LoadSchemas(c.Request.Context(), pin)
	if err != nil {
		h.logger.Error("load schemas failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to load workspace")
		return nil, false
	}
	db, err := h.schema.FindDatabase(dbs, c.Param("dbID"))
	if err != nil {
		responses.FromError(c, err, "Database not found")
		return nil, false
	}
	result, err := op(db)
	if err != nil {
		responses.FromError(c, err, "Operation failed")
		return nil, false
	}
	if err := h.store.SaveSchemas(c.Request.Context(), pin, dbs); err != nil {
		h.logger.Error("save schemas failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to save workspace")
		return nil, false
	}
	return result, true
}

// CreateLink handles POST /api/databases/:dbID/links
func (h *LinkHandler) CreateLink(c *gin.Context) {
	var req services.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}
	result, ok := h.withDatabase(c, func(db *models.Database) (any, error) {
		return h.schema.CreateLink(db, req)
	})
	if ok {
		responses.Success(c, http.StatusCreated, result, "Link created")
	}
}

// UpdateLink handles PATCH /api/databases/:dbID/links/:linkID
func (h *LinkHandler) UpdateLink(c *gin.Context) {
	var patch services.LinkPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}
	result, ok := h.withDatabase(c, func(db *models.Database) (any, error) {
		return h.schema.UpdateLink(db, c.Param("linkID"), patch)
	})
	if ok {
		responses.Success(c, http.StatusOK, result, "Link updated")
	}
}

// DeleteLink handles DELETE /api/databases/:dbID/links/:linkID
func (h *LinkHandler) DeleteLink(c *gin.Context) {
	_, ok := h.withDatabase(c, func(db *models.Database) (any, error) {
		return nil, h.schema.DeleteLink(db, c.Param("linkID"))
	})
	if ok {
		responses.Success(c, http.StatusOK, nil, "Link deleted")
	}
}
