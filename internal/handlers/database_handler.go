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

type DatabaseHandler struct {
	store     repositories.TenantStore
	schema    *services.SchemaService
	duplicate *services.DuplicateService
	logger    *zap.Logger
}

func NewDatabaseHandler(store repositories.TenantStore, schema *services.SchemaService, duplicate *services.DuplicateService, logger *zap.Logger) *DatabaseHandler {
	return &DatabaseHandler{
		store:     store,
		schema:    schema,
		duplicate: duplicate,
		logger:    logger,
	}
}

// GetState handles GET /api/state: the full schema side of the tenant.
func (h *DatabaseHandler) GetState(c *gin.Context) {
	pin := middlewares.Pin(c)
	dbs, err := h.store.LoadSchemas(c.Request.Context(), pin)
	if err != nil {
		h.logger.Error("load schemas failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to load workspace")
		return
	}
	c.JSON(http.StatusOK, dbs)
}

// CreateDatabase handles POST /api/databases
func (h *DatabaseHandler) CreateDatabase(c *gin.Context) {
	pin := middlewares.Pin(c)
	var req services.CreateDatabaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}
	dbs, err := h.store.LoadSchemas(c.Request.Context(), pin)
	if err != nil {
		h.logger.Error("load schemas failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to load workspace")
		return
	}
	db := h.schema.CreateDatabase(dbs, req)
	if err := h.store.SaveSchemas(c.Request.Context(), pin, dbs); err != nil {
		h.logger.Error("save schemas failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to save workspace")
		return
	}
	responses.Success(c, http.StatusCreated, db, "Database created")
}

// UpdateDatabase handles PATCH /api/databases/:dbID
func (h *DatabaseHandler) UpdateDatabase(c *gin.Context) {
	pin := middlewares.Pin(c)
	var patch services.DatabasePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}
	dbs, err := h.store.LoadSchemas(c.Request.Context(), pin)
	if err != nil {
		h.logger.Error("load schemas failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to load workspace")
		return
	}
	db, err := h.schema.FindDatabase(dbs, c.Param("dbID"))
	if err != nil {
		responses.FromError(c, err, "Database not found")
		return
	}
	h.schema.UpdateDatabase(db, patch)
	if err := h.store.SaveSchemas(c.Request.Context(), pin, dbs); err != nil {
		h.logger.Error("save schemas failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to save workspace")
		return
	}
	responses.Success(c, http.StatusOK, db, "Database updated")
}

// DeleteDatabase handles DELETE /api/databases/:dbID
func (h *DatabaseHandler) DeleteDatabase(c *gin.Context) {
	pin := middlewares.Pin(c)
	dbs, err := h.store.LoadSchemas(c.Request.Context(), pin)
	if err != nil {
		h.logger.Error("load schemas failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to load workspace")
		return
	}
	if err := h.schema.DeleteDatabase(dbs, c.Param("dbID")); err != nil {
		responses.FromError(c, err, "Database not found")
		return
	}
	if err := h.store.SaveSchemas(c.Request.Context(), pin, dbs); err != nil {
		h.logger.Error("save schemas failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to save workspace")
		return
	}
	responses.Success(c, http.StatusOK, nil, "Database deleted")
}

// DuplicateDatabase handles POST /api/databases/:dbID/duplicate
func (h *DatabaseHandler) DuplicateDatabase(c *gin.Context) {
	pin := middlewares.Pin(c)
	dbs, err := h.store.LoadSchemas(c.Request.Context(), pin)
	if err != nil {
		h.logger.Error("load schemas failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to load workspace")
		return
	}
	src, err := h.schema.FindDatabase(dbs, c.Param("dbID"))
	if err != nil {
		responses.FromError(c, err, "Database not found")
		return
	}
	dup := h.duplicate.Duplicate(src)
	dbs[dup.ID] = dup
	if err := h.store.SaveSchemas(c.Request.Context(), pin, dbs); err != nil {
		h.logger.Error("save schemas failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to save workspace")
		return
	}
	responses.Success(c, http.StatusCreated, dup, "Database duplicated")
}
