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

// TableHandler covers tables and their columns.
type TableHandler struct {
	store  repositories.TenantStore
	schema *services.SchemaService
	logger *zap.Logger
}

func NewTableHandler(store repositories.TenantStore, schema *services.SchemaService, logger *zap.Logger) *TableHandler {
	return &TableHandler{
		store:  store,
		schema: schema,
		logger: logger,
	}
}

// withDatabase loads the tenant's schemas, resolves the :dbID database
// and runs op on it; when op succeeds the schemas are saved back.
func (h *TableHandler) withDatabase(c *gin.Context, op func(db *models.Database) (any, error)) (any, bool) {
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

// CreateTable handles POST /api/databases/:dbID/tables
func (h *TableHandler) CreateTable(c *gin.Context) {
	var req services.CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}
	result, ok := h.withDatabase(c, func(db *models.Database) (any, error) {
		return h.schema.CreateTable(db, req), nil
	})
	if ok {
		responses.Success(c, http.StatusCreated, result, "Table created")
	}
}

// UpdateTable handles PATCH /api/databases/:dbID/tables/:tableID
func (h *TableHandler) UpdateTable(c *gin.Context) {
	var patch services.TablePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}
	result, ok := h.withDatabase(c, func(db *models.Database) (any, error) {
		return h.schema.UpdateTable(db, c.Param("tableID"), patch)
	})
	if ok {
		responses.Success(c, http.StatusOK, result, "Table updated")
	}
}

// DeleteTable handles DELETE /api/databases/:dbID/tables/:tableID
func (h *TableHandler) DeleteTable(c *gin.Context) {
	_, ok := h.withDatabase(c, func(db *models.Database) (any, error) {
		return nil, h.schema.DeleteTable(db, c.Param("tableID"))
	})
	if ok {
		responses.Success(c, http.StatusOK, nil, "Table deleted")
	}
}

// CreateColumn handles POST /api/databases/:dbID/tables/:tableID/columns
func (h *TableHandler) CreateColumn(c *gin.Context) {
	var req services.CreateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}
	result, ok := h.withDatabase(c, func(db *models.Database) (any, error) {
		return h.schema.CreateColumn(db, c.Param("tableID"), req)
	})
	if ok {
		responses.Success(c, http.StatusCreated, result, "Column created")
	}
}

// UpdateColumn handles PATCH /api/databases/:dbID/tables/:tableID/columns/:columnID
func (h *TableHandler) UpdateColumn(c *gin.Context) {
	var patch services.ColumnPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}
	result, ok := h.withDatabase(c, func(db *models.Database) (any, error) {
		return h.schema.UpdateColumn(db, c.Param("tableID"), c.Param("columnID"), patch)
	})
	if ok {
		responses.Success(c, http.StatusOK, result, "Column updated")
	}
}

// DeleteColumn handles DELETE /api/databases/:dbID/tables/:tableID/columns/:columnID
func (h *TableHandler) DeleteColumn(c *gin.Context) {
	_, ok := h.withDatabase(c, func(db *models.Database) (any, error) {
		return nil, h.schema.DeleteColumn(db, c.Param("tableID"), c.Param("columnID"))
	})
	if ok {
		responses.Success(c, http.StatusOK, nil, "Column deleted")
	}
}
