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

type DocsHandler struct {
	store  repositories.TenantStore
	docs   *services.DocsService
	logger *zap.Logger
}

func NewDocsHandler(store repositories.TenantStore, docs *services.DocsService, logger *zap.Logger) *DocsHandler {
	return &DocsHandler{
		store:  store,
		docs:   docs,
		logger: logger,
	}
}

// --------- Folders ----------

// CreateFolder handles POST /api/docs/folders
func (h *DocsHandler) CreateFolder(c *gin.Context) {
	pin := middlewares.Pin(c)
	var req services.CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}
	folders, documents, err := h.store.LoadDocs(c.Request.Context(), pin)
	if err != nil {
		h.logger.Error("load docs failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to load workspace")
		return
	}
	f, err := h.docs.CreateFolder(folders, req)
	if err != nil {
		responses.FromError(c, err, "Could not create folder")
		return
	}
	if err := h.store.SaveDocs(c.Request.Context(), pin, folders, documents); err != nil {
		h.logger.Error("save docs failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to save workspace")
		return
	}
	responses.Success(c, http.StatusCreated, f, "Folder created")
}

// UpdateFolder handles PATCH /api/docs/folders/:folderID
func (h *DocsHandler) UpdateFolder(c *gin.Context) {
	pin := middlewares.Pin(c)
	var patch services.FolderPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}
	folders, documents, err := h.store.LoadDocs(c.Request.Context(), pin)
	if err != nil {
		h.logger.Error("load docs failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to load workspace")
		return
	}
	f, err := h.docs.UpdateFolder(folders, c.Param("folderID"), patch)
	if err != nil {
		responses.FromError(c, err, "Could not update folder")
		return
	}
	if err := h.store.SaveDocs(c.Request.Context(), pin, folders, documents); err != nil {
		h.logger.Error("save docs failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to save workspace")
		return
	}
	responses.Success(c, http.StatusOK, f, "Folder updated")
}

// DeleteFolder handles DELETE /api/docs/folders/:folderID
func (h *DocsHandler) DeleteFolder(c *gin.Context) {
	pin := middlewares.Pin(c)
	folders, documents, err := h.store.LoadDocs(c.Request.Context(), pin)
	if err != nil {
		h.logger.Error("load docs failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to load workspace")
		return
	}
	if err := h.docs.DeleteFolder(folders, documents, c.Param("folderID")); err != nil {
		responses.FromError(c, err, "Could not delete folder")
		return
	}
	if err := h.store.SaveDocs(c.Request.Context(), pin, folders, documents); err != nil {
		h.logger.Error("save docs failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to save workspace")
		return
	}
	responses.Success(c, http.StatusOK, nil, "Folder deleted")
}

// --------- Documents ----------

// CreateDocument handles POST /api/docs
func (h *DocsHandler) CreateDocument(c *gin.Context) {
	pin := middlewares.Pin(c)
	var req services.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}
	folders, documents, err := h.store.LoadDocs(c.Request.Context(), pin)
	if err != nil {
		h.logger.Error("load docs failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to load workspace")
		return
	}
	d, err := h.docs.CreateDocument(folders, documents, req)
	if err != nil {
		responses.FromError(c, err, "Could not create document")
		return
	}
	if err := h.store.SaveDocs(c.Request.Context(), pin, folders, documents); err != nil {
		h.logger.Error("save docs failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to save workspace")
		return
	}
	responses.Success(c, http.StatusCreated, d, "Document created")
}

// GetDocument handles GET /api/docs/:docID
func (h *DocsHandler) GetDocument(c *gin.Context) {
	pin := middlewares.Pin(c)
	_, documents, err := h.store.LoadDocs(c.Request.Context(), pin)
	if err != nil {
		h.logger.Error("load docs failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to load workspace")
		return
	}
	d, err := h.docs.GetDocument(documents, c.Param("docID"))
	if err != nil {
		responses.FromError(c, err, "Document not found")
		return
	}
	responses.Success(c, http.StatusOK, d, "Document retrieved")
}

// UpdateDocument handles PATCH /api/docs/:docID
func (h *DocsHandler) UpdateDocument(c *gin.Context) {
	pin := middlewares.Pin(c)
	var patch services.DocumentPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}
	folders, documents, err := h.store.LoadDocs(c.Request.Context(), pin)
	if err != nil {
		h.logger.Error("load docs failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to load workspace")
		return
	}
	d, err := h.docs.UpdateDocument(folders, documents, c.Param("docID"), patch)
	if err != nil {
		responses.FromError(c, err, "Could not update document")
		return
	}
	if err := h.store.SaveDocs(c.Request.Context(), pin, folders, documents); err != nil {
		h.logger.Error("save docs failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to save workspace")
		return
	}
	responses.Success(c, http.StatusOK, d, "Document updated")
}

// DeleteDocument handles DELETE /api/docs/:docID
func (h *DocsHandler) DeleteDocument(c *gin.Context) {
	pin := middlewares.Pin(c)
	folders, documents, err := h.store.LoadDocs(c.Request.Context(), pin)
	if err != nil {
		h.logger.Error("load docs failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to load workspace")
		return
	}
	if err := h.docs.DeleteDocument(documents, c.Param("docID")); err != nil {
		responses.FromError(c, err, "Document not found")
		return
	}
	if err := h.store.SaveDocs(c.Request.Context(), pin, folders, documents); err != nil {
		h.logger.Error("save docs failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to save workspace")
		return
	}
	responses.Success(c, http.StatusOK, nil, "Document deleted")
}

// --------- Notes ----------

// GetNotes handles GET /api/docs/:docID/notes
func (h *DocsHandler) GetNotes(c *gin.Context) {
	pin := middlewares.Pin(c)
	_, documents, err := h.store.LoadDocs(c.Request.Context(), pin)
	if err != nil {
		h.logger.Error("load docs failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to load workspace")
		return
	}
	d, err := h.docs.GetDocument(documents, c.Param("docID"))
	if err != nil {
		responses.FromError(c, err, "Document not found")
		return
	}
	responses.Success(c, http.StatusOK, d.Notes, "Notes retrieved")
}

// AddNote handles POST /api/docs/:docID/notes
func (h *DocsHandler) AddNote(c *gin.Context) {
	pin := middlewares.Pin(c)
	var req services.AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}
	folders, documents, err := h.store.LoadDocs(c.Request.Context(), pin)
	if err != nil {
		h.logger.Error("load docs failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to load workspace")
		return
	}
	d, err := h.docs.GetDocument(documents, c.Param("docID"))
	if err != nil {
		responses.FromError(c, err, "Document not found")
		return
	}
	n, err := h.docs.AddNote(d, req)
	if err != nil {
		responses.FromError(c, err, "Could not add note")
		return
	}
	if err := h.store.SaveDocs(c.Request.Context(), pin, folders, documents); err != nil {
		h.logger.Error("save docs failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to save workspace")
		return
	}
	responses.Success(c, http.StatusCreated, n, "Note added")
}

// DeleteNote handles DELETE /api/docs/:docID/notes/:noteID
func (h *DocsHandler) DeleteNote(c *gin.Context) {
	pin := middlewares.Pin(c)
	folders, documents, err := h.store.LoadDocs(c.Request.Context(), pin)
	if err != nil {
		h.logger.Error("load docs failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to load workspace")
		return
	}
	d, err := h.docs.GetDocument(documents, c.Param("docID"))
	if err != nil {
		responses.FromError(c, err, "Document not found")
		return
	}
	if err := h.docs.DeleteNote(d, c.Param("noteID")); err != nil {
		responses.FromError(c, err, "Note not found")
		return
	}
	if err := h.store.SaveDocs(c.Request.Context(), pin, folders, documents); err != nil {
		h.logger.Error("save docs failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to save workspace")
		return
	}
	responses.Success(c, http.StatusOK, nil, "Note deleted")
}

// --------- Listings ----------

// GetDocsState handles GET /api/docs/state: the minimal sidebar listing.
func (h *DocsHandler) GetDocsState(c *gin.Context) {
	pin := middlewares.Pin(c)
	folders, documents, err := h.store.LoadDocs(c.Request.Context(), pin)
	if err != nil {
		h.logger.Error("load docs failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to load workspace")
		return
	}
	mf, md := h.docs.Summaries(folders, documents)
	responses.Success(c, http.StatusOK, gin.H{"folders": mf, "documents": md}, "Docs state retrieved")
}
