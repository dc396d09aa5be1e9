package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vibespace/internal/apperrors"
	"vibespace/internal/middlewares"
	"vibespace/internal/models"
	"vibespace/internal/repositories"
	"vibespace/internal/responses"
	"vibespace/internal/services"
)

// ShareHandler issues capability tokens and serves the token-scoped
// routes. Shared routes take no PIN; a PIN is only consulted to decide
// whether the requester is the owner (can_edit).
type ShareHandler struct {
	store  repositories.TenantStore
	shares repositories.ShareStore
	docs   *services.DocsService
	share  *services.ShareService
	logger *zap.Logger
}

func NewShareHandler(store repositories.TenantStore, shares repositories.ShareStore, docs *services.DocsService, share *services.ShareService, logger *zap.Logger) *ShareHandler {
	return &ShareHandler{
		store:  store,
		shares: shares,
		docs:   docs,
		share:  share,
		logger: logger,
	}
}

// ShareDocument handles POST /api/docs/:docID/share
func (h *ShareHandler) ShareDocument(c *gin.Context) {
	pin := middlewares.Pin(c)
	docID := c.Param("docID")
	_, documents, err := h.store.LoadDocs(c.Request.Context(), pin)
	if err != nil {
		h.logger.Error("load docs failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to load workspace")
		return
	}
	if _, err := h.docs.GetDocument(documents, docID); err != nil {
		responses.FromError(c, err, "Document not found")
		return
	}
	share := h.share.NewShare(pin, models.ShareDoc, docID)
	if err := h.shares.Put(c.Request.Context(), share); err != nil {
		h.logger.Error("store share failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to create share")
		return
	}
	responses.Success(c, http.StatusCreated, gin.H{
		"token": share.ID,
		"url":   h.share.SharedDocPath(share.ID),
	}, "Share created")
}

// ShareFolder handles POST /api/docs/folders/:folderID/share
func (h *ShareHandler) ShareFolder(c *gin.Context) {
	pin := middlewares.Pin(c)
	folderID := c.Param("folderID")
	folders, _, err := h.store.LoadDocs(c.Request.Context(), pin)
	if err != nil {
		h.logger.Error("load docs failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to load workspace")
		return
	}
	if _, ok := folders[folderID]; !ok {
		responses.FromError(c, fmt.Errorf("%w: folder %s", apperrors.ErrNotFound, folderID), "Folder not found")
		return
	}
	share := h.share.NewShare(pin, models.ShareFolder, folderID)
	if err := h.shares.Put(c.Request.Context(), share); err != nil {
		h.logger.Error("store share failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to create share")
		return
	}
	responses.Success(c, http.StatusCreated, gin.H{
		"token": share.ID,
		"url":   h.share.SharedFolderPath(share.ID),
	}, "Share created")
}

// sharedContext resolves the token and loads the owning tenant's
// document tree.
func (h *ShareHandler) sharedContext(c *gin.Context) (*models.DocShare, map[string]*models.DocFolder, map[string]*models.Document, bool) {
	share, err := h.shares.Get(c.Request.Context(), c.Param("token"))
	if err != nil {
		responses.FromError(c, err, "Unknown share token")
		return nil, nil, nil, false
	}
	folders, documents, err := h.store.LoadDocs(c.Request.Context(), share.Pin)
	if err != nil {
		h.logger.Error("load docs failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to load workspace")
		return nil, nil, nil, false
	}
	return share, folders, documents, true
}

// GetSharedDocument handles GET /api/shared/d/:token
func (h *ShareHandler) GetSharedDocument(c *gin.Context) {
	share, _, documents, ok := h.sharedContext(c)
	if !ok {
		return
	}
	if share.Kind != models.ShareDoc {
		responses.FromError(c, fmt.Errorf("%w: share token", apperrors.ErrNotFound), "Unknown share token")
		return
	}
	d, err := h.docs.GetDocument(documents, share.TargetID)
	if err != nil {
		responses.FromError(c, err, "Document not found")
		return
	}
	responses.Success(c, http.StatusOK, gin.H{
		"document": d,
		"can_edit": h.share.CanEdit(share, middlewares.ResolvePin(c)),
	}, "Shared document retrieved")
}

// GetSharedFolderDocument handles GET /api/shared/f/:token/d/:docID
func (h *ShareHandler) GetSharedFolderDocument(c *gin.Context) {
	share, folders, documents, ok := h.sharedContext(c)
	if !ok {
		return
	}
	if share.Kind != models.ShareFolder {
		responses.FromError(c, fmt.Errorf("%w: share token", apperrors.ErrNotFound), "Unknown share token")
		return
	}
	d, err := h.docs.GetDocument(documents, c.Param("docID"))
	if err != nil {
		responses.FromError(c, err, "Document not found")
		return
	}
	if !h.share.AuthorizeDocument(share, folders, d) {
		responses.FromError(c, fmt.Errorf("%w: document outside shared folder", apperrors.ErrForbidden), "Access denied")
		return
	}
	responses.Success(c, http.StatusOK, gin.H{
		"document": d,
		"can_edit": h.share.CanEdit(share, middlewares.ResolvePin(c)),
	}, "Shared document retrieved")
}

// GetSharedSubFolder handles GET /api/shared/f/:token/f/:folderID
func (h *ShareHandler) GetSharedSubFolder(c *gin.Context) {
	share, folders, documents, ok := h.sharedContext(c)
	if !ok {
		return
	}
	if share.Kind != models.ShareFolder {
		responses.FromError(c, fmt.Errorf("%w: share token", apperrors.ErrNotFound), "Unknown share token")
		return
	}
	folderID := c.Param("folderID")
	if !h.share.AuthorizeFolder(share, folders, folderID) {
		responses.FromError(c, fmt.Errorf("%w: folder outside shared folder", apperrors.ErrForbidden), "Access denied")
		return
	}
	mf, md := h.share.SharedSummaries(share, folders, documents)
	responses.Success(c, http.StatusOK, gin.H{
		"folders":        mf,
		"documents":      md,
		"current_folder": folderID,
		"can_edit":       h.share.CanEdit(share, middlewares.ResolvePin(c)),
	}, "Shared folder retrieved")
}

// GetSharedState handles GET /api/shared/f/:token/state: the minimal
// listing scoped to the shared subtree, plus the root marker.
func (h *ShareHandler) GetSharedState(c *gin.Context) {
	share, folders, documents, ok := h.sharedContext(c)
	if !ok {
		return
	}
	if share.Kind != models.ShareFolder {
		responses.FromError(c, fmt.Errorf("%w: share token", apperrors.ErrNotFound), "Unknown share token")
		return
	}
	mf, md := h.share.SharedSummaries(share, folders, documents)
	responses.Success(c, http.StatusOK, gin.H{
		"folders":   mf,
		"documents": md,
		"root":      share.TargetID,
	}, "Shared state retrieved")
}

// AddSharedNote handles POST /api/shared/d/:token/:docID/notes. Note
// adding is intentionally open to anonymous share holders; it is the one
// write a plain token grants.
func (h *ShareHandler) AddSharedNote(c *gin.Context) {
	var req services.AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}
	share, folders, documents, ok := h.sharedContext(c)
	if !ok {
		return
	}
	d, err := h.docs.GetDocument(documents, c.Param("docID"))
	if err != nil {
		responses.FromError(c, err, "Document not found")
		return
	}
	if share.Kind == models.ShareFolder && !h.share.AuthorizeDocument(share, folders, d) {
		responses.FromError(c, fmt.Errorf("%w: document outside shared folder", apperrors.ErrForbidden), "Access denied")
		return
	}
	n, err := h.docs.AddNote(d, req)
	if err != nil {
		responses.FromError(c, err, "Could not add note")
		return
	}
	// the write lands in the workspace of the PIN that owns the share
	if err := h.store.SaveDocs(c.Request.Context(), share.Pin, folders, documents); err != nil {
		h.logger.Error("save docs failed", zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to save workspace")
		return
	}
	responses.Success(c, http.StatusCreated, n, "Note added")
}

// ResolveShared handles GET /api/shared/resolve/:token/doc/:docID: an
// authorization verdict plus the canonical navigable path.
func (h *ShareHandler) ResolveShared(c *gin.Context) {
	share, folders, documents, ok := h.sharedContext(c)
	if !ok {
		return
	}
	d, err := h.docs.GetDocument(documents, c.Param("docID"))
	if err != nil {
		responses.FromError(c, err, "Document not found")
		return
	}
	allowed := h.share.AuthorizeDocument(share, folders, d)
	var url string
	if allowed {
		if share.Kind == models.ShareFolder {
			url = h.share.SharedFolderDocPath(share.ID, d.ID)
		} else {
			url = h.share.SharedDocPath(share.ID)
		}
	}
	responses.Success(c, http.StatusOK, gin.H{
		"allowed": allowed,
		"url":     url,
	}, "Share resolved")
}
