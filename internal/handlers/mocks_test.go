package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vibespace/internal/apperrors"
	"vibespace/internal/middlewares"
	"vibespace/internal/models"
	"vibespace/internal/services"
)

// fakeTenantStore keeps per-PIN records in memory with the same replace
// semantics as the real store: saving schemas leaves the document tree
// alone and vice versa.
type fakeTenantStore struct {
	mu      sync.Mutex
	records map[string]*models.TenantState

	loadErr error
	saveErr error
}

func newFakeTenantStore() *fakeTenantStore {
	return &fakeTenantStore{records: make(map[string]*models.TenantState)}
}

func (s *fakeTenantStore) state(pin string) *models.TenantState {
	st, ok := s.records[pin]
	if !ok {
		st = models.NewTenantState()
		s.records[pin] = st
	}
	return st
}

func (s *fakeTenantStore) LoadState(_ context.Context, pin string) (*models.TenantState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.state(pin), nil
}

func (s *fakeTenantStore) LoadSchemas(_ context.Context, pin string) (map[string]*models.Database, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.state(pin).Databases, nil
}

func (s *fakeTenantStore) SaveSchemas(_ context.Context, pin string, dbs map[string]*models.Database) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.state(pin).Databases = dbs
	return nil
}

func (s *fakeTenantStore) LoadDocs(_ context.Context, pin string) (map[string]*models.DocFolder, map[string]*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, nil, s.loadErr
	}
	st := s.state(pin)
	return st.Folders, st.Documents, nil
}

func (s *fakeTenantStore) SaveDocs(_ context.Context, pin string, folders map[string]*models.DocFolder, documents map[string]*models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	st := s.state(pin)
	st.Folders = folders
	st.Documents = documents
	return nil
}

type fakeShareStore struct {
	mu     sync.Mutex
	shares map[string]*models.DocShare
}

func newFakeShareStore() *fakeShareStore {
	return &fakeShareStore{shares: make(map[string]*models.DocShare)}
}

func (s *fakeShareStore) Put(_ context.Context, share *models.DocShare) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shares[share.ID] = share
	return nil
}

func (s *fakeShareStore) Get(_ context.Context, token string) (*models.DocShare, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	share, ok := s.shares[token]
	if !ok {
		return nil, fmt.Errorf("%w: share token %s", apperrors.ErrNotFound, token)
	}
	return share, nil
}

// newTestRouter wires the handlers onto the same paths the route
// registrars use, backed by in-memory stores.
func newTestRouter(store *fakeTenantStore, shares *fakeShareStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	schemaService := services.NewSchemaService()
	duplicateService := services.NewDuplicateService()
	docsService := services.NewDocsService()
	shareService := services.NewShareService()
	searchService := services.NewSearchService()

	databaseHandler := NewDatabaseHandler(store, schemaService, duplicateService, logger)
	tableHandler := NewTableHandler(store, schemaService, logger)
	linkHandler := NewLinkHandler(store, schemaService, logger)
	docsHandler := NewDocsHandler(store, docsService, logger)
	shareHandler := NewShareHandler(store, shares, docsService, shareService, logger)
	searchHandler := NewSearchHandler(store, searchService, logger)
	sessionHandler := NewSessionHandler()

	router := gin.New()
	api := router.Group("/api")

	api.POST("/session", sessionHandler.Start)
	api.GET("/state", middlewares.RequirePin, databaseHandler.GetState)
	api.GET("/search", middlewares.RequirePin, searchHandler.Search)

	databases := api.Group("/databases")
	databases.Use(middlewares.RequirePin)
	{
		databases.POST("", databaseHandler.CreateDatabase)
		databases.PATCH("/:dbID", databaseHandler.UpdateDatabase)
		databases.DELETE("/:dbID", databaseHandler.DeleteDatabase)
		databases.POST("/:dbID/duplicate", databaseHandler.DuplicateDatabase)

		databases.POST("/:dbID/tables", tableHandler.CreateTable)
		databases.PATCH("/:dbID/tables/:tableID", tableHandler.UpdateTable)
		databases.DELETE("/:dbID/tables/:tableID", tableHandler.DeleteTable)

		databases.POST("/:dbID/tables/:tableID/columns", tableHandler.CreateColumn)
		databases.PATCH("/:dbID/tables/:tableID/columns/:columnID", tableHandler.UpdateColumn)
		databases.DELETE("/:dbID/tables/:tableID/columns/:columnID", tableHandler.DeleteColumn)

		databases.POST("/:dbID/links", linkHandler.CreateLink)
		databases.PATCH("/:dbID/links/:linkID", linkHandler.UpdateLink)
		databases.DELETE("/:dbID/links/:linkID", linkHandler.DeleteLink)
	}

	docs := api.Group("/docs")
	docs.Use(middlewares.RequirePin)
	{
		docs.GET("/state", docsHandler.GetDocsState)

		docs.POST("/folders", docsHandler.CreateFolder)
		docs.PATCH("/folders/:folderID", docsHandler.UpdateFolder)
		docs.DELETE("/folders/:folderID", docsHandler.DeleteFolder)
		docs.POST("/folders/:folderID/share", shareHandler.ShareFolder)

		docs.POST("", docsHandler.CreateDocument)
		docs.GET("/:docID", docsHandler.GetDocument)
		docs.PATCH("/:docID", docsHandler.UpdateDocument)
		docs.DELETE("/:docID", docsHandler.DeleteDocument)
		docs.POST("/:docID/share", shareHandler.ShareDocument)

		docs.GET("/:docID/notes", docsHandler.GetNotes)
		docs.POST("/:docID/notes", docsHandler.AddNote)
		docs.DELETE("/:docID/notes/:noteID", docsHandler.DeleteNote)
	}

	shared := api.Group("/shared")
	{
		shared.GET("/d/:token", shareHandler.GetSharedDocument)
		shared.POST("/d/:token/:docID/notes", shareHandler.AddSharedNote)

		shared.GET("/f/:token/state", shareHandler.GetSharedState)
		shared.GET("/f/:token/d/:docID", shareHandler.GetSharedFolderDocument)
		shared.GET("/f/:token/f/:folderID", shareHandler.GetSharedSubFolder)

		shared.GET("/resolve/:token/doc/:docID", shareHandler.ResolveShared)
	}

	return router
}

// doRequest performs one request against the router. A non-empty pin is
// sent in the workspace header; body may be nil.
func doRequest(t *testing.T, router *gin.Engine, method, path, pin string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if pin != "" {
		req.Header.Set(middlewares.PinHeader, pin)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodeData unmarshals the envelope's data field into out.
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, "success", envelope.Status)
	if out != nil {
		require.NoError(t, json.Unmarshal(envelope.Data, out))
	}
}
