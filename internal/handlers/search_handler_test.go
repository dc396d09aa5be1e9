package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibespace/internal/models"
	"vibespace/internal/services"
)

func TestSearchRequiresPin(t *testing.T) {
	rt := newRouterUnderTest()
	w := doRequest(t, rt.engine, http.MethodGet, "/api/search?q=x", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSearchAcrossDocsAndSchemas(t *testing.T) {
	rt := newRouterUnderTest()

	w := doRequest(t, rt.engine, http.MethodPost, "/api/docs", "1234", map[string]any{
		"name":    "Deployment Guide",
		"content": "# Rollout\n\nbody\n",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, rt.engine, http.MethodPost, "/api/databases", "1234", map[string]any{"name": "Shop"})
	require.Equal(t, http.StatusCreated, w.Code)
	var db models.Database
	decodeData(t, w, &db)
	w = doRequest(t, rt.engine, http.MethodPost, "/api/databases/"+db.ID+"/tables", "1234", map[string]any{"name": "Users"})
	require.Equal(t, http.StatusCreated, w.Code)

	var payload struct {
		Results []services.SearchResult `json:"results"`
	}

	w = doRequest(t, rt.engine, http.MethodGet, "/api/search?q=deployment", "1234", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &payload)
	require.Len(t, payload.Results, 1)
	assert.Equal(t, "doc", payload.Results[0].Type)

	w = doRequest(t, rt.engine, http.MethodGet, "/api/search?q=users", "1234", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &payload)
	require.Len(t, payload.Results, 1)
	assert.Equal(t, "table", payload.Results[0].Type)

	// another tenant's workspace stays invisible
	w = doRequest(t, rt.engine, http.MethodGet, "/api/search?q=users", "9999", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &payload)
	assert.Empty(t, payload.Results)
}
