package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibespace/internal/middlewares"
)

func TestStartSessionSetsCookie(t *testing.T) {
	rt := newRouterUnderTest()

	w := doRequest(t, rt.engine, http.MethodPost, "/api/session", "", map[string]any{"pin": " 1234 "})
	require.Equal(t, http.StatusOK, w.Code)

	var found bool
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middlewares.PinCookie {
			found = true
			assert.Equal(t, "1234", cookie.Value)
			assert.True(t, cookie.HttpOnly)
		}
	}
	assert.True(t, found, "pin cookie not set")
}

func TestStartSessionRequiresPin(t *testing.T) {
	rt := newRouterUnderTest()

	w := doRequest(t, rt.engine, http.MethodPost, "/api/session", "", map[string]any{"pin": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPinCookieAuthenticates(t *testing.T) {
	rt := newRouterUnderTest()

	req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	req.AddCookie(&http.Cookie{Name: middlewares.PinCookie, Value: "1234"})
	w := httptest.NewRecorder()
	rt.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
