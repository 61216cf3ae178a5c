package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRouterProvider_CollectsRoutes(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/snapshot", okHandler())
	rp.Post("/votes", okHandler())

	routes := rp.GetRoutes()

	require.Len(t, routes, 2)
	assert.Equal(t, "/snapshot", routes[0].Url)
	assert.Equal(t, "/votes", routes[1].Url)
}

func TestRouterProvider_GetRejectsPost(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/snapshot", okHandler())

	req := httptest.NewRequest(http.MethodPost, "/snapshot", nil)
	rec := httptest.NewRecorder()
	rp.GetRoutes()[0].Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouterProvider_PostRejectsGet(t *testing.T) {
	rp := NewRouterProvider()
	rp.Post("/votes", okHandler())

	req := httptest.NewRequest(http.MethodGet, "/votes", nil)
	rec := httptest.NewRecorder()
	rp.GetRoutes()[0].Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouterProvider_MatchingMethodPasses(t *testing.T) {
	rp := NewRouterProvider()
	rp.Post("/votes", okHandler())

	req := httptest.NewRequest(http.MethodPost, "/votes", nil)
	rec := httptest.NewRecorder()
	rp.GetRoutes()[0].Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
