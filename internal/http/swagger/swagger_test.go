package swagger_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/store-ledger/internal/http/swagger"
)

func TestRegister(t *testing.T) {
	r := chi.NewRouter()
	require.NoError(t, swagger.Register(r))

	t.Run("Should serve the UI titled after the contract", func(t *testing.T) {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, swagger.URL, nil))

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, resp.Body.String(), "<title>Store Ledger API</title>")
		assert.Contains(t, resp.Body.String(), "openapi.yml")
	})

	t.Run("Should serve the contract", func(t *testing.T) {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, swagger.SpecURL, nil))

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Header().Get("Content-Type"), "application/yaml")
		assert.Contains(t, resp.Body.String(), "/products")
	})
}
