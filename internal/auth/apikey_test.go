package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, expected string, setHeader func(*http.Request)) int {
	t.Helper()
	e := echo.New()
	e.POST("/admin", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, APIKeyAuth(expected))

	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	if setHeader != nil {
		setHeader(req)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func TestAPIKeyAuth(t *testing.T) {
	const key = "prj_secret"

	tests := []struct {
		name       string
		expected   string
		setHeader  func(*http.Request)
		wantStatus int
	}{
		{"x-api-key header", key, func(r *http.Request) { r.Header.Set("X-API-Key", key) }, http.StatusNoContent},
		{"bearer token", key, func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+key) }, http.StatusNoContent},
		{"missing key", key, nil, http.StatusUnauthorized},
		{"wrong key", key, func(r *http.Request) { r.Header.Set("X-API-Key", "prj_other") }, http.StatusUnauthorized},
		{"basic auth is not accepted", key, func(r *http.Request) { r.SetBasicAuth("admin", key) }, http.StatusUnauthorized},
		{"not configured", "", func(r *http.Request) { r.Header.Set("X-API-Key", "anything") }, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, serve(t, tt.expected, tt.setHeader))
		})
	}
}

func TestGenerateAPIKey(t *testing.T) {
	a, err := GenerateAPIKey()
	require.NoError(t, err)
	b, err := GenerateAPIKey()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(a, "prj_"))
	assert.Len(t, a, len("prj_")+64)
	assert.NotEqual(t, a, b)
}
