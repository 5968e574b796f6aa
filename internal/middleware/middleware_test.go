package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/animula-auth/internal/logging"
)

func TestExtractBearer(t *testing.T) {
	tests := map[string]string{
		"":                 "",
		"Bearer abc.def":   "abc.def",
		"bearer abc.def":   "abc.def",
		"  Bearer   tok  ": "tok",
		"Basic dXNlcjpwdw": "",
		"Bearer":           "",
		"abc.def":          "",
	}
	for header, want := range tests {
		assert.Equal(t, want, ExtractBearer(header), "header %q", header)
	}
}

func TestBearerToken_StoresToken(t *testing.T) {
	e := echo.New()
	var got string
	h := BearerToken()(func(c echo.Context) error {
		got = AccessToken(c)
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer t0k")
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	assert.Equal(t, "t0k", got)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	assert.Empty(t, got)
}

func TestRequestLogger_DoesNotLogAuthorization(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(logging.New(&buf, "text", "info")))
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer secret-token")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	out := buf.String()
	assert.Contains(t, out, "path=/ping")
	assert.Contains(t, out, "status=200")
	assert.NotContains(t, out, "secret-token")
}
