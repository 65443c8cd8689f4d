package guard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/api"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/internal/storage"
)

func TestMiddleware_LoadingSessionAnswers503(t *testing.T) {
	t.Parallel()

	local, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { local.Close() })

	ctx := context.Background()
	require.NoError(t, local.Set(ctx, "token", "pending"))

	// not bootstrapped yet, so the session is still loading
	s := session.New(ctx, api.NewClient("http://127.0.0.1:1"), local)
	require.True(t, s.State().Loading)

	e := echo.New()
	e.GET("/profile", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, Default().Middleware(s))

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestMiddleware_AllowPassesThrough(t *testing.T) {
	t.Parallel()

	local, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { local.Close() })

	s := session.New(context.Background(), api.NewClient("http://127.0.0.1:1"), local)
	s.Bootstrap(context.Background())

	e := echo.New()
	e.GET("/auth", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, Default().Middleware(s))

	req := httptest.NewRequest(http.MethodGet, "/auth", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
