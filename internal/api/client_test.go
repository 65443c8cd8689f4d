package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_BearerHeaderLifecycle(t *testing.T) {
	t.Parallel()

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{}})
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL)
	ctx := context.Background()

	_, _ = c.Profile(ctx)
	assert.Empty(t, gotAuth, "no header before a token is set")

	c.SetToken("T")
	_, _ = c.Profile(ctx)
	assert.Equal(t, "Bearer T", gotAuth)

	c.ClearToken()
	_, _ = c.Profile(ctx)
	assert.Empty(t, gotAuth, "header removed after clear")
}

func TestClient_RequestIDAttached(t *testing.T) {
	t.Parallel()

	var rid string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid = r.Header.Get("X-Request-ID")
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{}})
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL)
	_, _ = c.Profile(context.Background())
	assert.NotEmpty(t, rid)
}

func TestListProducts_FilterQueryEncoding(t *testing.T) {
	t.Parallel()

	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
			"products":   []any{},
			"pagination": map[string]any{"page": 2, "limit": 5, "total": 0, "totalPages": 0},
		}})
	}))
	t.Cleanup(srv.Close)

	featured := true
	minPrice := 10.5
	maxPrice := 99.0

	c := NewClient(srv.URL)
	_, pagination, err := c.ListProducts(context.Background(), ProductFilter{
		Categories: []string{"c1", "c2"},
		Featured:   &featured,
		MinPrice:   &minPrice,
		MaxPrice:   &maxPrice,
		Sort:       SortPriceDesc,
		Page:       2,
		Limit:      5,
	})
	require.NoError(t, err)

	assert.Equal(t, "c1,c2", got.Get("category"))
	assert.Equal(t, "true", got.Get("featured"))
	assert.Equal(t, "10.5", got.Get("minPrice"))
	assert.Equal(t, "99", got.Get("maxPrice"))
	assert.Equal(t, "price_desc", got.Get("sort"))
	assert.Equal(t, "2", got.Get("page"))
	assert.Equal(t, "5", got.Get("limit"))
	assert.Equal(t, 2, pagination.Page)
}

func TestListProducts_DefaultsAndOmissions(t *testing.T) {
	t.Parallel()

	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
			"products":   []any{},
			"pagination": map[string]any{},
		}})
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL)
	_, _, err := c.ListProducts(context.Background(), ProductFilter{})
	require.NoError(t, err)

	assert.Equal(t, "1", got.Get("page"))
	assert.Equal(t, "20", got.Get("limit"))
	assert.False(t, got.Has("category"))
	assert.False(t, got.Has("featured"))
	assert.False(t, got.Has("minPrice"))
	assert.False(t, got.Has("maxPrice"))
	assert.False(t, got.Has("sort"))
}

func TestGetProduct_NotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "product not found"})
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL)
	product, err := c.GetProduct(context.Background(), "nope")

	require.Error(t, err)
	assert.Nil(t, product)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetProduct_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/p%201", r.URL.EscapedPath())
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
			"id":     "p 1",
			"name":   "Widget",
			"price":  9.99,
			"images": []string{"a.png", "b.png"},
		}})
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL)
	product, err := c.GetProduct(context.Background(), "p 1")
	require.NoError(t, err)

	assert.Equal(t, "Widget", product.Name)
	assert.Equal(t, "a.png", product.Image())
}

func TestError_MessageFromBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL)
	_, _, err := c.Login(context.Background(), "a@b.com", "pw")

	require.Error(t, err)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestError_UnusableBodyFallsBackToStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>oops</html>"))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL)
	_, _, err := c.Login(context.Background(), "a@b.com", "pw")

	require.Error(t, err)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Empty(t, apiErr.Message)
}

func TestClient_ContextCancellationAborts(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	c := NewClient(srv.URL)
	_, err := c.Profile(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
