package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pageza/recipe-share/backend/internal/cache"
)

func TestCachePage(t *testing.T) {
	pages := cache.NewMemoryCache(time.Minute)
	calls := 0
	router := gin.New()
	router.Use(CachePage(pages, zaptest.NewLogger(t)))
	router.GET("/api/v1/recipes", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"data": []string{}})
	})
	router.GET("/api/v1/recipes/:id", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
	})

	get := func(path string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		return rr
	}

	first := get(cache.ListPath)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	second := get(cache.ListPath)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls)

	require.NoError(t, pages.Invalidate(context.Background(), cache.ListPath))
	assert.Equal(t, "MISS", get(cache.ListPath).Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)

	// error responses are not cached
	get(cache.RecipePath("missing"))
	get(cache.RecipePath("missing"))
	assert.Equal(t, 4, calls)
}

func TestCachePage_SkipsBodyInvalidatedWhileRendering(t *testing.T) {
	pages := cache.NewMemoryCache(time.Minute)
	router := gin.New()
	router.Use(CachePage(pages, zaptest.NewLogger(t)))
	router.GET("/api/v1/recipes", func(c *gin.Context) {
		// an update commits after this list was read
		require.NoError(t, pages.Invalidate(c.Request.Context(), cache.ListPath))
		c.JSON(http.StatusOK, gin.H{"data": []string{"old title"}})
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, cache.ListPath, nil))
	require.Equal(t, http.StatusOK, rr.Code)

	_, ok, err := pages.Get(context.Background(), cache.ListPath)
	require.NoError(t, err)
	assert.False(t, ok)
}
