package middleware

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipe-share/backend/internal/cache"
)

type bodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CachePage serves GET responses from pages and stores successful ones,
// keyed by request path.
func CachePage(pages cache.PageCache, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.URL.Path
		body, ok, err := pages.Get(c.Request.Context(), key)
		if err != nil {
			log.Warn("page cache read failed", zap.String("key", key), zap.Error(err))
		}
		if ok {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			c.Abort()
			return
		}

		c.Header("X-Cache", "MISS")
		gen, err := pages.Generation(c.Request.Context())
		if err != nil {
			log.Warn("page cache generation read failed", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		w := &bodyWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = w
		c.Next()

		if w.Status() != http.StatusOK {
			return
		}
		// a mutation that landed while rendering makes this body stale
		stored, err := pages.SetAt(c.Request.Context(), key, w.body.Bytes(), gen)
		if err != nil {
			log.Warn("page cache write failed", zap.String("key", key), zap.Error(err))
			return
		}
		if !stored {
			log.Debug("page changed while rendering, not cached", zap.String("key", key))
		}
	}
}
