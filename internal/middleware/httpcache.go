package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const httpCacheKeyPrefix = "cw:httpcache:"

// HTTPCacheOptions configures the shared response cache.
type HTTPCacheOptions struct {
	TTL time.Duration
	// Paths is the whitelist of public GET paths whose responses may be
	// shared between callers. Anything else passes through untouched.
	Paths   []string
	Disable bool
}

type cachedHTTPResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type cacheBodyWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *cacheBodyWriter) Write(data []byte) (int, error) {
	w.buf.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *cacheBodyWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// HTTPCache serves whitelisted public GET endpoints from Redis. Responses
// are cached only on a 200, keyed by path and raw query.
func HTTPCache(rdb *redis.Client, opts HTTPCacheOptions) gin.HandlerFunc {
	if opts.TTL <= 0 {
		opts.TTL = 15 * time.Second
	}
	allowed := make(map[string]bool, len(opts.Paths))
	for _, p := range opts.Paths {
		allowed[p] = true
	}

	return func(c *gin.Context) {
		if opts.Disable || c.Request.Method != http.MethodGet || !allowed[c.Request.URL.Path] {
			c.Next()
			return
		}

		key := fmt.Sprintf("%s%s?%s", httpCacheKeyPrefix, c.Request.URL.Path, c.Request.URL.RawQuery)
		ctx := c.Request.Context()

		if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
			var cached cachedHTTPResponse
			if json.Unmarshal(raw, &cached) == nil && cached.Status == http.StatusOK {
				c.Data(cached.Status, cached.ContentType, cached.Body)
				c.Abort()
				return
			}
		}

		writer := &cacheBodyWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Next()

		if writer.Status() != http.StatusOK {
			return
		}
		cached := cachedHTTPResponse{
			Status:      writer.Status(),
			ContentType: writer.Header().Get("Content-Type"),
			Body:        writer.buf.Bytes(),
		}
		if raw, err := json.Marshal(cached); err == nil {
			rdb.Set(ctx, key, raw, opts.TTL)
		}
	}
}
