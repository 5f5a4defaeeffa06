package middleware

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// CacheConfig configures ResponseCache.
type CacheConfig struct {
	TTL       time.Duration
	MaxSize   int
	KeyPrefix string
}

type cachedResponse struct {
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// ResponseCache caches successful GET responses in Redis keyed by path and
// query. Only mount it on routes whose responses do not depend on the caller.
func ResponseCache(rdb *redis.Client, cfg CacheConfig, logger *logrus.Logger) gin.HandlerFunc {
	if rdb == nil {
		logger.Warn("Redis client not available, response caching disabled")
		return func(c *gin.Context) { c.Next() }
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "http"
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := responseCacheKey(cfg.KeyPrefix, c.Request)
		ctx := c.Request.Context()

		if data, err := rdb.Get(ctx, key).Bytes(); err == nil {
			var cached cachedResponse
			if err := json.Unmarshal(data, &cached); err == nil {
				c.Header("X-Cache", "HIT")
				c.Data(cached.StatusCode, cached.ContentType, cached.Body)
				c.Abort()
				return
			}
		}

		writer := &cacheWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Header("X-Cache", "MISS")

		c.Next()

		status := writer.Status()
		if !cacheable(status, writer.Header(), writer.body, cfg.MaxSize) {
			return
		}

		data, err := json.Marshal(cachedResponse{
			StatusCode:  status,
			ContentType: writer.Header().Get("Content-Type"),
			Body:        writer.body,
		})
		if err != nil {
			return
		}
		if err := rdb.Set(ctx, key, data, cfg.TTL).Err(); err != nil {
			logger.WithError(err).WithField("cache_key", key).Warn("Failed to cache response")
		}
	}
}

// cacheable reports whether a finished response may be stored. Handlers opt
// out of caching a fallback response with Cache-Control: no-store.
func cacheable(status int, header http.Header, body []byte, maxSize int) bool {
	if status < 200 || status >= 300 || len(body) == 0 {
		return false
	}
	if maxSize > 0 && len(body) > maxSize {
		return false
	}
	return !strings.Contains(header.Get("Cache-Control"), "no-store")
}

// cacheWriter copies the response body while writing it through.
type cacheWriter struct {
	gin.ResponseWriter
	body []byte
}

func (w *cacheWriter) Write(data []byte) (int, error) {
	w.body = append(w.body, data...)
	return w.ResponseWriter.Write(data)
}

func (w *cacheWriter) WriteString(s string) (int, error) {
	w.body = append(w.body, s...)
	return w.ResponseWriter.WriteString(s)
}

func responseCacheKey(prefix string, r *http.Request) string {
	sum := sha1.Sum([]byte(r.URL.Path + "?" + r.URL.RawQuery))
	return fmt.Sprintf("%s:%x", prefix, sum)
}
