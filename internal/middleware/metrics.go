package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/temcen/cineai/internal/services"
)

// RequestRecorder receives per-request measurements.
type RequestRecorder interface {
	RequestStarted()
	RecordRequest(method, route string, status int, duration time.Duration)
	RecordRateLimited(tier string)
}

// Metrics records request counts and latency keyed by the matched route.
func Metrics(recorder RequestRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		recorder.RequestStarted()

		c.Next()

		status := c.Writer.Status()
		recorder.RecordRequest(c.Request.Method, c.FullPath(), status, time.Since(start))

		if status == http.StatusTooManyRequests {
			if identity, ok := GetIdentity(c); ok {
				recorder.RecordRateLimited(services.TierFor(identity))
			}
		}
	}
}
