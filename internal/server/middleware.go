package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// identityHeader carries an explicit caller identity. Absent that, the
// client IP stands in, and "anon" is the last resort.
const identityHeader = "X-User-ID"

const identityContextKey = "identity"

// identity resolves the caller identity for the request and stores it in
// the gin context for handlers and the rate limiter.
func (s *Server) identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(identityHeader)
		if id == "" {
			id = c.ClientIP()
		}
		if id == "" {
			id = "anon"
		}
		c.Set(identityContextKey, id)
		c.Next()
	}
}

// identityFrom returns the identity resolved by the identity middleware.
func identityFrom(c *gin.Context) string {
	return c.GetString(identityContextKey)
}

// rateLimit enforces the per-identity daily generation quota. Rejected
// requests get a 429 carrying the UTC reset boundary.
func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := identityFrom(c)
		if !s.limiter.Allow(id) {
			reset := s.limiter.ResetBoundary()
			s.log.Warn("daily generation limit exceeded", "identity", id)
			c.Header("X-RateLimit-Reset", reset.Format(time.RFC3339))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":    "daily generation limit exceeded",
				"reason":   reasonRateLimited,
				"reset_at": reset.Format(time.RFC3339),
			})
			return
		}
		c.Next()
	}
}

// requestLogger logs one line per request with method, path, status, and
// latency.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		)
	}
}
