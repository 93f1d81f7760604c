package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shareloop/service-sharing/internal/metrics"
)

// HeaderSharerID is the trusted caller-identity header.
const HeaderSharerID = "X-Sharer-User-Id"

const (
	headerRequestID = "X-Request-Id"
	ctxKeyRequestID = "request_id"
	ctxKeySharerID  = "sharer_id"
)

// RecoveryMiddleware recovers from panics and responds with 500.
func RecoveryMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(500, gin.H{"error": "internal server error"})
			}
		}()
		c.Next()
	}
}

// LoggerMiddleware logs one structured line per request.
func LoggerMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(ctxKeyRequestID)),
		)
	}
}

// RequestIDMiddleware assigns a request id, honoring one supplied upstream.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(ctxKeyRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

// MetricsMiddleware counts requests by method, route template and status.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.IncHTTP(c.Request.Method, route, strconv.Itoa(c.Writer.Status()))
	}
}

// IdentityMiddleware parses the X-Sharer-User-Id header when present and
// stores the caller id in the request context. Presence is enforced per
// route by the handlers, not here.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderSharerID)
		if raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				c.Set(ctxKeySharerID, id)
			}
		}
		c.Next()
	}
}

// GetSharerID returns the caller id extracted by IdentityMiddleware.
func GetSharerID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ctxKeySharerID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
