package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// CorrelationIDHeader carries the request correlation id end to end
	CorrelationIDHeader = "X-Correlation-ID"

	// CorrelationIDKey is the context key the correlation id is stored under
	CorrelationIDKey = "correlation_id"
)

// CorrelationID accepts the caller's correlation id or mints one, echoes it on
// the response, and parks it on the context for handlers and logs.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(CorrelationIDHeader)
		if id == "" {
			id = uuid.New().String()
		}

		c.Header(CorrelationIDHeader, id)
		c.Set(CorrelationIDKey, id)
		c.Next()
	}
}

// GetCorrelationID returns the request's correlation id, or "" when the
// middleware has not run.
func GetCorrelationID(c *gin.Context) string {
	if v, exists := c.Get(CorrelationIDKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
