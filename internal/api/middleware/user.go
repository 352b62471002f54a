package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// UserIDHeader carries the authenticated user's id, set by the edge
	// proxy after session validation
	UserIDHeader = "X-User-ID"

	// UserIDKey is the context key the resolved user id is stored under
	UserIDKey = "user_id"
)

// UserResolutionMiddleware requires a valid user id header on every request
// and parks it on the context for handlers. Session validation itself happens
// upstream; a request without the header never reaches a handler.
func UserResolutionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(UserIDHeader)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "UNAUTHORIZED", "message": "Missing " + UserIDHeader + " header"},
			})
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "UNAUTHORIZED", "message": "Invalid " + UserIDHeader + " header"},
			})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// GetUserID retrieves the resolved user id from the gin context. Returns
// uuid.Nil when the middleware has not run.
func GetUserID(c *gin.Context) uuid.UUID {
	if v, exists := c.Get(UserIDKey); exists {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
