package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminOnly lets through callers whose resolved user id is in ids.
// It must run after AuthMiddleware. An empty list admits nobody.
func AdminOnly(ids []int64) gin.HandlerFunc {
	admins := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		admins[id] = struct{}{}
	}
	return func(c *gin.Context) {
		uid, ok := c.Get(UserIDKey)
		if ok {
			if id, isInt := uid.(int64); isInt {
				if _, allowed := admins[id]; allowed {
					c.Next()
					return
				}
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Admin privileges required"})
	}
}
