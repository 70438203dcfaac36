package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/likeboard/domain"
)

// UserIDKey is the gin context key holding the resolved int64 user id
const UserIDKey = "user_id"

// AuthMiddleware rejects requests without a valid bearer token
func AuthMiddleware(resolver domain.IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization header required"})
			return
		}

		uid, err := resolver.ResolveUser(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		c.Set(UserIDKey, uid)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves the caller when a token is present and
// otherwise lets the request through as anonymous.
func OptionalAuthMiddleware(resolver domain.IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if uid, err := resolver.ResolveUser(c.Request.Context(), token); err == nil {
				c.Set(UserIDKey, uid)
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if header == "" || token == header || token == "" {
		return "", false
	}
	return token, true
}
