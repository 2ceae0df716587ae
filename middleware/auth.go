package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cardtavern/storefront/auth"
)

const identityContextKey = "identity"

// RequireAuth rejects requests without a valid bearer token and stores
// the caller's identity in the request context.
func RequireAuth(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		identity, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(identityContextKey, identity)
		c.Next()
	}
}

// OptionalAuth stores the identity when a valid token is present but
// lets anonymous requests through. The cart listing uses this: an
// unauthenticated caller sees an empty cart, not an error.
func OptionalAuth(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			if identity, err := tokens.Parse(strings.TrimPrefix(header, "Bearer ")); err == nil {
				c.Set(identityContextKey, identity)
			}
		}
		c.Next()
	}
}

// GetIdentity returns the authenticated identity, if any.
func GetIdentity(c *gin.Context) (auth.Identity, bool) {
	val, ok := c.Get(identityContextKey)
	if !ok {
		return auth.Identity{}, false
	}
	identity, ok := val.(auth.Identity)
	return identity, ok && !identity.IsZero()
}
