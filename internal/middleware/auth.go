package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kanadp40-ctrl/NotifyHealth/internal/models"
)

const identityKey = "identity"

// TokenVerifier turns a bearer token into the identity it asserts.
type TokenVerifier interface {
	Verify(token string) (*models.Identity, error)
}

// AuthMiddleware rejects requests without a valid bearer token and stores
// the verified identity in the context for handlers to use.
func AuthMiddleware(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication token required."})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		identity, err := tokens.Verify(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token."})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// RequireRole only lets identities with the given role through. It must be
// chained after AuthMiddleware; without an identity it answers 401.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication token required."})
			return
		}
		if identity.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden: " + role.Label() + " access required."})
			return
		}
		c.Next()
	}
}

// CurrentIdentity returns the identity stored by AuthMiddleware.
func CurrentIdentity(c *gin.Context) (*models.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	identity, ok := v.(*models.Identity)
	return identity, ok && identity != nil
}
