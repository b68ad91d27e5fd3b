package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"critichub/internal/models"
	"critichub/internal/repository"
	"critichub/internal/token"
)

const identityKey = "identity"

// Identify resolves an optional bearer token into the caller's identity.
// Anonymous requests pass through with no identity set; the access control
// engine downstream decides whether that is acceptable. A token that is
// present but invalid is rejected here with 401, even on read endpoints.
func Identify(issuer token.Issuer, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		// Format: "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"kind": "unauthenticated", "error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := issuer.Verify(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"kind": "unauthenticated", "error": "invalid token"})
			c.Abort()
			return
		}

		// Role and flags come from the stored record, not the token, so a
		// role change applies immediately instead of at token expiry.
		user, err := userRepo.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"kind": "unauthenticated", "error": "unknown identity"})
			c.Abort()
			return
		}

		c.Set(identityKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated identity or nil for anonymous
// callers.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(identityKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}
