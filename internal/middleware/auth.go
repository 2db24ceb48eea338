package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/auth"
	"reviewhub/internal/models"
	"reviewhub/internal/repository"
)

// PrincipalKey is the gin context key the authenticated user is stored under.
const PrincipalKey = "principal"

// Authenticate resolves the request's principal. Requests without an
// Authorization header pass through anonymously (read endpoints are public);
// a present but invalid bearer token is rejected with 401. The user row is
// loaded fresh so role changes apply to tokens minted before them.
func Authenticate(tokens *auth.TokenManager, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		// Extract token (format: "Bearer <token>")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := tokens.Validate(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		user, err := userRepo.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(PrincipalKey, user)
		c.Next()
	}
}

// Principal returns the authenticated user from the gin context, nil for
// anonymous requests.
func Principal(c *gin.Context) *models.User {
	value, exists := c.Get(PrincipalKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}
