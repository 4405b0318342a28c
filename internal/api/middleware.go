package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/legacy-vault-api/internal/auth"
	"github.com/legacy-vault-api/internal/config"
	"github.com/legacy-vault-api/internal/models"
	"github.com/legacy-vault-api/internal/service"
	"github.com/rs/zerolog"
)

// userContextKey is the gin context key for the authenticated user
const userContextKey = "currentUser"

// authMiddleware verifies the bearer token and loads the authenticated user
// into the request context.
func authMiddleware(services *service.Services, cfg *config.Config, log zerolog.Logger) gin.HandlerFunc {
	secret := []byte(cfg.Auth.JWTSecret)

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or malformed authorization header"})
			return
		}

		userID, err := auth.UserIDFromToken(strings.TrimPrefix(header, "Bearer "), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		user, err := services.User.Get(c.Request.Context(), userID)
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("Token references unknown user")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// authorize restricts a route to a single role
func authorize(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil || user.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}

// currentUser returns the authenticated user set by authMiddleware
func currentUser(c *gin.Context) *models.User {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}
