package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"slice-url/internal/entities"
	"slice-url/internal/jwt"
	"slice-url/internal/models"
)

// UserIDKey is the gin context key holding the caller's user id.
const UserIDKey = "user_id"

// AnonymousHeader marks requests that create links without an account.
const AnonymousHeader = "anonymous"

// AuthMiddleware verifies the bearer token and stores the caller id in the context
func AuthMiddleware(jwtService *jwt.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, token, found := strings.Cut(c.GetHeader("Authorization"), " ")
		if !found || scheme != "Bearer" || strings.TrimSpace(token) == "" {
			abort(c, http.StatusUnauthorized, "Authorization token is required")
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			abort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}

// AnonymousMiddleware lets a request through as the anonymous creator when it carries
// the anonymous header
func AnonymousMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(AnonymousHeader) == "" {
			abort(c, http.StatusBadRequest, "Invalid request.")
			return
		}

		c.Set(UserIDKey, entities.AnonymousCreator)
		c.Next()
	}
}

// GetUserID returns the caller id set by AuthMiddleware or AnonymousMiddleware
func GetUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(UserIDKey)
	return userID, userID != ""
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, models.Failure(status, message))
}
