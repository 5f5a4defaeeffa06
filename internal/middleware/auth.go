package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/temcen/cineai/internal/services"
	"github.com/temcen/cineai/pkg/models"
)

const identityKey = "identity"

// TokenValidator checks a bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

func Auth(validator TokenValidator, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Extract token from Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "MISSING_AUTHORIZATION",
					"message": "Authorization header is required",
				},
			})
			c.Abort()
			return
		}

		// Check for Bearer token format
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "INVALID_AUTHORIZATION_FORMAT",
					"message": "Authorization header must be in format 'Bearer <token>'",
				},
			})
			c.Abort()
			return
		}

		claims, err := validator.ValidateToken(tokenParts[1])
		if err != nil {
			logger.WithError(err).Warn("Invalid JWT token")
			code, message := "INVALID_TOKEN", "Invalid or expired token"
			if errors.Is(err, services.ErrSessionExpired) {
				code, message = "SESSION_EXPIRED", "Session has ended, please log in again"
			}
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    code,
					"message": message,
				},
			})
			c.Abort()
			return
		}

		c.Set(identityKey, models.Identity{
			SessionID: claims.SessionID,
			Username:  claims.Username,
			Guest:     claims.Guest,
		})
		c.Next()
	}
}

// GetIdentity returns the caller attached by Auth.
func GetIdentity(c *gin.Context) (models.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return models.Identity{}, false
	}
	identity, ok := v.(models.Identity)
	return identity, ok
}

// SetIdentity attaches identity to the request context.
func SetIdentity(c *gin.Context, identity models.Identity) {
	c.Set(identityKey, identity)
}
