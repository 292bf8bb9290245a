package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"wealth-tracker/auth"
	"wealth-tracker/logger"
	"wealth-tracker/models"
)

const (
	userKey   = "user"
	userIDKey = "user_id"
)

// UserResolver maps an access token to the application user.
type UserResolver interface {
	ResolveUser(ctx context.Context, accessToken string) (*models.User, error)
}

var _ UserResolver = (*auth.Service)(nil)

func JWTAuth(resolver UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		user, err := resolver.ResolveUser(c.Request.Context(), tokenString)
		switch {
		case errors.Is(err, auth.ErrInvalidToken):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		case errors.Is(err, auth.ErrUserNotFound):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		case err != nil:
			log := logger.FromContext(c.Request.Context())
			log.Error().Err(err).Msg("resolve user")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to authenticate"})
			return
		}

		ctx := c.Request.Context()
		log := logger.WithFields(logger.FromContext(ctx), map[string]interface{}{"user_id": user.ID})
		c.Request = c.Request.WithContext(logger.WithContext(ctx, log))
		c.Set(userKey, user)
		c.Set(userIDKey, user.ID)
		c.Next()
	}
}

// UserID returns the authenticated user's id. It panics outside JWTAuth.
func UserID(c *gin.Context) uint {
	return c.MustGet(userIDKey).(uint)
}

func User(c *gin.Context) *models.User {
	return c.MustGet(userKey).(*models.User)
}
