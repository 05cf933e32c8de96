package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"sermonforge_backend/internal/auth"
	"sermonforge_backend/internal/logger"
	"sermonforge_backend/pkg/apperrors"
)

// AuthMiddleware validates the Bearer token and stores the user ID in the
// gin context under "userID".
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header required"))
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header must be a Bearer token"))
			c.Abort()
			return
		}

		userID, err := auth.ParseAccessToken(parts[1])
		if err != nil {
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}
