package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/surdiana/userhub/internal/constants"
	apperrors "github.com/surdiana/userhub/internal/errors"
	"github.com/surdiana/userhub/internal/response"
	"github.com/surdiana/userhub/pkg/logger"
	"go.uber.org/zap"
)

// BearerToken extracts the raw token from the Authorization header and
// stores it in the request context. A missing or malformed header is an
// Unauthorized failure; signature and expiry checks happen later in the
// service, which reports InvalidToken instead.
func BearerToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.GetLogger().Warn("Missing Authorization header",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
			)
			response.Fail(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			logger.GetLogger().Warn("Malformed Authorization header",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
			)
			response.Fail(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		c.Set(constants.CtxKeyToken, parts[1])
		c.Next()
	}
}

// TokenFromContext returns the bearer token stored by BearerToken.
func TokenFromContext(c *gin.Context) string {
	return c.GetString(constants.CtxKeyToken)
}
