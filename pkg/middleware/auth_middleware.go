package middleware

import (
	"strings"

	"inventory-service/internal/auth"
	"inventory-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware validates JWT bearer tokens for the write endpoints. A valid
// token whose role cannot write gets 403.
func AuthMiddleware(jwtManager *auth.JWTManager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reject := func(message, details string) {
			logger.Warn("Request rejected by auth",
				zap.String("reason", message),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
			)
			stdErr := errors.NewUnauthorized(message, details)
			c.AbortWithStatusJSON(stdErr.HTTPStatus(), stdErr)
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			reject("missing authorization header", "Header: Authorization")
			return
		}

		scheme, tokenString, ok := strings.Cut(authHeader, " ")
		if !ok || scheme != "Bearer" || tokenString == "" {
			reject("invalid authorization header format", "Expected: Bearer <token>")
			return
		}

		claims, err := jwtManager.ValidateToken(tokenString)
		if err == auth.ErrExpiredToken {
			reject("token expired", "Token has expired, please login again")
			return
		}
		if err != nil {
			reject("invalid token", err.Error())
			return
		}

		if !claims.CanWrite() {
			logger.Warn("Request rejected by role",
				zap.String("username", claims.Username),
				zap.String("role", claims.Role),
				zap.String("path", c.Request.URL.Path),
			)
			stdErr := errors.NewForbidden("insufficient role", "Role: "+claims.Role)
			c.AbortWithStatusJSON(stdErr.HTTPStatus(), stdErr)
			return
		}

		c.Set("username", claims.Username)
		c.Set("role", claims.Role)
		c.Next()
	}
}
