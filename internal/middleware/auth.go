package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/tenant-scheduler/internal/auth"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/logger"
)

const (
	ContextUserID     = "userID"
	ContextBusinessID = "businessID"
	ContextUserRole   = "userRole"
)

type TokenVerifier interface {
	Parse(token string) (auth.Identity, error)
}

// AuthMiddleware verifies the bearer token and places the caller
// identity into the gin context.
func AuthMiddleware(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Abort(c, httperr.CodeUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Abort(c, httperr.CodeUnauthorized)
			return
		}

		id, err := tokens.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			httperr.Abort(c, httperr.CodeUnauthorized)
			return
		}

		c.Set(ContextUserID, id.UserID)
		c.Set(ContextBusinessID, id.BusinessID)
		c.Set(ContextUserRole, id.Role)

		c.Set(logger.ContextLogger, logger.FromContext(c).With(
			zap.Uint("user_id", id.UserID),
			zap.Uint("business_id", id.BusinessID),
		))

		c.Next()
	}
}

// RequireRole lets the request through only for the listed roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextUserRole)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		httperr.Abort(c, httperr.CodeForbidden)
	}
}

// Identity reads what AuthMiddleware stored.
func Identity(c *gin.Context) auth.Identity {
	return auth.Identity{
		UserID:     c.GetUint(ContextUserID),
		BusinessID: c.GetUint(ContextBusinessID),
		Role:       c.GetString(ContextUserRole),
	}
}
