package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireFinanceAccess lets through only callers whose role is in allowedRoles.
// Roles compare case-insensitively. It must run after AuthMiddleware.
func RequireFinanceAccess(allowedRoles []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, role := range allowedRoles {
		role = strings.ToLower(strings.TrimSpace(role))
		if role != "" {
			allowed[role] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())
		actor, ok := GetActorFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		if _, ok := allowed[strings.ToLower(actor.Role)]; !ok {
			logger.Warn("Finance access denied", slog.String("role", actor.Role))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Finance access required"})
			return
		}
		c.Next()
	}
}
