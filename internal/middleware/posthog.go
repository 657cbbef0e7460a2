package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/cims_finance/internal/utils"
	"github.com/gin-gonic/gin"
)

// routesToSkip contains route patterns that should not be tracked by PostHog
var routesToSkip = map[string]bool{
	"/health":       true,
	"/swagger/*any": true,
}

// PosthogMiddleware creates a Gin middleware handler that tracks API events with PostHog
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip if PostHog is not initialized or the route is in the skip list
		if posthogClient == nil || !posthogClient.IsInitialized() || routesToSkip[c.FullPath()] {
			c.Next()
			return
		}

		// Process request first
		c.Next()

		// Skip if there was an error processing the request
		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		actor, exists := GetActorFromContext(c)
		if !exists {
			return
		}

		// Event name from the route path, e.g. "/api/v1/finance/transfer" -> "api_v1_finance_transfer"
		eventName := strings.TrimPrefix(c.FullPath(), "/")
		eventName = strings.ReplaceAll(eventName, "/", "_")

		// Skip if event name is empty (e.g., for 404s)
		if eventName == "" {
			return
		}

		// Prepare event properties
		props := map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": c.Writer.Status(),
			"role":        actor.Role,
		}

		// Add route parameters if any
		if len(c.Params) > 0 {
			params := make(map[string]string)
			for _, param := range c.Params {
				params[param.Key] = param.Value
			}
			props["params"] = params
		}

		// Send event to PostHog
		posthogClient.Enqueue(actor.UserID, eventName, props)
	}
}
