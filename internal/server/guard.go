package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"diatrack/internal/session"
)

// Path classifications for the route guard. Prefix matching mirrors the page
// layout: everything under a protected prefix needs a session indicator.
var (
	protectedPrefixes = []string{"/dashboard", "/profile", "/readings", "/medications"}
	authPrefixes      = []string{"/auth/login", "/auth/register"}

	// Paths the guard never touches: API routes enforce auth per-handler and
	// a redirect is meaningless for static assets.
	exemptPrefixes = []string{"/api/", "/static/", "/images/", "/public/", "/favicon.ico", "/health"}
)

// RouteGuard is the presence-only fast filter applied to every request before
// it reaches application logic. It checks only that a session indicator is
// carried, never its validity; stale cookies pass here and are rejected by
// the session resolver deeper in the stack.
func RouteGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		if hasPrefix(path, exemptPrefixes) {
			c.Next()
			return
		}

		hasIndicator := session.TokenFromRequest(c) != ""

		switch {
		case hasIndicator && hasPrefix(path, authPrefixes):
			c.Redirect(http.StatusFound, "/dashboard")
			c.Abort()
		case !hasIndicator && hasPrefix(path, protectedPrefixes):
			c.Redirect(http.StatusFound, "/auth/login")
			c.Abort()
		default:
			c.Next()
		}
	}
}

func hasPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
