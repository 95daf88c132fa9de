package session

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

const (
	// CookieName is the name of the session indicator cookie
	CookieName = "session"
	// CookieMaxAge mirrors TTL in seconds for the client-side cookie
	CookieMaxAge = 30 * 24 * 60 * 60
)

// Manager resolves presented session tokens against the store
type Manager interface {
	Resolve(ctx context.Context, token string) (*Auth, error)
	Logout(ctx context.Context, token string) error
}

type manager struct {
	store Store
}

// NewManager creates a new session manager
func NewManager(store Store) Manager {
	return &manager{store: store}
}

// Resolve validates a presented token against the store. An empty token
// short-circuits to ErrNoSession without a store round trip.
func (m *manager) Resolve(ctx context.Context, token string) (*Auth, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	return m.store.Find(ctx, token)
}

// Logout deletes the session bound to the token, if any. It is idempotent:
// an unknown or empty token is not an error.
func (m *manager) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.store.Delete(ctx, token)
}

// secureCookies reports whether the Secure flag should be set; enabled
// outside local development.
func secureCookies() bool {
	return os.Getenv("APP_ENV") == "production"
}

// SetCookie hands the token to the client as the session indicator:
// HttpOnly, SameSite=Lax, Secure in production, Max-Age 30 days, path /.
func SetCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, CookieMaxAge, "/", "", secureCookies(), true)
}

// ClearCookie instructs the client to drop the session indicator
func ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", secureCookies(), true)
}

// TokenFromRequest reads the session indicator carried by the request.
// Returns an empty string when no cookie is present.
func TokenFromRequest(c *gin.Context) string {
	token, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return token
}

// RequireAPI validates the session and injects the authenticated user into
// the gin context. API callers get an explicit 401 rather than a redirect.
func RequireAPI(mgr Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, err := mgr.Resolve(c.Request.Context(), TokenFromRequest(c))
		if err != nil {
			if err != ErrNoSession {
				slog.Error("Session lookup failed", "error", err.Error())
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "internal server error",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized",
			})
			return
		}

		c.Set("auth", auth)
		c.Set("user_id", auth.User.ID)

		c.Next()
	}
}

// RequirePage validates the session for server-rendered views. Unauthenticated
// access is converted into a redirect to the login page; this is the only
// place that turns a missing session into a control transfer.
func RequirePage(mgr Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, err := mgr.Resolve(c.Request.Context(), TokenFromRequest(c))
		if err != nil {
			c.Redirect(http.StatusFound, "/auth/login")
			c.Abort()
			return
		}

		c.Set("auth", auth)
		c.Set("user_id", auth.User.ID)

		c.Next()
	}
}

// AuthFromContext returns the resolved session placed by the middlewares
func AuthFromContext(c *gin.Context) (*Auth, bool) {
	value, exists := c.Get("auth")
	if !exists {
		return nil, false
	}
	auth, ok := value.(*Auth)
	return auth, ok
}
