package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"diatrack/internal/session"
)

func newGuardedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RouteGuard())

	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	r.GET("/", ok)
	r.GET("/health", ok)
	r.GET("/auth/login", ok)
	r.GET("/auth/register", ok)
	r.GET("/dashboard", ok)
	r.GET("/profile", ok)
	r.GET("/api/readings/blood-sugar", ok)
	r.GET("/static/app.css", ok)
	return r
}

func guardRequest(t *testing.T, r *gin.Engine, path string, withCookie bool) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if withCookie {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "whatever"})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouteGuard_ProtectedWithoutCookie(t *testing.T) {
	r := newGuardedRouter()

	for _, path := range []string{"/dashboard", "/profile"} {
		w := guardRequest(t, r, path, false)
		if w.Code != http.StatusFound {
			t.Errorf("%s: expected 302, got %d", path, w.Code)
		}
		if loc := w.Header().Get("Location"); loc != "/auth/login" {
			t.Errorf("%s: expected redirect to /auth/login, got %q", path, loc)
		}
	}
}

func TestRouteGuard_AuthPageWithCookie(t *testing.T) {
	r := newGuardedRouter()

	for _, path := range []string{"/auth/login", "/auth/register"} {
		w := guardRequest(t, r, path, true)
		if w.Code != http.StatusFound {
			t.Errorf("%s: expected 302, got %d", path, w.Code)
		}
		if loc := w.Header().Get("Location"); loc != "/dashboard" {
			t.Errorf("%s: expected redirect to /dashboard, got %q", path, loc)
		}
	}
}

func TestRouteGuard_ProtectedWithCookiePassesThrough(t *testing.T) {
	r := newGuardedRouter()

	// The guard checks presence only; even a garbage cookie gets through,
	// validity is the resolver's problem.
	w := guardRequest(t, r, "/dashboard", true)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestRouteGuard_AuthPageWithoutCookie(t *testing.T) {
	r := newGuardedRouter()

	w := guardRequest(t, r, "/auth/login", false)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestRouteGuard_NeutralPathsAllowed(t *testing.T) {
	r := newGuardedRouter()

	for _, withCookie := range []bool{false, true} {
		w := guardRequest(t, r, "/", withCookie)
		if w.Code != http.StatusOK {
			t.Errorf("/ (cookie=%v): expected 200, got %d", withCookie, w.Code)
		}
	}
}

func TestRouteGuard_ExemptPaths(t *testing.T) {
	r := newGuardedRouter()

	// API and assets never redirect, with or without a cookie
	for _, path := range []string{"/api/readings/blood-sugar", "/static/app.css", "/health"} {
		for _, withCookie := range []bool{false, true} {
			w := guardRequest(t, r, path, withCookie)
			if w.Code != http.StatusOK {
				t.Errorf("%s (cookie=%v): expected 200, got %d", path, withCookie, w.Code)
			}
		}
	}
}
