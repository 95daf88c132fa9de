package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// Mock store for testing
type mockStore struct {
	findFunc    func(ctx context.Context, token string) (*Auth, error)
	deleteFunc  func(ctx context.Context, token string) error
	findCalls   int
	deleteCalls int
}

func (m *mockStore) Create(ctx context.Context, userID int) (string, error) {
	return GenerateToken(), nil
}

func (m *mockStore) Find(ctx context.Context, token string) (*Auth, error) {
	m.findCalls++
	if m.findFunc != nil {
		return m.findFunc(ctx, token)
	}
	return nil, ErrNoSession
}

func (m *mockStore) Delete(ctx context.Context, token string) error {
	m.deleteCalls++
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, token)
	}
	return nil
}

func (m *mockStore) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

func validAuth(token string) *Auth {
	now := time.Now()
	return &Auth{
		User: User{
			ID:        1,
			Email:     "a@x.com",
			Name:      "A",
			CreatedAt: now,
			UpdatedAt: now,
		},
		Session: Session{
			ID:        1,
			UserID:    1,
			Token:     token,
			ExpiresAt: now.Add(TTL),
			CreatedAt: now,
		},
	}
}

func TestResolve_EmptyTokenSkipsStore(t *testing.T) {
	store := &mockStore{}
	mgr := NewManager(store)

	_, err := mgr.Resolve(context.Background(), "")
	if !errors.Is(err, ErrNoSession) {
		t.Errorf("Expected ErrNoSession, got %v", err)
	}
	if store.findCalls != 0 {
		t.Errorf("Expected no store access for empty token, got %d calls", store.findCalls)
	}
}

func TestResolve_ValidToken(t *testing.T) {
	store := &mockStore{
		findFunc: func(ctx context.Context, token string) (*Auth, error) {
			return validAuth(token), nil
		},
	}
	mgr := NewManager(store)

	auth, err := mgr.Resolve(context.Background(), "some-token")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if auth.User.Email != "a@x.com" {
		t.Errorf("Expected user a@x.com, got %s", auth.User.Email)
	}
}

func TestLogout_EmptyTokenIsNoop(t *testing.T) {
	store := &mockStore{}
	mgr := NewManager(store)

	if err := mgr.Logout(context.Background(), ""); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}
	if store.deleteCalls != 0 {
		t.Errorf("Expected no delete call, got %d", store.deleteCalls)
	}
}

func TestLogout_DeletesSession(t *testing.T) {
	store := &mockStore{}
	mgr := NewManager(store)

	if err := mgr.Logout(context.Background(), "some-token"); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}
	if store.deleteCalls != 1 {
		t.Errorf("Expected one delete call, got %d", store.deleteCalls)
	}
}

func TestRequireAPI_NoCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mgr := NewManager(&mockStore{})
	r := gin.New()
	r.Use(RequireAPI(mgr))
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}

func TestRequireAPI_ValidSession(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := &mockStore{
		findFunc: func(ctx context.Context, token string) (*Auth, error) {
			return validAuth(token), nil
		},
	}
	mgr := NewManager(store)

	r := gin.New()
	r.Use(RequireAPI(mgr))
	r.GET("/test", func(c *gin.Context) {
		auth, ok := AuthFromContext(c)
		if !ok {
			t.Error("Expected auth in context")
			c.JSON(http.StatusInternalServerError, gin.H{})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": auth.User.ID})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "valid-token"})
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestRequireAPI_StoreFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := &mockStore{
		findFunc: func(ctx context.Context, token string) (*Auth, error) {
			return nil, errors.New("connection refused")
		},
	}
	mgr := NewManager(store)

	r := gin.New()
	r.Use(RequireAPI(mgr))
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "some-token"})
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	// Store failures are internal errors, not 401s
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
}

func TestRequirePage_RedirectsToLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mgr := NewManager(&mockStore{})
	r := gin.New()
	r.Use(RequirePage(mgr))
	r.GET("/dashboard", func(c *gin.Context) {
		c.String(http.StatusOK, "dashboard")
	})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Errorf("Expected status 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/auth/login" {
		t.Errorf("Expected redirect to /auth/login, got %s", loc)
	}
}

func TestRequirePage_StaleCookieRedirects(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Cookie is present but the session is gone server-side
	store := &mockStore{
		findFunc: func(ctx context.Context, token string) (*Auth, error) {
			return nil, ErrNoSession
		},
	}
	mgr := NewManager(store)

	r := gin.New()
	r.Use(RequirePage(mgr))
	r.GET("/dashboard", func(c *gin.Context) {
		c.String(http.StatusOK, "dashboard")
	})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "stale-token"})
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Errorf("Expected status 302, got %d", w.Code)
	}
}
