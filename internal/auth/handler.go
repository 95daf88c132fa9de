package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"diatrack/internal/session"
)

// Handler handles authentication-related HTTP requests
type Handler struct {
	service  Service
	sessions session.Store
	manager  session.Manager
	verifier *Verifier
}

// NewHandler creates a new authentication handler
func NewHandler(service Service, sessions session.Store, manager session.Manager, verifier *Verifier) *Handler {
	return &Handler{
		service:  service,
		sessions: sessions,
		manager:  manager,
		verifier: verifier,
	}
}

// Register handles POST /api/auth/register.
// Creates the user, opens a session and hands the token to the client as the
// session cookie.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		log.Printf("Failed to register %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
		return
	}

	token, err := h.sessions.Create(c.Request.Context(), user.ID)
	if err != nil {
		log.Printf("Failed to create session for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	session.SetCookie(c, token)

	c.JSON(http.StatusCreated, gin.H{
		"message": "account created",
		"user":    user,
	})
}

// Login handles POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		log.Printf("Failed login for %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log in"})
		return
	}

	token, err := h.sessions.Create(c.Request.Context(), user.ID)
	if err != nil {
		log.Printf("Failed to create session for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	session.SetCookie(c, token)

	c.JSON(http.StatusOK, gin.H{
		"message": "logged in",
		"user":    user,
	})
}

// Logout handles POST /api/auth/logout.
// The cookie is cleared whether or not a matching session record existed.
func (h *Handler) Logout(c *gin.Context) {
	token := session.TokenFromRequest(c)

	if err := h.manager.Logout(c.Request.Context(), token); err != nil {
		log.Printf("Failed to delete session: %v", err)
	}

	session.ClearCookie(c)

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me handles GET /api/auth/me
func (h *Handler) Me(c *gin.Context) {
	auth, err := h.manager.Resolve(c.Request.Context(), session.TokenFromRequest(c))
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		log.Printf("Failed to resolve session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": auth.User})
}

// RequestVerification handles POST /api/auth/request-verification.
// Requires a valid session; emails a short-lived code to the account address.
func (h *Handler) RequestVerification(c *gin.Context) {
	auth, ok := session.AuthFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.verifier.RequestCode(c.Request.Context(), auth.User.Email); err != nil {
		log.Printf("Failed to request verification code for %s: %v", auth.User.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send verification code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "verification code sent to your email"})
}

// VerifyEmail handles POST /api/auth/verify-email
func (h *Handler) VerifyEmail(c *gin.Context) {
	auth, ok := session.AuthFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.verifier.ConfirmCode(c.Request.Context(), auth.User.ID, auth.User.Email, req.Code)
	if err != nil {
		if errors.Is(err, ErrInvalidCode) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid verification code"})
			return
		}
		log.Printf("Failed to verify email for user %d: %v", auth.User.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "email verified"})
}
