// Package web serves the server-rendered page shells. All data on the pages
// is loaded by the browser through the JSON API; the templates only need the
// authenticated user.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"diatrack/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Static returns the embedded browser assets rooted at static/
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// Handler renders the HTML pages
type Handler struct {
	tmpl *template.Template
}

// NewHandler parses the embedded templates
func NewHandler() *Handler {
	return &Handler{
		tmpl: template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

// LoginPage handles GET /auth/login
func (h *Handler) LoginPage(c *gin.Context) {
	h.render(c, "login", nil)
}

// RegisterPage handles GET /auth/register
func (h *Handler) RegisterPage(c *gin.Context) {
	h.render(c, "register", nil)
}

// DashboardPage handles GET /dashboard
func (h *Handler) DashboardPage(c *gin.Context) {
	auth, ok := session.AuthFromContext(c)
	if !ok {
		c.Redirect(http.StatusFound, "/auth/login")
		return
	}
	h.render(c, "dashboard", auth)
}

// ProfilePage handles GET /profile
func (h *Handler) ProfilePage(c *gin.Context) {
	auth, ok := session.AuthFromContext(c)
	if !ok {
		c.Redirect(http.StatusFound, "/auth/login")
		return
	}
	h.render(c, "profile", auth)
}

func (h *Handler) render(c *gin.Context, name string, data any) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := h.tmpl.ExecuteTemplate(c.Writer, name, data); err != nil {
		log.Printf("Failed to render %s page: %v", name, err)
	}
}
