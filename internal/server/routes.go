package server

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"diatrack/internal/session"
	"diatrack/internal/web"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true, // Cookie-carried sessions
	}))

	r.Use(RouteGuard())

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/dashboard")
	})
	r.GET("/health", s.healthHandler)
	r.StaticFS("/static", web.Static())

	api := r.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", s.auth.Register)
			authRoutes.POST("/login", s.auth.Login)
			authRoutes.POST("/logout", s.auth.Logout)
			authRoutes.GET("/me", s.auth.Me)
			authRoutes.POST("/request-verification", session.RequireAPI(s.sessions), s.auth.RequestVerification)
			authRoutes.POST("/verify-email", session.RequireAPI(s.sessions), s.auth.VerifyEmail)
		}

		readingsRoutes := api.Group("/readings", session.RequireAPI(s.sessions))
		s.readings.RegisterRoutes(readingsRoutes)

		medicationRoutes := api.Group("/medications", session.RequireAPI(s.sessions))
		s.medications.RegisterRoutes(medicationRoutes)
	}

	// Server-rendered pages. The guard has already bounced the obvious
	// cases; RequirePage re-checks against the store.
	r.GET("/auth/login", s.web.LoginPage)
	r.GET("/auth/register", s.web.RegisterPage)
	r.GET("/dashboard", session.RequirePage(s.sessions), s.web.DashboardPage)
	r.GET("/profile", session.RequirePage(s.sessions), s.web.ProfilePage)

	return r
}

func (s *Server) healthHandler(c *gin.Context) {
	redisHealth := map[string]string{"status": "up"}
	if err := s.codes.Ping(c.Request.Context()); err != nil {
		redisHealth["status"] = "down"
		redisHealth["error"] = err.Error()
	}

	c.JSON(http.StatusOK, gin.H{
		"database": s.db.Health(),
		"redis":    redisHealth,
	})
}

func corsOrigins() []string {
	raw := getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	origins := strings.Split(raw, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return origins
}
