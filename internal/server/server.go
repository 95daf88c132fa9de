// Package server assembles the gin engine and the HTTP server around it.
package server

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"diatrack/internal/auth"
	"diatrack/internal/database"
	"diatrack/internal/medications"
	"diatrack/internal/readings"
	"diatrack/internal/session"
	"diatrack/internal/web"
)

// Server holds the dependencies for the HTTP server
type Server struct {
	db       database.Service
	codes    auth.CodeStore
	sessions session.Manager

	auth        *auth.Handler
	readings    *readings.Handler
	medications *medications.Handler
	web         *web.Handler
}

// Config holds server configuration
type Config struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// LoadConfigFromEnv loads server configuration from environment variables
func LoadConfigFromEnv() *Config {
	port, _ := strconv.Atoi(getEnv("PORT", "8080"))

	return &Config{
		Port:         port,
		ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:  getEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
	}
}

// NewServer wires the handlers into an HTTP server ready to listen
func NewServer(
	db database.Service,
	codes auth.CodeStore,
	sessions session.Manager,
	authHandler *auth.Handler,
	readingsHandler *readings.Handler,
	medicationsHandler *medications.Handler,
	webHandler *web.Handler,
) *http.Server {
	cfg := LoadConfigFromEnv()

	appServer := &Server{
		db:          db,
		codes:       codes,
		sessions:    sessions,
		auth:        authHandler,
		readings:    readingsHandler,
		medications: medicationsHandler,
		web:         webHandler,
	}

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           appServer.RegisterRoutes(),
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
