package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"diatrack/internal/auth"
	"diatrack/internal/database"
	"diatrack/internal/email"
	"diatrack/internal/logger"
	"diatrack/internal/medications"
	"diatrack/internal/readings"
	"diatrack/internal/server"
	"diatrack/internal/session"
	"diatrack/internal/web"
)

// expiredSessionSweepInterval controls how often rows past their expiry are
// purged. Expired sessions are already invisible to lookups; the sweep only
// keeps the table from growing without bound.
const expiredSessionSweepInterval = time.Hour

func main() {
	logger.SetDefault(logger.New())

	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	redisPassword := getEnv("REDIS_PASSWORD", "")
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	log.Println("Starting Diatrack...")

	if err := database.RunMigrations(database.DSN()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations applied")

	db := database.New()
	log.Println("Connected to database")

	sessionStore := session.NewStore(db)
	sessionMgr := session.NewManager(sessionStore)

	codeStore := auth.NewRedisCodeStore(redisAddr, redisPassword, redisDB)
	log.Printf("Verification code store: redis at %s", redisAddr)

	emailConfig := email.NewConfig()
	emailSender := email.NewSender(emailConfig)
	log.Printf("Email mode: %s", emailConfig.Mode)

	accountService := auth.NewService(db)
	verifier := auth.NewVerifier(accountService, codeStore, emailSender)
	authHandler := auth.NewHandler(accountService, sessionStore, sessionMgr, verifier)

	readingsHandler := readings.NewHandler(readings.NewRepository(db))
	medicationsHandler := medications.NewHandler(medications.NewRepository(db))
	webHandler := web.NewHandler()

	srv := server.NewServer(db, codeStore, sessionMgr, authHandler, readingsHandler, medicationsHandler, webHandler)

	// Background sweep of expired session rows
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go sweepExpiredSessions(sweepCtx, sessionStore)

	go func() {
		log.Printf("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := db.Close(); err != nil {
		log.Printf("Failed to close database: %v", err)
	}

	log.Println("Stopped")
}

func sweepExpiredSessions(ctx context.Context, store session.Store) {
	ticker := time.NewTicker(expiredSessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged, err := store.DeleteExpired(ctx)
			if err != nil {
				slog.Error("Failed to purge expired sessions", "error", err.Error())
				continue
			}
			if purged > 0 {
				slog.Info("Purged expired sessions", "count", purged)
			}
		}
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
