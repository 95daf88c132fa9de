// Package database provides the PostgreSQL connection pool and schema
// migrations shared by all repositories.
package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
)

// Service defines the interface for database operations used by repositories
type Service interface {
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	Health() map[string]string
	Close() error
}

type service struct {
	pool *pgxpool.Pool
}

var (
	database = os.Getenv("DB_DATABASE")
	password = os.Getenv("DB_PASSWORD")
	username = os.Getenv("DB_USERNAME")
	port     = os.Getenv("DB_PORT")
	host     = os.Getenv("DB_HOST")
	sslmode  = os.Getenv("DB_SSLMODE")
)

// DSN builds the connection string from environment variables
func DSN() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		username, password, host, port, database, sslmode)
}

// New creates a new database service backed by a pgx connection pool
func New() Service {
	s, err := NewWithDSN(DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return s
}

// NewWithDSN creates a database service for the given connection string
func NewWithDSN(dsn string) (Service, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	if maxConns, err := strconv.Atoi(os.Getenv("DB_MAX_CONNS")); err == nil && maxConns > 0 {
		poolConfig.MaxConns = int32(maxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &service{pool: pool}, nil
}

func (s *service) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	return s.pool.QueryRow(ctx, query, args...)
}

func (s *service) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	return s.pool.Query(ctx, query, args...)
}

func (s *service) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	return s.pool.Exec(ctx, query, args...)
}

// Health returns the health status and basic pool statistics
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	stats := make(map[string]string)

	if err := s.pool.Ping(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = err.Error()
		return stats
	}

	poolStats := s.pool.Stat()
	stats["status"] = "up"
	stats["total_conns"] = strconv.Itoa(int(poolStats.TotalConns()))
	stats["idle_conns"] = strconv.Itoa(int(poolStats.IdleConns()))
	stats["acquired_conns"] = strconv.Itoa(int(poolStats.AcquiredConns()))

	return stats
}

func (s *service) Close() error {
	s.pool.Close()
	return nil
}
