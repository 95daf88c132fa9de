package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"diatrack/internal/database"
)

// setupTestDB starts a throwaway Postgres container, applies migrations and
// returns a database service plus a seeded user id.
func setupTestDB(t *testing.T) (database.Service, int) {
	t.Helper()

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("diatrack_test"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, database.RunMigrations(dsn))

	db, err := database.NewWithDSN(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var userID int
	err = db.QueryRow(ctx,
		`INSERT INTO users (email, name, password_hash) VALUES ($1, $2, $3) RETURNING id`,
		"a@x.com", "A", "not-a-real-hash",
	).Scan(&userID)
	require.NoError(t, err)

	return db, userID
}

func TestStore_CreateAndFind(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db, userID := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	token, err := store.Create(ctx, userID)
	require.NoError(t, err)
	require.Len(t, token, 64)

	auth, err := store.Find(ctx, token)
	require.NoError(t, err)
	require.Equal(t, userID, auth.User.ID)
	require.Equal(t, "a@x.com", auth.User.Email)
	require.Equal(t, "A", auth.User.Name)
	require.Equal(t, token, auth.Session.Token)
	require.WithinDuration(t, time.Now().Add(TTL), auth.Session.ExpiresAt, time.Minute)
}

func TestStore_FindUnknownToken(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db, _ := setupTestDB(t)
	store := NewStore(db)

	_, err := store.Find(context.Background(), GenerateToken())
	require.ErrorIs(t, err, ErrNoSession)
}

func TestStore_FindExpiredToken(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db, userID := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	// Insert an expired row directly; the row exists but must not resolve
	token := GenerateToken()
	_, err := db.Exec(ctx,
		`INSERT INTO sessions (user_id, session_token, expires_at) VALUES ($1, $2, $3)`,
		userID, token, time.Now().Add(-time.Hour),
	)
	require.NoError(t, err)

	_, err = store.Find(ctx, token)
	require.ErrorIs(t, err, ErrNoSession)

	// Read-time filtering must not have deleted the row
	var count int
	err = db.QueryRow(ctx,
		`SELECT COUNT(*) FROM sessions WHERE session_token = $1`, token,
	).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestStore_DeleteIsIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db, userID := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	token, err := store.Create(ctx, userID)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, token))

	_, err = store.Find(ctx, token)
	require.ErrorIs(t, err, ErrNoSession)

	// Second delete of the same token is harmless
	require.NoError(t, store.Delete(ctx, token))
}

func TestStore_DeleteExpired(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db, userID := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	live, err := store.Create(ctx, userID)
	require.NoError(t, err)

	_, err = db.Exec(ctx,
		`INSERT INTO sessions (user_id, session_token, expires_at) VALUES ($1, $2, $3)`,
		userID, GenerateToken(), time.Now().Add(-time.Hour),
	)
	require.NoError(t, err)

	purged, err := store.DeleteExpired(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, purged)

	// Live session survives the purge
	_, err = store.Find(ctx, live)
	require.NoError(t, err)
}

func TestStore_MultipleSessionsPerUser(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db, userID := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	first, err := store.Create(ctx, userID)
	require.NoError(t, err)
	second, err := store.Create(ctx, userID)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	// Logging out one device leaves the other session intact
	require.NoError(t, store.Delete(ctx, first))

	_, err = store.Find(ctx, first)
	require.ErrorIs(t, err, ErrNoSession)
	_, err = store.Find(ctx, second)
	require.NoError(t, err)
}
