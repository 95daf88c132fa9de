package medications

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
// returns a database service plus two seeded user ids.
func setupTestDB(t *testing.T) (database.Service, int, int) {
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

	seedUser := func(email string) int {
		var id int
		err := db.QueryRow(ctx,
			`INSERT INTO users (email, name, password_hash) VALUES ($1, $2, $3) RETURNING id`,
			email, "Test", "not-a-real-hash",
		).Scan(&id)
		require.NoError(t, err)
		return id
	}

	return db, seedUser("a@x.com"), seedUser("b@x.com")
}

func TestRepository_CreateAndList(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db, userID, otherID := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	med, err := repo.Create(ctx, userID, CreateMedicationRequest{
		Name:      "Metformin",
		Dosage:    "500mg",
		Frequency: "twice daily",
	})
	require.NoError(t, err)
	require.Equal(t, userID, med.UserID)
	require.True(t, med.IsActive)

	// Listing is scoped to the owner
	meds, err := repo.List(ctx, userID, false)
	require.NoError(t, err)
	require.Len(t, meds, 1)
	require.Equal(t, "Metformin", meds[0].Name)

	meds, err = repo.List(ctx, otherID, false)
	require.NoError(t, err)
	require.Empty(t, meds)
}

func TestRepository_UpdateDeactivates(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db, userID, _ := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	med, err := repo.Create(ctx, userID, CreateMedicationRequest{
		Name:      "Insulin",
		Dosage:    "10 units",
		Frequency: "before meals",
	})
	require.NoError(t, err)

	inactive := false
	updated, err := repo.Update(ctx, userID, med.ID, UpdateMedicationRequest{IsActive: &inactive})
	require.NoError(t, err)
	require.False(t, updated.IsActive)
	require.Equal(t, "Insulin", updated.Name)

	// Default listing hides deactivated medications
	meds, err := repo.List(ctx, userID, false)
	require.NoError(t, err)
	require.Empty(t, meds)

	meds, err = repo.List(ctx, userID, true)
	require.NoError(t, err)
	require.Len(t, meds, 1)
}

func TestRepository_UpdateForeignMedication(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db, userID, otherID := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	med, err := repo.Create(ctx, userID, CreateMedicationRequest{
		Name:      "Lisinopril",
		Dosage:    "10mg",
		Frequency: "daily",
	})
	require.NoError(t, err)

	name := "stolen"
	_, err = repo.Update(ctx, otherID, med.ID, UpdateMedicationRequest{Name: &name})
	require.ErrorIs(t, err, ErrMedicationNotFound)
}

func TestRepository_DeleteCascadesLogs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db, userID, _ := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	med, err := repo.Create(ctx, userID, CreateMedicationRequest{
		Name:      "Atorvastatin",
		Dosage:    "20mg",
		Frequency: "nightly",
	})
	require.NoError(t, err)

	_, err = repo.LogIntake(ctx, userID, med.ID, LogIntakeRequest{})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, userID, med.ID))
	require.ErrorIs(t, repo.Delete(ctx, userID, med.ID), ErrMedicationNotFound)

	var count int
	err = db.QueryRow(ctx,
		`SELECT COUNT(*) FROM medication_logs WHERE medication_id = $1`, med.ID,
	).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

func TestRepository_LogIntakeAndListLogs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db, userID, otherID := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	med, err := repo.Create(ctx, userID, CreateMedicationRequest{
		Name:      "Metformin",
		Dosage:    "500mg",
		Frequency: "twice daily",
	})
	require.NoError(t, err)

	// Defaults: taken now
	entry, err := repo.LogIntake(ctx, userID, med.ID, LogIntakeRequest{})
	require.NoError(t, err)
	require.True(t, entry.Taken)
	require.WithinDuration(t, time.Now(), entry.TakenAt, time.Minute)

	skipped := false
	notes := "felt nauseous"
	yesterday := time.Now().Add(-24 * time.Hour)
	entry, err = repo.LogIntake(ctx, userID, med.ID, LogIntakeRequest{
		Taken:   &skipped,
		TakenAt: &yesterday,
		Notes:   &notes,
	})
	require.NoError(t, err)
	require.False(t, entry.Taken)
	require.NotNil(t, entry.Notes)

	logs, total, err := repo.ListLogs(ctx, userID, med.ID, 1, 20)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, logs, 2)
	// Newest first
	require.True(t, logs[0].TakenAt.After(logs[1].TakenAt))

	// Logging against someone else's medication is rejected
	_, err = repo.LogIntake(ctx, otherID, med.ID, LogIntakeRequest{})
	require.ErrorIs(t, err, ErrMedicationNotFound)

	_, _, err = repo.ListLogs(ctx, otherID, med.ID, 1, 20)
	require.ErrorIs(t, err, ErrMedicationNotFound)
}
