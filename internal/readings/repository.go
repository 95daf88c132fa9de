// Package readings implements blood sugar, weight and blood pressure logs.
package readings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"diatrack/internal/database"
)

// ErrReadingNotFound is returned when a reading does not exist or belongs to
// another user
var ErrReadingNotFound = errors.New("reading not found")

// Repository handles all database operations for readings
type Repository struct {
	db database.Service
}

// NewRepository creates a new readings repository
func NewRepository(db database.Service) *Repository {
	return &Repository{db: db}
}

func clampPage(page, pageSize int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize, (page - 1) * pageSize
}

func orNow(t *time.Time) time.Time {
	if t != nil {
		return *t
	}
	return time.Now()
}

// CreateBloodSugar inserts a new glucose reading
func (r *Repository) CreateBloodSugar(ctx context.Context, userID int, req CreateBloodSugarRequest) (*BloodSugarReading, error) {
	query := `
		INSERT INTO blood_sugar_readings (user_id, glucose, reading_time, meal_type, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, glucose, reading_time, meal_type, notes, created_at
	`

	reading := &BloodSugarReading{}
	err := r.db.QueryRow(ctx, query, userID, req.Glucose, orNow(req.ReadingTime), req.MealType, req.Notes).Scan(
		&reading.ID,
		&reading.UserID,
		&reading.Glucose,
		&reading.ReadingTime,
		&reading.MealType,
		&reading.Notes,
		&reading.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create blood sugar reading: %w", err)
	}

	return reading, nil
}

// ListBloodSugar returns the user's glucose readings, newest first
func (r *Repository) ListBloodSugar(ctx context.Context, userID, page, pageSize int) ([]BloodSugarReading, int64, error) {
	page, pageSize, offset := clampPage(page, pageSize)

	var totalCount int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM blood_sugar_readings WHERE user_id = $1`, userID,
	).Scan(&totalCount)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count blood sugar readings: %w", err)
	}

	query := `
		SELECT id, user_id, glucose, reading_time, meal_type, notes, created_at
		FROM blood_sugar_readings
		WHERE user_id = $1
		ORDER BY reading_time DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list blood sugar readings: %w", err)
	}
	defer rows.Close()

	items := make([]BloodSugarReading, 0, pageSize)
	for rows.Next() {
		var reading BloodSugarReading
		if err := rows.Scan(
			&reading.ID,
			&reading.UserID,
			&reading.Glucose,
			&reading.ReadingTime,
			&reading.MealType,
			&reading.Notes,
			&reading.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan blood sugar reading: %w", err)
		}
		items = append(items, reading)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read blood sugar rows: %w", err)
	}

	return items, totalCount, nil
}

// DeleteBloodSugar removes a glucose reading owned by the user
func (r *Repository) DeleteBloodSugar(ctx context.Context, userID, id int) error {
	return r.deleteOwned(ctx, "blood_sugar_readings", userID, id)
}

// CreateWeight inserts a new weight reading
func (r *Repository) CreateWeight(ctx context.Context, userID int, req CreateWeightRequest) (*WeightReading, error) {
	query := `
		INSERT INTO weight_readings (user_id, weight, recorded_at)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, weight, recorded_at, created_at
	`

	reading := &WeightReading{}
	err := r.db.QueryRow(ctx, query, userID, req.Weight, orNow(req.RecordedAt)).Scan(
		&reading.ID,
		&reading.UserID,
		&reading.Weight,
		&reading.RecordedAt,
		&reading.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create weight reading: %w", err)
	}

	return reading, nil
}

// ListWeight returns the user's weight readings, newest first
func (r *Repository) ListWeight(ctx context.Context, userID, page, pageSize int) ([]WeightReading, int64, error) {
	page, pageSize, offset := clampPage(page, pageSize)

	var totalCount int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM weight_readings WHERE user_id = $1`, userID,
	).Scan(&totalCount)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count weight readings: %w", err)
	}

	query := `
		SELECT id, user_id, weight, recorded_at, created_at
		FROM weight_readings
		WHERE user_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list weight readings: %w", err)
	}
	defer rows.Close()

	items := make([]WeightReading, 0, pageSize)
	for rows.Next() {
		var reading WeightReading
		if err := rows.Scan(
			&reading.ID,
			&reading.UserID,
			&reading.Weight,
			&reading.RecordedAt,
			&reading.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan weight reading: %w", err)
		}
		items = append(items, reading)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read weight rows: %w", err)
	}

	return items, totalCount, nil
}

// DeleteWeight removes a weight reading owned by the user
func (r *Repository) DeleteWeight(ctx context.Context, userID, id int) error {
	return r.deleteOwned(ctx, "weight_readings", userID, id)
}

// CreateBloodPressure inserts a new blood pressure reading
func (r *Repository) CreateBloodPressure(ctx context.Context, userID int, req CreateBloodPressureRequest) (*BloodPressureReading, error) {
	query := `
		INSERT INTO blood_pressure_readings (user_id, systolic, diastolic, pulse, recorded_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, systolic, diastolic, pulse, recorded_at, created_at
	`

	reading := &BloodPressureReading{}
	err := r.db.QueryRow(ctx, query, userID, req.Systolic, req.Diastolic, req.Pulse, orNow(req.RecordedAt)).Scan(
		&reading.ID,
		&reading.UserID,
		&reading.Systolic,
		&reading.Diastolic,
		&reading.Pulse,
		&reading.RecordedAt,
		&reading.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create blood pressure reading: %w", err)
	}

	return reading, nil
}

// ListBloodPressure returns the user's blood pressure readings, newest first
func (r *Repository) ListBloodPressure(ctx context.Context, userID, page, pageSize int) ([]BloodPressureReading, int64, error) {
	page, pageSize, offset := clampPage(page, pageSize)

	var totalCount int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM blood_pressure_readings WHERE user_id = $1`, userID,
	).Scan(&totalCount)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count blood pressure readings: %w", err)
	}

	query := `
		SELECT id, user_id, systolic, diastolic, pulse, recorded_at, created_at
		FROM blood_pressure_readings
		WHERE user_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list blood pressure readings: %w", err)
	}
	defer rows.Close()

	items := make([]BloodPressureReading, 0, pageSize)
	for rows.Next() {
		var reading BloodPressureReading
		if err := rows.Scan(
			&reading.ID,
			&reading.UserID,
			&reading.Systolic,
			&reading.Diastolic,
			&reading.Pulse,
			&reading.RecordedAt,
			&reading.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan blood pressure reading: %w", err)
		}
		items = append(items, reading)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read blood pressure rows: %w", err)
	}

	return items, totalCount, nil
}

// DeleteBloodPressure removes a blood pressure reading owned by the user
func (r *Repository) DeleteBloodPressure(ctx context.Context, userID, id int) error {
	return r.deleteOwned(ctx, "blood_pressure_readings", userID, id)
}

// deleteOwned deletes a row scoped to its owner. Scoping the DELETE by
// user_id means a foreign id resolves to "not found" rather than leaking
// another user's data.
func (r *Repository) deleteOwned(ctx context.Context, table string, userID, id int) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, table)

	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrReadingNotFound
	}

	return nil
}
