// Package medications implements the medication list and intake logs.
package medications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"diatrack/internal/database"
)

// ErrMedicationNotFound is returned when a medication does not exist or
// belongs to another user
var ErrMedicationNotFound = errors.New("medication not found")

// Repository handles all database operations for medications
type Repository struct {
	db database.Service
}

// NewRepository creates a new medications repository
func NewRepository(db database.Service) *Repository {
	return &Repository{db: db}
}

// Create inserts a new medication for the user
func (r *Repository) Create(ctx context.Context, userID int, req CreateMedicationRequest) (*Medication, error) {
	query := `
		INSERT INTO medications (user_id, name, dosage, frequency)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, name, dosage, frequency, is_active, created_at
	`

	med := &Medication{}
	err := r.db.QueryRow(ctx, query, userID, req.Name, req.Dosage, req.Frequency).Scan(
		&med.ID,
		&med.UserID,
		&med.Name,
		&med.Dosage,
		&med.Frequency,
		&med.IsActive,
		&med.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create medication: %w", err)
	}

	return med, nil
}

// List returns the user's medications, active ones first, newest first within
// each group. includeInactive adds medications that have been deactivated.
func (r *Repository) List(ctx context.Context, userID int, includeInactive bool) ([]Medication, error) {
	query := `
		SELECT id, user_id, name, dosage, frequency, is_active, created_at
		FROM medications
		WHERE user_id = $1 AND (is_active OR $2)
		ORDER BY is_active DESC, created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list medications: %w", err)
	}
	defer rows.Close()

	meds := make([]Medication, 0)
	for rows.Next() {
		var med Medication
		if err := rows.Scan(
			&med.ID,
			&med.UserID,
			&med.Name,
			&med.Dosage,
			&med.Frequency,
			&med.IsActive,
			&med.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan medication: %w", err)
		}
		meds = append(meds, med)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read medication rows: %w", err)
	}

	return meds, nil
}

// Update applies a partial update to a medication owned by the user
func (r *Repository) Update(ctx context.Context, userID, id int, req UpdateMedicationRequest) (*Medication, error) {
	query := `
		UPDATE medications
		SET name = COALESCE($1, name),
		    dosage = COALESCE($2, dosage),
		    frequency = COALESCE($3, frequency),
		    is_active = COALESCE($4, is_active)
		WHERE id = $5 AND user_id = $6
		RETURNING id, user_id, name, dosage, frequency, is_active, created_at
	`

	med := &Medication{}
	err := r.db.QueryRow(ctx, query, req.Name, req.Dosage, req.Frequency, req.IsActive, id, userID).Scan(
		&med.ID,
		&med.UserID,
		&med.Name,
		&med.Dosage,
		&med.Frequency,
		&med.IsActive,
		&med.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMedicationNotFound
		}
		return nil, fmt.Errorf("failed to update medication: %w", err)
	}

	return med, nil
}

// Delete removes a medication owned by the user. Logs cascade.
func (r *Repository) Delete(ctx context.Context, userID, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM medications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete medication: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMedicationNotFound
	}

	return nil
}

// LogIntake records a dose against a medication owned by the user
func (r *Repository) LogIntake(ctx context.Context, userID, medicationID int, req LogIntakeRequest) (*MedicationLog, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM medications WHERE id = $1 AND user_id = $2)`,
		medicationID, userID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check medication ownership: %w", err)
	}
	if !exists {
		return nil, ErrMedicationNotFound
	}

	taken := true
	if req.Taken != nil {
		taken = *req.Taken
	}
	takenAt := time.Now()
	if req.TakenAt != nil {
		takenAt = *req.TakenAt
	}

	query := `
		INSERT INTO medication_logs (user_id, medication_id, taken_at, taken, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, medication_id, taken_at, taken, notes
	`

	entry := &MedicationLog{}
	err = r.db.QueryRow(ctx, query, userID, medicationID, takenAt, taken, req.Notes).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.MedicationID,
		&entry.TakenAt,
		&entry.Taken,
		&entry.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to log medication intake: %w", err)
	}

	return entry, nil
}

// ListLogs returns the intake history for one medication, newest first
func (r *Repository) ListLogs(ctx context.Context, userID, medicationID, page, pageSize int) ([]MedicationLog, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM medications WHERE id = $1 AND user_id = $2)`,
		medicationID, userID,
	).Scan(&exists)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to check medication ownership: %w", err)
	}
	if !exists {
		return nil, 0, ErrMedicationNotFound
	}

	var totalCount int64
	err = r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM medication_logs WHERE user_id = $1 AND medication_id = $2`,
		userID, medicationID,
	).Scan(&totalCount)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count medication logs: %w", err)
	}

	query := `
		SELECT id, user_id, medication_id, taken_at, taken, notes
		FROM medication_logs
		WHERE user_id = $1 AND medication_id = $2
		ORDER BY taken_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query, userID, medicationID, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list medication logs: %w", err)
	}
	defer rows.Close()

	logs := make([]MedicationLog, 0, pageSize)
	for rows.Next() {
		var entry MedicationLog
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.MedicationID,
			&entry.TakenAt,
			&entry.Taken,
			&entry.Notes,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan medication log: %w", err)
		}
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read medication log rows: %w", err)
	}

	return logs, totalCount, nil
}
