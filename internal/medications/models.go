package medications

import "time"

// Medication is a drug the user takes on a schedule
type Medication struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Name      string    `json:"name"`
	Dosage    string    `json:"dosage"`
	Frequency string    `json:"frequency"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// MedicationLog records one intake (or skipped dose) of a medication
type MedicationLog struct {
	ID           int       `json:"id"`
	UserID       int       `json:"user_id"`
	MedicationID int       `json:"medication_id"`
	TakenAt      time.Time `json:"taken_at"`
	Taken        bool      `json:"taken"`
	Notes        *string   `json:"notes,omitempty"`
}

// CreateMedicationRequest is the payload for adding a medication
type CreateMedicationRequest struct {
	Name      string `json:"name" binding:"required,max=200"`
	Dosage    string `json:"dosage" binding:"required,max=100"`
	Frequency string `json:"frequency" binding:"required,max=100"`
}

// UpdateMedicationRequest is a partial update; nil fields are left unchanged
type UpdateMedicationRequest struct {
	Name      *string `json:"name" binding:"omitempty,max=200"`
	Dosage    *string `json:"dosage" binding:"omitempty,max=100"`
	Frequency *string `json:"frequency" binding:"omitempty,max=100"`
	IsActive  *bool   `json:"is_active"`
}

// LogIntakeRequest is the payload for recording a dose
type LogIntakeRequest struct {
	Taken   *bool      `json:"taken"`
	TakenAt *time.Time `json:"taken_at"`
	Notes   *string    `json:"notes"`
}

// LogListResponse is a paginated page of medication logs
type LogListResponse struct {
	Items      []MedicationLog `json:"items"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
}
