package readings

import "time"

// BloodSugarReading is a single glucose measurement in mg/dL
type BloodSugarReading struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	Glucose     int       `json:"glucose"`
	ReadingTime time.Time `json:"reading_time"`
	MealType    string    `json:"meal_type"`
	Notes       *string   `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// WeightReading is a single weight measurement in kg
type WeightReading struct {
	ID         int       `json:"id"`
	UserID     int       `json:"user_id"`
	Weight     float64   `json:"weight"`
	RecordedAt time.Time `json:"recorded_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// BloodPressureReading is a single blood pressure measurement in mmHg
type BloodPressureReading struct {
	ID         int       `json:"id"`
	UserID     int       `json:"user_id"`
	Systolic   int       `json:"systolic"`
	Diastolic  int       `json:"diastolic"`
	Pulse      *int      `json:"pulse,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateBloodSugarRequest is the payload for recording a glucose reading
type CreateBloodSugarRequest struct {
	Glucose     int        `json:"glucose" binding:"required,gt=0,lt=1000"`
	MealType    string     `json:"meal_type" binding:"required,oneof=before_breakfast after_breakfast before_lunch after_lunch before_dinner after_dinner bedtime"`
	ReadingTime *time.Time `json:"reading_time,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

// CreateWeightRequest is the payload for recording a weight reading
type CreateWeightRequest struct {
	Weight     float64    `json:"weight" binding:"required,gt=0,lt=1000"`
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
}

// CreateBloodPressureRequest is the payload for recording a blood pressure reading
type CreateBloodPressureRequest struct {
	Systolic   int        `json:"systolic" binding:"required,gt=0,lt=400"`
	Diastolic  int        `json:"diastolic" binding:"required,gt=0,lt=300"`
	Pulse      *int       `json:"pulse,omitempty" binding:"omitempty,gt=0,lt=300"`
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
}

// ListResponse wraps a paginated list of readings
type ListResponse[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"total_count"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
}
