package models

import "time"

// Course represents a course offered by a department.
type Course struct {
	ID           int64     `json:"id" db:"id" example:"1"`
	Title        string    `json:"title" db:"title" example:"Operating Systems"`
	Description  string    `json:"description" db:"description"`
	Credits      int       `json:"credits" db:"credits" example:"4"`
	Duration     string    `json:"duration" db:"duration" example:"16 weeks"`
	StartDate    time.Time `json:"startDate" db:"start_date"`
	EndDate      time.Time `json:"endDate" db:"end_date"`
	DepartmentID *int64    `json:"departmentId,omitempty" db:"department_id"` // NULL once the department is deleted
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Students []*Student `json:"students,omitempty"`
}
