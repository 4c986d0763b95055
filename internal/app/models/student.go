package models

import "time"

// Student defines the student model based on the 'students' table
type Student struct {
	ID             int64     `json:"id" db:"id" example:"1"`
	ProfileID      int64     `json:"profileId" db:"profile_id" example:"5"`
	EnrollmentDate time.Time `json:"enrollmentDate" db:"enrollment_date" example:"2024-09-01T00:00:00Z"`
	DegreeProgram  *string   `json:"degreeProgram,omitempty" db:"degree_program" example:"Computer Science"`
	GPA            *float64  `json:"gpa,omitempty" db:"gpa" example:"3.5"`
	DepartmentID   *int64    `json:"departmentId,omitempty" db:"department_id" example:"2"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Profile *Profile  `json:"profile,omitempty"`
	Courses []*Course `json:"courses,omitempty"`
}
