package models

import "time"

// Lecturer defines the lecturer model based on the 'lecturers' table
type Lecturer struct {
	ID             int64     `json:"id" db:"id" example:"1"`
	ProfileID      int64     `json:"profileId" db:"profile_id" example:"7"`
	EmployeeID     string    `json:"employeeId" db:"employee_id" example:"EMP-0042"`
	Specialization string    `json:"specialization" db:"specialization" example:"Distributed Systems"`
	Bio            *string   `json:"bio,omitempty" db:"bio"`
	OfficeLocation *string   `json:"officeLocation,omitempty" db:"office_location" example:"B-204"`
	PhoneNumber    *string   `json:"phoneNumber,omitempty" db:"phone_number"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Profile *Profile  `json:"profile,omitempty"`
	Courses []*Course `json:"courses,omitempty"`
}
