package models

import "time"

// Department represents an academic department
type Department struct {
	ID               int64     `json:"id" db:"id" example:"1"`
	Name             string    `json:"name" db:"name" example:"Computer Science"`
	Description      string    `json:"description" db:"description"`
	HeadOfDepartment string    `json:"headOfDepartment" db:"head_of_department" example:"Dr. Grace Hopper"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`
}
