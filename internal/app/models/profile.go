package models

import "time"

// Profile is the account record every student, lecturer and admin hangs off.
type Profile struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	FirstName string    `json:"firstName" db:"first_name" example:"Ada"`
	LastName  string    `json:"lastName" db:"last_name" example:"Lovelace"`
	Email     string    `json:"email" db:"email" example:"ada@uni.edu"`
	Password  string    `json:"-" db:"password"` // bcrypt hash, never serialized
	Role      Role      `json:"role" db:"role" example:"GUEST"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// FullName returns "First Last"
func (p *Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}
