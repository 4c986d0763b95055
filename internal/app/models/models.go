package models

import "strings"

// Role is the coarse role stored on a profile. It feeds the ability factory.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleFaculty Role = "FACULTY"
	RoleStudent Role = "STUDENT"
	RoleGuest   Role = "GUEST"
)

// DefaultRole is assigned to profiles created without an explicit role
const DefaultRole = RoleGuest

// Roles lists every valid role
var Roles = []Role{RoleAdmin, RoleFaculty, RoleStudent, RoleGuest}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// ParseRole normalises a role string; ok is false for unknown roles.
func ParseRole(value string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(value)))
	return r, r.Valid()
}
