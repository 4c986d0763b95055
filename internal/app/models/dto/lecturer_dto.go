package dto

// CreateLecturerRequest represents lecturer registration data
type CreateLecturerRequest struct {
	ProfileID      int64   `json:"profileId" binding:"required,gt=0" example:"7"`
	EmployeeID     string  `json:"employeeId" binding:"required,employeeid,max=50" example:"EMP-0042"`
	Specialization string  `json:"specialization" binding:"required,max=100" example:"Distributed Systems"`
	Bio            *string `json:"bio,omitempty"`
	OfficeLocation *string `json:"officeLocation,omitempty" binding:"omitempty,max=100" example:"B-204"`
	PhoneNumber    *string `json:"phoneNumber,omitempty" binding:"omitempty,phone,max=30"`
}

// UpdateLecturerRequest is a partial update, nil fields are left untouched
type UpdateLecturerRequest struct {
	EmployeeID     *string `json:"employeeId,omitempty" binding:"omitempty,employeeid,max=50"`
	Specialization *string `json:"specialization,omitempty" binding:"omitempty,min=1,max=100"`
	Bio            *string `json:"bio,omitempty"`
	OfficeLocation *string `json:"officeLocation,omitempty" binding:"omitempty,max=100"`
	PhoneNumber    *string `json:"phoneNumber,omitempty" binding:"omitempty,phone,max=30"`
}
