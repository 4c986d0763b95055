package dto

// CreateStudentRequest represents student registration data
type CreateStudentRequest struct {
	ProfileID      int64    `json:"profileId" binding:"required,gt=0" example:"5"`
	EnrollmentDate string   `json:"enrollmentDate" binding:"required,datetime=2006-01-02" example:"2024-09-01"`
	DegreeProgram  *string  `json:"degreeProgram,omitempty" binding:"omitempty,max=100" example:"Computer Science"`
	GPA            *float64 `json:"gpa,omitempty" binding:"omitempty,gte=0,lte=4" example:"3.5"`
	DepartmentID   *int64   `json:"departmentId,omitempty" binding:"omitempty,gt=0" example:"2"`
}

// UpdateStudentRequest is a partial update, nil fields are left untouched
type UpdateStudentRequest struct {
	EnrollmentDate *string  `json:"enrollmentDate,omitempty" binding:"omitempty,datetime=2006-01-02"`
	DegreeProgram  *string  `json:"degreeProgram,omitempty" binding:"omitempty,max=100"`
	GPA            *float64 `json:"gpa,omitempty" binding:"omitempty,gte=0,lte=4"`
	DepartmentID   *int64   `json:"departmentId,omitempty" binding:"omitempty,gt=0"`
}

// NameFilter narrows student and lecturer listings by first or last name
type NameFilter struct {
	Name string `form:"name" binding:"omitempty,max=100"`
}
