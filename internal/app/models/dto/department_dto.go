package dto

// CreateDepartmentRequest represents department creation data
type CreateDepartmentRequest struct {
	Name             string `json:"name" binding:"required,max=100" example:"Computer Science"`
	Description      string `json:"description,omitempty"`
	HeadOfDepartment string `json:"headOfDepartment,omitempty" binding:"omitempty,max=100" example:"Dr. Grace Hopper"`
}

// UpdateDepartmentRequest is a partial update, nil fields are left untouched
type UpdateDepartmentRequest struct {
	Name             *string `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Description      *string `json:"description,omitempty"`
	HeadOfDepartment *string `json:"headOfDepartment,omitempty" binding:"omitempty,max=100"`
}

// DepartmentFilter narrows department listings by name
type DepartmentFilter struct {
	Name string `form:"name" binding:"omitempty,max=100"`
}
