package dto

// CreateCourseRequest represents course creation data
type CreateCourseRequest struct {
	Title        string `json:"title" binding:"required,max=200" example:"Operating Systems"`
	Description  string `json:"description" binding:"required" example:"Processes, memory and file systems"`
	Credits      int    `json:"credits" binding:"required,gt=0,lte=30" example:"4"`
	Duration     string `json:"duration" binding:"required,max=50" example:"16 weeks"`
	StartDate    string `json:"startDate" binding:"required,datetime=2006-01-02" example:"2025-02-01"`
	EndDate      string `json:"endDate" binding:"required,datetime=2006-01-02" example:"2025-06-01"`
	DepartmentID *int64 `json:"departmentId,omitempty" binding:"omitempty,gt=0" example:"1"`
}

// UpdateCourseRequest is a partial update, nil fields are left untouched
type UpdateCourseRequest struct {
	Title        *string `json:"title,omitempty" binding:"omitempty,min=1,max=200"`
	Description  *string `json:"description,omitempty"`
	Credits      *int    `json:"credits,omitempty" binding:"omitempty,gt=0,lte=30"`
	Duration     *string `json:"duration,omitempty" binding:"omitempty,min=1,max=50"`
	StartDate    *string `json:"startDate,omitempty" binding:"omitempty,datetime=2006-01-02"`
	EndDate      *string `json:"endDate,omitempty" binding:"omitempty,datetime=2006-01-02"`
	DepartmentID *int64  `json:"departmentId,omitempty" binding:"omitempty,gt=0"`
}

// CourseFilter narrows course listings by title or description
type CourseFilter struct {
	Search string `form:"search" binding:"omitempty,max=100"`
}
