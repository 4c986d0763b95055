package dto

// CreateProfileRequest represents signup data
type CreateProfileRequest struct {
	FirstName string `json:"firstName" binding:"required,notblank,max=50" example:"Ada"`
	LastName  string `json:"lastName" binding:"required,notblank,max=50" example:"Lovelace"`
	Email     string `json:"email" binding:"required,email,max=100" example:"ada@uni.edu"`
	Password  string `json:"password" binding:"required,max=100" example:"strongpassword123"`
	Role      string `json:"role,omitempty" binding:"omitempty,role" example:"GUEST"`
}

// UpdateProfileRequest is a partial update, nil fields are left untouched
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName,omitempty" binding:"omitempty,notblank,max=50"`
	LastName  *string `json:"lastName,omitempty" binding:"omitempty,notblank,max=50"`
	Email     *string `json:"email,omitempty" binding:"omitempty,email,max=100"`
	Password  *string `json:"password,omitempty" binding:"omitempty,min=1,max=100"`
	Role      *string `json:"role,omitempty" binding:"omitempty,role"`
}

// ProfileFilter narrows profile listings
type ProfileFilter struct {
	Email string `form:"email" binding:"omitempty,email"`
}
